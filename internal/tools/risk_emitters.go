package tools

import "context"

// Emitters for the risk management team.

// NewConservativeRiskEmitter builds emit_conservative_risk_analysis.
func NewConservativeRiskEmitter() *Tool {
	return &Tool{
		Name:    "emit_conservative_risk_analysis",
		Desc:    "Emit the conservative analyst's structured risk assessment. Call this exactly once when the assessment is complete.",
		Emitter: true,
		Params: []ParamDecl{
			str("risk_assessment", "Overall risk assessment"),
			str("risk_level", "Risk level (LOW|MEDIUM|HIGH)"),
			strList("key_risks", "Main risk factors"),
			str("conservative_recommendation", "Conservative recommendation"),
			str("position_adjustment", "Position adjustment advice"),
			strList("risk_mitigation", "Risk mitigation measures"),
			strList("alternative_strategies", "Alternative strategies"),
			strList("concerns", "Main concerns"),
			num("confidence_level", "Confidence level in [0,1]"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"risk_assessment":             ArgString(args, "risk_assessment"),
				"risk_level":                  ArgString(args, "risk_level"),
				"key_risks":                   ArgStringList(args, "key_risks"),
				"conservative_recommendation": ArgString(args, "conservative_recommendation"),
				"position_adjustment":         ArgString(args, "position_adjustment"),
				"risk_mitigation":             ArgStringList(args, "risk_mitigation"),
				"alternative_strategies":      ArgStringList(args, "alternative_strategies"),
				"concerns":                    ArgStringList(args, "concerns"),
				"confidence_level":            ArgFloat(args, "confidence_level"),
			}, nil
		},
	}
}

// NewAggressiveOpportunityEmitter builds emit_aggressive_opportunity_analysis.
func NewAggressiveOpportunityEmitter() *Tool {
	return &Tool{
		Name:    "emit_aggressive_opportunity_analysis",
		Desc:    "Emit the aggressive analyst's structured opportunity assessment. Call this exactly once when the assessment is complete.",
		Emitter: true,
		Params: []ParamDecl{
			str("opportunity_assessment", "Overall opportunity assessment"),
			str("upside_potential", "Upside potential (high/medium/low)"),
			strList("key_opportunities", "Main opportunity factors"),
			str("aggressive_recommendation", "Aggressive recommendation"),
			str("position_enhancement", "Position enhancement advice"),
			strList("growth_catalysts", "Growth catalysts"),
			strList("competitive_advantages", "Competitive advantages"),
			strList("timing_factors", "Timing factors"),
			num("confidence_level", "Confidence level in [0,1]"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"opportunity_assessment":    ArgString(args, "opportunity_assessment"),
				"upside_potential":          ArgString(args, "upside_potential"),
				"key_opportunities":         ArgStringList(args, "key_opportunities"),
				"aggressive_recommendation": ArgString(args, "aggressive_recommendation"),
				"position_enhancement":      ArgString(args, "position_enhancement"),
				"growth_catalysts":          ArgStringList(args, "growth_catalysts"),
				"competitive_advantages":    ArgStringList(args, "competitive_advantages"),
				"timing_factors":            ArgStringList(args, "timing_factors"),
				"confidence_level":          ArgFloat(args, "confidence_level"),
			}, nil
		},
	}
}

// NewNeutralBalanceEmitter builds emit_neutral_balance_analysis.
func NewNeutralBalanceEmitter() *Tool {
	return &Tool{
		Name:    "emit_neutral_balance_analysis",
		Desc:    "Emit the neutral analyst's structured balance assessment. Call this exactly once when the assessment is complete.",
		Emitter: true,
		Params: []ParamDecl{
			str("balance_assessment", "Overall balance assessment"),
			str("risk_reward_ratio", "Risk/reward ratio assessment (fair/elevated/depressed)"),
			strList("key_considerations", "Main considerations"),
			str("balanced_recommendation", "Balanced recommendation"),
			str("optimal_position_size", "Optimal position size advice"),
			strList("timing_assessment", "Timing assessment"),
			strList("diversification_needs", "Diversification needs"),
			strList("monitoring_metrics", "Metrics to monitor"),
			num("confidence_level", "Confidence level in [0,1]"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"balance_assessment":      ArgString(args, "balance_assessment"),
				"risk_reward_ratio":       ArgString(args, "risk_reward_ratio"),
				"key_considerations":      ArgStringList(args, "key_considerations"),
				"balanced_recommendation": ArgString(args, "balanced_recommendation"),
				"optimal_position_size":   ArgString(args, "optimal_position_size"),
				"timing_assessment":       ArgStringList(args, "timing_assessment"),
				"diversification_needs":   ArgStringList(args, "diversification_needs"),
				"monitoring_metrics":      ArgStringList(args, "monitoring_metrics"),
				"confidence_level":        ArgFloat(args, "confidence_level"),
			}, nil
		},
	}
}

// NewRiskManagementDecisionEmitter builds emit_risk_management_decision,
// the risk manager's terminal tool.
func NewRiskManagementDecisionEmitter() *Tool {
	return &Tool{
		Name:    "emit_risk_management_decision",
		Desc:    "Emit the risk manager's final adjudication of the risk debate. Call this exactly once when the decision is made.",
		Emitter: true,
		Params: []ParamDecl{
			str("final_risk_assessment", "Comprehensive risk assessment"),
			str("recommended_action", "Recommended action (BUY|HOLD|SELL)"),
			str("position_adjustment", "Position adjustment advice"),
			str("risk_level", "Risk level (LOW|MEDIUM|HIGH)"),
			strList("key_risk_factors", "Key risk factors"),
			strList("risk_mitigation_measures", "Risk mitigation measures"),
			strList("monitoring_requirements", "Monitoring requirements"),
			strList("contingency_plans", "Contingency plans"),
			num("confidence_level", "Confidence level in [0,1]"),
			str("decision_rationale", "Detailed decision rationale"),
			strList("winning_arguments", "Most persuasive arguments"),
			strList("rejected_arguments", "Rejected arguments"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"final_risk_assessment":    ArgString(args, "final_risk_assessment"),
				"recommended_action":       ArgString(args, "recommended_action"),
				"position_adjustment":      ArgString(args, "position_adjustment"),
				"risk_level":               ArgString(args, "risk_level"),
				"key_risk_factors":         ArgStringList(args, "key_risk_factors"),
				"risk_mitigation_measures": ArgStringList(args, "risk_mitigation_measures"),
				"monitoring_requirements":  ArgStringList(args, "monitoring_requirements"),
				"contingency_plans":        ArgStringList(args, "contingency_plans"),
				"confidence_level":         ArgFloat(args, "confidence_level"),
				"decision_rationale":       ArgString(args, "decision_rationale"),
				"winning_arguments":        ArgStringList(args, "winning_arguments"),
				"rejected_arguments":       ArgStringList(args, "rejected_arguments"),
			}, nil
		},
	}
}
