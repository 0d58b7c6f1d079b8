package tools

import "context"

// NewBullResearchEmitter builds emit_bull_research_result, the bull
// researcher's terminal tool.
func NewBullResearchEmitter() *Tool {
	return &Tool{
		Name:    "emit_bull_research_result",
		Desc:    "Emit the final structured bull thesis. Call this exactly once when the research is complete.",
		Emitter: true,
		Params: []ParamDecl{
			str("bull_thesis", "Core bull thesis"),
			strList("key_bull_points", "Core reasons to buy"),
			num("target_price", "Target price"),
			num("upside_potential", "Upside potential in percent"),
			str("investment_horizon", "Investment horizon (short/medium/long term)"),
			strList("catalysts", "Catalysts"),
			strList("risk_mitigation", "Risk mitigating factors"),
			num("confidence_level", "Confidence level in [0,1]"),
			str("supporting_evidence", "Detailed argumentation"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"bull_thesis":         ArgString(args, "bull_thesis"),
				"key_bull_points":     ArgStringList(args, "key_bull_points"),
				"target_price":        ArgFloat(args, "target_price"),
				"upside_potential":    ArgFloat(args, "upside_potential"),
				"investment_horizon":  ArgString(args, "investment_horizon"),
				"catalysts":           ArgStringList(args, "catalysts"),
				"risk_mitigation":     ArgStringList(args, "risk_mitigation"),
				"confidence_level":    ArgFloat(args, "confidence_level"),
				"supporting_evidence": ArgString(args, "supporting_evidence"),
			}, nil
		},
	}
}

// NewBearResearchEmitter builds emit_bear_research_result, the bear
// researcher's terminal tool.
func NewBearResearchEmitter() *Tool {
	return &Tool{
		Name:    "emit_bear_research_result",
		Desc:    "Emit the final structured bear thesis. Call this exactly once when the research is complete.",
		Emitter: true,
		Params: []ParamDecl{
			str("bear_thesis", "Core bear thesis"),
			strList("key_risk_points", "Core risk points"),
			num("target_price", "Target price"),
			num("downside_risk", "Downside risk in percent"),
			str("risk_horizon", "Risk horizon (short/medium/long term)"),
			strList("negative_catalysts", "Negative catalysts"),
			strList("structural_issues", "Structural issues"),
			num("confidence_level", "Confidence level in [0,1]"),
			str("supporting_evidence", "Detailed argumentation"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"bear_thesis":         ArgString(args, "bear_thesis"),
				"key_risk_points":     ArgStringList(args, "key_risk_points"),
				"target_price":        ArgFloat(args, "target_price"),
				"downside_risk":       ArgFloat(args, "downside_risk"),
				"risk_horizon":        ArgString(args, "risk_horizon"),
				"negative_catalysts":  ArgStringList(args, "negative_catalysts"),
				"structural_issues":   ArgStringList(args, "structural_issues"),
				"confidence_level":    ArgFloat(args, "confidence_level"),
				"supporting_evidence": ArgString(args, "supporting_evidence"),
			}, nil
		},
	}
}
