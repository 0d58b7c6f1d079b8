package tools

import "context"

// NewFundManagerDecisionEmitter builds emit_fund_manager_decision, the
// fund manager's terminal tool.
func NewFundManagerDecisionEmitter() *Tool {
	return &Tool{
		Name:    "emit_fund_manager_decision",
		Desc:    "Emit the fund manager's final structured investment decision. Call this exactly once when the decision is made.",
		Emitter: true,
		Params: []ParamDecl{
			str("final_recommendation", "Final recommendation (BUY|HOLD|SELL)"),
			num("confidence_score", "Decision confidence in [0,1]"),
			num("position_size", "Recommended position size in [0,1]"),
			str("entry_strategy", "Entry strategy"),
			str("exit_strategy", "Exit strategy"),
			strList("risk_management_rules", "Risk management rules"),
			strList("key_decision_factors", "Key decision factors"),
			ParamDecl{Name: "alternative_scenarios", Desc: "Alternative scenarios with action and probability", Kind: KindList, Elem: KindMapping},
			strList("monitoring_indicators", "Key indicators to monitor"),
			str("decision_summary", "Decision summary"),
			str("next_review_date", "Next review date (YYYY-MM-DD)"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"final_recommendation":  ArgString(args, "final_recommendation"),
				"confidence_score":      ArgFloat(args, "confidence_score"),
				"position_size":         ArgFloat(args, "position_size"),
				"entry_strategy":        ArgString(args, "entry_strategy"),
				"exit_strategy":         ArgString(args, "exit_strategy"),
				"risk_management_rules": ArgStringList(args, "risk_management_rules"),
				"key_decision_factors":  ArgStringList(args, "key_decision_factors"),
				"alternative_scenarios": ArgAnyList(args, "alternative_scenarios"),
				"monitoring_indicators": ArgStringList(args, "monitoring_indicators"),
				"decision_summary":      ArgString(args, "decision_summary"),
				"next_review_date":      ArgString(args, "next_review_date"),
			}, nil
		},
	}
}
