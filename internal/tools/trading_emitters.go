package tools

import "context"

// NewTradingDecisionEmitter builds emit_trading_decision, the trader's
// terminal tool. position_size is an absolute target weight.
func NewTradingDecisionEmitter() *Tool {
	return &Tool{
		Name:    "emit_trading_decision",
		Desc:    "Emit the final structured trading decision. Call this exactly once when the decision is made.",
		Emitter: true,
		Params: []ParamDecl{
			str("recommendation", "Trading recommendation (BUY|HOLD|SELL)"),
			num("confidence_score", "Confidence score in [0,1]"),
			num("target_price", "Target price"),
			num("stop_loss", "Stop-loss price"),
			num("take_profit", "Take-profit price"),
			num("position_size", "Target portfolio weight in [0,1]"),
			str("time_horizon", "Time horizon (short/medium/long term)"),
			str("reasoning", "Detailed decision reasoning"),
			strList("key_factors", "Key decision factors"),
			strList("risk_factors", "Risk factors"),
			num("acceptable_price_min", "Lowest acceptable price"),
			num("acceptable_price_max", "Highest acceptable price"),
			str("execution_entry_strategy", "Entry strategy"),
			str("execution_exit_strategy", "Exit strategy"),
			strList("execution_monitoring_points", "Monitoring points"),
			str("execution_contingency_plan", "Contingency plan"),
			str("market_timing", "Market timing assessment"),
			str("alternatives", "Alternative courses of action"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"recommendation":   ArgString(args, "recommendation"),
				"confidence_score": ArgFloat(args, "confidence_score"),
				"position_size":    ArgFloat(args, "position_size"),
				"time_horizon":     ArgString(args, "time_horizon"),
				"reasoning":        ArgString(args, "reasoning"),
				"key_factors":      ArgStringList(args, "key_factors"),
				"risk_factors":     ArgStringList(args, "risk_factors"),
				"price_range": map[string]any{
					"target_price":   ArgFloat(args, "target_price"),
					"acceptable_min": ArgFloat(args, "acceptable_price_min"),
					"acceptable_max": ArgFloat(args, "acceptable_price_max"),
				},
				"risk_management": map[string]any{
					"stop_loss":   ArgFloat(args, "stop_loss"),
					"take_profit": ArgFloat(args, "take_profit"),
				},
				"execution_plan": map[string]any{
					"entry_strategy":    ArgString(args, "execution_entry_strategy"),
					"exit_strategy":     ArgString(args, "execution_exit_strategy"),
					"monitoring_points": ArgStringList(args, "execution_monitoring_points"),
					"contingency_plan":  ArgString(args, "execution_contingency_plan"),
				},
				"market_timing": ArgString(args, "market_timing"),
				"alternatives":  ArgString(args, "alternatives"),
			}, nil
		},
	}
}
