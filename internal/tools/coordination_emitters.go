package tools

import "context"

// Emitters for the research debate coordinator's judge pass.

// NewDebateJudgmentEmitter builds emit_debate_judgment.
func NewDebateJudgmentEmitter() *Tool {
	return &Tool{
		Name:    "emit_debate_judgment",
		Desc:    "Emit the final judgment of the research debate. Call this exactly once when the judgment is made.",
		Emitter: true,
		Params: []ParamDecl{
			str("decision", "Investment decision (BUY|HOLD|SELL)"),
			num("confidence", "Decision confidence in [0,1]"),
			str("reasoning", "Judgment reasoning"),
			strList("supporting_factors", "Key supporting factors"),
			strList("risk_factors", "Main risk factors"),
			str("investment_strategy", "Recommended investment strategy"),
			str("winner", "Winning side (bull|bear|draw)"),
			strList("winning_arguments", "Winning arguments"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"decision":            ArgString(args, "decision"),
				"confidence":          ArgFloat(args, "confidence"),
				"reasoning":           ArgString(args, "reasoning"),
				"supporting_factors":  ArgStringList(args, "supporting_factors"),
				"risk_factors":        ArgStringList(args, "risk_factors"),
				"investment_strategy": ArgString(args, "investment_strategy"),
				"winner":              ArgString(args, "winner"),
				"winning_arguments":   ArgStringList(args, "winning_arguments"),
			}, nil
		},
	}
}

// NewDebateQualityEmitter builds emit_debate_quality_evaluation.
func NewDebateQualityEmitter() *Tool {
	return &Tool{
		Name:    "emit_debate_quality_evaluation",
		Desc:    "Emit the structured quality evaluation of a debate. Call this exactly once when the evaluation is complete.",
		Emitter: true,
		Params: []ParamDecl{
			str("debate_quality", "Quality rating (excellent/good/fair/poor)"),
			num("quality_score", "Quality score in [0,1]"),
			mapping("argument_strengths", "Argument strength per side"),
			strList("key_insights", "Key insights"),
			str("consensus_level", "Consensus level (strong/partial/divided)"),
			num("decision_confidence", "Decision confidence in [0,1]"),
			str("evaluation_summary", "Evaluation summary"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"debate_quality":      ArgString(args, "debate_quality"),
				"quality_score":       ArgFloat(args, "quality_score"),
				"argument_strengths":  ArgMap(args, "argument_strengths"),
				"key_insights":        ArgStringList(args, "key_insights"),
				"consensus_level":     ArgString(args, "consensus_level"),
				"decision_confidence": ArgFloat(args, "decision_confidence"),
				"evaluation_summary":  ArgString(args, "evaluation_summary"),
			}, nil
		},
	}
}
