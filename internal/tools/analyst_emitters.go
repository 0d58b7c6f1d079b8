package tools

import "context"

// Emitters for the analyst team. Each is the terminal tool of one analyst:
// the LLM calls it with a flat argument set and the emitter assembles the
// structured analysis result.

// NewFundamentalAnalysisEmitter builds emit_fundamental_analysis.
func NewFundamentalAnalysisEmitter() *Tool {
	return &Tool{
		Name:    "emit_fundamental_analysis",
		Desc:    "Emit the final structured result of a fundamental analysis. Call this exactly once when the analysis is complete.",
		Emitter: true,
		Params: []ParamDecl{
			strList("key_findings", "Key fundamental findings"),
			str("recommendation", "Investment recommendation (BUY|HOLD|SELL)"),
			num("confidence_score", "Confidence score in [0,1]"),
			str("valuation_current_valuation", "Current valuation assessment"),
			num("valuation_target_price_min", "Lower bound of the target price range"),
			num("valuation_target_price_max", "Upper bound of the target price range"),
			str("valuation_pe_assessment", "P/E ratio assessment"),
			str("valuation_pb_assessment", "P/B ratio assessment"),
			str("financial_overall_rating", "Overall financial health rating"),
			str("financial_debt_level", "Debt level assessment"),
			str("financial_profitability", "Profitability assessment"),
			str("growth_revenue_outlook", "Revenue growth outlook"),
			str("growth_market_position", "Market position assessment"),
			str("growth_competitive_advantage", "Competitive advantage assessment"),
			strList("risk_factors", "Fundamental risk factors"),
			strList("catalysts", "Upcoming catalysts"),
			str("time_short_term", "Short-term outlook"),
			str("time_long_term", "Long-term outlook"),
			str("supporting_evidence", "Detailed supporting evidence"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"key_findings":     ArgStringList(args, "key_findings"),
				"recommendation":   ArgString(args, "recommendation"),
				"confidence_score": ArgFloat(args, "confidence_score"),
				"valuation": map[string]any{
					"current_valuation": ArgString(args, "valuation_current_valuation"),
					"target_price_min":  ArgFloat(args, "valuation_target_price_min"),
					"target_price_max":  ArgFloat(args, "valuation_target_price_max"),
					"pe_assessment":     ArgString(args, "valuation_pe_assessment"),
					"pb_assessment":     ArgString(args, "valuation_pb_assessment"),
				},
				"financial_health": map[string]any{
					"overall_rating": ArgString(args, "financial_overall_rating"),
					"debt_level":     ArgString(args, "financial_debt_level"),
					"profitability":  ArgString(args, "financial_profitability"),
				},
				"growth_prospects": map[string]any{
					"revenue_outlook":       ArgString(args, "growth_revenue_outlook"),
					"market_position":       ArgString(args, "growth_market_position"),
					"competitive_advantage": ArgString(args, "growth_competitive_advantage"),
				},
				"risk_factors": ArgStringList(args, "risk_factors"),
				"catalysts":    ArgStringList(args, "catalysts"),
				"time_horizon": map[string]any{
					"short_term": ArgString(args, "time_short_term"),
					"long_term":  ArgString(args, "time_long_term"),
				},
				"supporting_evidence": ArgString(args, "supporting_evidence"),
			}, nil
		},
	}
}

// NewTechnicalAnalysisEmitter builds emit_technical_analysis.
func NewTechnicalAnalysisEmitter() *Tool {
	return &Tool{
		Name:    "emit_technical_analysis",
		Desc:    "Emit the final structured result of a technical analysis. Call this exactly once when the analysis is complete.",
		Emitter: true,
		Params: []ParamDecl{
			strList("key_findings", "Key technical findings"),
			str("recommendation", "Investment recommendation (BUY|HOLD|SELL)"),
			num("confidence_score", "Confidence score in [0,1]"),
			str("trend_direction", "Primary trend direction (up/down/sideways)"),
			str("trend_strength", "Trend strength (strong/moderate/weak)"),
			num("levels_support_primary", "Primary support level"),
			num("levels_support_secondary", "Secondary support level"),
			num("levels_resistance_primary", "Primary resistance level"),
			num("levels_resistance_secondary", "Secondary resistance level"),
			str("signals_momentum", "Momentum signal summary (RSI, MACD, stochastics)"),
			str("signals_volume", "Volume signal summary"),
			str("signals_volatility", "Volatility signal summary"),
			strList("risk_factors", "Technical risk factors"),
			str("time_short_term", "Short-term outlook"),
			str("time_medium_term", "Medium-term outlook"),
			str("time_long_term", "Long-term outlook"),
			str("supporting_evidence", "Detailed technical rationale"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"key_findings":     ArgStringList(args, "key_findings"),
				"recommendation":   ArgString(args, "recommendation"),
				"confidence_score": ArgFloat(args, "confidence_score"),
				"trend_direction":  ArgString(args, "trend_direction"),
				"trend_strength":   ArgString(args, "trend_strength"),
				"key_levels": map[string]any{
					"support": map[string]any{
						"primary":   ArgFloat(args, "levels_support_primary"),
						"secondary": ArgFloat(args, "levels_support_secondary"),
					},
					"resistance": map[string]any{
						"primary":   ArgFloat(args, "levels_resistance_primary"),
						"secondary": ArgFloat(args, "levels_resistance_secondary"),
					},
				},
				"technical_signals": map[string]any{
					"momentum":   ArgString(args, "signals_momentum"),
					"volume":     ArgString(args, "signals_volume"),
					"volatility": ArgString(args, "signals_volatility"),
				},
				"risk_factors": ArgStringList(args, "risk_factors"),
				"time_horizon": map[string]any{
					"short_term":  ArgString(args, "time_short_term"),
					"medium_term": ArgString(args, "time_medium_term"),
					"long_term":   ArgString(args, "time_long_term"),
				},
				"supporting_evidence": ArgString(args, "supporting_evidence"),
			}, nil
		},
	}
}

// NewNewsAnalysisEmitter builds emit_news_analysis.
func NewNewsAnalysisEmitter() *Tool {
	return &Tool{
		Name:    "emit_news_analysis",
		Desc:    "Emit the final structured result of a news analysis. Call this exactly once when the analysis is complete.",
		Emitter: true,
		Params: []ParamDecl{
			strList("key_findings", "Key news findings"),
			str("recommendation", "Investment recommendation (BUY|HOLD|SELL)"),
			num("confidence_score", "Confidence score in [0,1]"),
			str("news_impact", "Overall news impact (very positive/positive/neutral/negative/very negative)"),
			num("impact_magnitude", "Impact magnitude in [0,1]"),
			str("market_reaction_prediction", "Predicted market reaction"),
			strList("catalyst_events", "Catalyst events"),
			strList("risk_factors", "News-driven risk factors"),
			str("time_short_term", "Short-term impact"),
			str("time_medium_term", "Medium-term impact"),
			str("supporting_evidence", "News analysis rationale"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"key_findings":               ArgStringList(args, "key_findings"),
				"recommendation":             ArgString(args, "recommendation"),
				"confidence_score":           ArgFloat(args, "confidence_score"),
				"news_impact":                ArgString(args, "news_impact"),
				"impact_magnitude":           ArgFloat(args, "impact_magnitude"),
				"market_reaction_prediction": ArgString(args, "market_reaction_prediction"),
				"catalyst_events":            ArgStringList(args, "catalyst_events"),
				"risk_factors":               ArgStringList(args, "risk_factors"),
				"time_frame": map[string]any{
					"short_term":  ArgString(args, "time_short_term"),
					"medium_term": ArgString(args, "time_medium_term"),
				},
				"supporting_evidence": ArgString(args, "supporting_evidence"),
			}, nil
		},
	}
}

// NewSentimentAnalysisEmitter builds emit_sentiment_analysis.
func NewSentimentAnalysisEmitter() *Tool {
	return &Tool{
		Name:    "emit_sentiment_analysis",
		Desc:    "Emit the final structured result of a sentiment analysis. Call this exactly once when the analysis is complete.",
		Emitter: true,
		Params: []ParamDecl{
			strList("key_findings", "Key sentiment findings"),
			str("recommendation", "Investment recommendation (BUY|HOLD|SELL)"),
			num("confidence_score", "Confidence score in [0,1]"),
			str("sentiment_level", "Sentiment level (euphoric/optimistic/neutral/pessimistic/fearful)"),
			num("sentiment_score", "Sentiment score in [0,1], 0.5 is neutral"),
			num("sentiment_magnitude", "Sentiment strength in [0,1]"),
			strList("turning_points", "Sentiment turning points"),
			strList("contrarian_signals", "Contrarian signals"),
			mapping("market_mood_indicators", "Market mood indicators"),
			strList("risk_factors", "Sentiment-driven risk factors"),
			str("time_short_term", "Short-term sentiment outlook"),
			str("time_medium_term", "Medium-term sentiment outlook"),
			str("supporting_evidence", "Sentiment analysis rationale"),
		},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"key_findings":           ArgStringList(args, "key_findings"),
				"recommendation":         ArgString(args, "recommendation"),
				"confidence_score":       ArgFloat(args, "confidence_score"),
				"sentiment_level":        ArgString(args, "sentiment_level"),
				"sentiment_score":        ArgFloat(args, "sentiment_score"),
				"sentiment_magnitude":    ArgFloat(args, "sentiment_magnitude"),
				"turning_points":         ArgStringList(args, "turning_points"),
				"contrarian_signals":     ArgStringList(args, "contrarian_signals"),
				"market_mood_indicators": ArgMap(args, "market_mood_indicators"),
				"risk_factors":           ArgStringList(args, "risk_factors"),
				"time_frame": map[string]any{
					"short_term":  ArgString(args, "time_short_term"),
					"medium_term": ArgString(args, "time_medium_term"),
				},
				"supporting_evidence": ArgString(args, "supporting_evidence"),
			}, nil
		},
	}
}
