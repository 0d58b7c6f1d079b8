package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// Analyst is one of the four fan-out analysts. The specializations differ
// only in role, system prompt, tool set, terminal emitter and prompt
// construction.
type Analyst struct {
	*BaseAgent
	buildPrompt func(symbol string, ectx map[string]any) string
}

// Process runs the analyst over the context and publishes an
// AnalysisReport into the session.
func (a *Analyst) Process(ctx context.Context, ectx map[string]any) (*models.AnalysisReport, error) {
	symbol := contextSymbol(ectx)
	start := time.Now()
	a.begin(symbol)

	if err := validMarketData(ectx); err != nil {
		err = fmt.Errorf("%s analysis for %s: %w", a.role, symbol, err)
		a.emitFailure(symbol, err)
		return nil, err
	}

	result, err := a.RunUntilTool(ctx, a.buildPrompt(symbol, ectx))
	if err != nil {
		a.emitFailure(symbol, err)
		return nil, err
	}

	report := a.wrapReport(symbol, result, time.Since(start))
	a.state.AddAnalysisReport(report)

	_ = a.logger.LogAgentOutput(a.name, symbol, "analysis",
		fmt.Sprintf("**Recommendation**: %s (confidence %.2f)\n\n%s",
			report.Recommendation, report.ConfidenceScore, report.DetailedAnalysis))

	a.emitSuccess(symbol, result)
	return report, nil
}

func (a *Analyst) wrapReport(symbol string, result map[string]any, elapsed time.Duration) *models.AnalysisReport {
	recommendation := tools.ArgString(result, "recommendation")
	if recommendation == "" {
		recommendation = models.Hold
	}
	confidence := tools.ArgFloat(result, "confidence_score")
	if confidence == 0 {
		confidence = 0.5
	}
	impact := tools.ArgFloat(result, "impact_magnitude")
	if impact == 0 {
		impact = confidence
	}

	horizon := make(map[string]string)
	for key, val := range tools.ArgMap(result, "time_horizon") {
		if s, ok := val.(string); ok {
			horizon[key] = s
		}
	}
	for key, val := range tools.ArgMap(result, "time_frame") {
		if s, ok := val.(string); ok {
			horizon[key] = s
		}
	}

	return &models.AnalysisReport{
		AnalystRole:      a.role,
		Symbol:           symbol,
		AnalysisDate:     time.Now(),
		KeyFindings:      tools.ArgStringList(result, "key_findings"),
		Recommendation:   recommendation,
		ConfidenceScore:  confidence,
		RiskFactors:      tools.ArgStringList(result, "risk_factors"),
		TimeHorizon:      horizon,
		ImpactMagnitude:  impact,
		SupportingData:   result,
		DetailedAnalysis: tools.ArgString(result, "supporting_evidence"),
		ProcessingTime:   elapsed,
	}
}

// NewFundamentalAnalyst builds the fundamental analyst.
func NewFundamentalAnalyst(deps Deps) *Analyst {
	registry := tools.NewRegistry(tools.NewFundamentalAnalysisEmitter())
	base := newBaseAgent(models.FundamentalAnalyst, "Fundamental Analyst",
		`You are a professional fundamental analyst. You evaluate valuation, financial health and growth prospects from company fundamentals, and you always finish by emitting your structured result through the emit_fundamental_analysis tool.`,
		registry, "emit_fundamental_analysis", deps)
	return &Analyst{BaseAgent: base, buildPrompt: fundamentalPrompt}
}

func fundamentalPrompt(symbol string, ectx map[string]any) string {
	return fmt.Sprintf(`Analyze the fundamentals of %s.

=== Market summary ===
%s

Cover these angles:
1. Valuation: P/E and P/B versus peers, a defensible target price range.
2. Financial health: debt level, profitability, overall rating.
3. Growth prospects: revenue outlook, market position, competitive advantage.
4. Risk factors and upcoming catalysts.
5. Short-term and long-term outlook.

When your analysis is complete, call emit_fundamental_analysis with the final result.`, symbol, renderJSON(ectx))
}

// NewTechnicalAnalyst builds the technical analyst.
func NewTechnicalAnalyst(deps Deps) *Analyst {
	registry := tools.NewRegistry(tools.NewTechnicalAnalysisEmitter())
	base := newBaseAgent(models.TechnicalAnalyst, "Technical Analyst",
		`You are a professional technical analyst. You read trends, momentum, key levels and volume from price action, and you always finish by emitting your structured result through the emit_technical_analysis tool.`,
		registry, "emit_technical_analysis", deps)
	return &Analyst{BaseAgent: base, buildPrompt: technicalPrompt}
}

func technicalPrompt(symbol string, ectx map[string]any) string {
	return fmt.Sprintf(`Analyze the technical picture of %s.

=== Market summary ===
%s

Cover these angles:
1. Trend: direction and strength from moving averages, current price versus key averages.
2. Momentum: RSI overbought/oversold, MACD crossovers, stochastics.
3. Key levels: primary and secondary support and resistance.
4. Volatility and volume confirmation.
5. A combined signal with risk control advice.

When your analysis is complete, call emit_technical_analysis with the final result.`, symbol, renderJSON(ectx))
}

// NewSentimentAnalyst builds the sentiment analyst.
func NewSentimentAnalyst(deps Deps) *Analyst {
	registry := tools.NewRegistry(tools.NewSentimentAnalysisEmitter())
	base := newBaseAgent(models.SentimentAnalyst, "Sentiment Analyst",
		`You are a professional market sentiment analyst. You read social media activity, positioning indicators and crowd mood, and you always finish by emitting your structured result through the emit_sentiment_analysis tool.`,
		registry, "emit_sentiment_analysis", deps)
	return &Analyst{BaseAgent: base, buildPrompt: sentimentPrompt}
}

func sentimentPrompt(symbol string, ectx map[string]any) string {
	return fmt.Sprintf(`Analyze the market sentiment around %s.

=== Market and sentiment data ===
%s

Cover these angles:
1. Social media mood and volume of discussion.
2. Sentiment indicators: VIX, put/call ratio, fear-greed index.
3. Turning points and contrarian signals.
4. Sentiment-driven risks.

When your analysis is complete, call emit_sentiment_analysis with the final result.`, symbol, renderJSON(ectx))
}

// NewNewsAnalyst builds the news analyst. Its tool set includes the impure
// news fetch tools when a searcher is available.
func NewNewsAnalyst(deps Deps, searcher tools.NewsSearcher) *Analyst {
	registry := tools.NewRegistry(tools.NewNewsAnalysisEmitter())
	if searcher != nil {
		registry.Register(tools.NewGoogleNewsSearchTool(searcher))
		registry.Register(tools.NewStockNewsTool(searcher))
	}
	base := newBaseAgent(models.NewsAnalyst, "News Analyst",
		`You are a professional news analyst. You assess how recent events move a stock, using the news search tools when fresh headlines would help, and you always finish by emitting your structured result through the emit_news_analysis tool.`,
		registry, "emit_news_analysis", deps)
	return &Analyst{BaseAgent: base, buildPrompt: newsPrompt}
}

func newsPrompt(symbol string, ectx map[string]any) string {
	return fmt.Sprintf(`Analyze the news environment for %s.

=== Market summary ===
%s

Cover these angles:
1. Impact of recent headlines on the stock.
2. Predicted market reaction and its magnitude.
3. Catalyst events ahead.
4. News-driven risks over the short and medium term.

You may call search_google_news or get_stock_news to pull fresh headlines.
When your analysis is complete, call emit_news_analysis with the final result.`, symbol, renderJSON(ectx))
}
