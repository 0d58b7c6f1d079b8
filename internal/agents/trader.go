package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// TraderAgent turns the analyst reports and the debate verdict into a
// concrete trading decision. Its position_size is a target portfolio
// weight: the prompt tells the model the current position so HOLD means
// keep the current weight.
type TraderAgent struct {
	*BaseAgent
}

// NewTrader builds the trader agent.
func NewTrader(deps Deps) *TraderAgent {
	registry := tools.NewRegistry(tools.NewTradingDecisionEmitter())
	base := newBaseAgent(models.Trader, "Trader",
		`You are a professional equity trader. You combine the analyst team's reports, the research debate's verdict and the current position into a disciplined, data-driven trading decision with a concrete execution plan. The position size you emit is the target portfolio weight, not a change. You always finish by emitting your decision through the emit_trading_decision tool.`,
		registry, "emit_trading_decision", deps)
	return &TraderAgent{BaseAgent: base}
}

// Process produces the trading decision and publishes it into the session.
func (t *TraderAgent) Process(ctx context.Context, ectx map[string]any) (*models.TradingDecision, error) {
	symbol := contextSymbol(ectx)
	t.begin(symbol)

	currentPosition := tools.ArgFloat(ectx, "current_position_size")
	prompt := t.buildPrompt(symbol, currentPosition, ectx)

	result, err := t.RunUntilTool(ctx, prompt)
	if err != nil {
		t.emitFailure(symbol, err)
		return nil, err
	}

	decision := t.wrapDecision(symbol, currentPosition, result, ectx)
	t.state.SetTradingDecision(decision)

	_ = t.logger.LogAgentOutput(t.name, symbol, "trading",
		fmt.Sprintf("**Decision**: %s (confidence %.2f, target weight %.2f)\n\n%s",
			decision.Recommendation, decision.ConfidenceScore, decision.PositionSize, decision.Reasoning))

	t.emitSuccess(symbol, result)
	return decision, nil
}

func (t *TraderAgent) buildPrompt(symbol string, currentPosition float64, ectx map[string]any) string {
	return fmt.Sprintf(`Make the trading decision for %s.

Current position: %.2f of the portfolio is already allocated to %s. The
position_size you emit is the TARGET weight. If you recommend HOLD, keep
the target equal to the current position.

=== Analyst reports ===
%s

=== Research debate verdict ===
%s

=== Market context ===
%s

Decide BUY, HOLD or SELL with target price, acceptable price range,
stop-loss, take-profit and an execution plan. When the decision is made,
call emit_trading_decision with the final result.`,
		symbol, currentPosition, symbol,
		renderJSON(ectx["analysis_reports"]),
		renderJSON(ectx["debate_result"]),
		renderJSON(ectx["market_context"]))
}

func (t *TraderAgent) wrapDecision(symbol string, currentPosition float64, result map[string]any, ectx map[string]any) *models.TradingDecision {
	priceRange := tools.ArgMap(result, "price_range")
	riskManagement := tools.ArgMap(result, "risk_management")

	recommendation := tools.ArgString(result, "recommendation")
	if recommendation == "" {
		recommendation = models.Hold
	}
	positionSize := tools.ArgFloat(result, "position_size")
	// HOLD keeps the current weight: the emitted target is overridden when
	// the caller reported an existing position.
	if recommendation == models.Hold && currentPosition > 0 {
		positionSize = currentPosition
	}

	debateInfluence := models.Hold
	switch dr := ectx["debate_result"].(type) {
	case *models.DebateResult:
		if dr != nil && dr.Decision != "" {
			debateInfluence = dr.Decision
		}
	case map[string]any:
		if d := tools.ArgString(dr, "decision"); d != "" {
			debateInfluence = d
		}
	}

	return &models.TradingDecision{
		Symbol:             symbol,
		Recommendation:     recommendation,
		ConfidenceScore:    tools.ArgFloat(result, "confidence_score"),
		TargetPrice:        tools.ArgFloat(priceRange, "target_price"),
		StopLoss:           tools.ArgFloat(riskManagement, "stop_loss"),
		TakeProfit:         tools.ArgFloat(riskManagement, "take_profit"),
		PositionSize:       positionSize,
		AcceptablePriceMin: tools.ArgFloat(priceRange, "acceptable_min"),
		AcceptablePriceMax: tools.ArgFloat(priceRange, "acceptable_max"),
		TimeHorizon:        tools.ArgString(result, "time_horizon"),
		Reasoning:          tools.ArgString(result, "reasoning"),
		RiskFactors:        tools.ArgStringList(result, "risk_factors"),
		ExecutionPlan:      tools.ArgMap(result, "execution_plan"),
		DecisionTimestamp:  time.Now(),
		AnalystConsensus:   summarizeConsensus(ectx["analysis_reports"]),
		DebateInfluence:    debateInfluence,
	}
}

// summarizeConsensus counts recommendations and averages confidence across
// the analyst reports.
func summarizeConsensus(reports any) map[string]any {
	counts := map[string]int{models.Buy: 0, models.Hold: 0, models.Sell: 0}
	total := 0.0
	n := 0

	if m, ok := reports.(map[string]*models.AnalysisReport); ok {
		for _, report := range m {
			if report == nil {
				continue
			}
			counts[report.Recommendation]++
			total += report.ConfidenceScore
			n++
		}
	}

	consensus := map[string]any{
		"buy_count":  counts[models.Buy],
		"hold_count": counts[models.Hold],
		"sell_count": counts[models.Sell],
	}
	if n > 0 {
		consensus["avg_confidence"] = total / float64(n)
	}
	return consensus
}
