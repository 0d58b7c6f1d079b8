package agents

import (
	"context"
	"fmt"

	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// FundManagerAgent issues the final investment decision in full mode,
// weighing every artifact the earlier stages produced.
type FundManagerAgent struct {
	*BaseAgent
}

// NewFundManager builds the fund manager.
func NewFundManager(deps Deps) *FundManagerAgent {
	registry := tools.NewRegistry(tools.NewFundManagerDecisionEmitter())
	base := newBaseAgent(models.FundManager, "Fund Manager",
		`You are the fund manager with final authority over the portfolio. You weigh the analyst reports, the research debate, the trader's plan and the risk verdict into one accountable investment decision. You always finish by emitting it through the emit_fund_manager_decision tool.`,
		registry, "emit_fund_manager_decision", deps)
	return &FundManagerAgent{BaseAgent: base}
}

// Process produces the InvestmentDecision and publishes it into the
// session.
func (fm *FundManagerAgent) Process(ctx context.Context, ectx map[string]any) (*models.InvestmentDecision, error) {
	symbol := contextSymbol(ectx)
	fm.begin(symbol)

	prompt := fmt.Sprintf(`Issue the final investment decision for %s.

=== Analyst reports ===
%s

=== Research debate verdict ===
%s

=== Trader's decision ===
%s

=== Risk management verdict ===
%s

=== Market context ===
%s

Decide the final recommendation, position size, entry and exit strategy,
risk management rules and what to monitor. When the decision is final,
call emit_fund_manager_decision with the result.`,
		symbol,
		renderJSON(ectx["analysis_reports"]),
		renderJSON(ectx["debate_result"]),
		renderJSON(ectx["trading_decision"]),
		renderJSON(ectx["risk_assessment"]),
		renderJSON(ectx["market_context"]))

	result, err := fm.RunUntilTool(ctx, prompt)
	if err != nil {
		fm.emitFailure(symbol, err)
		return nil, err
	}

	decision := &models.InvestmentDecision{
		FinalRecommendation:  orDefault(tools.ArgString(result, "final_recommendation"), models.Hold),
		ConfidenceScore:      tools.ArgFloat(result, "confidence_score"),
		PositionSize:         tools.ArgFloat(result, "position_size"),
		EntryStrategy:        tools.ArgString(result, "entry_strategy"),
		ExitStrategy:         tools.ArgString(result, "exit_strategy"),
		RiskManagementRules:  tools.ArgStringList(result, "risk_management_rules"),
		MonitoringIndicators: tools.ArgStringList(result, "monitoring_indicators"),
		DecisionSummary:      tools.ArgString(result, "decision_summary"),
		NextReviewDate:       tools.ArgString(result, "next_review_date"),
	}
	fm.state.SetFinalRecommendation(decision)

	_ = fm.logger.LogAgentOutput(fm.name, symbol, "final decision",
		fmt.Sprintf("**Final recommendation**: %s (confidence %.2f, size %.2f)\n\n%s",
			decision.FinalRecommendation, decision.ConfidenceScore, decision.PositionSize, decision.DecisionSummary))

	fm.emitSuccess(symbol, result)
	return decision, nil
}
