package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// RiskAnalyst is one of the three risk-debate participants. Each runs an
// independent analysis through its emitter once, then argues single turns
// in the risk debate.
type RiskAnalyst struct {
	*BaseAgent
	perspective string
	focus       string
}

// NewConservativeAnalyst builds the conservative risk analyst.
func NewConservativeAnalyst(deps Deps) *RiskAnalyst {
	registry := tools.NewRegistry(tools.NewConservativeRiskEmitter())
	base := newBaseAgent(models.ConservativeAnalyst, "Conservative Analyst",
		`You are a conservative risk analyst. You look for what can go wrong: downside scenarios, capital preservation and position discipline. For your independent assessment you always finish by emitting it through the emit_conservative_risk_analysis tool.`,
		registry, "emit_conservative_risk_analysis", deps)
	return &RiskAnalyst{BaseAgent: base, perspective: "conservative", focus: "the risks of the proposed trade and how to protect capital"}
}

// NewAggressiveAnalyst builds the aggressive risk analyst.
func NewAggressiveAnalyst(deps Deps) *RiskAnalyst {
	registry := tools.NewRegistry(tools.NewAggressiveOpportunityEmitter())
	base := newBaseAgent(models.AggressiveAnalyst, "Aggressive Analyst",
		`You are an aggressive risk analyst. You look for what can go right: upside scenarios, growth catalysts and the cost of missing the move. For your independent assessment you always finish by emitting it through the emit_aggressive_opportunity_analysis tool.`,
		registry, "emit_aggressive_opportunity_analysis", deps)
	return &RiskAnalyst{BaseAgent: base, perspective: "aggressive", focus: "the opportunities the proposed trade captures and the cost of passing"}
}

// NewNeutralAnalyst builds the neutral risk analyst.
func NewNeutralAnalyst(deps Deps) *RiskAnalyst {
	registry := tools.NewRegistry(tools.NewNeutralBalanceEmitter())
	base := newBaseAgent(models.NeutralAnalyst, "Neutral Analyst",
		`You are a neutral risk analyst. You weigh both sides: risk/reward balance, optimal sizing and timing. For your independent assessment you always finish by emitting it through the emit_neutral_balance_analysis tool.`,
		registry, "emit_neutral_balance_analysis", deps)
	return &RiskAnalyst{BaseAgent: base, perspective: "neutral", focus: "the balance between the risks and opportunities of the proposed trade"}
}

// Analyze runs the analyst's independent assessment over the trading
// decision and its context.
func (r *RiskAnalyst) Analyze(ctx context.Context, ectx map[string]any) (map[string]any, error) {
	symbol := symbolFromDecision(ectx)
	r.begin(symbol)

	prompt := fmt.Sprintf(`Assess %s from your %s standpoint.

=== Proposed trading decision ===
%s

=== Analyst reports ===
%s

=== Market data ===
%s
%s
When your assessment is complete, emit it through your result tool.`,
		r.focus, r.perspective,
		renderJSON(ectx["trading_decision"]),
		renderJSON(ectx["analysis_reports"]),
		renderJSON(ectx["market_data"]),
		r.peerAnalysesSection(ectx))

	result, err := r.RunUntilTool(ctx, prompt)
	if err != nil {
		r.emitFailure(symbol, err)
		return nil, err
	}
	r.emitSuccess(symbol, result)
	return result, nil
}

// peerAnalysesSection surfaces the conservative and aggressive results to
// the neutral analyst; the other two see nothing extra.
func (r *RiskAnalyst) peerAnalysesSection(ectx map[string]any) string {
	if r.perspective != "neutral" {
		return ""
	}
	var b strings.Builder
	if v, ok := ectx["conservative_analysis"]; ok {
		fmt.Fprintf(&b, "\n=== Conservative assessment ===\n%s\n", renderJSON(v))
	}
	if v, ok := ectx["aggressive_analysis"]; ok {
		fmt.Fprintf(&b, "\n=== Aggressive assessment ===\n%s\n", renderJSON(v))
	}
	return b.String()
}

// DebateResponse argues one turn of the risk debate against the opponent
// arguments routed by the coordinator.
func (r *RiskAnalyst) DebateResponse(ctx context.Context, topic string, opponentArguments []string, ectx map[string]any) (string, error) {
	symbol := symbolFromDecision(ectx)
	r.recorder.Reset()

	prompt := fmt.Sprintf(`Debate topic: %s

Opponent arguments, in order:
%s

Context:
%s

Respond from your %s standpoint: engage the opponents' strongest points
directly and defend or refine your position. Reply with your argument only.`,
		topic, strings.Join(opponentArguments, "\n\n"), renderJSON(ectx["trading_decision"]), r.perspective)

	response, err := r.singleTurn(ctx, nil, prompt)
	if err != nil {
		r.emitFailure(symbol, err)
		return "", err
	}
	r.recorder.EmitChain(symbol, map[string]any{
		"success":         true,
		"debate_response": response,
		"topic":           topic,
	}, true)
	return response, nil
}

// RiskManagerAgent adjudicates the risk debate.
type RiskManagerAgent struct {
	*BaseAgent
}

// NewRiskManager builds the risk manager.
func NewRiskManager(deps Deps) *RiskManagerAgent {
	registry := tools.NewRegistry(tools.NewRiskManagementDecisionEmitter())
	base := newBaseAgent(models.RiskManager, "Risk Manager",
		`You are the risk management director. You weigh the full risk debate, the three independent assessments and the proposed trading decision, and you issue the binding risk verdict. You always finish by emitting it through the emit_risk_management_decision tool.`,
		registry, "emit_risk_management_decision", deps)
	return &RiskManagerAgent{BaseAgent: base}
}

// EvaluateRiskDebate produces the RiskDecision from the sealed debate.
func (rm *RiskManagerAgent) EvaluateRiskDebate(ctx context.Context, ectx map[string]any) (*models.RiskDecision, error) {
	symbol := symbolFromDecision(ectx)
	rm.begin(symbol)

	prompt := fmt.Sprintf(`Adjudicate the risk debate for %s.

=== Proposed trading decision ===
%s

=== Debate history ===
%s

=== Conservative assessment ===
%s

=== Aggressive assessment ===
%s

=== Neutral assessment ===
%s

Weigh the arguments, name the ones that won and the ones you reject, and
issue the final risk verdict. When it is ready, call
emit_risk_management_decision with the result.`,
		symbol,
		renderJSON(ectx["trading_decision"]),
		tools.ArgString(ectx, "debate_history"),
		renderJSON(ectx["conservative_analysis"]),
		renderJSON(ectx["aggressive_analysis"]),
		renderJSON(ectx["neutral_analysis"]))

	result, err := rm.RunUntilTool(ctx, prompt)
	if err != nil {
		rm.emitFailure(symbol, err)
		return nil, err
	}

	decision := &models.RiskDecision{
		RecommendedAction:  orDefault(tools.ArgString(result, "recommended_action"), models.Hold),
		RiskLevel:          orDefault(tools.ArgString(result, "risk_level"), models.RiskMedium),
		ConfidenceLevel:    tools.ArgFloat(result, "confidence_level"),
		PositionAdjustment: tools.ArgString(result, "position_adjustment"),
		KeyRiskFactors:     tools.ArgStringList(result, "key_risk_factors"),
		Mitigation:         tools.ArgStringList(result, "risk_mitigation_measures"),
		Monitoring:         tools.ArgStringList(result, "monitoring_requirements"),
		ContingencyPlans:   tools.ArgStringList(result, "contingency_plans"),
		DecisionRationale:  tools.ArgString(result, "decision_rationale"),
		DebateHistoryRef:   tools.ArgString(ectx, "debate_history_ref"),
	}
	rm.state.SetRiskManagementDecision(decision)

	_ = rm.logger.LogAgentOutput(rm.name, symbol, "risk management",
		fmt.Sprintf("**Action**: %s (risk %s, confidence %.2f)\n\n%s",
			decision.RecommendedAction, decision.RiskLevel, decision.ConfidenceLevel, decision.DecisionRationale))

	rm.emitSuccess(symbol, result)
	return decision, nil
}

func symbolFromDecision(ectx map[string]any) string {
	if s := contextSymbol(ectx); s != "" {
		return s
	}
	switch d := ectx["trading_decision"].(type) {
	case *models.TradingDecision:
		if d != nil {
			return d.Symbol
		}
	case map[string]any:
		return tools.ArgString(d, "symbol")
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
