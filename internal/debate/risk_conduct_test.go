package debate

import (
	"context"
	"testing"

	"github.com/tradecortex/tradecortex/internal/agents"
	"github.com/tradecortex/tradecortex/internal/logging"
	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/state"
)

func riskFixture(t *testing.T, client *toolAwareClient, maxRounds int) (*RiskCoordinator, *state.Manager) {
	t.Helper()
	st := state.NewManager()
	deps := agents.Deps{LLM: client, State: st, Logger: logging.New(t.TempDir())}
	coordinator := NewRiskCoordinator(
		agents.NewConservativeAnalyst(deps),
		agents.NewAggressiveAnalyst(deps),
		agents.NewNeutralAnalyst(deps),
		agents.NewRiskManager(deps),
		st, maxRounds)
	return coordinator, st
}

func scriptedRiskClient() *toolAwareClient {
	return &toolAwareClient{
		argsFor: map[string]string{
			"emit_conservative_risk_analysis":      `{"risk_assessment":"downside heavy","risk_level":"HIGH","confidence_level":0.6}`,
			"emit_aggressive_opportunity_analysis": `{"opportunity_assessment":"upside heavy","upside_potential":"high","confidence_level":0.7}`,
			"emit_neutral_balance_analysis":        `{"balance_assessment":"even","risk_reward_ratio":"fair","confidence_level":0.65}`,
			"emit_risk_management_decision":        `{"recommended_action":"HOLD","risk_level":"MEDIUM","confidence_level":0.7,"decision_rationale":"balance of arguments"}`,
		},
		failFor: map[string]bool{},
		// Short, varied turns so the early-termination predicate stays
		// quiet.
		text: "a measured point about the trade",
	}
}

func TestRiskDebateSpeakerOrderAcrossRounds(t *testing.T) {
	client := scriptedRiskClient()
	coordinator, st := riskFixture(t, client, 3)
	st.StartSession("TSLA")

	decision := &models.TradingDecision{Symbol: "TSLA", Recommendation: models.Buy, PositionSize: 0.3}
	result, err := coordinator.Conduct(context.Background(), decision, map[string]any{}, nil)
	if err != nil {
		t.Fatalf("Conduct: %v", err)
	}

	if len(result.History) != 9 {
		t.Fatalf("expected 9 messages for 3 full rounds, got %d", len(result.History))
	}
	wantOrder := []models.AgentRole{
		models.ConservativeAnalyst, models.AggressiveAnalyst, models.NeutralAnalyst,
	}
	for i, message := range result.History {
		if message.Speaker != wantOrder[i%3] {
			t.Fatalf("message %d spoken by %s, want %s", i, message.Speaker, wantOrder[i%3])
		}
		if message.Round != i/3+1 {
			t.Fatalf("message %d round %d, want %d", i, message.Round, i/3+1)
		}
	}
	if result.RoundsCompleted != 3 {
		t.Fatalf("rounds completed = %d, want 3", result.RoundsCompleted)
	}

	if result.FinalDecision == nil || result.FinalDecision.RecommendedAction != models.Hold {
		t.Fatalf("risk manager verdict missing or wrong: %+v", result.FinalDecision)
	}
	if result.FinalDecision.RiskLevel != models.RiskMedium {
		t.Fatalf("risk level wrong: %s", result.FinalDecision.RiskLevel)
	}

	snapshot := st.CurrentSnapshot()
	if snapshot.RiskDebate == nil || len(snapshot.RiskDebate.Messages) != 9 {
		t.Fatalf("risk debate state not recorded")
	}
	if !snapshot.RiskDebate.ConsensusReached || snapshot.RiskDebate.FinalDecision != models.Hold {
		t.Fatalf("risk debate state not sealed")
	}
	if snapshot.RiskManagementDecision == nil {
		t.Fatalf("risk decision not published into the session")
	}
}

func TestRiskDebateEarlyTermination(t *testing.T) {
	client := scriptedRiskClient()
	// Every turn repeats the keyword set, so the predicate fires once six
	// messages exist (end of round 2).
	client.text = "we should cut the risk, the risk is real and the risk is growing " +
		"so we should act, and we should hedge the risk"

	coordinator, st := riskFixture(t, client, 4)
	st.StartSession("TSLA")

	decision := &models.TradingDecision{Symbol: "TSLA", Recommendation: models.Sell}
	result, err := coordinator.Conduct(context.Background(), decision, map[string]any{}, nil)
	if err != nil {
		t.Fatalf("Conduct: %v", err)
	}
	if result.RoundsCompleted != 2 {
		t.Fatalf("expected early termination after round 2, got %d rounds", result.RoundsCompleted)
	}
	if len(result.History) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(result.History))
	}
}

func TestRiskDebateCachesIndependentAnalyses(t *testing.T) {
	client := scriptedRiskClient()
	coordinator, st := riskFixture(t, client, 1)
	st.StartSession("TSLA")

	decision := &models.TradingDecision{Symbol: "TSLA", Recommendation: models.Buy}
	result, err := coordinator.Conduct(context.Background(), decision, nil, nil)
	if err != nil {
		t.Fatalf("Conduct: %v", err)
	}
	if result.ConservativeAnalysis["risk_level"] != "HIGH" {
		t.Fatalf("conservative analysis not cached: %v", result.ConservativeAnalysis)
	}
	if result.AggressiveAnalysis["upside_potential"] != "high" {
		t.Fatalf("aggressive analysis not cached: %v", result.AggressiveAnalysis)
	}
	if result.NeutralAnalysis["risk_reward_ratio"] != "fair" {
		t.Fatalf("neutral analysis not cached: %v", result.NeutralAnalysis)
	}
}
