package debate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tradecortex/tradecortex/internal/agents"
	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/state"
)

// Risk-debate speaker keys, in per-round speaking order.
const (
	speakerConservative = "conservative"
	speakerAggressive   = "aggressive"
	speakerNeutral      = "neutral"
)

var speakerRoles = map[string]models.AgentRole{
	speakerConservative: models.ConservativeAnalyst,
	speakerAggressive:   models.AggressiveAnalyst,
	speakerNeutral:      models.NeutralAnalyst,
}

var speakerLabels = map[string]string{
	speakerConservative: "Conservative",
	speakerAggressive:   "Aggressive",
	speakerNeutral:      "Neutral",
}

// RiskCoordinator drives the three-way risk debate: independent analyses,
// the fixed Conservative → Aggressive → Neutral rounds with opponent-
// argument routing, then the risk manager's adjudication.
type RiskCoordinator struct {
	conservative *agents.RiskAnalyst
	aggressive   *agents.RiskAnalyst
	neutral      *agents.RiskAnalyst
	manager      *agents.RiskManagerAgent

	state     *state.Manager
	maxRounds int
}

// NewRiskCoordinator wires the coordinator.
func NewRiskCoordinator(conservative, aggressive, neutral *agents.RiskAnalyst, manager *agents.RiskManagerAgent, st *state.Manager, maxRounds int) *RiskCoordinator {
	return &RiskCoordinator{
		conservative: conservative,
		aggressive:   aggressive,
		neutral:      neutral,
		manager:      manager,
		state:        st,
		maxRounds:    maxRounds,
	}
}

// Conduct runs the full risk debate over a trading decision.
func (c *RiskCoordinator) Conduct(ctx context.Context, decision *models.TradingDecision, marketData map[string]any, reports map[string]*models.AnalysisReport) (*models.RiskStageResult, error) {
	topic := fmt.Sprintf("Risk assessment of the %s decision on %s", decision.Recommendation, decision.Symbol)

	debateState := c.state.StartRiskDebate([]models.AgentRole{
		models.ConservativeAnalyst,
		models.AggressiveAnalyst,
		models.NeutralAnalyst,
	}, c.maxRounds)
	debateState.Topic = topic

	ectx := map[string]any{
		"symbol":           decision.Symbol,
		"trading_decision": decision,
		"market_data":      marketData,
		"analysis_reports": reports,
	}

	// Independent phase: conservative and aggressive run concurrently, the
	// neutral pass sees both results.
	var conservativeAnalysis, aggressiveAnalysis map[string]any
	var consErr, aggErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		conservativeAnalysis, consErr = c.conservative.Analyze(ctx, ectx)
	}()
	go func() {
		defer wg.Done()
		aggressiveAnalysis, aggErr = c.aggressive.Analyze(ctx, ectx)
	}()
	wg.Wait()
	if consErr != nil {
		return nil, fmt.Errorf("conservative analysis failed: %w", consErr)
	}
	if aggErr != nil {
		return nil, fmt.Errorf("aggressive analysis failed: %w", aggErr)
	}

	neutralCtx := map[string]any{}
	for k, v := range ectx {
		neutralCtx[k] = v
	}
	neutralCtx["conservative_analysis"] = conservativeAnalysis
	neutralCtx["aggressive_analysis"] = aggressiveAnalysis
	neutralAnalysis, err := c.neutral.Analyze(ctx, neutralCtx)
	if err != nil {
		return nil, fmt.Errorf("neutral analysis failed: %w", err)
	}

	analysts := map[string]*agents.RiskAnalyst{
		speakerConservative: c.conservative,
		speakerAggressive:   c.aggressive,
		speakerNeutral:      c.neutral,
	}

	var history []models.DebateMessage
	roundsCompleted := 0

	for round := 1; round <= c.maxRounds; round++ {
		for _, speaker := range []string{speakerConservative, speakerAggressive, speakerNeutral} {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			opponentArgs := OpponentArguments(speaker, history, round,
				conservativeAnalysis, aggressiveAnalysis, neutralAnalysis)

			response, err := analysts[speaker].DebateResponse(ctx, topic, opponentArgs, ectx)
			if err != nil {
				return nil, fmt.Errorf("%s debate turn failed: %w", speaker, err)
			}
			history = append(history, c.state.AddDebateMessage(
				models.RiskDebate, round, speakerRoles[speaker], response, "", ""))
		}

		roundsCompleted = round
		if round < c.maxRounds && shouldEndDebate(history) {
			break
		}
	}

	var historyText strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&historyText, "Round %d - %s: %s\n\n", msg.Round, msg.Speaker, msg.Content)
	}

	managerCtx := map[string]any{
		"symbol":                decision.Symbol,
		"trading_decision":      decision,
		"debate_history":        historyText.String(),
		"debate_history_ref":    fmt.Sprintf("risk_debate:%s:%d_messages", decision.Symbol, len(history)),
		"conservative_analysis": conservativeAnalysis,
		"aggressive_analysis":   aggressiveAnalysis,
		"neutral_analysis":      neutralAnalysis,
		"market_data":           marketData,
	}
	finalDecision, err := c.manager.EvaluateRiskDebate(ctx, managerCtx)
	if err != nil {
		return nil, fmt.Errorf("risk manager adjudication failed: %w", err)
	}

	debateState.ConsensusReached = true
	debateState.FinalDecision = finalDecision.RecommendedAction

	return &models.RiskStageResult{
		Topic:                topic,
		RoundsCompleted:      roundsCompleted,
		History:              history,
		ConservativeAnalysis: conservativeAnalysis,
		AggressiveAnalysis:   aggressiveAnalysis,
		NeutralAnalysis:      neutralAnalysis,
		FinalDecision:        finalDecision,
	}, nil
}

// OpponentArguments routes the opponents' arguments to the next speaker.
// It is a pure function of the speaker, the history prefix and the initial
// analyses: same inputs produce byte-equal output.
//
// Round 1 has special routing while the initial analyses still stand in
// for missing debate turns; from round 2 on every speaker sees the full
// opposing history in temporal order.
func OpponentArguments(speaker string, history []models.DebateMessage, round int, conservative, aggressive, neutral map[string]any) []string {
	if round == 1 {
		switch speaker {
		case speakerConservative:
			return []string{
				initialArgument(speakerAggressive, aggressive),
				initialArgument(speakerNeutral, neutral),
			}
		case speakerAggressive:
			args := []string{}
			if latest := latestFrom(history, models.ConservativeAnalyst); latest != nil {
				args = append(args, historyArgument(speakerConservative, latest))
			} else {
				args = append(args, initialArgument(speakerConservative, conservative))
			}
			return append(args, initialArgument(speakerNeutral, neutral))
		case speakerNeutral:
			var args []string
			for i := range history {
				msg := &history[i]
				switch msg.Speaker {
				case models.ConservativeAnalyst:
					args = append(args, historyArgument(speakerConservative, msg))
				case models.AggressiveAnalyst:
					args = append(args, historyArgument(speakerAggressive, msg))
				}
			}
			if len(args) == 0 {
				args = []string{
					initialArgument(speakerConservative, conservative),
					initialArgument(speakerAggressive, aggressive),
				}
			}
			return args
		}
	}

	var args []string
	current := speakerRoles[speaker]
	for i := range history {
		msg := &history[i]
		if msg.Speaker == current {
			continue
		}
		for key, role := range speakerRoles {
			if msg.Speaker == role {
				args = append(args, historyArgument(key, msg))
				break
			}
		}
	}
	return args
}

func initialArgument(speaker string, analysis map[string]any) string {
	data, err := json.Marshal(analysis)
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf("%s view (initial analysis): %s", speakerLabels[speaker], data)
}

func latestFrom(history []models.DebateMessage, role models.AgentRole) *models.DebateMessage {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Speaker == role {
			return &history[i]
		}
	}
	return nil
}

func historyArgument(speaker string, msg *models.DebateMessage) string {
	return fmt.Sprintf("%s view (round %d): %s", speakerLabels[speaker], msg.Round, msg.Content)
}

// Repetition keywords for the early-termination heuristic.
var debateKeywords = []string{"risk", "return", "recommend", "believe", "should"}

// shouldEndDebate is the early-termination predicate: the debate may end
// before max rounds only once the history carries at least 500 bytes AND
// at least 6 messages exist AND the last 6 messages repeat any single
// keyword more than 3 times.
func shouldEndDebate(history []models.DebateMessage) bool {
	totalLength := 0
	for i := range history {
		totalLength += len(history[i].Content)
	}
	if totalLength < 500 {
		return false
	}
	if len(history) < 6 {
		return false
	}

	var recent strings.Builder
	for i := len(history) - 6; i < len(history); i++ {
		recent.WriteString(strings.ToLower(history[i].Content))
		recent.WriteString(" ")
	}
	text := recent.String()

	for _, keyword := range debateKeywords {
		if strings.Count(text, keyword) > 3 {
			return true
		}
	}
	return false
}

// GenerateRiskSummary renders a compact text summary of a finished risk
// debate for reports and logs.
func (c *RiskCoordinator) GenerateRiskSummary(result *models.RiskStageResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", result.Topic)
	fmt.Fprintf(&b, "Rounds completed: %d (%d messages)\n", result.RoundsCompleted, len(result.History))
	if result.FinalDecision != nil {
		fmt.Fprintf(&b, "Verdict: %s (risk %s, confidence %.2f)\n",
			result.FinalDecision.RecommendedAction,
			result.FinalDecision.RiskLevel,
			result.FinalDecision.ConfidenceLevel)
		fmt.Fprintf(&b, "Rationale: %s\n", result.FinalDecision.DecisionRationale)
	}
	return b.String()
}
