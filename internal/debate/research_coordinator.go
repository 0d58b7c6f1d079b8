package debate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tradecortex/tradecortex/internal/agents"
	"github.com/tradecortex/tradecortex/internal/llm"
	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/state"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// ErrDebateEmpty is returned when a debate configured for at least one
// round produced no messages.
var ErrDebateEmpty = errors.New("research debate produced no messages")

// ResearchCoordinator runs the bull/bear debate: initial research, the
// alternating rounds, then the judge pass. When a model pool is supplied
// and randomization is on, each turn picks a model from the pool and the
// choice is recorded on the debate message.
type ResearchCoordinator struct {
	bull  *agents.Researcher
	bear  *agents.Researcher
	judge *agents.JudgeAgent

	state              *state.Manager
	maxRounds          int
	consensusThreshold float64

	pool      *llm.Pool
	randomize bool
}

// NewResearchCoordinator wires the coordinator.
func NewResearchCoordinator(bull, bear *agents.Researcher, judge *agents.JudgeAgent, st *state.Manager, maxRounds int, consensusThreshold float64) *ResearchCoordinator {
	return &ResearchCoordinator{
		bull:               bull,
		bear:               bear,
		judge:              judge,
		state:              st,
		maxRounds:          maxRounds,
		consensusThreshold: consensusThreshold,
	}
}

// WithModelPool enables per-turn model selection for the researchers.
func (c *ResearchCoordinator) WithModelPool(pool *llm.Pool, randomize bool) *ResearchCoordinator {
	c.pool = pool
	c.randomize = randomize && pool != nil && pool.Size() > 1
	return c
}

// pickTurnClient returns the client for the next turn, or nil to use the
// researcher's own client.
func (c *ResearchCoordinator) pickTurnClient() llm.Client {
	if !c.randomize {
		return nil
	}
	return c.pool.Pick()
}

// Conduct runs the full research debate for the symbol.
func (c *ResearchCoordinator) Conduct(ctx context.Context, symbol string, reports map[string]*models.AnalysisReport, marketContext map[string]any) (*models.ResearchDebateOutcome, error) {
	debateState := c.state.StartResearchDebate(
		[]models.AgentRole{models.BullResearcher, models.BearResearcher}, c.maxRounds)

	ectx := map[string]any{
		"symbol":           symbol,
		"analysis_reports": reports,
		"market_context":   marketContext,
	}

	bullResearch, err := c.bull.Process(ctx, ectx)
	if err != nil {
		return nil, fmt.Errorf("initial bull research failed: %w", err)
	}
	bearResearch, err := c.bear.Process(ctx, ectx)
	if err != nil {
		return nil, fmt.Errorf("initial bear research failed: %w", err)
	}

	bullThesis := renderJSON(bullResearch)
	bearThesis := renderJSON(bearResearch)
	topic := fmt.Sprintf("Should we invest in %s?", symbol)

	var history []models.DebateMessage

	for round := 1; round <= c.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Bull speaks first, against the bear's previous message (or the
		// initial bear thesis in round 1).
		opponentMsg := bearThesis
		if len(history) > 0 && history[len(history)-1].Speaker == models.BearResearcher {
			opponentMsg = history[len(history)-1].Content
		}

		bullClient := c.pickTurnClient()
		bullResponse, err := c.bull.Debate(ctx, bullClient, topic, opponentMsg, ectx)
		if err != nil {
			return nil, fmt.Errorf("bull debate turn failed: %w", err)
		}
		history = append(history, c.state.AddDebateMessage(
			models.ResearchDebate, round, models.BullResearcher, bullResponse,
			clientModel(bullClient), clientProvider(bullClient)))

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bearClient := c.pickTurnClient()
		bearResponse, err := c.bear.Debate(ctx, bearClient, topic, bullResponse, ectx)
		if err != nil {
			return nil, fmt.Errorf("bear debate turn failed: %w", err)
		}
		history = append(history, c.state.AddDebateMessage(
			models.ResearchDebate, round, models.BearResearcher, bearResponse,
			clientModel(bearClient), clientProvider(bearClient)))
	}

	if c.maxRounds > 0 && len(history) == 0 {
		return nil, ErrDebateEmpty
	}

	result := c.judgeDebate(ctx, symbol, bullThesis, bearThesis, history, reports)

	debateState.ConsensusReached = result.Confidence >= c.consensusThreshold
	debateState.FinalDecision = result.Decision
	debateState.Topic = topic

	return &models.ResearchDebateOutcome{
		Result:       result,
		History:      history,
		BullResearch: bullResearch,
		BearResearch: bearResearch,
	}, nil
}

// judgeDebate runs the judge pass; when the LLM fails to produce a
// parseable judgment the fallback scoring over the analyst reports is
// used instead.
func (c *ResearchCoordinator) judgeDebate(ctx context.Context, symbol, bullThesis, bearThesis string, history []models.DebateMessage, reports map[string]*models.AnalysisReport) *models.DebateResult {
	var historyText strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&historyText, "Round %d - %s: %s\n\n", msg.Round, msg.Speaker, msg.Content)
	}

	prompt := fmt.Sprintf(`As the investment-debate judge, deliver the final verdict on %s.

=== Analyst reports ===
%s

=== Bull thesis ===
%s

=== Bear thesis ===
%s

=== Debate transcript ===
%s

Weigh the quality of both sides' argumentation against the analysts'
objective data, then commit. Call emit_debate_judgment with the final
judgment.`, symbol, renderJSON(reports), bullThesis, bearThesis, historyText.String())

	raw, err := c.judge.Judge(ctx, symbol, prompt)
	if err != nil {
		return fallbackJudgment(reports)
	}

	return &models.DebateResult{
		Decision:           normalizeDecision(tools.ArgString(raw, "decision")),
		Confidence:         tools.ArgFloat(raw, "confidence"),
		Reasoning:          tools.ArgString(raw, "reasoning"),
		SupportingFactors:  tools.ArgStringList(raw, "supporting_factors"),
		RiskFactors:        tools.ArgStringList(raw, "risk_factors"),
		InvestmentStrategy: tools.ArgString(raw, "investment_strategy"),
		Winner:             tools.ArgString(raw, "winner"),
		WinningArguments:   tools.ArgStringList(raw, "winning_arguments"),
	}
}

// EvaluateQuality runs the coordinator's debate-quality pass over a
// finished debate.
func (c *ResearchCoordinator) EvaluateQuality(ctx context.Context, symbol string, history []models.DebateMessage) (map[string]any, error) {
	if len(history) == 0 {
		return map[string]any{
			"debate_quality":      "poor",
			"quality_score":       0.0,
			"consensus_level":     "none",
			"decision_confidence": 0.0,
			"evaluation_summary":  "empty debate history, nothing to evaluate",
		}, nil
	}

	prompt := fmt.Sprintf(`Evaluate the quality of this debate:

%s

Consider logical rigor, data support, clarity, rebuttal effectiveness and
where the sides converged. Call emit_debate_quality_evaluation with the
final evaluation.`, renderJSON(history))

	return c.judge.EvaluateQuality(ctx, symbol, prompt)
}

// fallbackJudgment scores the analyst reports directly: each report adds
// its confidence to its recommendation's bucket, the larger bucket wins,
// ties resolve to HOLD.
func fallbackJudgment(reports map[string]*models.AnalysisReport) *models.DebateResult {
	buySignals := 0.0
	sellSignals := 0.0
	totalConfidence := 0.0

	for _, report := range reports {
		if report == nil {
			continue
		}
		switch report.Recommendation {
		case models.Buy:
			buySignals += report.ConfidenceScore
		case models.Sell:
			sellSignals += report.ConfidenceScore
		}
		totalConfidence += report.ConfidenceScore
	}

	avgConfidence := 0.5
	if len(reports) > 0 {
		avgConfidence = totalConfidence / float64(len(reports))
	}
	if avgConfidence > 0.8 {
		avgConfidence = 0.8
	}

	decision := models.Hold
	winner := "draw"
	switch {
	case buySignals > sellSignals:
		decision = models.Buy
		winner = "bull"
	case sellSignals > buySignals:
		decision = models.Sell
		winner = "bear"
	}

	return &models.DebateResult{
		Decision:   decision,
		Confidence: avgConfidence,
		Reasoning: fmt.Sprintf("aggregate of analyst reports: buy signals %.2f, sell signals %.2f",
			buySignals, sellSignals),
		SupportingFactors:  []string{"weighted analyst consensus"},
		RiskFactors:        []string{"judgment derived without debate evaluation"},
		InvestmentStrategy: "proceed cautiously and monitor closely",
		Winner:             winner,
		WinningArguments:   []string{"objective analyst data"},
	}
}

// normalizeDecision folds free-form judge output onto BUY/HOLD/SELL.
func normalizeDecision(decision string) string {
	upper := strings.ToUpper(strings.TrimSpace(decision))
	switch {
	case strings.Contains(upper, models.Buy):
		return models.Buy
	case strings.Contains(upper, models.Sell):
		return models.Sell
	default:
		return models.Hold
	}
}

func clientModel(c llm.Client) string {
	if c == nil {
		return ""
	}
	return c.ModelName()
}

func clientProvider(c llm.Client) string {
	if c == nil {
		return ""
	}
	return c.Provider()
}
