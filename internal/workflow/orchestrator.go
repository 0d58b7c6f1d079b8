package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tradecortex/tradecortex/config"
	"github.com/tradecortex/tradecortex/internal/agents"
	"github.com/tradecortex/tradecortex/internal/debate"
	"github.com/tradecortex/tradecortex/internal/llm"
	"github.com/tradecortex/tradecortex/internal/logging"
	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/state"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// ErrNoAnalystsSelected fails the analysis stage when the analyst set is
// empty.
var ErrNoAnalystsSelected = errors.New("no analysts selected")

// Request describes one symbol analysis.
type Request struct {
	Symbol              string
	MarketData          map[string]any
	Analysts            []string // subset of fundamental, technical, sentiment, news
	QuickMode           bool
	CurrentPositionSize float64
}

var allAnalysts = []string{"fundamental", "technical", "sentiment", "news"}

// Orchestrator drives one symbol through the staged pipeline. It owns the
// session state manager; the analyst fan-out is the only concurrent writer
// into the session and publishes through the manager's serialized
// interface.
type Orchestrator struct {
	cfg    *config.Config
	state  *state.Manager
	logger *logging.Logger

	analysts            map[string]*agents.Analyst
	researchCoordinator *debate.ResearchCoordinator
	riskCoordinator     *debate.RiskCoordinator
	trader              *agents.TraderAgent
	fundManager         *agents.FundManagerAgent
}

// New builds an orchestrator with real LLM clients from the config.
func New(ctx context.Context, cfg *config.Config, searcher tools.NewsSearcher) (*Orchestrator, error) {
	observer := func(e llm.APICallEvent) {
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		log.Printf("[llm] %s/%s tokens=%d latency=%s %s", e.Provider, e.Model, e.Tokens, e.Latency.Round(time.Millisecond), status)
	}

	client, err := llm.New(ctx, cfg.LLM, observer)
	if err != nil {
		return nil, err
	}
	pool, err := llm.NewPoolFromConfig(ctx, cfg.LLM, cfg.Debate.Models, observer)
	if err != nil {
		return nil, err
	}
	return NewWithClient(cfg, client, pool, searcher), nil
}

// NewWithClient builds an orchestrator around pre-built clients. Tests
// inject scripted clients through here.
func NewWithClient(cfg *config.Config, client llm.Client, pool *llm.Pool, searcher tools.NewsSearcher) *Orchestrator {
	st := state.NewManager()
	logger := logging.New(cfg.LogsDir)
	deps := agents.Deps{LLM: client, State: st, Logger: logger}

	analysts := map[string]*agents.Analyst{
		"fundamental": agents.NewFundamentalAnalyst(deps),
		"technical":   agents.NewTechnicalAnalyst(deps),
		"sentiment":   agents.NewSentimentAnalyst(deps),
		"news":        agents.NewNewsAnalyst(deps, searcher),
	}

	researchCoordinator := debate.NewResearchCoordinator(
		agents.NewBullResearcher(deps),
		agents.NewBearResearcher(deps),
		agents.NewJudge(deps),
		st,
		cfg.Debate.ResearchTeamMaxRounds,
		cfg.Debate.MinConsensusThreshold,
	).WithModelPool(pool, cfg.Debate.RandomizeModels)

	riskCoordinator := debate.NewRiskCoordinator(
		agents.NewConservativeAnalyst(deps),
		agents.NewAggressiveAnalyst(deps),
		agents.NewNeutralAnalyst(deps),
		agents.NewRiskManager(deps),
		st,
		cfg.Debate.RiskTeamMaxRounds,
	)

	return &Orchestrator{
		cfg:                 cfg,
		state:               st,
		logger:              logger,
		analysts:            analysts,
		researchCoordinator: researchCoordinator,
		riskCoordinator:     riskCoordinator,
		trader:              agents.NewTrader(deps),
		fundManager:         agents.NewFundManager(deps),
	}
}

// State exposes the session manager (read paths for CLI and tests).
func (o *Orchestrator) State() *state.Manager { return o.state }

// Execute runs the staged pipeline for one symbol and always ends the
// session on exit.
func (o *Orchestrator) Execute(ctx context.Context, req Request) *models.WorkflowResult {
	symbol := strings.ToUpper(req.Symbol)
	mode := models.ModeFull
	if req.QuickMode {
		mode = models.ModeQuick
	}

	sessionID := o.state.StartSession(symbol)
	defer o.state.EndSession()

	marketData := make(map[string]any, len(req.MarketData)+1)
	for k, v := range req.MarketData {
		marketData[k] = v
	}
	marketData["current_position_size"] = req.CurrentPositionSize

	selected := req.Analysts
	if selected == nil {
		selected = allAnalysts
	}

	o.logStage(symbol, "workflow start", fmt.Sprintf("session %s, analysts: %s, mode: %s",
		sessionID, strings.Join(selected, ", "), mode), true)

	result := &models.WorkflowResult{
		SessionID: sessionID,
		Symbol:    symbol,
		Mode:      mode,
	}

	// Analysis stage.
	o.logStage(symbol, "analysis start", "", true)
	analysis, err := o.runAnalysisStage(ctx, symbol, marketData, selected)
	if err != nil {
		return o.failure(result, models.StageAnalysis, err)
	}
	result.AnalysisResults = analysis
	o.logStage(symbol, "analysis end", fmt.Sprintf("%d reports, %d errors", len(analysis.Reports), len(analysis.Errors)), true)

	// Debate stage.
	o.logStage(symbol, "debate start", "", true)
	debateOutcome, err := o.researchCoordinator.Conduct(ctx, symbol, analysis.Reports, marketData)
	if err != nil {
		return o.failure(result, models.StageDebate, err)
	}
	result.DebateResults = debateOutcome
	o.logStage(symbol, "debate end", fmt.Sprintf("verdict %s (%.2f)", debateOutcome.Result.Decision, debateOutcome.Result.Confidence), true)

	// Trading stage.
	o.logStage(symbol, "trading start", "", true)
	decision, err := o.trader.Process(ctx, map[string]any{
		"symbol":                symbol,
		"analysis_reports":      analysis.Reports,
		"debate_result":         debateOutcome.Result,
		"market_context":        marketData,
		"current_position_size": req.CurrentPositionSize,
	})
	if err != nil {
		return o.failure(result, models.StageTrading, err)
	}
	result.TradingDecision = decision
	o.logStage(symbol, "trading end", fmt.Sprintf("%s target weight %.2f", decision.Recommendation, decision.PositionSize), true)

	result.Success = true
	result.Stage = models.StageCompletion
	result.ExecutionTime = time.Now()

	if req.QuickMode {
		o.fillQuickFields(result, decision)
		o.logStage(symbol, "workflow complete", fmt.Sprintf("quick mode: %s (%.2f)", decision.Recommendation, decision.ConfidenceScore), true)
		return result
	}

	// Risk stage.
	o.logStage(symbol, "risk start", "", true)
	riskResult, err := o.riskCoordinator.Conduct(ctx, decision, marketData, analysis.Reports)
	if err != nil {
		return o.failure(result, models.StageRiskManagement, err)
	}
	result.RiskManagement = riskResult
	o.logStage(symbol, "risk end", fmt.Sprintf("verdict %s", riskResult.FinalDecision.RecommendedAction), true)

	// Final stage.
	o.logStage(symbol, "final start", "", true)
	finalDecision, err := o.fundManager.Process(ctx, map[string]any{
		"symbol":           symbol,
		"analysis_reports": analysis.Reports,
		"debate_result":    debateOutcome.Result,
		"trading_decision": decision,
		"risk_assessment":  riskResult.FinalDecision,
		"market_context":   marketData,
	})
	if err != nil {
		return o.failure(result, models.StageFinalDecision, err)
	}
	result.FinalDecision = finalDecision
	result.Recommendation = finalDecision.FinalRecommendation
	result.ConfidenceScore = finalDecision.ConfidenceScore
	result.PositionSize = finalDecision.PositionSize

	o.logStage(symbol, "workflow complete",
		fmt.Sprintf("final: %s (%.2f)", finalDecision.FinalRecommendation, finalDecision.ConfidenceScore), true)
	return result
}

// runAnalysisStage fans the selected analysts out in parallel. The stage
// succeeds when at least one analyst publishes a report; individual
// failures are collected, not fatal.
func (o *Orchestrator) runAnalysisStage(ctx context.Context, symbol string, marketData map[string]any, selected []string) (*models.AnalysisStageResult, error) {
	type task struct {
		name  string
		agent *agents.Analyst
		ectx  map[string]any
	}

	var tasks []task
	for _, name := range selected {
		agent, ok := o.analysts[name]
		if !ok {
			continue
		}
		tasks = append(tasks, task{name: name, agent: agent, ectx: o.analystContext(name, symbol, marketData)})
	}
	if len(tasks) == 0 {
		return nil, ErrNoAnalystsSelected
	}

	type outcome struct {
		name   string
		report *models.AnalysisReport
		err    error
	}

	results := make(chan outcome, len(tasks))
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			report, err := t.agent.Process(ctx, t.ectx)
			results <- outcome{name: t.name, report: report, err: err}
		}(t)
	}
	wg.Wait()
	close(results)

	stage := &models.AnalysisStageResult{Reports: make(map[string]*models.AnalysisReport)}
	for out := range results {
		if out.err != nil {
			stage.Errors = append(stage.Errors, fmt.Sprintf("%s: %v", out.name, out.err))
			continue
		}
		stage.Reports[out.name] = out.report
	}

	if len(stage.Reports) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("all analysts failed: %s", strings.Join(stage.Errors, "; "))
	}
	return stage, nil
}

// analystContext builds the per-analyst context. The sentiment analyst is
// augmented with social and sentiment sub-mappings, synthesized when the
// market data does not carry them; everyone else sees the market data
// unmodified plus the symbol.
func (o *Orchestrator) analystContext(name, symbol string, marketData map[string]any) map[string]any {
	ectx := map[string]any{"symbol": symbol}
	for k, v := range marketData {
		ectx[k] = v
	}
	if name != "sentiment" {
		return ectx
	}

	if _, ok := ectx["social_media_data"]; !ok {
		ectx["social_media_data"] = map[string]any{
			"reddit_posts":     150,
			"twitter_mentions": 300,
			"positive_ratio":   0.65,
		}
	}
	if _, ok := ectx["sentiment_indicators"]; !ok {
		ectx["sentiment_indicators"] = map[string]any{
			"vix":              18.5,
			"put_call_ratio":   0.8,
			"fear_greed_index": 70,
		}
	}
	return ectx
}

func (o *Orchestrator) fillQuickFields(result *models.WorkflowResult, decision *models.TradingDecision) {
	result.Recommendation = decision.Recommendation
	result.ConfidenceScore = decision.ConfidenceScore
	result.TargetPrice = decision.TargetPrice
	result.AcceptablePriceMin = decision.AcceptablePriceMin
	result.AcceptablePriceMax = decision.AcceptablePriceMax
	result.TakeProfit = decision.TakeProfit
	result.StopLoss = decision.StopLoss
	result.PositionSize = decision.PositionSize
	result.TimeHorizon = decision.TimeHorizon
	result.Reasoning = decision.Reasoning
}

// failure builds the failed result, preserving whatever artifacts the
// earlier stages already published.
func (o *Orchestrator) failure(partial *models.WorkflowResult, stage models.WorkflowStage, err error) *models.WorkflowResult {
	message := err.Error()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		message = "cancelled"
	}
	o.logStage(partial.Symbol, string(stage)+" failed", message, false)

	partial.Success = false
	partial.Stage = stage
	partial.Error = message
	return partial
}

func (o *Orchestrator) logStage(symbol, stage, content string, success bool) {
	_ = o.logger.LogWorkflowStage(symbol, stage, content, success)
}
