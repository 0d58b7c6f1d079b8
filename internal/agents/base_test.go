package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/tradecortex/tradecortex/internal/logging"
	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/state"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// scriptedClient replays canned responses and records what was sent.
type scriptedClient struct {
	responses []*schema.Message
	errs      []error
	calls     int
	captured  [][]*schema.Message
}

func (s *scriptedClient) ChatCompletion(_ context.Context, messages []*schema.Message, _ []*schema.ToolInfo) (*schema.Message, error) {
	sent := make([]*schema.Message, len(messages))
	copy(sent, messages)
	s.captured = append(s.captured, sent)

	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return schema.AssistantMessage("nothing more to say", nil), nil
}

func (s *scriptedClient) ModelName() string { return "scripted" }
func (s *scriptedClient) Provider() string  { return "test" }

func toolCallMsg(name, args string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{{
		ID:       "call_1",
		Type:     "function",
		Function: schema.FunctionCall{Name: name, Arguments: args},
	}})
}

func passthroughEmitter(name string) *tools.Tool {
	return &tools.Tool{
		Name:    name,
		Desc:    "test emitter",
		Emitter: true,
		Params:  []tools.ParamDecl{{Name: "value", Desc: "v", Kind: tools.KindString}},
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return args, nil
		},
	}
}

func testAgent(t *testing.T, client *scriptedClient, registry *tools.Registry, terminal string) *BaseAgent {
	t.Helper()
	deps := Deps{LLM: client, State: state.NewManager(), Logger: logging.New(t.TempDir())}
	return newBaseAgent(models.Trader, "Test Agent", "system prompt", registry, terminal, deps)
}

func TestRunUntilToolReturnsTerminalArgs(t *testing.T) {
	client := &scriptedClient{responses: []*schema.Message{
		toolCallMsg("emit_test", `{"value":"done"}`),
	}}
	agent := testAgent(t, client, tools.NewRegistry(passthroughEmitter("emit_test")), "emit_test")
	agent.maxIterations = 1

	result, err := agent.RunUntilTool(context.Background(), "go")
	if err != nil {
		t.Fatalf("RunUntilTool: %v", err)
	}
	if result["value"] != "done" {
		t.Fatalf("unexpected terminal args %v", result)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 LLM call, got %d", client.calls)
	}
}

func TestRunUntilToolSingleIterationWithoutTerminalFails(t *testing.T) {
	client := &scriptedClient{responses: []*schema.Message{
		schema.AssistantMessage("just text", nil),
	}}
	agent := testAgent(t, client, tools.NewRegistry(passthroughEmitter("emit_test")), "emit_test")
	agent.maxIterations = 1

	_, err := agent.RunUntilTool(context.Background(), "go")
	if !errors.Is(err, ErrTerminalToolNotCalled) {
		t.Fatalf("expected ErrTerminalToolNotCalled, got %v", err)
	}
}

func TestRunUntilToolAppendsAssistantReplyBetweenIterations(t *testing.T) {
	client := &scriptedClient{responses: []*schema.Message{
		schema.AssistantMessage("thinking out loud", nil),
		toolCallMsg("emit_test", `{"value":"ok"}`),
	}}
	agent := testAgent(t, client, tools.NewRegistry(passthroughEmitter("emit_test")), "emit_test")

	if _, err := agent.RunUntilTool(context.Background(), "go"); err != nil {
		t.Fatalf("RunUntilTool: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", client.calls)
	}

	// The second request must contain the first assistant reply so the
	// model sees its own prior message.
	second := client.captured[1]
	found := false
	for _, msg := range second {
		if msg.Role == schema.Assistant && msg.Content == "thinking out loud" {
			found = true
		}
	}
	if !found {
		t.Fatalf("prior assistant reply missing from transcript")
	}
}

func TestRunUntilToolAbsorbsNonTerminalFailures(t *testing.T) {
	failing := &tools.Tool{
		Name: "broken_fetch",
		Desc: "always fails",
		Run: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, fmt.Errorf("upstream down")
		},
	}
	registry := tools.NewRegistry(failing, passthroughEmitter("emit_test"))

	client := &scriptedClient{responses: []*schema.Message{
		toolCallMsg("broken_fetch", `{}`),
		toolCallMsg("emit_test", `{"value":"recovered"}`),
	}}
	agent := testAgent(t, client, registry, "emit_test")

	result, err := agent.RunUntilTool(context.Background(), "go")
	if err != nil {
		t.Fatalf("non-terminal tool failure must not abort the loop: %v", err)
	}
	if result["value"] != "recovered" {
		t.Fatalf("unexpected result %v", result)
	}

	// The failure is in the transcript as a tool message.
	second := client.captured[1]
	found := false
	for _, msg := range second {
		if msg.Role == schema.Tool && strings.Contains(msg.Content, "tool execution failed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("absorbed failure missing from transcript")
	}
}

func TestRunUntilToolTerminalFailureIsFatal(t *testing.T) {
	exploding := &tools.Tool{
		Name:    "emit_test",
		Desc:    "emitter that fails",
		Emitter: true,
		Run: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, fmt.Errorf("bad arguments")
		},
	}
	client := &scriptedClient{responses: []*schema.Message{
		toolCallMsg("emit_test", `{}`),
	}}
	agent := testAgent(t, client, tools.NewRegistry(exploding), "emit_test")

	_, err := agent.RunUntilTool(context.Background(), "go")
	var execErr *tools.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
}

func TestRunUntilToolMalformedArgumentsBecomeEmptyMapping(t *testing.T) {
	var seenArgs map[string]any
	capture := &tools.Tool{
		Name:    "emit_test",
		Desc:    "captures args",
		Emitter: true,
		Run: func(_ context.Context, args map[string]any) (any, error) {
			seenArgs = args
			return args, nil
		},
	}
	client := &scriptedClient{responses: []*schema.Message{
		toolCallMsg("emit_test", `{not json`),
	}}
	agent := testAgent(t, client, tools.NewRegistry(capture), "emit_test")

	if _, err := agent.RunUntilTool(context.Background(), "go"); err != nil {
		t.Fatalf("RunUntilTool: %v", err)
	}
	if len(seenArgs) != 0 {
		t.Fatalf("malformed arguments should parse to empty mapping, got %v", seenArgs)
	}
}

func TestRunUntilToolHonorsCancellation(t *testing.T) {
	client := &scriptedClient{}
	agent := testAgent(t, client, tools.NewRegistry(passthroughEmitter("emit_test")), "emit_test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.RunUntilTool(ctx, "go")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("no LLM call should run after cancellation")
	}
}

func TestAnalystRejectsInvalidMarketData(t *testing.T) {
	client := &scriptedClient{}
	deps := Deps{LLM: client, State: state.NewManager(), Logger: logging.New(t.TempDir())}
	analyst := NewTechnicalAnalyst(deps)

	_, err := analyst.Process(context.Background(), map[string]any{
		"symbol": "NOPE",
		"error":  "not found",
	})
	if !errors.Is(err, ErrDataInvalid) {
		t.Fatalf("expected ErrDataInvalid, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("no LLM call should run on invalid data")
	}
}

func TestAnalystPublishesReport(t *testing.T) {
	client := &scriptedClient{responses: []*schema.Message{
		toolCallMsg("emit_technical_analysis", `{
			"key_findings": ["uptrend intact"],
			"recommendation": "BUY",
			"confidence_score": 0.7,
			"trend_direction": "up",
			"risk_factors": ["overbought RSI"],
			"time_short_term": "bullish",
			"supporting_evidence": "price above both moving averages"
		}`),
	}}
	st := state.NewManager()
	deps := Deps{LLM: client, State: st, Logger: logging.New(t.TempDir())}
	analyst := NewTechnicalAnalyst(deps)

	report, err := analyst.Process(context.Background(), map[string]any{
		"symbol":        "AAPL",
		"current_price": 190.0,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if report.Recommendation != models.Buy || report.ConfidenceScore != 0.7 {
		t.Fatalf("report fields wrong: %+v", report)
	}
	if report.AnalystRole != models.TechnicalAnalyst {
		t.Fatalf("wrong role %v", report.AnalystRole)
	}
	if report.TimeHorizon["short_term"] != "bullish" {
		t.Fatalf("time horizon not mapped: %v", report.TimeHorizon)
	}

	if st.AnalysisReports()["technical"] == nil {
		t.Fatalf("report not published into the session")
	}
}

func TestTraderHoldKeepsCurrentWeight(t *testing.T) {
	client := &scriptedClient{responses: []*schema.Message{
		toolCallMsg("emit_trading_decision", `{
			"recommendation": "HOLD",
			"confidence_score": 0.6,
			"position_size": 0.9,
			"target_price": 100, "stop_loss": 90, "take_profit": 120,
			"acceptable_price_min": 95, "acceptable_price_max": 105,
			"reasoning": "keep the position"
		}`),
	}}
	st := state.NewManager()
	deps := Deps{LLM: client, State: st, Logger: logging.New(t.TempDir())}
	trader := NewTrader(deps)

	decision, err := trader.Process(context.Background(), map[string]any{
		"symbol":                "AAPL",
		"current_position_size": 0.25,
		"market_context":        map[string]any{},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if decision.Recommendation != models.Hold {
		t.Fatalf("expected HOLD, got %s", decision.Recommendation)
	}
	if decision.PositionSize != 0.25 {
		t.Fatalf("HOLD must keep the current weight 0.25, got %.2f", decision.PositionSize)
	}
}

func TestTraderWrapsDecisionFields(t *testing.T) {
	client := &scriptedClient{responses: []*schema.Message{
		toolCallMsg("emit_trading_decision", `{
			"recommendation": "BUY",
			"confidence_score": 0.72,
			"position_size": 0.3,
			"target_price": 200, "stop_loss": 180, "take_profit": 230,
			"acceptable_price_min": 190, "acceptable_price_max": 210,
			"time_horizon": "medium term",
			"reasoning": "analyst consensus supports entry"
		}`),
	}}
	st := state.NewManager()
	deps := Deps{LLM: client, State: st, Logger: logging.New(t.TempDir())}
	trader := NewTrader(deps)

	reports := map[string]*models.AnalysisReport{
		"technical": {AnalystRole: models.TechnicalAnalyst, Recommendation: models.Buy, ConfidenceScore: 0.7},
	}
	decision, err := trader.Process(context.Background(), map[string]any{
		"symbol":           "AAPL",
		"analysis_reports": reports,
		"debate_result":    &models.DebateResult{Decision: models.Buy, Confidence: 0.65},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if decision.TargetPrice != 200 || decision.AcceptablePriceMin != 190 || decision.AcceptablePriceMax != 210 {
		t.Fatalf("price range not mapped: %+v", decision)
	}
	if decision.StopLoss != 180 || decision.TakeProfit != 230 {
		t.Fatalf("risk management not mapped: %+v", decision)
	}
	if decision.DebateInfluence != models.Buy {
		t.Fatalf("debate influence not carried: %q", decision.DebateInfluence)
	}
	if decision.AnalystConsensus["buy_count"] != 1 {
		t.Fatalf("consensus summary wrong: %v", decision.AnalystConsensus)
	}
}
