package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/tradecortex/tradecortex/config"
	"github.com/tradecortex/tradecortex/internal/models"
)

// toolAwareClient answers tool-bearing requests with a canned call to the
// first scripted tool it finds, plain requests with canned text, and
// fails outright for tool sets listed in failFor.
type toolAwareClient struct {
	mu      sync.Mutex
	argsFor map[string]string
	failFor map[string]bool
	calls   int
}

func (c *toolAwareClient) ChatCompletion(_ context.Context, _ []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if len(tools) == 0 {
		return schema.AssistantMessage("a debate argument", nil), nil
	}
	for _, tool := range tools {
		if c.failFor[tool.Name] {
			return nil, fmt.Errorf("503 scripted failure for %s", tool.Name)
		}
		if args, ok := c.argsFor[tool.Name]; ok {
			return schema.AssistantMessage("", []schema.ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: schema.FunctionCall{Name: tool.Name, Arguments: args},
			}}), nil
		}
	}
	return schema.AssistantMessage("no scripted tool", nil), nil
}

func (c *toolAwareClient) ModelName() string { return "scripted" }
func (c *toolAwareClient) Provider() string  { return "test" }

func fullyScriptedClient() *toolAwareClient {
	analystArgs := func(rec string, confidence float64) string {
		return fmt.Sprintf(`{"recommendation":%q,"confidence_score":%f,"key_findings":["finding"],"supporting_evidence":"evidence"}`, rec, confidence)
	}
	return &toolAwareClient{
		argsFor: map[string]string{
			"emit_fundamental_analysis": analystArgs("BUY", 0.8),
			"emit_technical_analysis":   analystArgs("BUY", 0.7),
			"emit_sentiment_analysis":   analystArgs("HOLD", 0.6),
			"emit_news_analysis":        analystArgs("HOLD", 0.55),
			"emit_bull_research_result": `{"bull_thesis":"growth","confidence_level":0.7}`,
			"emit_bear_research_result": `{"bear_thesis":"valuation","confidence_level":0.6}`,
			"emit_debate_judgment":      `{"decision":"BUY","confidence":0.65,"winner":"bull"}`,
			"emit_trading_decision": `{
				"recommendation":"BUY","confidence_score":0.72,"position_size":0.3,
				"target_price":200,"stop_loss":180,"take_profit":230,
				"acceptable_price_min":190,"acceptable_price_max":210,
				"time_horizon":"medium term","reasoning":"consensus entry"}`,
			"emit_conservative_risk_analysis":      `{"risk_level":"HIGH","confidence_level":0.6}`,
			"emit_aggressive_opportunity_analysis": `{"upside_potential":"high","confidence_level":0.7}`,
			"emit_neutral_balance_analysis":        `{"risk_reward_ratio":"fair","confidence_level":0.65}`,
			"emit_risk_management_decision":        `{"recommended_action":"BUY","risk_level":"MEDIUM","confidence_level":0.68,"decision_rationale":"acceptable risk"}`,
			"emit_fund_manager_decision":           `{"final_recommendation":"BUY","confidence_score":0.7,"position_size":0.25,"decision_summary":"enter gradually"}`,
		},
		failFor: map[string]bool{},
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LogsDir = t.TempDir()
	cfg.Debate.ResearchTeamMaxRounds = 1
	cfg.Debate.RiskTeamMaxRounds = 1
	return cfg
}

func TestQuickModeWorkflow(t *testing.T) {
	client := fullyScriptedClient()
	orchestrator := NewWithClient(testConfig(t), client, nil, nil)

	result := orchestrator.Execute(context.Background(), Request{
		Symbol:     "aapl",
		MarketData: map[string]any{"current_price": 190.0},
		Analysts:   []string{"technical"},
		QuickMode:  true,
	})

	if !result.Success {
		t.Fatalf("workflow failed: stage=%s error=%s", result.Stage, result.Error)
	}
	if result.Symbol != "AAPL" || result.Mode != models.ModeQuick {
		t.Fatalf("symbol/mode wrong: %s %s", result.Symbol, result.Mode)
	}
	if result.Recommendation != models.Buy || result.ConfidenceScore != 0.72 {
		t.Fatalf("quick fields not filled from the trading decision: %+v", result)
	}
	if result.PositionSize != 0.3 {
		t.Fatalf("position size = %.2f, want 0.3", result.PositionSize)
	}

	// Quick mode leaves the downstream slots nil.
	if result.RiskManagement != nil || result.FinalDecision != nil {
		t.Fatalf("quick mode must not run risk or final stages")
	}
	if len(result.AnalysisResults.Reports) != 1 {
		t.Fatalf("expected 1 analyst report, got %d", len(result.AnalysisResults.Reports))
	}

	// The session was ended on exit.
	if orchestrator.State().HasSession() {
		t.Fatalf("session still active after workflow exit")
	}
	history := orchestrator.State().History()
	if len(history) != 1 || history[0].TraderDecision == nil {
		t.Fatalf("ended session should carry the trading decision")
	}
}

func TestFullModeWorkflow(t *testing.T) {
	client := fullyScriptedClient()
	orchestrator := NewWithClient(testConfig(t), client, nil, nil)

	result := orchestrator.Execute(context.Background(), Request{
		Symbol:     "TSLA",
		MarketData: map[string]any{"current_price": 250.0},
	})

	if !result.Success {
		t.Fatalf("workflow failed: stage=%s error=%s", result.Stage, result.Error)
	}
	if result.Mode != models.ModeFull {
		t.Fatalf("mode = %s, want full", result.Mode)
	}
	if len(result.AnalysisResults.Reports) != 4 {
		t.Fatalf("expected 4 reports, got %d", len(result.AnalysisResults.Reports))
	}
	if result.RiskManagement == nil || result.RiskManagement.FinalDecision == nil {
		t.Fatalf("full mode must produce a risk decision")
	}
	if result.FinalDecision == nil || result.FinalDecision.FinalRecommendation != models.Buy {
		t.Fatalf("full mode must produce the fund manager decision")
	}
	if result.Recommendation != models.Buy || result.PositionSize != 0.25 {
		t.Fatalf("top-level fields should mirror the final decision: %+v", result)
	}
}

func TestAnalystPartialFailureSurvives(t *testing.T) {
	client := fullyScriptedClient()
	client.failFor["emit_news_analysis"] = true
	orchestrator := NewWithClient(testConfig(t), client, nil, nil)

	result := orchestrator.Execute(context.Background(), Request{
		Symbol:     "TSLA",
		MarketData: map[string]any{"current_price": 250.0},
	})

	if !result.Success {
		t.Fatalf("one failed analyst must not fail the workflow: %s", result.Error)
	}
	if len(result.AnalysisResults.Reports) != 3 {
		t.Fatalf("expected 3 surviving reports, got %d", len(result.AnalysisResults.Reports))
	}
	if len(result.AnalysisResults.Errors) != 1 || !strings.Contains(result.AnalysisResults.Errors[0], "news") {
		t.Fatalf("news failure not collected: %v", result.AnalysisResults.Errors)
	}
}

func TestAllAnalystsFailingFailsTheStage(t *testing.T) {
	client := fullyScriptedClient()
	for _, emitter := range []string{
		"emit_fundamental_analysis", "emit_technical_analysis",
		"emit_sentiment_analysis", "emit_news_analysis",
	} {
		client.failFor[emitter] = true
	}
	orchestrator := NewWithClient(testConfig(t), client, nil, nil)

	result := orchestrator.Execute(context.Background(), Request{
		Symbol:     "TSLA",
		MarketData: map[string]any{"current_price": 250.0},
	})

	if result.Success {
		t.Fatalf("workflow must fail when every analyst fails")
	}
	if result.Stage != models.StageAnalysis {
		t.Fatalf("failure stage = %s, want ANALYSIS", result.Stage)
	}
	for _, name := range []string{"fundamental", "technical", "sentiment", "news"} {
		if !strings.Contains(result.Error, name) {
			t.Fatalf("error should name %s: %s", name, result.Error)
		}
	}
	if result.TradingDecision != nil || result.DebateResults != nil {
		t.Fatalf("no downstream artifacts after analysis failure")
	}
}

func TestEmptyAnalystSetFails(t *testing.T) {
	client := fullyScriptedClient()
	orchestrator := NewWithClient(testConfig(t), client, nil, nil)

	result := orchestrator.Execute(context.Background(), Request{
		Symbol:     "AAPL",
		MarketData: map[string]any{"current_price": 190.0},
		Analysts:   []string{},
	})
	if result.Success {
		t.Fatalf("empty analyst set must fail")
	}
	if !strings.Contains(result.Error, "no analysts selected") {
		t.Fatalf("unexpected error %q", result.Error)
	}
}

func TestCancellationEndsSessionWithPartialState(t *testing.T) {
	client := fullyScriptedClient()
	orchestrator := NewWithClient(testConfig(t), client, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := orchestrator.Execute(ctx, Request{
		Symbol:     "AAPL",
		MarketData: map[string]any{"current_price": 190.0},
		QuickMode:  true,
	})
	if result.Success {
		t.Fatalf("cancelled workflow must not succeed")
	}
	if result.Error != "cancelled" {
		t.Fatalf("error = %q, want cancelled", result.Error)
	}
	if orchestrator.State().HasSession() {
		t.Fatalf("session must be ended after cancellation")
	}
	if len(orchestrator.State().History()) != 1 {
		t.Fatalf("partial session must be preserved in history")
	}
}

func TestSentimentContextAugmentation(t *testing.T) {
	client := fullyScriptedClient()
	orchestrator := NewWithClient(testConfig(t), client, nil, nil)

	ectx := orchestrator.analystContext("sentiment", "AAPL", map[string]any{"current_price": 1.0})
	if _, ok := ectx["social_media_data"]; !ok {
		t.Fatalf("sentiment context missing synthetic social_media_data")
	}
	if _, ok := ectx["sentiment_indicators"]; !ok {
		t.Fatalf("sentiment context missing synthetic sentiment_indicators")
	}

	// Caller-supplied sub-mappings win over the synthetic defaults.
	supplied := map[string]any{"vix": 30.0}
	ectx = orchestrator.analystContext("sentiment", "AAPL", map[string]any{
		"sentiment_indicators": supplied,
	})
	indicators := ectx["sentiment_indicators"].(map[string]any)
	if indicators["vix"] != 30.0 {
		t.Fatalf("caller-supplied indicators were replaced")
	}

	// Other analysts see the market data unmodified plus the symbol.
	ectx = orchestrator.analystContext("technical", "AAPL", map[string]any{"current_price": 1.0})
	if _, ok := ectx["social_media_data"]; ok {
		t.Fatalf("technical context must not be augmented")
	}
	if ectx["symbol"] != "AAPL" {
		t.Fatalf("symbol missing from analyst context")
	}
}
