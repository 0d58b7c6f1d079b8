package agents

import (
	"context"
	"fmt"

	"github.com/tradecortex/tradecortex/internal/llm"
	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// Researcher is a debate participant: it produces an initial thesis
// through the tool loop and then argues single turns in the research
// debate. The debate client is supplied per turn by the coordinator, so a
// researcher never owns the model it argues with.
type Researcher struct {
	*BaseAgent
	stance string
}

// NewBullResearcher builds the bull-side researcher.
func NewBullResearcher(deps Deps) *Researcher {
	registry := tools.NewRegistry(tools.NewBullResearchEmitter())
	base := newBaseAgent(models.BullResearcher, "Bull Researcher",
		`You are a bullish equity researcher. You build the strongest evidence-based case for buying, while staying honest about what would invalidate it. For initial research you always finish by emitting your structured thesis through the emit_bull_research_result tool.`,
		registry, "emit_bull_research_result", deps)
	return &Researcher{BaseAgent: base, stance: "bull"}
}

// NewBearResearcher builds the bear-side researcher.
func NewBearResearcher(deps Deps) *Researcher {
	registry := tools.NewRegistry(tools.NewBearResearchEmitter())
	base := newBaseAgent(models.BearResearcher, "Bear Researcher",
		`You are a bearish equity researcher. You build the strongest evidence-based case against buying, focusing on risks, negative catalysts and structural issues. For initial research you always finish by emitting your structured thesis through the emit_bear_research_result tool.`,
		registry, "emit_bear_research_result", deps)
	return &Researcher{BaseAgent: base, stance: "bear"}
}

// Process produces the researcher's initial thesis from the analyst
// reports and market context.
func (r *Researcher) Process(ctx context.Context, ectx map[string]any) (map[string]any, error) {
	symbol := contextSymbol(ectx)
	r.begin(symbol)

	prompt := fmt.Sprintf(`Build your initial %s thesis for %s.

=== Analyst reports ===
%s

=== Market context ===
%s

Ground every claim in the reports or the market context. When your thesis
is ready, emit it through your result tool.`,
		r.stance, symbol,
		renderJSON(ectx["analysis_reports"]),
		renderJSON(ectx["market_context"]))

	result, err := r.RunUntilTool(ctx, prompt)
	if err != nil {
		r.emitFailure(symbol, err)
		return nil, err
	}
	r.emitSuccess(symbol, result)
	return result, nil
}

// Debate argues one turn against the opponent's latest message. The
// coordinator supplies the client for the turn (model randomization); the
// reply is plain text, recorded as a single-call chain.
func (r *Researcher) Debate(ctx context.Context, client llm.Client, topic, opponentMessage string, ectx map[string]any) (string, error) {
	symbol := contextSymbol(ectx)
	r.recorder.Reset()

	prompt := fmt.Sprintf(`Debate topic: %s

Your opponent's latest argument:
%s

Context:
%s

Respond as the %s side: rebut the opponent's strongest points and advance
your own case. Be specific and cite the data you rely on. Reply with your
argument only.`, topic, opponentMessage, renderJSON(ectx), r.stance)

	response, err := r.singleTurn(ctx, client, prompt)
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
