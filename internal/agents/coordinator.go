package agents

import (
	"context"

	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// JudgeAgent is the debate coordinator's own reasoning surface: it owns
// the judgment and quality-evaluation emitters and runs the tool loop
// against whichever one a pass targets.
type JudgeAgent struct {
	*BaseAgent
}

// NewJudge builds the coordinator's judge agent.
func NewJudge(deps Deps) *JudgeAgent {
	registry := tools.NewRegistry(
		tools.NewDebateJudgmentEmitter(),
		tools.NewDebateQualityEmitter(),
	)
	base := newBaseAgent(models.DebateCoordinator, "Debate Coordinator",
		`You are an impartial investment-debate judge. You weigh both sides' arguments against the analysts' objective data and commit to a decision. You always finish a pass by emitting the requested structured result through the named tool.`,
		registry, "emit_debate_judgment", deps)
	return &JudgeAgent{BaseAgent: base}
}

// Judge runs the judgment pass and returns the emitted result.
func (j *JudgeAgent) Judge(ctx context.Context, symbol, prompt string) (map[string]any, error) {
	j.begin(symbol)
	result, err := j.RunUntilNamedTool(ctx, prompt, "emit_debate_judgment")
	if err != nil {
		j.emitFailure(symbol, err)
		return nil, err
	}
	j.emitSuccess(symbol, result)
	return result, nil
}

// EvaluateQuality runs the quality-evaluation pass.
func (j *JudgeAgent) EvaluateQuality(ctx context.Context, symbol, prompt string) (map[string]any, error) {
	j.begin(symbol)
	result, err := j.RunUntilNamedTool(ctx, prompt, "emit_debate_quality_evaluation")
	if err != nil {
		j.emitFailure(symbol, err)
		return nil, err
	}
	j.emitSuccess(symbol, result)
	return result, nil
}
