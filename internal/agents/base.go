package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/tradecortex/tradecortex/internal/conversation"
	"github.com/tradecortex/tradecortex/internal/llm"
	"github.com/tradecortex/tradecortex/internal/logging"
	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/state"
	"github.com/tradecortex/tradecortex/internal/tools"
)

// ErrTerminalToolNotCalled is returned when the tool-call loop exhausts its
// iteration budget without observing the agent's terminal emitter.
var ErrTerminalToolNotCalled = errors.New("terminal tool not called")

// ErrDataInvalid is returned when an agent's market data is missing or
// carries an upstream error.
var ErrDataInvalid = errors.New("market data invalid")

const defaultMaxIterations = 10

// Deps is the shared wiring every agent receives.
type Deps struct {
	LLM    llm.Client
	State  *state.Manager
	Logger *logging.Logger
}

// BaseAgent binds a role, a system prompt and a fixed tool set to an LLM
// client, and drives the tool-call loop. Specialized agents embed it.
type BaseAgent struct {
	role          models.AgentRole
	name          string
	llm           llm.Client
	systemPrompt  string
	tools         *tools.Registry
	terminalTool  string
	maxIterations int

	recorder *conversation.Recorder
	state    *state.Manager
	logger   *logging.Logger
}

func newBaseAgent(role models.AgentRole, name, systemPrompt string, registry *tools.Registry, terminalTool string, deps Deps) *BaseAgent {
	return &BaseAgent{
		role:          role,
		name:          name,
		llm:           deps.LLM,
		systemPrompt:  systemPrompt,
		tools:         registry,
		terminalTool:  terminalTool,
		maxIterations: defaultMaxIterations,
		recorder:      conversation.NewRecorder(name, deps.State, deps.Logger),
		state:         deps.State,
		logger:        deps.Logger,
	}
}

// Role returns the agent's role.
func (a *BaseAgent) Role() models.AgentRole { return a.role }

// Name returns the agent's human name.
func (a *BaseAgent) Name() string { return a.name }

// Recorder exposes the agent's conversation recorder.
func (a *BaseAgent) Recorder() *conversation.Recorder { return a.recorder }

// begin resets the recorder and makes sure a session exists for symbol.
func (a *BaseAgent) begin(symbol string) {
	a.recorder.Reset()
	if !a.state.HasSession() {
		a.state.StartSession(symbol)
	}
}

func (a *BaseAgent) emitSuccess(symbol string, result any) {
	a.recorder.EmitChain(symbol, result, true)
}

func (a *BaseAgent) emitFailure(symbol string, err error) {
	a.recorder.EmitChain(symbol, map[string]any{"success": false, "error": err.Error()}, false)
}

// RunUntilTool drives the LLM through iterative tool invocations until the
// agent's terminal tool is called, and returns that tool's structured
// result.
//
// Every assistant reply is appended to the transcript, tool results are
// appended as tool messages in call order, and non-terminal tool failures
// are absorbed into the transcript so the loop can continue.
func (a *BaseAgent) RunUntilTool(ctx context.Context, userPrompt string) (map[string]any, error) {
	return a.RunUntilNamedTool(ctx, userPrompt, a.terminalTool)
}

// RunUntilNamedTool is RunUntilTool with an explicit terminal tool, for
// agents that own more than one emitter (the debate coordinator).
func (a *BaseAgent) RunUntilNamedTool(ctx context.Context, userPrompt, terminalTool string) (map[string]any, error) {
	messages := []*schema.Message{
		schema.SystemMessage(a.systemPrompt),
		schema.UserMessage(userPrompt),
	}

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, meta, err := a.call(ctx, messages, a.tools.Specs())
		if err != nil {
			return nil, err
		}
		a.recorder.RecordLLMCall(messages, resp, meta)
		messages = append(messages, resp)

		if len(resp.ToolCalls) == 0 {
			continue
		}

		var results []conversation.ToolResult
		var terminalArgs map[string]any
		terminalSeen := false

		for _, call := range resp.ToolCalls {
			name := call.Function.Name
			args := tools.ParseArguments(call.Function.Arguments)

			value, execErr := a.tools.Execute(ctx, name, args)
			if execErr != nil {
				if name == terminalTool {
					results = append(results, conversation.ToolResult{
						ToolName: name, Arguments: args, Result: execErr.Error(), Success: false,
					})
					a.recorder.AttachToolResults(results)
					return nil, execErr
				}
				resultStr := "tool execution failed: " + execErr.Error()
				results = append(results, conversation.ToolResult{
					ToolName: name, Arguments: args, Result: resultStr, Success: false,
				})
				messages = append(messages, schema.ToolMessage(resultStr, call.ID))
				continue
			}

			resultStr := tools.EncodeResult(value)
			results = append(results, conversation.ToolResult{
				ToolName: name, Arguments: args, Result: resultStr, Success: true,
			})
			messages = append(messages, schema.ToolMessage(resultStr, call.ID))

			if name == terminalTool {
				terminalSeen = true
				if m, ok := value.(map[string]any); ok {
					terminalArgs = m
				} else {
					terminalArgs = map[string]any{"result": value}
				}
			}
		}

		a.recorder.AttachToolResults(results)

		if terminalSeen {
			return terminalArgs, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrTerminalToolNotCalled, terminalTool)
}

// singleTurn issues one chat completion without tools, using the supplied
// client. Debate turns run through here so the coordinator can swap models
// per turn.
func (a *BaseAgent) singleTurn(ctx context.Context, client llm.Client, userPrompt string) (string, error) {
	if client == nil {
		client = a.llm
	}
	messages := []*schema.Message{
		schema.SystemMessage(a.systemPrompt),
		schema.UserMessage(userPrompt),
	}

	start := time.Now()
	resp, err := client.ChatCompletion(ctx, messages, nil)
	if err != nil {
		return "", err
	}
	meta := conversation.CallMetadata{
		Model:     client.ModelName(),
		Provider:  client.Provider(),
		Latency:   time.Since(start),
		Timestamp: time.Now(),
	}
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		meta.Tokens = resp.ResponseMeta.Usage.TotalTokens
	}
	a.recorder.RecordLLMCall(messages, resp, meta)
	return resp.Content, nil
}

func (a *BaseAgent) call(ctx context.Context, messages []*schema.Message, specs []*schema.ToolInfo) (*schema.Message, conversation.CallMetadata, error) {
	start := time.Now()
	resp, err := a.llm.ChatCompletion(ctx, messages, specs)
	meta := conversation.CallMetadata{
		Model:     a.llm.ModelName(),
		Provider:  a.llm.Provider(),
		Latency:   time.Since(start),
		Timestamp: time.Now(),
	}
	if err != nil {
		return nil, meta, err
	}
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		meta.Tokens = resp.ResponseMeta.Usage.TotalTokens
	}
	return resp, meta, nil
}

// validMarketData rejects empty contexts and contexts flagged with an
// upstream error.
func validMarketData(ectx map[string]any) error {
	if len(ectx) == 0 {
		return ErrDataInvalid
	}
	if msg, ok := ectx["error"]; ok {
		return fmt.Errorf("%w: %v", ErrDataInvalid, msg)
	}
	return nil
}

// renderJSON pretty-prints a value for prompt construction.
func renderJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func contextSymbol(ectx map[string]any) string {
	s, _ := ectx["symbol"].(string)
	return s
}
