package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// ErrUnknownTool is returned when a dispatch names an unregistered tool.
var ErrUnknownTool = errors.New("unknown tool")

// ExecutionError wraps a failure inside a tool's Run function. The
// tool-call loop absorbs it for ordinary tools and surfaces it for the
// agent's terminal emitter.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s execution failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Tool binds a name, a declared parameter list and a run function. Most
// tools are result emitters: pure projections that assemble their named
// arguments into a structured mapping so the LLM can convey structured
// output through the tool interface. A few are impure (news fetches) and
// return a text blob.
type Tool struct {
	Name    string
	Desc    string
	Params  []ParamDecl
	Emitter bool
	Run     func(ctx context.Context, args map[string]any) (any, error)
}

// Info derives the tool's JSON-schema advertisement from its parameter
// declarations. Derivation is deterministic: equal declarations produce
// equal schemas.
func (t *Tool) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        t.Name,
		Desc:        t.Desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(parameterInfos(t.Params)),
	}
}

// Registry holds a fixed tool set for one agent. It is read-only after
// construction, so concurrent lookups need no locking.
type Registry struct {
	order []string
	tools map[string]*Tool
}

// NewRegistry registers the given tools in order.
func NewRegistry(tools ...*Tool) *Registry {
	r := &Registry{tools: make(map[string]*Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool; re-registering a name replaces it in place.
func (r *Registry) Register(t *Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Specs returns the tool schemas in registration order.
func (r *Registry) Specs() []*schema.ToolInfo {
	specs := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Info())
	}
	return specs
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Execute dispatches by name and calls the tool with keyword-bound
// arguments. Unknown names yield ErrUnknownTool; run failures come back as
// an ExecutionError.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	result, err := t.Run(ctx, args)
	if err != nil {
		return nil, &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}

// EncodeResult renders a tool result for the transcript: strings pass
// through, everything else is JSON.
func EncodeResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}

// ParseArguments decodes a tool call's raw argument string. A parse
// failure yields an empty mapping so the loop can continue.
func ParseArguments(raw string) map[string]any {
	args := make(map[string]any)
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return make(map[string]any)
	}
	return args
}
