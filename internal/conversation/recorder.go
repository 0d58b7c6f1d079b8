package conversation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/tradecortex/tradecortex/internal/logging"
)

// CallMetadata describes one LLM call for the audit trail.
type CallMetadata struct {
	Model     string        `json:"model"`
	Provider  string        `json:"provider"`
	Tokens    int           `json:"tokens"`
	Cost      float64       `json:"cost"`
	Latency   time.Duration `json:"latency"`
	Timestamp time.Time     `json:"timestamp"`
}

// ToolResult captures one tool invocation inside a turn.
type ToolResult struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Result    string         `json:"result"`
	Success   bool           `json:"success"`
}

// Turn is one LLM round trip: the messages sent, the response, and any
// tool results attached afterwards. Append-only.
type Turn struct {
	MessagesSent []*schema.Message `json:"messages_sent"`
	Response     *schema.Message   `json:"response"`
	ToolResults  []ToolResult      `json:"tool_results"`
	Metadata     CallMetadata      `json:"metadata"`
}

// SequenceSource hands out the per-session chain sequence numbers. The
// session state manager implements it.
type SequenceSource interface {
	NextChainSeq(symbol string) int
}

// Recorder accumulates the turns of one agent invocation and seals them
// into a call-chain artifact on completion. A recorder belongs to exactly
// one agent, so it needs no locking.
type Recorder struct {
	agentName      string
	conversationID string
	turns          []Turn
	seqs           SequenceSource
	logger         *logging.Logger
}

// NewRecorder creates a recorder for one agent.
func NewRecorder(agentName string, seqs SequenceSource, logger *logging.Logger) *Recorder {
	return &Recorder{
		agentName:      agentName,
		conversationID: uuid.NewString()[:8],
		seqs:           seqs,
		logger:         logger,
	}
}

// ConversationID returns the recorder's conversation identifier.
func (r *Recorder) ConversationID() string { return r.conversationID }

// Turns returns the accumulated turns.
func (r *Recorder) Turns() []Turn { return r.turns }

// RecordLLMCall appends one turn. The message slice is copied so later
// mutation by the loop cannot rewrite history.
func (r *Recorder) RecordLLMCall(messages []*schema.Message, response *schema.Message, metadata CallMetadata) {
	sent := make([]*schema.Message, len(messages))
	copy(sent, messages)
	r.turns = append(r.turns, Turn{
		MessagesSent: sent,
		Response:     response,
		Metadata:     metadata,
	})
}

// AttachToolResults attaches tool results to the most recent turn.
func (r *Recorder) AttachToolResults(results []ToolResult) {
	if len(r.turns) == 0 || len(results) == 0 {
		return
	}
	r.turns[len(r.turns)-1].ToolResults = results
}

// Reset clears the buffer and starts a new conversation id.
func (r *Recorder) Reset() {
	r.turns = nil
	r.conversationID = uuid.NewString()[:8]
}

// EmitChain seals the accumulated turns into one call-chain artifact,
// assigns the next per-session sequence number, writes the artifact, and
// clears the buffer. An empty buffer emits nothing.
func (r *Recorder) EmitChain(symbol string, finalResult any, success bool) {
	if len(r.turns) == 0 {
		return
	}
	seq := r.seqs.NextChainSeq(symbol)
	if r.logger != nil {
		content := r.renderChain(seq, symbol, finalResult, success)
		_ = r.logger.WriteChainArtifact(seq, r.agentName, symbol, content)
	}
	r.turns = nil
}

func (r *Recorder) renderChain(seq int, symbol string, finalResult any, success bool) string {
	var b strings.Builder

	status := "success"
	if !success {
		status = "failed"
	}
	fmt.Fprintf(&b, "# %s - call chain #%d (%s)\n\n", r.agentName, seq, status)
	fmt.Fprintf(&b, "- **Symbol**: %s\n", symbol)
	fmt.Fprintf(&b, "- **Conversation**: %s\n", r.conversationID)
	fmt.Fprintf(&b, "- **Turns**: %d\n\n", len(r.turns))

	for i, turn := range r.turns {
		fmt.Fprintf(&b, "## Turn %d\n\n", i+1)
		fmt.Fprintf(&b, "- model: %s/%s, tokens: %d, latency: %s\n\n",
			turn.Metadata.Provider, turn.Metadata.Model, turn.Metadata.Tokens, turn.Metadata.Latency)

		for _, msg := range turn.MessagesSent {
			fmt.Fprintf(&b, "**%s**:\n\n%s\n\n", msg.Role, truncate(msg.Content, 2000))
		}
		if turn.Response != nil {
			fmt.Fprintf(&b, "**response**:\n\n%s\n\n", truncate(turn.Response.Content, 2000))
			for _, call := range turn.Response.ToolCalls {
				fmt.Fprintf(&b, "- tool call: `%s` %s\n", call.Function.Name, truncate(call.Function.Arguments, 500))
			}
		}
		for _, result := range turn.ToolResults {
			fmt.Fprintf(&b, "- tool result `%s` (success=%t): %s\n", result.ToolName, result.Success, truncate(result.Result, 500))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Final result\n\n```json\n%s\n```\n", encodeJSON(finalResult))
	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func encodeJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
