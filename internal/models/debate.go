package models

import (
	"fmt"
	"strings"
	"time"
)

// DebateMessage is one utterance inside a debate, appended in strict
// temporal order.
type DebateMessage struct {
	ID        string    `json:"id"`
	Round     int       `json:"round"`
	Speaker   AgentRole `json:"speaker"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model,omitempty"`
	Provider  string    `json:"provider,omitempty"`
}

// DebateKind selects which of a session's two debates a message belongs to.
type DebateKind string

const (
	ResearchDebate DebateKind = "research"
	RiskDebate     DebateKind = "risk"
)

// DebateState tracks one debate. It is mutated only by its owning
// coordinator and sealed when the debate ends.
type DebateState struct {
	Participants     []AgentRole     `json:"participants"`
	CurrentRound     int             `json:"current_round"`
	MaxRounds        int             `json:"max_rounds"`
	Messages         []DebateMessage `json:"messages"`
	ConsensusReached bool            `json:"consensus_reached"`
	FinalDecision    string          `json:"final_decision,omitempty"`
	Topic            string          `json:"topic,omitempty"`
}

// HistoryText renders the message sequence for prompt construction.
func (d *DebateState) HistoryText() string {
	var b strings.Builder
	for _, msg := range d.Messages {
		fmt.Fprintf(&b, "%s: %s\n", msg.Speaker, msg.Content)
	}
	return b.String()
}

// MessagesFrom returns the messages spoken by the given role, in order.
func (d *DebateState) MessagesFrom(role AgentRole) []DebateMessage {
	var out []DebateMessage
	for _, msg := range d.Messages {
		if msg.Speaker == role {
			out = append(out, msg)
		}
	}
	return out
}

// DebateResult is the judged conclusion of the research debate.
type DebateResult struct {
	Decision           string   `json:"decision"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning"`
	SupportingFactors  []string `json:"supporting_factors"`
	RiskFactors        []string `json:"risk_factors"`
	InvestmentStrategy string   `json:"investment_strategy"`
	Winner             string   `json:"winner"`
	WinningArguments   []string `json:"winning_arguments"`
}
