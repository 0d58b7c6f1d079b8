package debate

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tradecortex/tradecortex/internal/models"
)

func msg(round int, speaker models.AgentRole, content string) models.DebateMessage {
	return models.DebateMessage{
		Round:     round,
		Speaker:   speaker,
		Content:   content,
		Timestamp: time.Now(),
	}
}

var (
	consInitial = map[string]any{"risk_level": "HIGH"}
	aggInitial  = map[string]any{"upside_potential": "high"}
	neuInitial  = map[string]any{"risk_reward_ratio": "fair"}
)

func TestOpponentArgumentsRoundOneConservative(t *testing.T) {
	args := OpponentArguments(speakerConservative, nil, 1, consInitial, aggInitial, neuInitial)
	if len(args) != 2 {
		t.Fatalf("expected 2 arguments, got %d: %v", len(args), args)
	}
	if !strings.HasPrefix(args[0], "Aggressive view (initial analysis):") {
		t.Fatalf("first argument should be the aggressive initial analysis: %q", args[0])
	}
	if !strings.HasPrefix(args[1], "Neutral view (initial analysis):") {
		t.Fatalf("second argument should be the neutral initial analysis: %q", args[1])
	}
}

func TestOpponentArgumentsRoundOneAggressive(t *testing.T) {
	history := []models.DebateMessage{
		msg(1, models.ConservativeAnalyst, "too much downside"),
	}
	args := OpponentArguments(speakerAggressive, history, 1, consInitial, aggInitial, neuInitial)
	if len(args) != 2 {
		t.Fatalf("expected 2 arguments, got %d: %v", len(args), args)
	}
	if args[0] != "Conservative view (round 1): too much downside" {
		t.Fatalf("first argument should be the latest conservative message: %q", args[0])
	}
	if !strings.HasPrefix(args[1], "Neutral view (initial analysis):") {
		t.Fatalf("second argument should be the neutral initial analysis: %q", args[1])
	}
}

func TestOpponentArgumentsRoundOneNeutral(t *testing.T) {
	history := []models.DebateMessage{
		msg(1, models.ConservativeAnalyst, "too much downside"),
		msg(1, models.AggressiveAnalyst, "upside dominates"),
	}
	args := OpponentArguments(speakerNeutral, history, 1, consInitial, aggInitial, neuInitial)
	want := []string{
		"Conservative view (round 1): too much downside",
		"Aggressive view (round 1): upside dominates",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("neutral round-1 routing wrong:\n got %v\nwant %v", args, want)
	}
}

func TestOpponentArgumentsLaterRounds(t *testing.T) {
	history := []models.DebateMessage{
		msg(1, models.ConservativeAnalyst, "c1"),
		msg(1, models.AggressiveAnalyst, "a1"),
		msg(1, models.NeutralAnalyst, "n1"),
		msg(2, models.ConservativeAnalyst, "c2"),
	}
	args := OpponentArguments(speakerAggressive, history, 2, consInitial, aggInitial, neuInitial)
	want := []string{
		"Conservative view (round 1): c1",
		"Neutral view (round 1): n1",
		"Conservative view (round 2): c2",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("round-2 routing wrong:\n got %v\nwant %v", args, want)
	}
}

func TestOpponentArgumentsIsPure(t *testing.T) {
	history := []models.DebateMessage{
		msg(1, models.ConservativeAnalyst, "c1"),
		msg(1, models.AggressiveAnalyst, "a1"),
	}
	first := OpponentArguments(speakerNeutral, history, 1, consInitial, aggInitial, neuInitial)
	second := OpponentArguments(speakerNeutral, history, 1, consInitial, aggInitial, neuInitial)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs must produce byte-equal output:\n%v\n%v", first, second)
	}
}

func TestShouldEndDebateRequiresVolumeAndRepetition(t *testing.T) {
	// Too little content: never terminate.
	short := []models.DebateMessage{
		msg(1, models.ConservativeAnalyst, "risk risk risk risk risk"),
	}
	if shouldEndDebate(short) {
		t.Fatalf("must not terminate below 500 bytes")
	}

	// Enough content but fewer than 6 messages: never terminate.
	long := strings.Repeat("the outlook is unclear ", 30)
	fewMessages := []models.DebateMessage{
		msg(1, models.ConservativeAnalyst, long),
		msg(1, models.AggressiveAnalyst, long),
	}
	if shouldEndDebate(fewMessages) {
		t.Fatalf("must not terminate before 6 messages exist")
	}

	// Six messages, enough bytes, heavy keyword repetition: terminate.
	repetitive := make([]models.DebateMessage, 0, 6)
	for i := 0; i < 6; i++ {
		repetitive = append(repetitive, msg(1, models.ConservativeAnalyst,
			"we should reduce the risk, the risk is real "+strings.Repeat("x", 60)))
	}
	if !shouldEndDebate(repetitive) {
		t.Fatalf("expected termination on keyword repetition")
	}

	// Six messages without repetition: keep debating.
	varied := make([]models.DebateMessage, 0, 6)
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}
	for i := 0; i < 6; i++ {
		varied = append(varied, msg(1, models.AggressiveAnalyst,
			words[i]+" "+strings.Repeat("y", 100)))
	}
	if shouldEndDebate(varied) {
		t.Fatalf("must not terminate without keyword repetition")
	}
}
