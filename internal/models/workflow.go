package models

import "time"

// WorkflowStage enumerates the pipeline stages in execution order.
type WorkflowStage string

const (
	StageInitialization WorkflowStage = "INITIALIZATION"
	StageAnalysis       WorkflowStage = "ANALYSIS"
	StageDebate         WorkflowStage = "DEBATE"
	StageTrading        WorkflowStage = "TRADING"
	StageRiskManagement WorkflowStage = "RISK_MANAGEMENT"
	StageFinalDecision  WorkflowStage = "FINAL_DECISION"
	StageCompletion     WorkflowStage = "COMPLETION"
)

// Workflow modes.
const (
	ModeQuick = "quick"
	ModeFull  = "full"
)

// AnalysisStageResult carries the surviving analyst reports and the errors
// of the analysts that failed. The stage succeeds when Reports is non-empty.
type AnalysisStageResult struct {
	Reports map[string]*AnalysisReport `json:"reports"`
	Errors  []string                   `json:"errors,omitempty"`
}

// ResearchDebateOutcome is everything the research debate stage produced.
type ResearchDebateOutcome struct {
	Result       *DebateResult   `json:"debate_result"`
	History      []DebateMessage `json:"debate_history"`
	BullResearch map[string]any  `json:"bull_research"`
	BearResearch map[string]any  `json:"bear_research"`
}

// RiskStageResult is everything the risk-management stage produced.
type RiskStageResult struct {
	Topic                string          `json:"topic"`
	RoundsCompleted      int             `json:"rounds_completed"`
	History              []DebateMessage `json:"debate_history"`
	ConservativeAnalysis map[string]any  `json:"conservative_analysis"`
	AggressiveAnalysis   map[string]any  `json:"aggressive_analysis"`
	NeutralAnalysis      map[string]any  `json:"neutral_analysis"`
	FinalDecision        *RiskDecision   `json:"final_decision"`
}

// WorkflowResult is the user-visible outcome of one symbol's workflow.
// In quick mode the flattened decision fields mirror the trading decision;
// in full mode FinalDecision carries the fund manager's verdict.
type WorkflowResult struct {
	Success   bool          `json:"success"`
	SessionID string        `json:"session_id"`
	Symbol    string        `json:"symbol"`
	Stage     WorkflowStage `json:"stage"`
	Mode      string        `json:"mode"`
	Error     string        `json:"error,omitempty"`

	AnalysisResults *AnalysisStageResult   `json:"analysis_results,omitempty"`
	DebateResults   *ResearchDebateOutcome `json:"debate_results,omitempty"`
	TradingDecision *TradingDecision       `json:"trading_decision,omitempty"`
	RiskManagement  *RiskStageResult       `json:"risk_management,omitempty"`
	FinalDecision   *InvestmentDecision    `json:"final_decision,omitempty"`

	Recommendation     string  `json:"recommendation,omitempty"`
	ConfidenceScore    float64 `json:"confidence_score,omitempty"`
	TargetPrice        float64 `json:"target_price,omitempty"`
	AcceptablePriceMin float64 `json:"acceptable_price_min,omitempty"`
	AcceptablePriceMax float64 `json:"acceptable_price_max,omitempty"`
	TakeProfit         float64 `json:"take_profit,omitempty"`
	StopLoss           float64 `json:"stop_loss,omitempty"`
	PositionSize       float64 `json:"position_size,omitempty"`
	TimeHorizon        string  `json:"time_horizon,omitempty"`
	Reasoning          string  `json:"reasoning,omitempty"`

	ExecutionTime time.Time `json:"execution_time,omitzero"`
}
