package models

import "time"

// TradingDecision is the trader's structured output. PositionSize is an
// absolute target portfolio weight, not a delta against the current
// position.
type TradingDecision struct {
	Symbol             string         `json:"symbol"`
	Recommendation     string         `json:"recommendation"`
	ConfidenceScore    float64        `json:"confidence_score"`
	TargetPrice        float64        `json:"target_price"`
	StopLoss           float64        `json:"stop_loss"`
	TakeProfit         float64        `json:"take_profit"`
	PositionSize       float64        `json:"position_size"`
	AcceptablePriceMin float64        `json:"acceptable_price_min"`
	AcceptablePriceMax float64        `json:"acceptable_price_max"`
	TimeHorizon        string         `json:"time_horizon"`
	Reasoning          string         `json:"reasoning"`
	RiskFactors        []string       `json:"risk_factors"`
	ExecutionPlan      map[string]any `json:"execution_plan"`
	DecisionTimestamp  time.Time      `json:"decision_timestamp"`
	AnalystConsensus   map[string]any `json:"analyst_consensus"`
	DebateInfluence    string         `json:"debate_influence"`
}

// RiskDecision is the risk manager's adjudication of the risk debate.
type RiskDecision struct {
	RecommendedAction  string   `json:"recommended_action"`
	RiskLevel          string   `json:"risk_level"`
	ConfidenceLevel    float64  `json:"confidence_level"`
	PositionAdjustment string   `json:"position_adjustment"`
	KeyRiskFactors     []string `json:"key_risk_factors"`
	Mitigation         []string `json:"mitigation"`
	Monitoring         []string `json:"monitoring"`
	ContingencyPlans   []string `json:"contingency_plans"`
	DecisionRationale  string   `json:"decision_rationale"`
	DebateHistoryRef   string   `json:"debate_history_ref"`
}

// InvestmentDecision is the fund manager's final artifact in full mode.
type InvestmentDecision struct {
	FinalRecommendation string   `json:"final_recommendation"`
	ConfidenceScore     float64  `json:"confidence_score"`
	PositionSize        float64  `json:"position_size"`
	EntryStrategy       string   `json:"entry_strategy"`
	ExitStrategy        string   `json:"exit_strategy"`
	RiskManagementRules []string `json:"risk_management_rules"`
	MonitoringIndicators []string `json:"monitoring_indicators"`
	DecisionSummary     string   `json:"decision_summary"`
	NextReviewDate      string   `json:"next_review_date"`
}
