package models

import "time"

// TradingSession owns every artifact produced while one symbol is analyzed.
// Artifacts are immutable once published; slots are filled at most once per
// stage (a second write overwrites silently, see state.Manager).
type TradingSession struct {
	SessionID string    `json:"session_id"`
	Symbol    string    `json:"symbol"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitzero"`

	FundamentalReport *AnalysisReport `json:"fundamental_report,omitempty"`
	SentimentReport   *AnalysisReport `json:"sentiment_report,omitempty"`
	NewsReport        *AnalysisReport `json:"news_report,omitempty"`
	TechnicalReport   *AnalysisReport `json:"technical_report,omitempty"`

	ResearchDebate *DebateState `json:"research_debate,omitempty"`
	RiskDebate     *DebateState `json:"risk_debate,omitempty"`

	TraderDecision         *TradingDecision    `json:"trader_decision,omitempty"`
	RiskManagementDecision *RiskDecision       `json:"risk_management_decision,omitempty"`
	FinalRecommendation    *InvestmentDecision `json:"final_recommendation,omitempty"`

	ExecutedTrades     []map[string]any   `json:"executed_trades,omitempty"`
	PerformanceMetrics map[string]float64 `json:"performance_metrics,omitempty"`
}

// Reports returns the published analysis reports keyed by analyst type.
func (s *TradingSession) Reports() map[string]*AnalysisReport {
	reports := make(map[string]*AnalysisReport)
	if s.FundamentalReport != nil {
		reports["fundamental"] = s.FundamentalReport
	}
	if s.SentimentReport != nil {
		reports["sentiment"] = s.SentimentReport
	}
	if s.NewsReport != nil {
		reports["news"] = s.NewsReport
	}
	if s.TechnicalReport != nil {
		reports["technical"] = s.TechnicalReport
	}
	return reports
}
