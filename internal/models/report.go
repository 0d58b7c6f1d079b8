package models

import "time"

// AnalysisReport is the structured output of one analyst. It is immutable
// once published into a session.
type AnalysisReport struct {
	AnalystRole      AgentRole              `json:"analyst_role"`
	Symbol           string                 `json:"symbol"`
	AnalysisDate     time.Time              `json:"analysis_date"`
	KeyFindings      []string               `json:"key_findings"`
	Recommendation   string                 `json:"recommendation"`
	ConfidenceScore  float64                `json:"confidence_score"`
	RiskFactors      []string               `json:"risk_factors"`
	TimeHorizon      map[string]string      `json:"time_horizon"`
	ImpactMagnitude  float64                `json:"impact_magnitude"`
	SupportingData   map[string]any         `json:"supporting_data"`
	DetailedAnalysis string                 `json:"detailed_analysis"`
	ProcessingTime   time.Duration          `json:"processing_time"`
}

// IsBullish reports whether the analyst recommends buying.
func (r *AnalysisReport) IsBullish() bool { return r.Recommendation == Buy }

// IsBearish reports whether the analyst recommends selling.
func (r *AnalysisReport) IsBearish() bool { return r.Recommendation == Sell }

// WeightedScore folds the recommendation, confidence and impact magnitude
// into a single score used by downstream aggregation.
func (r *AnalysisReport) WeightedScore() float64 {
	base := 0.5
	switch r.Recommendation {
	case Buy:
		base = 1.0
	case Sell:
		base = 0.0
	}
	return base * r.ConfidenceScore * r.ImpactMagnitude
}

// StructuredSummary is the compact view other agents receive in prompts.
func (r *AnalysisReport) StructuredSummary() map[string]any {
	findings := r.KeyFindings
	if len(findings) > 3 {
		findings = findings[:3]
	}
	return map[string]any{
		"analyst":          string(r.AnalystRole),
		"recommendation":   r.Recommendation,
		"confidence":       r.ConfidenceScore,
		"key_findings":     findings,
		"risk_level":       len(r.RiskFactors),
		"impact_magnitude": r.ImpactMagnitude,
	}
}
