package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tradecortex/tradecortex/internal/batch"
	"github.com/tradecortex/tradecortex/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(78)

	buyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	sellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	holdStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func recommendationStyle(rec string) lipgloss.Style {
	switch rec {
	case models.Buy:
		return buyStyle
	case models.Sell:
		return sellStyle
	default:
		return holdStyle
	}
}

// ShowWorkflowResult renders one symbol's workflow outcome.
func ShowWorkflowResult(result *models.WorkflowResult) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Analysis results - %s", result.Symbol)))

	if !result.Success {
		fmt.Println(boxStyle.Render(fmt.Sprintf("%s\n\nStage: %s\nError: %s",
			sellStyle.Render("WORKFLOW FAILED"), result.Stage, result.Error)))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s   confidence %.2f   mode %s\n",
		sectionStyle.Render("Recommendation:"),
		recommendationStyle(result.Recommendation).Render(result.Recommendation),
		result.ConfidenceScore, result.Mode)

	if result.TradingDecision != nil {
		d := result.TradingDecision
		fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Trading decision"))
		fmt.Fprintf(&b, "  target %.2f  range [%.2f, %.2f]  stop %.2f  take-profit %.2f\n",
			d.TargetPrice, d.AcceptablePriceMin, d.AcceptablePriceMax, d.StopLoss, d.TakeProfit)
		fmt.Fprintf(&b, "  target weight %.2f  horizon %s\n", d.PositionSize, d.TimeHorizon)
	}

	if result.AnalysisResults != nil {
		fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Analysts"))
		for name, report := range result.AnalysisResults.Reports {
			fmt.Fprintf(&b, "  %-12s %s (%.2f)\n", name,
				recommendationStyle(report.Recommendation).Render(report.Recommendation),
				report.ConfidenceScore)
		}
		for _, errMsg := range result.AnalysisResults.Errors {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render("failed: "+errMsg))
		}
	}

	if result.DebateResults != nil && result.DebateResults.Result != nil {
		r := result.DebateResults.Result
		fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Research debate"))
		fmt.Fprintf(&b, "  verdict %s (%.2f), winner: %s, %d messages\n",
			recommendationStyle(r.Decision).Render(r.Decision), r.Confidence, r.Winner,
			len(result.DebateResults.History))
	}

	if result.RiskManagement != nil && result.RiskManagement.FinalDecision != nil {
		r := result.RiskManagement.FinalDecision
		fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Risk management"))
		fmt.Fprintf(&b, "  action %s  risk %s  confidence %.2f\n",
			recommendationStyle(r.RecommendedAction).Render(r.RecommendedAction),
			r.RiskLevel, r.ConfidenceLevel)
	}

	if result.FinalDecision != nil {
		fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Fund manager"))
		fmt.Fprintf(&b, "  %s (%.2f), size %.2f, next review %s\n",
			recommendationStyle(result.FinalDecision.FinalRecommendation).Render(result.FinalDecision.FinalRecommendation),
			result.FinalDecision.ConfidenceScore,
			result.FinalDecision.PositionSize,
			result.FinalDecision.NextReviewDate)
	}

	fmt.Println(boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}

// ShowBatchSummary renders the ranked batch outcome.
func ShowBatchSummary(summary *batch.Summary) {
	fmt.Println(titleStyle.Render("Batch analysis summary"))

	var b strings.Builder
	fmt.Fprintf(&b, "analyzed %d symbols in %s, %d succeeded, %d failed\n\n",
		summary.TotalAnalyzed, summary.TotalTime.Round(time.Second), len(summary.Results), len(summary.Errors))

	fmt.Fprintf(&b, "%-8s %-6s %-10s %-10s %-8s\n", "SYMBOL", "REC", "CONFIDENCE", "TARGET", "WEIGHT")
	for _, result := range summary.Results {
		fmt.Fprintf(&b, "%-8s %-6s %-10.2f %-10.2f %-8.2f\n",
			result.Symbol,
			recommendationStyle(result.Recommendation).Render(result.Recommendation),
			result.ConfidenceScore, result.TargetPrice, result.PositionSize)
	}
	for _, batchErr := range summary.Errors {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("%s: %s", batchErr.Symbol, batchErr.Message)))
	}
	if summary.OutputFile != "" {
		fmt.Fprintf(&b, "\nresults written to %s\n", summary.OutputFile)
	}

	fmt.Println(boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}
