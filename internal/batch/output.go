package batch

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/tradecortex/tradecortex/internal/models"
)

// csvHeader is the fixed column order of the batch CSV output.
var csvHeader = []string{
	"symbol",
	"recommendation",
	"confidence_score",
	"target_price",
	"acceptable_price_min",
	"acceptable_price_max",
	"take_profit",
	"stop_loss",
	"position_size",
	"time_horizon",
	"reasoning",
}

const reasoningLimit = 200

func writeResults(path string, summary *Summary) error {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return writeJSON(path, summary)
	}
	return WriteCSV(path, summary.Results)
}

// WriteCSV writes the ranked results with the fixed column order.
// Reasoning is truncated at 200 characters with an ellipsis.
func WriteCSV(path string, results []*models.WorkflowResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		row := []string{
			result.Symbol,
			result.Recommendation,
			formatFloat(result.ConfidenceScore),
			formatFloat(result.TargetPrice),
			formatFloat(result.AcceptablePriceMin),
			formatFloat(result.AcceptablePriceMax),
			formatFloat(result.TakeProfit),
			formatFloat(result.StopLoss),
			formatFloat(result.PositionSize),
			result.TimeHorizon,
			truncateReasoning(result.Reasoning),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, summary *Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func truncateReasoning(reasoning string) string {
	if len(reasoning) <= reasoningLimit {
		return reasoning
	}
	return reasoning[:reasoningLimit] + "..."
}
