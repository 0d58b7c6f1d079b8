package batch

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tradecortex/tradecortex/config"
	"github.com/tradecortex/tradecortex/internal/models"
	"github.com/tradecortex/tradecortex/internal/workflow"
)

// MarketDataSource supplies the per-symbol market summary maps for the
// batch prefetch step. The dataflows package provides the production
// implementation.
type MarketDataSource interface {
	MarketSummary(ctx context.Context, symbol string) map[string]any
}

// OrchestratorFactory builds a fresh orchestrator for one symbol. Each
// symbol gets its own orchestrator, session and clients.
type OrchestratorFactory func(ctx context.Context) (*workflow.Orchestrator, error)

// Error records one failed symbol.
type Error struct {
	Symbol  string `json:"symbol"`
	Message string `json:"error"`
}

// Summary is the batch outcome: successes ranked by confidence descending
// plus the per-symbol errors.
type Summary struct {
	TotalAnalyzed int                      `json:"total_analyzed"`
	Results       []*models.WorkflowResult `json:"results"`
	Errors        []Error                  `json:"errors"`
	TotalTime     time.Duration            `json:"total_time"`
	OutputFile    string                   `json:"output_file,omitempty"`
}

// Analyzer fans workflow invocations out across a bounded worker pool.
// Per-symbol failure never aborts the batch.
type Analyzer struct {
	cfg        *config.Config
	maxWorkers int
	source     MarketDataSource
	factory    OrchestratorFactory
}

// New builds a batch analyzer. maxWorkers below 1 falls back to the
// configured default.
func New(cfg *config.Config, source MarketDataSource, factory OrchestratorFactory) *Analyzer {
	workers := cfg.Batch.MaxWorkers
	if workers < 1 {
		workers = 3
	}
	return &Analyzer{cfg: cfg, maxWorkers: workers, source: source, factory: factory}
}

// AnalyzePortfolio analyzes the symbols in quick mode and ranks the
// results. positions carries the current portfolio weight per symbol.
// When outputFile is non-empty the ranked results are written there as
// CSV (or JSON for a .json path).
func (a *Analyzer) AnalyzePortfolio(ctx context.Context, symbols []string, analysts []string, positions map[string]float64, outputFile string) (*Summary, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols provided")
	}

	start := time.Now()
	log.Printf("[batch] analyzing %d symbols with %d workers", len(symbols), a.maxWorkers)

	marketData := a.prefetchMarketData(ctx, symbols)

	var (
		mu      sync.Mutex
		results []*models.WorkflowResult
		errs    []Error
	)

	semaphore := make(chan struct{}, a.maxWorkers)
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := a.analyzeSingle(ctx, symbol, marketData[symbol], analysts, positions[strings.ToUpper(symbol)])

			mu.Lock()
			defer mu.Unlock()
			if result.Success {
				results = append(results, result)
				log.Printf("[batch] %s: %s (confidence %.2f)", symbol, result.Recommendation, result.ConfidenceScore)
			} else {
				errs = append(errs, Error{Symbol: strings.ToUpper(symbol), Message: result.Error})
				log.Printf("[batch] %s failed: %s", symbol, result.Error)
			}
		}(symbol)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ConfidenceScore > results[j].ConfidenceScore
	})

	summary := &Summary{
		TotalAnalyzed: len(symbols),
		Results:       results,
		Errors:        errs,
		TotalTime:     time.Since(start),
	}

	if outputFile != "" && len(results) > 0 {
		if err := writeResults(outputFile, summary); err != nil {
			return summary, fmt.Errorf("write results: %w", err)
		}
		summary.OutputFile = outputFile
	}
	return summary, nil
}

func (a *Analyzer) prefetchMarketData(ctx context.Context, symbols []string) map[string]map[string]any {
	data := make(map[string]map[string]any, len(symbols))
	for _, symbol := range symbols {
		if a.source == nil {
			data[symbol] = map[string]any{}
			continue
		}
		data[symbol] = a.source.MarketSummary(ctx, symbol)
	}
	return data
}

func (a *Analyzer) analyzeSingle(ctx context.Context, symbol string, marketData map[string]any, analysts []string, position float64) *models.WorkflowResult {
	orchestrator, err := a.factory(ctx)
	if err != nil {
		return &models.WorkflowResult{
			Success: false,
			Symbol:  strings.ToUpper(symbol),
			Stage:   models.StageInitialization,
			Mode:    models.ModeQuick,
			Error:   err.Error(),
		}
	}
	return orchestrator.Execute(ctx, workflow.Request{
		Symbol:              symbol,
		MarketData:          marketData,
		Analysts:            analysts,
		QuickMode:           true,
		CurrentPositionSize: position,
	})
}
