package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/tradecortex/tradecortex/config"
	"github.com/tradecortex/tradecortex/internal/batch"
	"github.com/tradecortex/tradecortex/internal/dataflows"
	"github.com/tradecortex/tradecortex/internal/display"
	"github.com/tradecortex/tradecortex/internal/workflow"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:           "tradecortex",
		Short:         "TradeCortex - multi-agent LLM trading analysis",
		Long:          "TradeCortex coordinates a team of specialized LLM agents through analysis, debate, trading and risk stages to produce structured investment decisions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("create directories: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newBatchCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run the trading analysis workflow for one symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])
			mode, _ := cmd.Flags().GetString("mode")
			analystsFlag, _ := cmd.Flags().GetString("analysts")
			position, _ := cmd.Flags().GetFloat64("position")
			interactive, _ := cmd.Flags().GetBool("interactive")

			if mode == "" {
				mode = cfg.Workflow.Mode
			}
			analysts := splitList(analystsFlag)

			if interactive {
				var err error
				mode, analysts, err = promptAnalysisOptions(mode, analysts)
				if err != nil {
					return err
				}
			}

			if err := validateRun(cfg, mode); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			news := dataflows.NewNewsService(cfg)
			provider := dataflows.NewProvider(cfg)
			marketData := provider.MarketSummary(ctx, symbol)

			orchestrator, err := workflow.New(ctx, cfg, news)
			if err != nil {
				return exitWith(1, "initialize workflow: %v", err)
			}

			result := orchestrator.Execute(ctx, workflow.Request{
				Symbol:              symbol,
				MarketData:          marketData,
				Analysts:            analysts,
				QuickMode:           mode == "quick",
				CurrentPositionSize: position,
			})

			display.ShowWorkflowResult(result)
			if !result.Success {
				return exitWith(1, "workflow failed at %s: %s", result.Stage, result.Error)
			}
			return nil
		},
	}

	cmd.Flags().String("mode", "", "workflow mode: quick or full (default from config)")
	cmd.Flags().String("analysts", "", "comma-separated analyst subset (fundamental,technical,sentiment,news)")
	cmd.Flags().Float64("position", 0, "current position size as portfolio weight in [0,1]")
	cmd.Flags().Bool("interactive", false, "select mode and analysts interactively")
	return cmd
}

func newBatchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch SYM1,SYM2,...",
		Short: "Analyze a portfolio of symbols in parallel (quick mode)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := splitList(args[0])
			if len(symbols) == 0 {
				return exitWith(2, "no symbols given")
			}
			analystsFlag, _ := cmd.Flags().GetString("analysts")
			output, _ := cmd.Flags().GetString("output")
			positionsFlag, _ := cmd.Flags().GetString("positions")

			if err := validateRun(cfg, cfg.Workflow.Mode); err != nil {
				return err
			}
			positions, err := parsePositions(positionsFlag)
			if err != nil {
				return exitWith(2, "invalid positions: %v", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			news := dataflows.NewNewsService(cfg)
			provider := dataflows.NewProvider(cfg)

			analyzer := batch.New(cfg, provider, func(ctx context.Context) (*workflow.Orchestrator, error) {
				return workflow.New(ctx, cfg, news)
			})

			summary, err := analyzer.AnalyzePortfolio(ctx, symbols, splitList(analystsFlag), positions, output)
			if err != nil {
				return exitWith(1, "batch failed: %v", err)
			}

			display.ShowBatchSummary(summary)
			// Per-symbol failures do not fail the batch.
			return nil
		},
	}

	cmd.Flags().String("analysts", "", "comma-separated analyst subset")
	cmd.Flags().String("output", "", "write ranked results to this CSV (or .json) file")
	cmd.Flags().String("positions", "", "current positions as SYM=0.2,SYM2=0.1")
	return cmd
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("llm: %s model=%s base_url=%s timeout=%ds retries=%d\n",
				cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.TimeoutSeconds, cfg.LLM.MaxRetries)
			fmt.Printf("debate: research_rounds=%d risk_rounds=%d threshold=%.2f randomize=%t models=%s\n",
				cfg.Debate.ResearchTeamMaxRounds, cfg.Debate.RiskTeamMaxRounds,
				cfg.Debate.MinConsensusThreshold, cfg.Debate.RandomizeModels,
				strings.Join(cfg.Debate.Models, ","))
			fmt.Printf("data: provider=%s cache=%t ttl=%ds\n",
				cfg.Data.MarketDataProvider, cfg.Data.CacheEnabled, cfg.Data.CacheTTL)
			fmt.Printf("batch: max_workers=%d\n", cfg.Batch.MaxWorkers)
			fmt.Printf("workflow: mode=%s\n", cfg.Workflow.Mode)
			fmt.Printf("logs: %s\n", cfg.LogsDir)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return exitWith(2, "invalid configuration: %v", err)
			}
			fmt.Println("configuration is valid")
			return nil
		},
	})
	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("TradeCortex v1.0.0")
		},
	}
}

func validateRun(cfg *config.Config, mode string) error {
	if err := cfg.Validate(); err != nil {
		return exitWith(2, "invalid configuration: %v", err)
	}
	if mode != "quick" && mode != "full" {
		return exitWith(2, "invalid mode: %q", mode)
	}
	if cfg.LLM.APIKey == "" {
		return exitWith(1, "missing LLM credentials: set LLM_API_KEY")
	}
	return nil
}

func promptAnalysisOptions(defaultMode string, defaultAnalysts []string) (string, []string, error) {
	mode := defaultMode
	if err := survey.AskOne(&survey.Select{
		Message: "Workflow mode:",
		Options: []string{"quick", "full"},
		Default: defaultMode,
	}, &mode); err != nil {
		return "", nil, err
	}

	analysts := defaultAnalysts
	if len(analysts) == 0 {
		analysts = []string{"fundamental", "technical", "sentiment", "news"}
	}
	if err := survey.AskOne(&survey.MultiSelect{
		Message: "Analysts to run:",
		Options: []string{"fundamental", "technical", "sentiment", "news"},
		Default: analysts,
	}, &analysts); err != nil {
		return "", nil, err
	}
	return mode, analysts, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parsePositions(raw string) (map[string]float64, error) {
	positions := make(map[string]float64)
	for _, pair := range splitList(raw) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected SYM=WEIGHT, got %q", pair)
		}
		weight, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad weight in %q: %w", pair, err)
		}
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("weight out of [0,1] in %q", pair)
		}
		positions[strings.ToUpper(strings.TrimSpace(parts[0]))] = weight
	}
	return positions, nil
}
