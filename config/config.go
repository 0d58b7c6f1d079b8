package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LLMConfig configures the chat-completion transport.
type LLMConfig struct {
	Provider         string  `json:"provider"`
	APIKey           string  `json:"api_key"`
	BaseURL          string  `json:"base_url"`
	Model            string  `json:"model"`
	MaxTokens        int     `json:"max_tokens"`
	Temperature      float64 `json:"temperature"`
	TimeoutSeconds   int     `json:"timeout_seconds"`
	MaxRetries       int     `json:"max_retries"`
	RetryBaseSeconds int     `json:"retry_base_seconds"`
	RetryMaxSeconds  int     `json:"retry_max_seconds"`
}

// DebateConfig configures both debate coordinators and the model pool.
type DebateConfig struct {
	ResearchTeamMaxRounds int      `json:"research_team_max_rounds"`
	RiskTeamMaxRounds     int      `json:"risk_team_max_rounds"`
	MinConsensusThreshold float64  `json:"min_consensus_threshold"`
	Models                []string `json:"models"`
	RandomizeModels       bool     `json:"randomize_models"`
}

// DataConfig configures the market data providers.
type DataConfig struct {
	MarketDataProvider string `json:"market_data_provider"` // online or cached
	CacheEnabled       bool   `json:"cache_enabled"`
	CacheTTL           int    `json:"cache_ttl"` // seconds

	FinnhubAPIKey       string `json:"finnhub_api_key"`
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`
}

// BatchConfig configures the batch analyzer.
type BatchConfig struct {
	MaxWorkers int `json:"max_workers"`
}

// WorkflowConfig configures the orchestrator defaults.
type WorkflowConfig struct {
	Mode string `json:"mode"` // quick or full
}

// Config is the full application configuration, consumed once at
// orchestrator construction.
type Config struct {
	ProjectDir   string `json:"project_dir"`
	LogsDir      string `json:"logs_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	LLM      LLMConfig      `json:"llm"`
	Debate   DebateConfig   `json:"debate"`
	Data     DataConfig     `json:"data"`
	Batch    BatchConfig    `json:"batch"`
	Workflow WorkflowConfig `json:"workflow"`
}

// DefaultConfig builds the configuration from defaults, a .env file when
// present, and environment variable overrides.
func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		LogsDir:      filepath.Join(currentDir, "logs"),
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),
		LLM: LLMConfig{
			Provider:         "deepseek",
			BaseURL:          "https://api.deepseek.com/v1",
			Model:            "deepseek-chat",
			MaxTokens:        8192,
			Temperature:      0,
			TimeoutSeconds:   60,
			MaxRetries:       5,
			RetryBaseSeconds: 4,
			RetryMaxSeconds:  60,
		},
		Debate: DebateConfig{
			ResearchTeamMaxRounds: 3,
			RiskTeamMaxRounds:     3,
			MinConsensusThreshold: 0.6,
			Models:                nil,
			RandomizeModels:       false,
		},
		Data: DataConfig{
			MarketDataProvider: "online",
			CacheEnabled:       true,
			CacheTTL:           300,
		},
		Batch: BatchConfig{
			MaxWorkers: 3,
		},
		Workflow: WorkflowConfig{
			Mode: "full",
		},
	}

	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("LOGS_DIR"); val != "" {
		c.LogsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLM.Provider = val
	}
	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.LLM.APIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = val
	}
	if val := os.Getenv("LLM_BASE_URL"); val != "" {
		c.LLM.BaseURL = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLM.Model = val
	}
	setInt(&c.LLM.MaxTokens, "LLM_MAX_TOKENS")
	setFloat(&c.LLM.Temperature, "LLM_TEMPERATURE")
	setInt(&c.LLM.TimeoutSeconds, "LLM_TIMEOUT_SECONDS")
	setInt(&c.LLM.MaxRetries, "LLM_MAX_RETRIES")
	setInt(&c.LLM.RetryBaseSeconds, "LLM_RETRY_BASE_SECONDS")
	setInt(&c.LLM.RetryMaxSeconds, "LLM_RETRY_MAX_SECONDS")

	setInt(&c.Debate.ResearchTeamMaxRounds, "DEBATE_RESEARCH_TEAM_MAX_ROUNDS")
	setInt(&c.Debate.RiskTeamMaxRounds, "DEBATE_RISK_TEAM_MAX_ROUNDS")
	setFloat(&c.Debate.MinConsensusThreshold, "DEBATE_MIN_CONSENSUS_THRESHOLD")
	if val := os.Getenv("DEBATE_MODELS"); val != "" {
		var models []string
		for _, m := range strings.Split(val, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		c.Debate.Models = models
	}
	setBool(&c.Debate.RandomizeModels, "DEBATE_RANDOMIZE_MODELS")

	if val := os.Getenv("DATA_MARKET_DATA_PROVIDER"); val != "" {
		c.Data.MarketDataProvider = val
	}
	setBool(&c.Data.CacheEnabled, "DATA_CACHE_ENABLED")
	setInt(&c.Data.CacheTTL, "DATA_CACHE_TTL")
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.Data.FinnhubAPIKey = val
	}
	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.Data.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.Data.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.Data.LongportAccessToken = val
	}

	setInt(&c.Batch.MaxWorkers, "BATCH_MAX_WORKERS")

	if val := os.Getenv("WORKFLOW_MODE"); val != "" {
		c.Workflow.Mode = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// Validate checks option ranges. CLI wrappers map a validation failure to
// exit code 2.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "deepseek":
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.max_tokens must be positive")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.MaxRetries < 1 {
		return errors.New("llm.max_retries must be at least 1")
	}
	if c.Debate.ResearchTeamMaxRounds < 0 || c.Debate.RiskTeamMaxRounds < 0 {
		return errors.New("debate round counts cannot be negative")
	}
	if c.Debate.MinConsensusThreshold < 0 || c.Debate.MinConsensusThreshold > 1 {
		return errors.New("debate.min_consensus_threshold must be in [0,1]")
	}
	switch c.Data.MarketDataProvider {
	case "online", "cached":
	default:
		return fmt.Errorf("unsupported market data provider: %q", c.Data.MarketDataProvider)
	}
	if c.Batch.MaxWorkers < 1 {
		return errors.New("batch.max_workers must be at least 1")
	}
	switch c.Workflow.Mode {
	case "quick", "full":
	default:
		return fmt.Errorf("unsupported workflow mode: %q", c.Workflow.Mode)
	}
	return nil
}

// EnsureDirectories creates the log and data directory trees.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.LogsDir,
		filepath.Join(c.LogsDir, "markdown"),
		filepath.Join(c.LogsDir, "llm"),
		c.DataDir,
		c.DataCacheDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
