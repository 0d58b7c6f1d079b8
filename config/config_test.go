package config

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_MAX_TOKENS", "1234")
	t.Setenv("LLM_TEMPERATURE", "0.3")
	t.Setenv("DEBATE_RESEARCH_TEAM_MAX_ROUNDS", "5")
	t.Setenv("DEBATE_MODELS", "m1, m2 ,m3")
	t.Setenv("DEBATE_RANDOMIZE_MODELS", "true")
	t.Setenv("DATA_MARKET_DATA_PROVIDER", "cached")
	t.Setenv("BATCH_MAX_WORKERS", "5")
	t.Setenv("WORKFLOW_MODE", "quick")

	cfg := DefaultConfig()
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("llm overrides not applied: %+v", cfg.LLM)
	}
	if cfg.LLM.MaxTokens != 1234 || cfg.LLM.Temperature != 0.3 {
		t.Fatalf("numeric overrides not applied: %+v", cfg.LLM)
	}
	if cfg.Debate.ResearchTeamMaxRounds != 5 || !cfg.Debate.RandomizeModels {
		t.Fatalf("debate overrides not applied: %+v", cfg.Debate)
	}
	if len(cfg.Debate.Models) != 3 || cfg.Debate.Models[1] != "m2" {
		t.Fatalf("model list not parsed: %v", cfg.Debate.Models)
	}
	if cfg.Data.MarketDataProvider != "cached" {
		t.Fatalf("data override not applied: %+v", cfg.Data)
	}
	if cfg.Batch.MaxWorkers != 5 || cfg.Workflow.Mode != "quick" {
		t.Fatalf("batch/workflow overrides not applied")
	}
}

func TestMalformedEnvValuesAreIgnored(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")
	t.Setenv("DEBATE_RANDOMIZE_MODELS", "not-a-bool")

	cfg := DefaultConfig()
	if cfg.LLM.MaxTokens != 8192 {
		t.Fatalf("malformed int override should keep the default, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.Debate.RandomizeModels {
		t.Fatalf("malformed bool override should keep the default")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.LLM.Provider = "other" },
		func(c *Config) { c.LLM.MaxTokens = 0 },
		func(c *Config) { c.LLM.TimeoutSeconds = -1 },
		func(c *Config) { c.LLM.MaxRetries = 0 },
		func(c *Config) { c.Debate.ResearchTeamMaxRounds = -1 },
		func(c *Config) { c.Debate.MinConsensusThreshold = 1.5 },
		func(c *Config) { c.Data.MarketDataProvider = "ftp" },
		func(c *Config) { c.Batch.MaxWorkers = 0 },
		func(c *Config) { c.Workflow.Mode = "turbo" },
	}
	for i, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
