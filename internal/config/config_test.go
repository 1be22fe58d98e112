package config

import (
	"os"
	"path/filepath"
	"testing"

	"sigsim-api/pkg/llm"
	"sigsim-api/pkg/scraper"
)

// Test_moduleConfig_envExpansion verifies that module configs expand environment
// variables correctly when loaded directly via their LoadConfig functions.
func Test_moduleConfig_envExpansion(t *testing.T) {
	dir := t.TempDir()

	// Prepare llm.yaml using env placeholders
	llmYAML := []byte(`
base_url: ${OPENROUTER_BASE_URL}
api_key: ${OPENROUTER_API_KEY}
default_model: ${OPENROUTER_DEFAULT_MODEL}
timeout: 2s
`)
	llmPath := filepath.Join(dir, "llm.yaml")
	if err := os.WriteFile(llmPath, llmYAML, 0o600); err != nil {
		t.Fatalf("write llm.yaml: %v", err)
	}

	// Prepare scraper.yaml using env placeholders for the bearer token
	scraperYAML := []byte(`
source: twitter
handles:
  - cryptocaller
bearer_token: ${TWITTER_BEARER_TOKEN}
limit: 5
`)
	scrPath := filepath.Join(dir, "scraper.yaml")
	if err := os.WriteFile(scrPath, scraperYAML, 0o600); err != nil {
		t.Fatalf("write scraper.yaml: %v", err)
	}

	// Set envs consumed by the files above
	t.Setenv("OPENROUTER_BASE_URL", "https://router.example/api/v1")
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENROUTER_DEFAULT_MODEL", "gpt-x")
	t.Setenv("TWITTER_BEARER_TOKEN", "bearer-123")

	// Load LLM config and verify env expansion
	llmCfg, err := llm.LoadConfig(llmPath)
	if err != nil {
		t.Fatalf("llm.LoadConfig: %v", err)
	}
	if got := llmCfg.BaseURL; got != "https://router.example/api/v1" {
		t.Fatalf("LLM.BaseURL not expanded, got %q", got)
	}
	if got := llmCfg.APIKey; got != "test-key" {
		t.Fatalf("LLM.APIKey not expanded, got %q", got)
	}
	if got := llmCfg.DefaultModel; got != "gpt-x" {
		t.Fatalf("LLM.DefaultModel got %q", got)
	}

	// Load Scraper config and verify env expansion
	scrCfg, err := scraper.LoadConfig(scrPath)
	if err != nil {
		t.Fatalf("scraper.LoadConfig: %v", err)
	}
	if scrCfg.BearerToken != "bearer-123" {
		t.Fatalf("Scraper.BearerToken not expanded, got %q", scrCfg.BearerToken)
	}
	if len(scrCfg.Handles) != 1 || scrCfg.Handles[0] != "cryptocaller" {
		t.Fatalf("Scraper.Handles not parsed, got %v", scrCfg.Handles)
	}
	if scrCfg.Limit != 5 {
		t.Fatalf("Scraper.Limit got %d", scrCfg.Limit)
	}
}

func TestValidate_TTLBounds(t *testing.T) {
	cfg := &Config{}
	cfg.DataPath = "./data"
	cfg.Simulation = SimulationConf{InitialCapital: 100, WindowHours: 24, StepMinutes: 1}
	cfg.TTL.Short = 0
	cfg.TTL.Medium = 60
	cfg.TTL.Long = 300
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected ttl.short validation error")
	}
}

func TestValidate_SimulationBounds(t *testing.T) {
	cfg := &Config{}
	cfg.DataPath = "./data"
	cfg.TTL = CacheTTL{Short: 10, Medium: 60, Long: 300}
	cfg.Simulation = SimulationConf{InitialCapital: 0, WindowHours: 24, StepMinutes: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected simulation.initialCapital validation error")
	}

	cfg.Simulation = SimulationConf{InitialCapital: 100, WindowHours: 0, StepMinutes: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected simulation.windowHours validation error")
	}
}

func TestValidate_EnvValues(t *testing.T) {
	cfg := &Config{}
	cfg.DataPath = "./data"
	cfg.TTL = CacheTTL{Short: 10, Medium: 60, Long: 300}
	cfg.Simulation = SimulationConf{InitialCapital: 100, WindowHours: 24, StepMinutes: 1}

	cfg.Env = "staging"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected env validation error")
	}

	cfg.Env = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty env should default to test, got %v", err)
	}
	if cfg.Env != "test" || !cfg.IsTestEnv() {
		t.Fatalf("empty env not normalised to test, got %q", cfg.Env)
	}
}
