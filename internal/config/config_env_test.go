package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Test_hydrateSections_withEnvAndSectionFiles verifies env expansion and
// per-section hydration without going through go-zero conf.Load.
func Test_hydrateSections_withEnvAndSectionFiles(t *testing.T) {
	dir := t.TempDir()

	// Prepare llm.yaml using env placeholders
	llmYAML := []byte(`
base_url: ${OPENROUTER_BASE_URL}
api_key: ${OPENROUTER_API_KEY}
default_model: ${OPENROUTER_DEFAULT_MODEL}
timeout: 2s
`)
	if err := os.WriteFile(filepath.Join(dir, "llm.yaml"), llmYAML, 0o600); err != nil {
		t.Fatalf("write llm.yaml: %v", err)
	}

	// Prepare prices.yaml with a mock provider so no network credentials are needed
	pricesYAML := []byte(`
provider: mock
`)
	if err := os.WriteFile(filepath.Join(dir, "prices.yaml"), pricesYAML, 0o600); err != nil {
		t.Fatalf("write prices.yaml: %v", err)
	}

	t.Setenv("OPENROUTER_BASE_URL", "https://router.example/api/v1")
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENROUTER_DEFAULT_MODEL", "gpt-x")

	// Construct top-level config and hydrate sections
	cfg := &Config{
		DataPath:   "./data",
		TTL:        CacheTTL{Short: 10, Medium: 60, Long: 300},
		Simulation: SimulationConf{InitialCapital: 100, WindowHours: 24, StepMinutes: 1},
	}
	cfg.LLM.File = "llm.yaml"
	cfg.Prices.File = "prices.yaml"
	cfg.baseDir = dir

	if err := cfg.hydrateSections(); err != nil {
		t.Fatalf("hydrateSections: %v", err)
	}

	if cfg.LLM.Value == nil {
		t.Fatalf("LLM section not hydrated")
	}
	if got := cfg.LLM.Value.BaseURL; got != "https://router.example/api/v1" {
		t.Fatalf("LLM.BaseURL not expanded, got %q", got)
	}
	if cfg.Prices.Value == nil {
		t.Fatalf("Prices section not hydrated")
	}
	if got := cfg.Prices.Value.Provider; got != "mock" {
		t.Fatalf("Prices.Provider got %q", got)
	}

	// Sections without a file stay empty
	if cfg.Extractor.Value != nil || cfg.Scraper.Value != nil {
		t.Fatalf("unexpected hydration of empty sections")
	}
}
