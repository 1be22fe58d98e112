package config

import (
	"fmt"

	"sigsim-api/pkg/confkit"
	"sigsim-api/pkg/extractor"
	"sigsim-api/pkg/llm"
	"sigsim-api/pkg/prices"
	"sigsim-api/pkg/scraper"
)

// MustLoadLLM loads etc/llm.yaml from the project root and panics on error.
// It isolates the LLM section so tests that only talk to the model API do not
// need the rest of the service config.
func MustLoadLLM() *llm.Config {
	return mustSection("etc/llm.yaml", llm.LoadConfig)
}

// MustLoadExtractor loads etc/extractor.yaml from the project root and panics on error.
func MustLoadExtractor() *extractor.Config {
	return mustSection("etc/extractor.yaml", extractor.LoadConfig)
}

// MustLoadScraper loads etc/scraper.yaml from the project root and panics on error.
func MustLoadScraper() *scraper.Config {
	return mustSection("etc/scraper.yaml", scraper.LoadConfig)
}

// MustLoadPrices loads etc/prices.yaml from the project root and panics on error.
func MustLoadPrices() *prices.Config {
	return mustSection("etc/prices.yaml", prices.LoadConfig)
}

func mustSection[T any](rel string, loader func(string) (*T, error)) *T {
	path := confkit.MustProjectPath(rel)
	cfg, err := loader(path)
	if err != nil {
		panic(fmt.Errorf("load %s: %w", rel, err))
	}
	return cfg
}
