package extractor

import (
	"fmt"
	"strings"

	"sigsim-api/pkg/llm"
	"sigsim-api/pkg/signal"
)

// PromptInputs contains dynamic data injected into the extraction prompt template.
type PromptInputs struct {
	TweetText    string
	TweetAuthor  string
	TweetTime    string
	KnownTickers string
}

// PromptRenderer renders the extraction system prompt from a template file.
type PromptRenderer struct {
	cfg *Config
	tpl *llm.PromptTemplate
}

// NewPromptRenderer constructs a renderer using the supplied template path.
func NewPromptRenderer(cfg *Config, templatePath string) (*PromptRenderer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("extractor prompt renderer requires config")
	}
	tpl, err := llm.NewPromptTemplate(templatePath, nil)
	if err != nil {
		return nil, err
	}
	return &PromptRenderer{
		cfg: cfg,
		tpl: tpl,
	}, nil
}

// Render generates the final prompt string populated with inputs.
func (r *PromptRenderer) Render(inputs PromptInputs) (string, error) {
	if r == nil || r.tpl == nil {
		return "", fmt.Errorf("extractor prompt renderer not initialised")
	}
	if inputs.KnownTickers == "" {
		inputs.KnownTickers = strings.Join(signal.KnownTickers(), ", ")
	}

	payload := struct {
		Config *Config
		PromptInputs
	}{
		Config:       r.cfg,
		PromptInputs: inputs,
	}

	return r.tpl.Render(payload)
}

// Digest returns the underlying template digest for observability.
func (r *PromptRenderer) Digest() string {
	if r == nil || r.tpl == nil {
		return ""
	}
	return r.tpl.Digest()
}
