package extractor

import (
	"context"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/pkg/llm"
	"sigsim-api/pkg/scraper"
	"sigsim-api/pkg/signal"
)

// Extractor turns raw tweets into validated trading signals.
type Extractor interface {
	// ExtractSignal parses one tweet. Tweets with neutral or absent
	// sentiment return signal.ErrNeutral.
	ExtractSignal(ctx context.Context, tweet scraper.Tweet) (*signal.TradingSignal, error)
	// ExtractBatch parses every tweet, dropping neutral and malformed ones.
	ExtractBatch(ctx context.Context, tweets []scraper.Tweet) ([]*signal.TradingSignal, error)
	// GetConfig exposes the immutable extractor configuration.
	GetConfig() *Config
}

// BasicExtractor wires configuration, prompt rendering and the LLM client.
type BasicExtractor struct {
	cfg      *Config
	llm      llm.LLMClient
	renderer *PromptRenderer
}

// NewExtractor constructs a BasicExtractor. The templatePath is the
// extraction prompt template provided by the caller.
func NewExtractor(cfg *Config, client llm.LLMClient, templatePath string) (*BasicExtractor, error) {
	if cfg == nil {
		return nil, errors.New("extractor: config is required")
	}
	if client == nil {
		return nil, errors.New("extractor: llm client is required")
	}
	renderer, err := NewPromptRenderer(cfg, templatePath)
	if err != nil {
		return nil, err
	}
	return &BasicExtractor{cfg: cfg, llm: client, renderer: renderer}, nil
}

// GetConfig returns the underlying configuration.
func (e *BasicExtractor) GetConfig() *Config { return e.cfg }

// Digest returns the sha256 digest of the loaded prompt template.
func (e *BasicExtractor) Digest() string {
	if e == nil || e.renderer == nil {
		return ""
	}
	return e.renderer.Digest()
}

// ExtractSignal renders the prompt for one tweet, requests a structured
// contract from the LLM and maps it into a validated signal.
func (e *BasicExtractor) ExtractSignal(ctx context.Context, tweet scraper.Tweet) (*signal.TradingSignal, error) {
	if e == nil || e.renderer == nil {
		return nil, errors.New("extractor: not initialised")
	}

	promptStr, err := e.renderer.Render(PromptInputs{
		TweetText:   tweet.Text,
		TweetAuthor: tweet.Author,
		TweetTime:   tweet.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	req := &llm.ChatRequest{
		// Leave Model empty to use client's default model.
		Messages: []llm.Message{
			{Role: "system", Content: promptStr},
			{Role: "user", Content: tweet.Text},
		},
	}

	var contract signal.Contract
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.ExtractTimeout)
	defer cancel()
	if _, err := e.llm.ChatStructured(callCtx, req, &contract); err != nil {
		return nil, err
	}

	sig, err := signal.Parse(contract)
	if err != nil {
		return nil, err
	}
	if sig.Origin.IsZero() {
		sig.Origin = tweet.CreatedAt.UTC()
	}
	sig.SourceText = tweet.Text
	if err := e.normalize(sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// ExtractBatch processes tweets in order. Neutral sentiment and per-tweet
// failures are logged and skipped so one bad post never sinks the batch.
func (e *BasicExtractor) ExtractBatch(ctx context.Context, tweets []scraper.Tweet) ([]*signal.TradingSignal, error) {
	out := make([]*signal.TradingSignal, 0, len(tweets))
	for _, tweet := range tweets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		sig, err := e.ExtractSignal(ctx, tweet)
		if err != nil {
			if errors.Is(err, signal.ErrNeutral) {
				logx.WithContext(ctx).Debugf("extractor: tweet %s is neutral, skipping", tweet.ID)
			} else {
				logx.WithContext(ctx).Errorf("extractor: tweet %s: %v", tweet.ID, err)
			}
			continue
		}
		out = append(out, sig)
	}
	return out, nil
}

// normalize applies configured caps and level checks after parsing.
func (e *BasicExtractor) normalize(sig *signal.TradingSignal) error {
	if sig.Leverage > e.cfg.MaxLeverage {
		sig.Leverage = e.cfg.MaxLeverage
	}
	if e.cfg.RequireKnownTicker {
		if _, ok := signal.TickerName(sig.Ticker); !ok {
			return ErrUnknownTicker
		}
	}
	if e.cfg.StrictLevels {
		return ValidateLevels(sig)
	}
	return nil
}
