package backtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/pkg/prices"
	"sigsim-api/pkg/signal"
)

// Engine runs walk-forward simulations for batches of signals against a price
// provider.
type Engine struct {
	provider prices.Provider
	capital  float64
	window   time.Duration
	step     time.Duration
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithCapital sets the capital allocated to each position.
func WithCapital(capital float64) EngineOption {
	return func(e *Engine) {
		if capital > 0 {
			e.capital = capital
		}
	}
}

// WithWindow sets how far forward each simulation walks.
func WithWindow(window time.Duration) EngineOption {
	return func(e *Engine) {
		if window > 0 {
			e.window = window
		}
	}
}

// WithStep sets the sampling interval of the price walk.
func WithStep(step time.Duration) EngineOption {
	return func(e *Engine) {
		if step > 0 {
			e.step = step
		}
	}
}

// NewEngine builds an Engine over the given price provider. Defaults: $100
// per position, 24h window, 1m step.
func NewEngine(provider prices.Provider, opts ...EngineOption) (*Engine, error) {
	if provider == nil {
		return nil, errors.New("backtest: nil price provider")
	}
	e := &Engine{
		provider: provider,
		capital:  DefaultInitialCapital,
		window:   24 * time.Hour,
		step:     time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SimulateSignal fetches the price series for one signal and simulates it.
func (e *Engine) SimulateSignal(ctx context.Context, sig *signal.TradingSignal) (*Outcome, error) {
	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: invalid signal: %w", err)
	}
	steps := int(e.window / e.step)
	series, err := e.provider.Series(ctx, sig.Ticker, sig.Origin, steps, e.step)
	if err != nil {
		return nil, fmt.Errorf("backtest: fetch prices for %s: %w", sig.Ticker, err)
	}
	return Simulate(sig, series, e.capital), nil
}

// SimulateBatch simulates every signal in order and aggregates the outcomes.
// Signals that fail validation or price lookup are skipped and counted, not
// fatal: one bad ticker must not sink the batch.
func (e *Engine) SimulateBatch(ctx context.Context, signals []*signal.TradingSignal) (*Summary, error) {
	outcomes := make([]*Outcome, 0, len(signals))
	skipped := 0
	for _, sig := range signals {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		out, err := e.SimulateSignal(ctx, sig)
		if err != nil {
			logx.WithContext(ctx).Errorf("backtest: skipping signal ticker=%s: %v", sig.Ticker, err)
			skipped++
			continue
		}
		outcomes = append(outcomes, out)
	}
	summary := Aggregate(outcomes)
	summary.SkippedSignals = skipped
	return summary, nil
}

// WriteReport persists a summary as indented JSON, creating parent
// directories as needed.
func WriteReport(path string, summary *Summary) error {
	if summary == nil {
		return errors.New("backtest: nil summary")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("backtest: create report dir: %w", err)
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("backtest: marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("backtest: write report: %w", err)
	}
	return nil
}
