package prices

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownTicker is returned when a provider cannot resolve the requested
// symbol to an upstream asset.
var ErrUnknownTicker = errors.New("prices: unknown ticker")

// Provider produces ordered price samples for a ticker starting at a given
// instant. Implementations own their transport, auth and rate limiting; the
// simulation engine only ever sees the materialized Series.
type Provider interface {
	// Series returns up to steps samples spaced by step, starting at start.
	// Providers backed by coarser upstream data may return fewer samples;
	// the result is always chronologically ordered.
	Series(ctx context.Context, ticker string, start time.Time, steps int, step time.Duration) (Series, error)
}
