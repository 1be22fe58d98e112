package cache

import (
	"strings"
	"time"

	"sigsim-api/internal/config"
)

// Namespace is the Redis key prefix for the application.
const Namespace = "sigsim"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 10*time.Second),
		Medium: durationOrDefault(cfg.Medium, time.Minute),
		Long:   durationOrDefault(cfg.Long, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// --- Price Keys -------------------------------------------------------------

// PriceLatestKey returns the latest observed price for a ticker.
func PriceLatestKey(ticker string) string {
	return formatKey("price", "latest", ticker)
}

// --- Outcome Keys -----------------------------------------------------------

// OutcomeListKey caches the recent simulation outcomes for a ticker.
// An empty ticker scopes the key to all tickers.
func OutcomeListKey(ticker string) string {
	if ticker == "" {
		return formatKey("outcomes", "all")
	}
	return formatKey("outcomes", ticker)
}

// RunSummaryKey caches an aggregated batch summary by run ID.
func RunSummaryKey(runID string) string {
	return formatKey("run", "summary", runID)
}

// --- TTL Helpers ------------------------------------------------------------

// PriceTTL returns short-lived TTL for individual price keys.
func PriceTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// OutcomeListTTL returns the TTL for cached outcome listings.
func OutcomeListTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// RunSummaryTTL returns the TTL for cached run summaries. Summaries are
// terminal once written, so they take the long bucket.
func RunSummaryTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}
