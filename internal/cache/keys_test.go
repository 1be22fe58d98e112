package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sigsim-api/internal/config"
)

func TestNewTTLSet(t *testing.T) {
	ttl := NewTTLSet(config.CacheTTL{Short: 5, Medium: 30, Long: 600})
	assert.Equal(t, 5*time.Second, ttl.Short)
	assert.Equal(t, 30*time.Second, ttl.Medium)
	assert.Equal(t, 600*time.Second, ttl.Long)

	// Zeroes take the defaults, negatives disable expiry.
	fallback := NewTTLSet(config.CacheTTL{Short: 0, Medium: -1})
	assert.Equal(t, 10*time.Second, fallback.Short)
	assert.Zero(t, fallback.Medium)
}

func TestTTLHelpers(t *testing.T) {
	ttl := NewTTLSet(config.CacheTTL{Short: 5, Medium: 30, Long: 600})
	assert.Equal(t, ttl.Short, PriceTTL(ttl))
	assert.Equal(t, ttl.Medium, OutcomeListTTL(ttl))
	assert.Equal(t, ttl.Long, RunSummaryTTL(ttl))
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "sigsim:price:latest:BTC", PriceLatestKey("BTC"))
	assert.Equal(t, "sigsim:outcomes:all", OutcomeListKey(""))
	assert.Equal(t, "sigsim:outcomes:ETH", OutcomeListKey("ETH"))
	assert.Equal(t, "sigsim:run:summary:abc-123", RunSummaryKey("abc-123"))
}
