package prices

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMock_Deterministic(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	a, err := m.Series(ctx, "BTC", testStart, 50, time.Minute)
	require.NoError(t, err)
	b, err := m.Series(ctx, "BTC", testStart, 50, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same request must yield an identical walk")
	assert.Len(t, a, 50)
	assert.Equal(t, testStart, a.First().Time)
	assert.Equal(t, testStart.Add(49*time.Minute), a.Last().Time)
}

func TestMock_DiffersAcrossTickersAndStarts(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	btc, err := m.Series(ctx, "BTC", testStart, 10, time.Minute)
	require.NoError(t, err)
	eth, err := m.Series(ctx, "ETH", testStart, 10, time.Minute)
	require.NoError(t, err)
	later, err := m.Series(ctx, "BTC", testStart.Add(time.Hour), 10, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, btc.First().Price, eth.First().Price)
	assert.NotEqual(t, btc.First().Price, later.First().Price)
}

func TestMock_UnknownTicker(t *testing.T) {
	m := NewMock()
	_, err := m.Series(context.Background(), "NOPE", testStart, 10, time.Minute)
	assert.ErrorIs(t, err, ErrUnknownTicker)
}

func TestMock_InvalidSteps(t *testing.T) {
	m := NewMock()
	_, err := m.Series(context.Background(), "BTC", testStart, 0, time.Minute)
	assert.Error(t, err)
}

func TestMock_CaseInsensitive(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	upper, err := m.Series(ctx, "BTC", testStart, 5, time.Minute)
	require.NoError(t, err)
	lower, err := m.Series(ctx, " btc ", testStart, 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
}

func TestParseSeries_SortsAndValidates(t *testing.T) {
	raw := []RawSample{
		{Timestamp: "2025-06-01T12:02:00Z", Price: 63100},
		{Timestamp: "2025-06-01T12:00:00Z", Price: 63000},
		{Timestamp: "2025-06-01T12:01:00Z", Price: 63050},
	}
	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, 63000.0, series.First().Price)
	assert.Equal(t, 63100.0, series.Last().Price)
	assert.True(t, series[0].Time.Before(series[1].Time))
}

func TestParseSeries_Rejects(t *testing.T) {
	_, err := ParseSeries([]RawSample{{Timestamp: "not-a-time", Price: 1}})
	assert.Error(t, err)

	_, err = ParseSeries([]RawSample{{Timestamp: "2025-06-01T12:00:00Z", Price: 0}})
	assert.Error(t, err)
}

// countingProvider wraps the mock so cache hits are observable.
type countingProvider struct {
	inner Provider
	calls int
}

func (c *countingProvider) Series(ctx context.Context, ticker string, start time.Time, steps int, step time.Duration) (Series, error) {
	c.calls++
	return c.inner.Series(ctx, ticker, start, steps, step)
}

func TestCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	counting := &countingProvider{inner: NewMock()}
	cache, err := NewCache(counting, dir, 0)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cache.Series(ctx, "BTC", testStart, 20, time.Minute)
	require.NoError(t, err)
	second, err := cache.Series(ctx, "BTC", testStart, 20, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, counting.calls, "second request must come from disk")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".msgpack"))
}

func TestCache_KeyedByRequestShape(t *testing.T) {
	dir := t.TempDir()
	counting := &countingProvider{inner: NewMock()}
	cache, err := NewCache(counting, dir, 0)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = cache.Series(ctx, "BTC", testStart, 20, time.Minute)
	require.NoError(t, err)
	_, err = cache.Series(ctx, "BTC", testStart, 30, time.Minute)
	require.NoError(t, err)
	_, err = cache.Series(ctx, "ETH", testStart, 20, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 3, counting.calls, "each request shape is its own entry")
}

func TestCache_CorruptEntryFallsThrough(t *testing.T) {
	dir := t.TempDir()
	counting := &countingProvider{inner: NewMock()}
	cache, err := NewCache(counting, dir, 0)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = cache.Series(ctx, "BTC", testStart, 10, time.Minute)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("garbage"), 0o644))

	series, err := cache.Series(ctx, "BTC", testStart, 10, time.Minute)
	require.NoError(t, err)
	assert.Len(t, series, 10)
	assert.Equal(t, 2, counting.calls, "corrupt entry must trigger a refetch")
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader("provider: mock\n"))
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, defaultRatePerMinute, cfg.RatePerMinute)
	assert.Equal(t, defaultSimulationHours, cfg.SimulationHours)
	assert.Equal(t, time.Minute, cfg.Step)
}

func TestConfig_ParsesDurations(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader("provider: mock\ncache_ttl: 12h\nstep: 5m\n"))
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Step)
}

func TestConfig_UnknownProvider(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader("provider: kraken\n"))
	assert.Error(t, err)
}

func TestNew_FallsBackToMockWithoutKey(t *testing.T) {
	t.Setenv("COINGECKO_API_KEY", "")
	cfg, err := LoadConfigFromReader(strings.NewReader("provider: coingecko\n"))
	require.NoError(t, err)

	provider, err := New(cfg)
	require.NoError(t, err)

	// The fallback must stay usable offline.
	series, err := provider.Series(context.Background(), "BTC", testStart, 5, time.Minute)
	require.NoError(t, err)
	assert.Len(t, series, 5)
}
