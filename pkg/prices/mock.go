package prices

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"
)

// mockAsset carries the reference price and per-step volatility used by the
// deterministic mock provider.
type mockAsset struct {
	base       float64
	volatility float64
}

// Reference prices for the tickers the demo pipeline understands.
var mockAssets = map[string]mockAsset{
	"BTC":   {63500, 0.02},
	"ETH":   {3150, 0.03},
	"SOL":   {185, 0.04},
	"ADA":   {0.48, 0.05},
	"XRP":   {0.52, 0.03},
	"DOGE":  {0.08, 0.06},
	"MATIC": {0.95, 0.04},
	"DOT":   {8.50, 0.04},
	"UNI":   {7.00, 0.05},
	"LTC":   {85.00, 0.03},
	"LINK":  {14.50, 0.04},
	"AVAX":  {35.00, 0.05},
	"ATOM":  {8.20, 0.04},
	"BNB":   {320.00, 0.03},
	"NEAR":  {5.50, 0.06},
	"FTM":   {0.75, 0.07},
	"ALGO":  {0.25, 0.06},
	"ICP":   {12.50, 0.05},
	"APT":   {8.80, 0.06},
	"ARB":   {1.20, 0.05},
}

// Mock is a deterministic in-memory provider: the same (ticker, start, steps,
// step) request always yields the same random walk. It stands in for the real
// price APIs in tests and when no API key is configured.
type Mock struct{}

// NewMock constructs the deterministic mock provider.
func NewMock() *Mock { return &Mock{} }

// Supported reports whether the mock knows a reference price for the ticker.
func (m *Mock) Supported(ticker string) bool {
	_, ok := mockAssets[strings.ToUpper(strings.TrimSpace(ticker))]
	return ok
}

// Series generates a seeded random walk around the ticker's reference price.
func (m *Mock) Series(ctx context.Context, ticker string, start time.Time, steps int, step time.Duration) (Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if steps <= 0 {
		return nil, fmt.Errorf("prices: steps must be positive, got %d", steps)
	}
	if step <= 0 {
		step = time.Minute
	}

	sym := strings.ToUpper(strings.TrimSpace(ticker))
	asset, ok := mockAssets[sym]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}

	rng := rand.New(rand.NewSource(mockSeed(sym, start)))
	out := make(Series, 0, steps)
	price := asset.base
	for i := 0; i < steps; i++ {
		change := (rng.Float64()*2 - 1) * asset.volatility
		price *= 1 + change
		out = append(out, Sample{
			Time:  start.Add(time.Duration(i) * step).UTC(),
			Price: price,
		})
	}
	return out, nil
}

func mockSeed(sym string, start time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(sym))
	return int64(h.Sum64()) ^ start.Unix()
}
