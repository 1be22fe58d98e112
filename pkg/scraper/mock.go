package scraper

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"
)

// mockTemplates are realistic timeline posts covering bullish, bearish and
// flat calls so the downstream extractor sees every sentiment branch.
var mockTemplates = []string{
	"$BTC\n\n4H - finally starting to move.\n\nIdeally we hold above key level and start to move higher.\n\nBullish momentum building up. Long from 63000, targets 65000 / 67000 / 70000, stop 60000. 10x.",
	"$ETH\n\nDaily close above resistance.\n\nIf we can maintain this level, expecting continuation higher.\n\nMarket structure looking good for ETH holders.",
	"$SOL\n\nBreakout confirmed on the 1H chart.\n\nVolume is picking up nicely. Still bullish above current support levels.",
	"$ADA\n\nNot looking great right now tbh.\n\nBelow key support and volume is weak.\n\nBears are in control at the moment. Short with stop above 0.52.",
	"$XRP\n\nMassive pump incoming?\n\nThis consolidation phase is ending and breakout looks imminent.\n\nBullish setup developing here.",
	"$DOGE\n\nThe meme king is stirring.\n\nVolume increasing and price action looking better.\n\nBullish divergence playing out nicely.",
	"$MATIC\n\nStruggling to break resistance.\n\nEach attempt gets weaker. Not impressed with this PA.\n\nBears keeping pressure on for now.",
	"$DOT\n\nPolkadot looking heavy right now.\n\nFailed breakout and now retesting support.\n\nBearish momentum taking control.",
	"$TRX\n\nTron network activity picking up.\n\nPrice action still looks weak though.\n\nNeutral to slightly bearish for now.",
	"$LINK\n\nChainlink fundamentals remain strong.\n\nPrice not reflecting the utility yet.\n\nBullish on LINK above current support.",
}

// MockSource serves a deterministic timeline per handle. The same handle and
// clock always yield the same tweets, which keeps pipeline tests stable.
type MockSource struct {
	clock func() time.Time
}

// MockOption customises a MockSource.
type MockOption func(*MockSource)

// WithClock fixes the timestamp base, for reproducible output.
func WithClock(clock func() time.Time) MockOption {
	return func(m *MockSource) { m.clock = clock }
}

// NewMockSource constructs a deterministic tweet source.
func NewMockSource(opts ...MockOption) *MockSource {
	m := &MockSource{clock: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Timeline returns up to limit synthetic tweets for the handle, newest first,
// spaced one hour apart.
func (m *MockSource) Timeline(ctx context.Context, handle string, limit int) ([]Tweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handle = NormalizeHandle(handle)
	if handle == "" {
		return nil, ErrUnknownHandle
	}
	if limit <= 0 || limit > len(mockTemplates) {
		limit = len(mockTemplates)
	}

	base := m.clock().UTC().Truncate(time.Hour)
	offset := int(mockHandleSeed(handle) % uint64(len(mockTemplates)))
	out := make([]Tweet, 0, limit)
	for i := 0; i < limit; i++ {
		tpl := mockTemplates[(offset+i)%len(mockTemplates)]
		out = append(out, Tweet{
			ID:        fmt.Sprintf("mock-%s-%03d", handle, i),
			Author:    handle,
			Text:      tpl,
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out, nil
}

func mockHandleSeed(handle string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(handle))
	return h.Sum64()
}
