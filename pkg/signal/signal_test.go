package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		sentiment string
		want      Direction
		wantErr   error
	}{
		{"long", Long, nil},
		{"Bullish", Long, nil},
		{"buy", Long, nil},
		{"short", Short, nil},
		{"BEARISH", Short, nil},
		{"sell", Short, nil},
		{"neutral", "", ErrNeutral},
		{"none", "", ErrNeutral},
		{"", "", ErrNeutral},
		{"  long  ", Long, nil},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.sentiment)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "sentiment %q", tt.sentiment)
			continue
		}
		assert.NoError(t, err, "sentiment %q", tt.sentiment)
		assert.Equal(t, tt.want, got, "sentiment %q", tt.sentiment)
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err, "unknown sentiment should error")
	assert.NotErrorIs(t, err, ErrNeutral, "unknown sentiment is not neutral")
}

func TestDirection_Sign(t *testing.T) {
	assert.Equal(t, 1.0, Long.Sign())
	assert.Equal(t, -1.0, Short.Sign())
}

func TestParseLeverage(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"10", 10},
		{"10x", 10},
		{" 5X ", 5},
		{"2.5", 2.5},
		{"none", 1},
		{"", 1},
		{"garbage", 1},
		{"-3", 1},
		{"0", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLeverage(tt.raw), "raw %q", tt.raw)
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2025-06-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), ts, "RFC 3339 normalizes to UTC")

	ts, err = ParseTimestamp("Wed Apr 16 23:35:00 +0000 2025")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 16, 23, 35, 0, 0, time.UTC), ts, "legacy twitter layout")

	_, err = ParseTimestamp("yesterday at noon")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	c := Contract{
		Ticker:      " btc ",
		Sentiment:   "bullish",
		Leverage:    "10x",
		EntryPrice:  64000,
		TakeProfits: []float64{66000, 68000},
		StopLoss:    62000,
		Timestamp:   "2025-06-01T12:00:00Z",
	}
	sig, err := Parse(c)
	require.NoError(t, err)
	assert.Equal(t, "BTC", sig.Ticker)
	assert.Equal(t, Long, sig.Direction)
	assert.Equal(t, 10.0, sig.Leverage)
	assert.Equal(t, 64000.0, sig.EntryPrice)
	assert.Equal(t, []float64{66000, 68000}, sig.TakeProfits)
	assert.Equal(t, 62000.0, sig.StopLoss)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), sig.Origin)

	// The parsed signal owns its take-profit slice.
	c.TakeProfits[0] = 1
	assert.Equal(t, 66000.0, sig.TakeProfits[0])
}

func TestParse_Neutral(t *testing.T) {
	_, err := Parse(Contract{Ticker: "BTC", Sentiment: "neutral"})
	assert.ErrorIs(t, err, ErrNeutral)
}

func TestParse_BadTimestamp(t *testing.T) {
	_, err := Parse(Contract{Ticker: "BTC", Sentiment: "long", Timestamp: "not a time"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() TradingSignal {
		return TradingSignal{
			Ticker:      "ETH",
			Direction:   Short,
			Leverage:    3,
			TakeProfits: []float64{3000, 2800},
			StopLoss:    3600,
		}
	}

	sig := valid()
	assert.NoError(t, sig.Validate())

	sig = valid()
	sig.Ticker = "  "
	assert.Error(t, sig.Validate(), "blank ticker")

	sig = valid()
	sig.Direction = "flat"
	assert.Error(t, sig.Validate(), "bad direction")

	sig = valid()
	sig.EntryPrice = -1
	assert.Error(t, sig.Validate(), "negative entry")

	sig = valid()
	sig.StopLoss = -5
	assert.Error(t, sig.Validate(), "negative stop")

	sig = valid()
	sig.TakeProfits = []float64{3000, 0}
	assert.Error(t, sig.Validate(), "non-positive take profit")

	sig = valid()
	sig.EntryPrice = 0
	sig.StopLoss = 0
	sig.TakeProfits = nil
	assert.NoError(t, sig.Validate(), "optional levels may all be absent")
}

func TestTickerName(t *testing.T) {
	name, ok := TickerName("btc")
	assert.True(t, ok)
	assert.Equal(t, "Bitcoin", name)

	name, ok = TickerName(" SOL ")
	assert.True(t, ok)
	assert.Equal(t, "Solana", name)

	_, ok = TickerName("NOTACOIN")
	assert.False(t, ok)
}

func TestKnownTickers(t *testing.T) {
	tickers := KnownTickers()
	assert.NotEmpty(t, tickers)
	assert.Contains(t, tickers, "BTC")
	assert.Contains(t, tickers, "ETH")
	for _, tk := range tickers {
		_, ok := TickerName(tk)
		assert.True(t, ok, "every listed ticker resolves to a name: %s", tk)
	}
}
