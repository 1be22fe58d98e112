package signal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Contract mirrors the JSON shape the LLM is asked to produce per tweet.
// Leverage arrives as a string because models frequently answer "10x" or
// "none"; normalization happens here, at the boundary.
type Contract struct {
	Ticker      string    `json:"ticker" description:"Uppercase base symbol, e.g. BTC"`
	Sentiment   string    `json:"sentiment" description:"long, short or neutral"`
	Leverage    string    `json:"leverage,omitempty" description:"Leverage multiplier or none"`
	EntryPrice  float64   `json:"entry_price,omitempty" description:"Suggested entry price in USD"`
	TakeProfits []float64 `json:"take_profits,omitempty" description:"Take-profit target prices in USD"`
	StopLoss    float64   `json:"stop_loss,omitempty" description:"Stop-loss price in USD"`
	Timestamp   string    `json:"timestamp,omitempty" description:"ISO-8601 publication time of the tweet"`
}

// Parse converts an LLM contract into a validated TradingSignal.
// Neutral sentiment returns ErrNeutral so callers can drop the record without
// treating it as a failure.
func Parse(c Contract) (*TradingSignal, error) {
	dir, err := ParseDirection(c.Sentiment)
	if err != nil {
		return nil, err
	}

	sig := &TradingSignal{
		Ticker:      strings.ToUpper(strings.TrimSpace(c.Ticker)),
		Direction:   dir,
		Leverage:    ParseLeverage(c.Leverage),
		EntryPrice:  c.EntryPrice,
		TakeProfits: append([]float64(nil), c.TakeProfits...),
		StopLoss:    c.StopLoss,
	}

	if c.Timestamp != "" {
		ts, err := ParseTimestamp(c.Timestamp)
		if err != nil {
			return nil, err
		}
		sig.Origin = ts
	}

	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}

// ParseLeverage normalizes a leverage label to a positive multiplier.
// "none", garbage and non-positive values all collapse to 1.
func ParseLeverage(raw string) float64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, "x")
	if s == "" || s == "none" {
		return 1
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 1
	}
	return v
}

// twitterTimestampLayout is the created_at format the tweet API emits,
// e.g. "Wed Apr 16 23:35:00 +0000 2024".
const twitterTimestampLayout = "Mon Jan 02 15:04:05 -0700 2006"

// ParseTimestamp accepts either RFC 3339 or the legacy Twitter created_at
// layout and returns the instant in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse(twitterTimestampLayout, raw); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("signal: unrecognized timestamp %q", raw)
}
