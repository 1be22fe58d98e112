package signal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Direction is the side of a trading signal. Neutral sentiment never reaches
// a Direction value; it is filtered out during parsing.
type Direction string

const (
	// Long profits when price rises.
	Long Direction = "long"
	// Short profits when price falls.
	Short Direction = "short"
)

// Sign returns +1 for Long and -1 for Short, the multiplier applied to
// (price - entry) when computing P&L.
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}

// Valid reports whether d is one of the two supported sides.
func (d Direction) Valid() bool { return d == Long || d == Short }

// ErrNeutral marks sentiment that carries no tradable direction.
var ErrNeutral = errors.New("signal: neutral sentiment")

// ParseDirection maps a sentiment label onto a Direction.
// "bullish"/"bearish" are accepted because some prompt revisions emit them.
func ParseDirection(sentiment string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(sentiment)) {
	case "long", "bullish", "buy":
		return Long, nil
	case "short", "bearish", "sell":
		return Short, nil
	case "neutral", "none", "":
		return "", ErrNeutral
	default:
		return "", fmt.Errorf("signal: unknown sentiment %q", sentiment)
	}
}

// TradingSignal is one validated trading call extracted from a tweet.
// Construction goes through Parse or Validate so that the simulation engine
// never sees a malformed record.
type TradingSignal struct {
	// Ticker is the uppercase base symbol with no trading-pair suffix.
	Ticker    string    `json:"ticker"`
	Direction Direction `json:"direction"`
	// Leverage is always positive; unparseable or non-positive input
	// normalizes to 1.
	Leverage float64 `json:"leverage"`
	// EntryPrice of zero means "use the first available price sample".
	EntryPrice float64 `json:"entry_price,omitempty"`
	// TakeProfits are target prices; each closes an equal fraction of the
	// original position when reached.
	TakeProfits []float64 `json:"take_profits,omitempty"`
	// StopLoss of zero means no stop.
	StopLoss float64 `json:"stop_loss,omitempty"`
	// Origin marks the instant the signal was published; simulation starts
	// here.
	Origin time.Time `json:"timestamp"`
	// SourceText optionally keeps the tweet the signal came from.
	SourceText string `json:"source_text,omitempty"`
}

// Validate rejects signals that would be meaningless to simulate.
func (s *TradingSignal) Validate() error {
	if strings.TrimSpace(s.Ticker) == "" {
		return errors.New("signal: ticker is required")
	}
	if !s.Direction.Valid() {
		return fmt.Errorf("signal: direction must be long or short, got %q", s.Direction)
	}
	if s.EntryPrice < 0 {
		return fmt.Errorf("signal: entry price cannot be negative, got %v", s.EntryPrice)
	}
	if s.StopLoss < 0 {
		return fmt.Errorf("signal: stop loss cannot be negative, got %v", s.StopLoss)
	}
	for i, tp := range s.TakeProfits {
		if tp <= 0 {
			return fmt.Errorf("signal: take profit %d must be positive, got %v", i, tp)
		}
	}
	return nil
}
