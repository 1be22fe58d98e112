package backtest

import (
	"time"

	"sigsim-api/pkg/prices"
	"sigsim-api/pkg/signal"
)

// neutralThresholdPct: price moves within +/-2% count as flat, not as a
// confirmation of either direction.
const neutralThresholdPct = 2.0

// DefaultAccuracyOffsets are the horizons checked when the caller passes
// none.
var DefaultAccuracyOffsets = []time.Duration{time.Hour, 24 * time.Hour, 7 * 24 * time.Hour}

// AccuracyCheck grades one directional call against the realized price move
// over a single horizon.
type AccuracyCheck struct {
	Offset             time.Duration `json:"-"`
	Horizon            string        `json:"horizon"`
	BasePrice          float64       `json:"base_price"`
	TargetPrice        float64       `json:"target_price"`
	PriceChangePercent float64       `json:"price_change_pct"`
	Correct            bool          `json:"correct"`
	// Score is 0..100, scaled by the amplitude of the confirming move.
	Score float64 `json:"accuracy_score"`
}

// SentimentAccuracy grades a directional call against a price series at the
// given offsets from the series start. Offsets that reach past the end of the
// series are graded against the closest earlier sample; an empty series
// yields no checks. It is a validation view only and plays no part in the
// simulation state machine.
func SentimentAccuracy(series prices.Series, dir signal.Direction, offsets ...time.Duration) []AccuracyCheck {
	if series.Empty() {
		return nil
	}
	if len(offsets) == 0 {
		offsets = DefaultAccuracyOffsets
	}
	base := series.First()
	checks := make([]AccuracyCheck, 0, len(offsets))
	for _, offset := range offsets {
		target := sampleAtOffset(series, base.Time.Add(offset))
		changePct := 0.0
		if base.Price > 0 {
			changePct = (target.Price - base.Price) / base.Price * 100
		}
		check := AccuracyCheck{
			Offset:             offset,
			Horizon:            offset.String(),
			BasePrice:          base.Price,
			TargetPrice:        target.Price,
			PriceChangePercent: changePct,
		}
		if confirmsDirection(dir, changePct) {
			check.Correct = true
			score := absFloat(changePct) * 5
			if score > 100 {
				score = 100
			}
			check.Score = score
		}
		checks = append(checks, check)
	}
	return checks
}

func sampleAtOffset(series prices.Series, at time.Time) prices.Sample {
	for _, s := range series {
		if !s.Time.Before(at) {
			return s
		}
	}
	return series.Last()
}

func confirmsDirection(dir signal.Direction, changePct float64) bool {
	if dir == signal.Long {
		return changePct > neutralThresholdPct
	}
	return changePct < -neutralThresholdPct
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
