package backtest

import (
	"sigsim-api/pkg/prices"
	"sigsim-api/pkg/signal"
)

// closeEpsilon is the fraction of the original position size below which the
// position counts as fully closed.
const closeEpsilon = 0.001

// DefaultInitialCapital is allocated per position when the caller does not
// specify one.
const DefaultInitialCapital = 100.0

// Simulate walks a price series forward applying stop-loss and take-profit
// rules to one signal and returns the resulting outcome. It never returns an
// error: malformed numeric inputs fall back to documented defaults and an
// empty series yields an ExitNoData outcome.
func Simulate(sig *signal.TradingSignal, series prices.Series, initialCapital float64) *Outcome {
	if initialCapital <= 0 {
		initialCapital = DefaultInitialCapital
	}
	leverage := sig.Leverage
	if leverage <= 0 || leverage != leverage { // non-positive or NaN
		leverage = 1
	}

	out := &Outcome{
		Ticker:         sig.Ticker,
		Direction:      sig.Direction,
		Leverage:       leverage,
		InitialCapital: initialCapital,
		MaxCapitalSeen: initialCapital,
		MinCapitalSeen: initialCapital,
	}
	if series.Empty() {
		out.ExitReason = ExitNoData
		return out
	}

	entry := sig.EntryPrice
	if entry <= 0 {
		entry = series.First().Price
	}
	out.EntryPrice = entry

	// Sizing is fixed at entry and never recomputed.
	originalSize := initialCapital * leverage / entry
	// Each take-profit closes an equal share of the ORIGINAL size, so hitting
	// all levels closes exactly 100%.
	perTPSize := 0.0
	if k := len(sig.TakeProfits); k > 0 {
		perTPSize = originalSize / float64(k)
	}

	dir := sig.Direction.Sign()
	remaining := originalSize
	epsilon := closeEpsilon * originalSize
	tpHit := make(map[float64]bool, len(sig.TakeProfits))

	for _, sample := range series {
		px := sample.Price

		// Stop-loss first: in a step where both trigger, the stop closes
		// everything and no partial exit is recorded.
		if sig.StopLoss > 0 && stopLossBreached(sig.Direction, px, sig.StopLoss) {
			out.RealizedPnL += dir * (sig.StopLoss - entry) * remaining
			remaining = 0
			out.ExitReason = ExitStopLoss
			out.ExitPrice = sig.StopLoss
			out.ExitTime = sample.Time
			break
		}

		for _, level := range sig.TakeProfits {
			if tpHit[level] || !takeProfitReached(sig.Direction, px, level) {
				continue
			}
			exitSize := perTPSize
			if exitSize > remaining {
				exitSize = remaining
			}
			pnl := dir * (level - entry) * exitSize
			out.RealizedPnL += pnl
			remaining -= exitSize
			tpHit[level] = true
			out.PartialExits = append(out.PartialExits, PartialExit{
				Level:     level,
				ExitPrice: level,
				Fraction:  exitSize / originalSize,
				PnL:       pnl,
				Time:      sample.Time,
			})
			if remaining <= epsilon {
				remaining = 0
				out.ExitReason = ExitAllTakeProfits
				out.ExitPrice = level
				out.ExitTime = sample.Time
				break
			}
		}
		if out.ExitReason == ExitAllTakeProfits {
			break
		}

		out.UnrealizedPnL = dir * (px - entry) * remaining
		equity := initialCapital + out.RealizedPnL + out.UnrealizedPnL
		if equity > out.MaxCapitalSeen {
			out.MaxCapitalSeen = equity
		}
		if equity < out.MinCapitalSeen {
			out.MinCapitalSeen = equity
		}
	}

	if out.ExitReason == "" {
		last := series.Last()
		out.ExitReason = ExitStillOpen
		out.ExitPrice = last.Price
		out.ExitTime = last.Time
		out.UnrealizedPnL = dir * (last.Price - entry) * remaining
	} else {
		out.UnrealizedPnL = 0
	}

	out.TotalPnL = out.RealizedPnL + out.UnrealizedPnL
	out.ROIPercent = out.TotalPnL / initialCapital * 100
	if out.MaxCapitalSeen > 0 {
		out.MaxDrawdownPercent = (out.MaxCapitalSeen - out.MinCapitalSeen) / out.MaxCapitalSeen * 100
	}
	out.PositionClosedPercent = (1 - remaining/originalSize) * 100
	return out
}

func stopLossBreached(dir signal.Direction, px, stop float64) bool {
	if dir == signal.Long {
		return px <= stop
	}
	return px >= stop
}

func takeProfitReached(dir signal.Direction, px, level float64) bool {
	if dir == signal.Long {
		return px >= level
	}
	return px <= level
}
