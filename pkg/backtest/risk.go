package backtest

import "sigsim-api/pkg/signal"

// LiquidationPrice approximates the price at which a leveraged position would
// be liquidated: entry shifted by 0.9/leverage against the direction. It is a
// display heuristic, not a venue-accurate margin model. Leverage values at or
// below zero are treated as 1x.
func LiquidationPrice(entry float64, dir signal.Direction, leverage float64) float64 {
	if leverage <= 0 {
		leverage = 1
	}
	threshold := 0.9 / leverage
	if dir == signal.Long {
		return entry * (1 - threshold)
	}
	return entry * (1 + threshold)
}

// PositionPlan is the pre-trade view of a signal: sizing and risk levels
// computed before any price walk.
type PositionPlan struct {
	Ticker           string           `json:"ticker"`
	Direction        signal.Direction `json:"direction"`
	Leverage         float64          `json:"leverage"`
	EntryPrice       float64          `json:"entry_price"`
	Capital          float64          `json:"capital"`
	PositionSize     float64          `json:"position_size"`
	NotionalValue    float64          `json:"notional_value"`
	LiquidationPrice float64          `json:"liquidation_price"`
	StopLoss         float64          `json:"stop_loss,omitempty"`
	TakeProfits      []float64        `json:"take_profits,omitempty"`
}

// PlanPosition computes sizing and the liquidation level for a signal without
// simulating it. Signals with no entry price yield a zero-size plan.
func PlanPosition(sig *signal.TradingSignal, capital float64) *PositionPlan {
	if capital <= 0 {
		capital = DefaultInitialCapital
	}
	leverage := sig.Leverage
	if leverage <= 0 {
		leverage = 1
	}
	plan := &PositionPlan{
		Ticker:      sig.Ticker,
		Direction:   sig.Direction,
		Leverage:    leverage,
		EntryPrice:  sig.EntryPrice,
		Capital:     capital,
		StopLoss:    sig.StopLoss,
		TakeProfits: sig.TakeProfits,
	}
	if sig.EntryPrice > 0 {
		plan.NotionalValue = capital * leverage
		plan.PositionSize = plan.NotionalValue / sig.EntryPrice
		plan.LiquidationPrice = LiquidationPrice(sig.EntryPrice, sig.Direction, leverage)
	}
	return plan
}
