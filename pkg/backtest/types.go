package backtest

import (
	"time"

	"sigsim-api/pkg/signal"
)

// ExitReason tells how a simulated position ended.
type ExitReason string

const (
	// ExitStopLoss: the stop level was breached and the remaining position
	// closed at the stop price.
	ExitStopLoss ExitReason = "stop_loss"
	// ExitAllTakeProfits: every take-profit level triggered and the position
	// is fully closed.
	ExitAllTakeProfits ExitReason = "all_take_profits_hit"
	// ExitStillOpen: the price series ran out with part of the position open.
	ExitStillOpen ExitReason = "position_still_open"
	// ExitNoData: the price series was empty; nothing was simulated.
	ExitNoData ExitReason = "no_price_data"
)

// PartialExit records one take-profit fill.
type PartialExit struct {
	Level     float64   `json:"tp_level"`
	ExitPrice float64   `json:"exit_price"`
	// Fraction is relative to the original position size.
	Fraction float64   `json:"exit_fraction"`
	PnL      float64   `json:"pnl"`
	Time     time.Time `json:"time"`
}

// Outcome is the immutable result of simulating one signal against one price
// series.
type Outcome struct {
	Ticker     string           `json:"ticker"`
	Direction  signal.Direction `json:"direction"`
	Leverage   float64          `json:"leverage"`
	EntryPrice float64          `json:"entry_price"`

	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	ExitTime   time.Time  `json:"exit_time,omitempty"`

	InitialCapital float64 `json:"initial_capital"`
	RealizedPnL    float64 `json:"realized_pnl"`
	UnrealizedPnL  float64 `json:"unrealized_pnl"`
	TotalPnL       float64 `json:"total_pnl"`
	ROIPercent     float64 `json:"roi_percent"`

	MaxCapitalSeen     float64 `json:"max_capital_seen"`
	MinCapitalSeen     float64 `json:"min_capital_seen"`
	MaxDrawdownPercent float64 `json:"max_drawdown_percent"`

	PartialExits          []PartialExit `json:"partial_exits,omitempty"`
	PositionClosedPercent float64       `json:"position_closed_percent"`
}

// Closed reports whether the walk terminated the position before the series
// ran out.
func (o *Outcome) Closed() bool {
	return o.ExitReason == ExitStopLoss || o.ExitReason == ExitAllTakeProfits
}

// Summary aggregates a batch of outcomes.
type Summary struct {
	// Empty flags an aggregation over zero outcomes; every other field is
	// zero in that case.
	Empty bool `json:"empty,omitempty"`

	TotalPositions int     `json:"total_positions"`
	TotalCapital   float64 `json:"total_capital"`
	TotalPnL       float64 `json:"total_pnl"`
	ROIPercent     float64 `json:"roi_percent"`

	ProfitableCount int     `json:"profitable_positions"`
	LosingCount     int     `json:"losing_positions"`
	WinRate         float64 `json:"win_rate"`
	AverageROI      float64 `json:"average_roi"`
	AverageDrawdown float64 `json:"average_drawdown"`

	BestTrade  *Outcome `json:"best_trade,omitempty"`
	WorstTrade *Outcome `json:"worst_trade,omitempty"`

	// SkippedSignals counts signals dropped for missing identity or missing
	// price data during a batch run.
	SkippedSignals int `json:"skipped_signals,omitempty"`

	Outcomes []*Outcome `json:"positions,omitempty"`
}
