// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type HealthResp struct {
	Status string `json:"status"`
	Env    string `json:"env"`
}

// TweetInput carries one post to analyze. CreatedAt is RFC3339; when empty
// the extraction time is used as the signal origin.
type TweetInput struct {
	ID        string `json:"id,optional"`
	Author    string `json:"author,optional"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,optional"`
}

type AnalyzeReq struct {
	// Handle pulls the timeline of one account; Tweets analyzes inline posts.
	// Exactly one of the two must be provided.
	Handle string       `json:"handle,optional"`
	Limit  int          `json:"limit,optional"`
	Tweets []TweetInput `json:"tweets,optional"`
}

type SignalView struct {
	Ticker      string    `json:"ticker"`
	Direction   string    `json:"direction"`
	Leverage    float64   `json:"leverage"`
	EntryPrice  float64   `json:"entry_price,omitempty"`
	TakeProfits []float64 `json:"take_profits"`
	StopLoss    float64   `json:"stop_loss,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	SourceText  string    `json:"source_text,omitempty"`
}

type AnalyzeResp struct {
	Signals []SignalView `json:"signals"`
	Skipped int          `json:"skipped"`
}

// SignalInput mirrors SignalView for requests; Origin is RFC3339.
type SignalInput struct {
	Ticker      string    `json:"ticker"`
	Direction   string    `json:"direction"`
	Leverage    float64   `json:"leverage,optional"`
	EntryPrice  float64   `json:"entry_price,optional"`
	TakeProfits []float64 `json:"take_profits,optional"`
	StopLoss    float64   `json:"stop_loss,optional"`
	Origin      string    `json:"origin,optional"`
}

type SimulateReq struct {
	Signal SignalInput `json:"signal"`
}

type PartialExitView struct {
	Level     float64 `json:"level"`
	ExitPrice float64 `json:"exit_price"`
	Fraction  float64 `json:"fraction"`
	PnL       float64 `json:"pnl"`
	Time      string  `json:"time"`
}

type OutcomeView struct {
	Ticker                string            `json:"ticker"`
	Direction             string            `json:"direction"`
	Leverage              float64           `json:"leverage"`
	EntryPrice            float64           `json:"entry_price"`
	ExitPrice             float64           `json:"exit_price,omitempty"`
	ExitReason            string            `json:"exit_reason"`
	ExitTime              string            `json:"exit_time,omitempty"`
	InitialCapital        float64           `json:"initial_capital"`
	RealizedPnL           float64           `json:"realized_pnl"`
	UnrealizedPnL         float64           `json:"unrealized_pnl"`
	TotalPnL              float64           `json:"total_pnl"`
	ROIPercent            float64           `json:"roi_percent"`
	MaxDrawdownPercent    float64           `json:"max_drawdown_percent"`
	PositionClosedPercent float64           `json:"position_closed_percent"`
	PartialExits          []PartialExitView `json:"partial_exits"`
}

type SimulateResp struct {
	Outcome OutcomeView `json:"outcome"`
}

type SimulateBatchReq struct {
	Signals []SignalInput `json:"signals"`
}

type SummaryView struct {
	Empty           bool         `json:"empty"`
	TotalPositions  int          `json:"total_positions"`
	TotalCapital    float64      `json:"total_capital"`
	TotalPnL        float64      `json:"total_pnl"`
	ROIPercent      float64      `json:"roi_percent"`
	ProfitableCount int          `json:"profitable_count"`
	LosingCount     int          `json:"losing_count"`
	WinRate         float64      `json:"win_rate"`
	AverageROI      float64      `json:"average_roi"`
	AverageDrawdown float64      `json:"average_drawdown"`
	SkippedSignals  int          `json:"skipped_signals"`
	BestTrade       *OutcomeView `json:"best_trade,omitempty"`
	WorstTrade      *OutcomeView `json:"worst_trade,omitempty"`
}

type SimulateBatchResp struct {
	Summary  SummaryView   `json:"summary"`
	Outcomes []OutcomeView `json:"outcomes"`
}

type OutcomesReq struct {
	Ticker string `form:"ticker,optional"`
	Limit  int    `form:"limit,optional"`
}

type StoredOutcomeView struct {
	RunID   string      `json:"run_id"`
	Saved   string      `json:"saved_at"`
	Outcome OutcomeView `json:"outcome"`
}

type OutcomesResp struct {
	Outcomes []StoredOutcomeView `json:"outcomes"`
}

type RunsReq struct {
	Limit int `form:"limit,optional"`
}

type RunView struct {
	RunID           string   `json:"run_id"`
	Handles         []string `json:"handles"`
	TotalPositions  int64    `json:"total_positions"`
	SkippedSignals  int64    `json:"skipped_signals"`
	TotalPnL        float64  `json:"total_pnl"`
	ROIPercent      float64  `json:"roi_percent"`
	WinRate         float64  `json:"win_rate"`
	CreatedAt       string   `json:"created_at"`
	AverageROI      float64  `json:"average_roi"`
	AverageDrawdown float64  `json:"average_drawdown"`
}

type RunsResp struct {
	Runs []RunView `json:"runs"`
}

type RunReq struct {
	RunID string `path:"runId"`
}

type RunResp struct {
	Run RunView `json:"run"`
}

type ModelView struct {
	Alias     string `json:"alias"`
	Provider  string `json:"provider,omitempty"`
	ModelName string `json:"model_name"`
}

type ModelsResp struct {
	DefaultModel string      `json:"default_model"`
	Models       []ModelView `json:"models"`
}

// PositionReq asks for the pre-trade view of a signal: sizing, notional and
// the liquidation level, without running a simulation.
type PositionReq struct {
	Signal  SignalInput `json:"signal"`
	Capital float64     `json:"capital,optional"`
}

type PositionView struct {
	Ticker           string    `json:"ticker"`
	Direction        string    `json:"direction"`
	Leverage         float64   `json:"leverage"`
	EntryPrice       float64   `json:"entry_price"`
	Capital          float64   `json:"capital"`
	PositionSize     float64   `json:"position_size"`
	NotionalValue    float64   `json:"notional_value"`
	LiquidationPrice float64   `json:"liquidation_price"`
	StopLoss         float64   `json:"stop_loss,omitempty"`
	TakeProfits      []float64 `json:"take_profits,omitempty"`
}

type PositionResp struct {
	Plan PositionView `json:"plan"`
}

// AccuracyReq grades a directional call against realized price moves from
// Origin onward. Origin defaults to one simulation window in the past.
type AccuracyReq struct {
	Ticker    string `form:"ticker"`
	Direction string `form:"direction"`
	Origin    string `form:"origin,optional"`
}

type AccuracyCheckView struct {
	Horizon            string  `json:"horizon"`
	BasePrice          float64 `json:"base_price"`
	TargetPrice        float64 `json:"target_price"`
	PriceChangePercent float64 `json:"price_change_pct"`
	Correct            bool    `json:"correct"`
	Score              float64 `json:"accuracy_score"`
}

type AccuracyResp struct {
	Ticker    string              `json:"ticker"`
	Direction string              `json:"direction"`
	Origin    string              `json:"origin"`
	Checks    []AccuracyCheckView `json:"checks"`
}
