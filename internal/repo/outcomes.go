package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cacheutil "sigsim-api/internal/cache"
	"sigsim-api/pkg/backtest"
)

// OutcomeRecord mirrors the sim_outcomes table while normalising nullable fields.
type OutcomeRecord struct {
	ID                    int64
	RunID                 string
	Ticker                string
	Direction             string
	Leverage              float64
	EntryPrice            float64
	ExitPrice             *float64
	ExitReason            string
	ExitTime              *time.Time
	InitialCapital        float64
	RealizedPnL           float64
	UnrealizedPnL         float64
	TotalPnL              float64
	ROIPercent            float64
	MaxDrawdownPercent    float64
	PositionClosedPercent float64
	PartialExits          []backtest.PartialExit
	CreatedAt             time.Time
}

// OutcomesRepo persists and queries simulation outcomes.
type OutcomesRepo interface {
	// Save stores one outcome under the given run ID.
	Save(ctx context.Context, runID string, outcome *backtest.Outcome) error
	// ListByTicker returns recent outcomes newest first. An empty ticker
	// returns outcomes across all tickers.
	ListByTicker(ctx context.Context, ticker string, limit int) ([]OutcomeRecord, error)
}

type outcomesRepo struct {
	conn  sqlx.SqlConn
	cache cache.Cache
	ttl   cacheutil.TTLSet
}

func newOutcomesRepo(deps Dependencies) OutcomesRepo {
	return &outcomesRepo{
		conn:  deps.DBConn,
		cache: deps.Cache,
		ttl:   deps.TTL,
	}
}

func (r *outcomesRepo) Save(ctx context.Context, runID string, outcome *backtest.Outcome) error {
	if outcome == nil {
		return fmt.Errorf("outcomesRepo.Save: nil outcome")
	}

	partials, err := json.Marshal(outcome.PartialExits)
	if err != nil {
		return fmt.Errorf("outcomesRepo.Save marshal partial exits: %w", err)
	}

	var exitPrice sql.NullFloat64
	if outcome.ExitPrice != 0 {
		exitPrice = sql.NullFloat64{Float64: outcome.ExitPrice, Valid: true}
	}
	var exitTime sql.NullTime
	if !outcome.ExitTime.IsZero() {
		exitTime = sql.NullTime{Time: outcome.ExitTime, Valid: true}
	}

	const q = `
INSERT INTO public.sim_outcomes (
    run_id, ticker, direction, leverage, entry_price, exit_price, exit_reason,
    exit_time, initial_capital, realized_pnl, unrealized_pnl, total_pnl,
    roi_percent, max_drawdown_percent, position_closed_percent, partial_exits
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`

	if _, err := r.conn.ExecCtx(ctx, q,
		runID,
		outcome.Ticker,
		string(outcome.Direction),
		outcome.Leverage,
		outcome.EntryPrice,
		exitPrice,
		string(outcome.ExitReason),
		exitTime,
		outcome.InitialCapital,
		outcome.RealizedPnL,
		outcome.UnrealizedPnL,
		outcome.TotalPnL,
		outcome.ROIPercent,
		outcome.MaxDrawdownPercent,
		outcome.PositionClosedPercent,
		partials,
	); err != nil {
		return fmt.Errorf("outcomesRepo.Save insert: %w", err)
	}

	// Listings for this ticker are stale now.
	r.dropCache(ctx, cacheutil.OutcomeListKey(outcome.Ticker))
	r.dropCache(ctx, cacheutil.OutcomeListKey(""))
	return nil
}

func (r *outcomesRepo) ListByTicker(ctx context.Context, ticker string, limit int) ([]OutcomeRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	key := cacheutil.OutcomeListKey(ticker)
	var cached []OutcomeRecord
	if ok := r.getCache(ctx, key, &cached); ok && len(cached) >= limit {
		return cached[:limit], nil
	}

	query := `
SELECT
    id, run_id, ticker, direction, leverage, entry_price, exit_price,
    exit_reason, exit_time, initial_capital, realized_pnl, unrealized_pnl,
    total_pnl, roi_percent, max_drawdown_percent, position_closed_percent,
    partial_exits, created_at
FROM public.sim_outcomes
%s
ORDER BY created_at DESC
LIMIT %d`

	var (
		args   []any
		clause string
	)
	if ticker != "" {
		clause = "WHERE ticker = $1"
		args = append(args, ticker)
	}

	var rows []outcomeRow
	if err := r.conn.QueryRowsCtx(ctx, &rows, fmt.Sprintf(query, clause, limit), args...); err != nil {
		return nil, fmt.Errorf("outcomesRepo.ListByTicker query: %w", err)
	}

	records := make([]OutcomeRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	r.setCache(ctx, key, cacheutil.OutcomeListTTL(r.ttl), records)
	return records, nil
}

type outcomeRow struct {
	ID                    int64           `db:"id"`
	RunID                 string          `db:"run_id"`
	Ticker                string          `db:"ticker"`
	Direction             string          `db:"direction"`
	Leverage              float64         `db:"leverage"`
	EntryPrice            float64         `db:"entry_price"`
	ExitPrice             sql.NullFloat64 `db:"exit_price"`
	ExitReason            string          `db:"exit_reason"`
	ExitTime              sql.NullTime    `db:"exit_time"`
	InitialCapital        float64         `db:"initial_capital"`
	RealizedPnL           float64         `db:"realized_pnl"`
	UnrealizedPnL         float64         `db:"unrealized_pnl"`
	TotalPnL              float64         `db:"total_pnl"`
	ROIPercent            float64         `db:"roi_percent"`
	MaxDrawdownPercent    float64         `db:"max_drawdown_percent"`
	PositionClosedPercent float64         `db:"position_closed_percent"`
	PartialExits          []byte          `db:"partial_exits"`
	CreatedAt             time.Time       `db:"created_at"`
}

func (row outcomeRow) toRecord() (OutcomeRecord, error) {
	rec := OutcomeRecord{
		ID:                    row.ID,
		RunID:                 row.RunID,
		Ticker:                row.Ticker,
		Direction:             row.Direction,
		Leverage:              row.Leverage,
		EntryPrice:            row.EntryPrice,
		ExitReason:            row.ExitReason,
		InitialCapital:        row.InitialCapital,
		RealizedPnL:           row.RealizedPnL,
		UnrealizedPnL:         row.UnrealizedPnL,
		TotalPnL:              row.TotalPnL,
		ROIPercent:            row.ROIPercent,
		MaxDrawdownPercent:    row.MaxDrawdownPercent,
		PositionClosedPercent: row.PositionClosedPercent,
		CreatedAt:             row.CreatedAt,
	}
	if row.ExitPrice.Valid {
		value := row.ExitPrice.Float64
		rec.ExitPrice = &value
	}
	if row.ExitTime.Valid {
		value := row.ExitTime.Time
		rec.ExitTime = &value
	}
	if len(row.PartialExits) > 0 {
		if err := json.Unmarshal(row.PartialExits, &rec.PartialExits); err != nil {
			return rec, fmt.Errorf("outcomesRepo: decode partial exits for %d: %w", row.ID, err)
		}
	}
	return rec, nil
}

func (r *outcomesRepo) getCache(ctx context.Context, key string, v any) bool {
	return cacheGet(ctx, r.cache, key, v)
}

func (r *outcomesRepo) setCache(ctx context.Context, key string, ttl time.Duration, v any) {
	cacheSet(ctx, r.cache, key, ttl, v)
}

func (r *outcomesRepo) dropCache(ctx context.Context, key string) {
	cacheDrop(ctx, r.cache, key)
}
