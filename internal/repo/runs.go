package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cacheutil "sigsim-api/internal/cache"
	"sigsim-api/pkg/backtest"
)

// RunRow mirrors the sim_runs table.
type RunRow struct {
	RunID           string    `db:"run_id"`
	Handles         []string  `db:"-"`
	TotalPositions  int64     `db:"total_positions"`
	SkippedSignals  int64     `db:"skipped_signals"`
	TotalCapital    float64   `db:"total_capital"`
	TotalPnL        float64   `db:"total_pnl"`
	ROIPercent      float64   `db:"roi_percent"`
	WinRate         float64   `db:"win_rate"`
	AverageROI      float64   `db:"average_roi"`
	AverageDrawdown float64   `db:"average_drawdown"`
	CreatedAt       time.Time `db:"created_at"`
}

// RunsRepo persists aggregated batch summaries.
type RunsRepo interface {
	// SaveSummary stores the aggregate for one pipeline run.
	SaveSummary(ctx context.Context, runID string, handles []string, summary *backtest.Summary) error
	// Get returns one run by ID.
	Get(ctx context.Context, runID string) (RunRow, error)
	// Recent returns the latest runs, newest first.
	Recent(ctx context.Context, limit int) ([]RunRow, error)
}

type runsRepo struct {
	conn  sqlx.SqlConn
	cache cache.Cache
	ttl   cacheutil.TTLSet
}

func newRunsRepo(deps Dependencies) RunsRepo {
	return &runsRepo{
		conn:  deps.DBConn,
		cache: deps.Cache,
		ttl:   deps.TTL,
	}
}

func (r *runsRepo) SaveSummary(ctx context.Context, runID string, handles []string, summary *backtest.Summary) error {
	if summary == nil {
		return fmt.Errorf("runsRepo.SaveSummary: nil summary")
	}

	const q = `
INSERT INTO public.sim_runs (
    run_id, handles, total_positions, skipped_signals, total_capital,
    total_pnl, roi_percent, win_rate, average_roi, average_drawdown
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (run_id) DO UPDATE SET
    total_positions = EXCLUDED.total_positions,
    skipped_signals = EXCLUDED.skipped_signals,
    total_capital = EXCLUDED.total_capital,
    total_pnl = EXCLUDED.total_pnl,
    roi_percent = EXCLUDED.roi_percent,
    win_rate = EXCLUDED.win_rate,
    average_roi = EXCLUDED.average_roi,
    average_drawdown = EXCLUDED.average_drawdown`

	if _, err := r.conn.ExecCtx(ctx, q,
		runID,
		pq.Array(handles),
		summary.TotalPositions,
		summary.SkippedSignals,
		summary.TotalCapital,
		summary.TotalPnL,
		summary.ROIPercent,
		summary.WinRate,
		summary.AverageROI,
		summary.AverageDrawdown,
	); err != nil {
		return fmt.Errorf("runsRepo.SaveSummary insert: %w", err)
	}

	cacheDrop(ctx, r.cache, cacheutil.RunSummaryKey(runID))
	return nil
}

func (r *runsRepo) Get(ctx context.Context, runID string) (RunRow, error) {
	if runID == "" {
		return RunRow{}, fmt.Errorf("runsRepo.Get: empty run id")
	}

	key := cacheutil.RunSummaryKey(runID)
	var cached RunRow
	if cacheGet(ctx, r.cache, key, &cached) {
		return cached, nil
	}

	const q = `
SELECT
    run_id, handles, total_positions, skipped_signals, total_capital,
    total_pnl, roi_percent, win_rate, average_roi, average_drawdown, created_at
FROM public.sim_runs
WHERE run_id = $1`

	rawDB, err := r.conn.RawDB()
	if err != nil {
		return RunRow{}, fmt.Errorf("runsRepo.Get raw db: %w", err)
	}

	var (
		row     RunRow
		handles pq.StringArray
		created sql.NullTime
	)
	if err := rawDB.QueryRowContext(ctx, q, runID).Scan(
		&row.RunID, &handles, &row.TotalPositions, &row.SkippedSignals,
		&row.TotalCapital, &row.TotalPnL, &row.ROIPercent, &row.WinRate,
		&row.AverageROI, &row.AverageDrawdown, &created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRow{}, sqlx.ErrNotFound
		}
		return RunRow{}, fmt.Errorf("runsRepo.Get scan: %w", err)
	}
	row.Handles = handles
	if created.Valid {
		row.CreatedAt = created.Time
	}

	cacheSet(ctx, r.cache, key, cacheutil.RunSummaryTTL(r.ttl), row)
	return row, nil
}

func (r *runsRepo) Recent(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
SELECT
    run_id, handles, total_positions, skipped_signals, total_capital,
    total_pnl, roi_percent, win_rate, average_roi, average_drawdown, created_at
FROM public.sim_runs
ORDER BY created_at DESC
LIMIT %d`, limit)

	rawDB, err := r.conn.RawDB()
	if err != nil {
		return nil, fmt.Errorf("runsRepo.Recent raw db: %w", err)
	}

	// Scanned by hand because pq.Array does not compose with the struct scanner.
	rows, err := rawDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("runsRepo.Recent query: %w", err)
	}
	defer rows.Close()

	var result []RunRow
	for rows.Next() {
		var (
			row     RunRow
			handles pq.StringArray
			created sql.NullTime
		)
		if err := rows.Scan(
			&row.RunID, &handles, &row.TotalPositions, &row.SkippedSignals,
			&row.TotalCapital, &row.TotalPnL, &row.ROIPercent, &row.WinRate,
			&row.AverageROI, &row.AverageDrawdown, &created,
		); err != nil {
			return nil, fmt.Errorf("runsRepo.Recent scan: %w", err)
		}
		row.Handles = handles
		if created.Valid {
			row.CreatedAt = created.Time
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runsRepo.Recent rows: %w", err)
	}
	return result, nil
}
