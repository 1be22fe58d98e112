//go:build integration
// +build integration

package repo_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/cache"

	appconfig "sigsim-api/internal/config"
	"sigsim-api/internal/svc"
	"sigsim-api/pkg/backtest"
	"sigsim-api/pkg/confkit"
	"sigsim-api/pkg/prices"
	"sigsim-api/pkg/signal"
)

func newIntegrationServiceContext(t *testing.T) *svc.ServiceContext {
	t.Helper()
	cfg := appconfig.MustLoad(confkit.MustProjectPath("etc/sigsim.yaml"))
	return svc.NewServiceContext(*cfg)
}

func TestPostgresConnectivity(t *testing.T) {
	svcCtx := newIntegrationServiceContext(t)
	db := requirePostgres(t, svcCtx)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var one int
	err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	assert.NoError(t, err, "postgres connectivity check failed")
	assert.Equal(t, 1, one, "postgres returned unexpected value")
}

func TestRedisConnectivity(t *testing.T) {
	svcCtx := newIntegrationServiceContext(t)
	cacheClient := requireCache(t, svcCtx)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := fmt.Sprintf("sigsim:integration:%d", time.Now().UnixNano())
	const payload = "ok"

	err := cacheClient.SetWithExpireCtx(ctx, key, payload, 10*time.Second)
	assert.NoError(t, err, "cache set failed")
	defer cacheClient.DelCtx(context.Background(), key)

	var value string
	err = cacheClient.GetCtx(ctx, key, &value)
	assert.NoError(t, err, "cache get failed")
	assert.Equal(t, payload, value, "cache value mismatch")
}

func TestOutcomeRoundTrip(t *testing.T) {
	svcCtx := newIntegrationServiceContext(t)
	requirePostgres(t, svcCtx)
	require.NotNil(t, svcCtx.Repo, "repositories not initialised")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	runID := fmt.Sprintf("itest-%d", time.Now().UnixNano())
	outcome := &backtest.Outcome{
		Ticker:                "BTC",
		Direction:             signal.Long,
		Leverage:              10,
		EntryPrice:            63000,
		ExitPrice:             60000,
		ExitReason:            backtest.ExitStopLoss,
		ExitTime:              time.Now().UTC().Truncate(time.Second),
		InitialCapital:        100,
		RealizedPnL:           -47.6,
		TotalPnL:              -47.6,
		ROIPercent:            -47.6,
		PositionClosedPercent: 100,
	}

	require.NoError(t, svcCtx.Repo.Outcomes.Save(ctx, runID, outcome))

	records, err := svcCtx.Repo.Outcomes.ListByTicker(ctx, "BTC", 10)
	require.NoError(t, err)

	found := false
	for _, rec := range records {
		if rec.RunID == runID {
			found = true
			assert.Equal(t, "BTC", rec.Ticker)
			assert.Equal(t, string(backtest.ExitStopLoss), rec.ExitReason)
		}
	}
	assert.True(t, found, "saved outcome not returned by ListByTicker")
}

func TestPriceTickRoundTrip(t *testing.T) {
	svcCtx := newIntegrationServiceContext(t)
	requirePostgres(t, svcCtx)
	require.NotNil(t, svcCtx.Repo, "repositories not initialised")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Second)
	series := prices.Series{
		{Time: now.Add(-2 * time.Minute), Price: 63000},
		{Time: now.Add(-time.Minute), Price: 63100},
		{Time: now, Price: 63250},
	}

	require.NoError(t, svcCtx.Repo.Prices.SaveTicks(ctx, "btc", series))

	tick, err := svcCtx.Repo.Prices.Latest(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, "BTC", tick.Ticker)
	assert.Equal(t, 63250.0, tick.Price)
	assert.False(t, tick.Time.Before(now), "latest tick should be the newest sample")
}

func requirePostgres(t *testing.T, svcCtx *svc.ServiceContext) *sql.DB {
	t.Helper()
	if svcCtx.DBConn == nil {
		t.Skip("Postgres not configured (DBConn nil)")
	}
	raw, err := svcCtx.DBConn.RawDB()
	if err != nil {
		t.Fatalf("failed to obtain postgres handle: %v", err)
	}
	return raw
}

func requireCache(t *testing.T, svcCtx *svc.ServiceContext) cache.Cache {
	t.Helper()
	if svcCtx.Cache == nil {
		t.Skip("cache not configured (Cache nil)")
	}
	return svcCtx.Cache
}
