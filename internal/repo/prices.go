package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cacheutil "sigsim-api/internal/cache"
	"sigsim-api/pkg/prices"
)

// PriceTick is one stored price observation for a ticker.
type PriceTick struct {
	Ticker string    `db:"ticker" json:"ticker"`
	Price  float64   `db:"price" json:"price"`
	Time   time.Time `db:"ts" json:"time"`
}

// PricesRepo persists observed price samples and serves the latest tick per
// ticker, cache-first.
type PricesRepo interface {
	// SaveTicks stores a fetched series for a ticker and refreshes the
	// latest-price cache entry.
	SaveTicks(ctx context.Context, ticker string, series prices.Series) error
	// Latest returns the most recently observed price for a ticker.
	Latest(ctx context.Context, ticker string) (PriceTick, error)
}

type pricesRepo struct {
	conn  sqlx.SqlConn
	cache cache.Cache
	ttl   cacheutil.TTLSet
}

func newPricesRepo(deps Dependencies) PricesRepo {
	return &pricesRepo{
		conn:  deps.DBConn,
		cache: deps.Cache,
		ttl:   deps.TTL,
	}
}

func (r *pricesRepo) SaveTicks(ctx context.Context, ticker string, series prices.Series) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return fmt.Errorf("pricesRepo.SaveTicks: empty ticker")
	}
	if series.Empty() {
		return nil
	}

	const q = `
INSERT INTO public.sim_price_ticks (ticker, price, ts)
VALUES ($1, $2, $3)
ON CONFLICT (ticker, ts) DO UPDATE SET price = EXCLUDED.price`

	for _, sample := range series {
		if _, err := r.conn.ExecCtx(ctx, q, ticker, sample.Price, sample.Time.UTC()); err != nil {
			return fmt.Errorf("pricesRepo.SaveTicks insert %s: %w", ticker, err)
		}
	}

	last := series.Last()
	tick := PriceTick{Ticker: ticker, Price: last.Price, Time: last.Time.UTC()}
	cacheSet(ctx, r.cache, cacheutil.PriceLatestKey(ticker), cacheutil.PriceTTL(r.ttl), tick)
	return nil
}

func (r *pricesRepo) Latest(ctx context.Context, ticker string) (PriceTick, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return PriceTick{}, fmt.Errorf("pricesRepo.Latest: empty ticker")
	}

	key := cacheutil.PriceLatestKey(ticker)
	var cached PriceTick
	if cacheGet(ctx, r.cache, key, &cached) {
		return cached, nil
	}

	const q = `
SELECT ticker, price, ts
FROM public.sim_price_ticks
WHERE ticker = $1
ORDER BY ts DESC
LIMIT 1`

	var tick PriceTick
	if err := r.conn.QueryRowCtx(ctx, &tick, q, ticker); err != nil {
		return PriceTick{}, fmt.Errorf("pricesRepo.Latest %s: %w", ticker, err)
	}

	cacheSet(ctx, r.cache, key, cacheutil.PriceTTL(r.ttl), tick)
	return tick, nil
}
