package repo

import (
	"context"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cacheutil "sigsim-api/internal/cache"
)

// Dependencies bundles the shared infrastructure required by repository
// implementations.
type Dependencies struct {
	DBConn sqlx.SqlConn
	Cache  cache.Cache
	TTL    cacheutil.TTLSet
}

// Set exposes strongly typed repositories to application logic.
type Set struct {
	Outcomes OutcomesRepo
	Runs     RunsRepo
	Prices   PricesRepo
}

// New constructs the repository set, validating required dependencies.
func New(deps Dependencies) (*Set, error) {
	if deps.DBConn == nil {
		return nil, errors.New("repo: missing DBConn dependency")
	}

	return &Set{
		Outcomes: newOutcomesRepo(deps),
		Runs:     newRunsRepo(deps),
		Prices:   newPricesRepo(deps),
	}, nil
}

// Cache-aside helpers shared by the repositories. Cache failures are logged
// and treated as misses so Redis outages never break reads.

func cacheGet(ctx context.Context, c cache.Cache, key string, v any) bool {
	if c == nil {
		return false
	}
	if err := c.GetCtx(ctx, key, v); err != nil {
		if !c.IsNotFound(err) {
			logx.WithContext(ctx).Errorf("get cache %s: %v", key, err)
		}
		return false
	}
	return true
}

func cacheSet(ctx context.Context, c cache.Cache, key string, ttl time.Duration, v any) {
	if c == nil || ttl <= 0 {
		return
	}
	if err := c.SetWithExpireCtx(ctx, key, v, ttl); err != nil {
		logx.WithContext(ctx).Errorf("set cache %s: %v", key, err)
	}
}

func cacheDrop(ctx context.Context, c cache.Cache, key string) {
	if c == nil {
		return
	}
	if err := c.DelCtx(ctx, key); err != nil {
		logx.WithContext(ctx).Errorf("del cache %s: %v", key, err)
	}
}
