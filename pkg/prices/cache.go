package prices

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
)

// cachedSeries is the on-disk msgpack layout. Timestamps are stored as unix
// milliseconds to keep entries compact across thousands of samples.
type cachedSeries struct {
	SavedAt int64     `msgpack:"saved_at"`
	Times   []int64   `msgpack:"times"`
	Prices  []float64 `msgpack:"prices"`
}

// Cache wraps a Provider with an on-disk msgpack cache keyed by the full
// request shape. Historical windows never change, so entries only expire when
// a TTL is configured (useful for windows that extend into the present).
type Cache struct {
	inner Provider
	dir   string
	ttl   time.Duration
}

// NewCache wraps inner with a file cache rooted at dir. A zero ttl keeps
// entries forever.
func NewCache(inner Provider, dir string, ttl time.Duration) (*Cache, error) {
	if inner == nil {
		return nil, fmt.Errorf("prices: cache requires an inner provider")
	}
	if dir == "" {
		return nil, fmt.Errorf("prices: cache requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prices: create cache dir: %w", err)
	}
	return &Cache{inner: inner, dir: dir, ttl: ttl}, nil
}

// Series returns the cached series when present, otherwise fetches from the
// inner provider and stores the result. Cache write failures are logged and
// swallowed; a broken cache must not break simulations.
func (c *Cache) Series(ctx context.Context, ticker string, start time.Time, steps int, step time.Duration) (Series, error) {
	path := c.entryPath(ticker, start, steps, step)
	if series, ok := c.load(path); ok {
		return series, nil
	}

	series, err := c.inner.Series(ctx, ticker, start, steps, step)
	if err != nil {
		return nil, err
	}
	if err := c.store(path, series); err != nil {
		logx.WithContext(ctx).Errorf("prices cache store %s: %v", path, err)
	}
	return series, nil
}

func (c *Cache) entryPath(ticker string, start time.Time, steps int, step time.Duration) string {
	name := fmt.Sprintf("%s_%d_%d_%d.msgpack",
		strings.ToUpper(strings.TrimSpace(ticker)), start.Unix(), steps, int64(step/time.Second))
	return filepath.Join(c.dir, name)
}

func (c *Cache) load(path string) (Series, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry cachedSeries
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if len(entry.Times) != len(entry.Prices) {
		return nil, false
	}
	if c.ttl > 0 && time.Since(time.Unix(entry.SavedAt, 0)) > c.ttl {
		return nil, false
	}
	out := make(Series, len(entry.Times))
	for i := range entry.Times {
		out[i] = Sample{Time: time.UnixMilli(entry.Times[i]).UTC(), Price: entry.Prices[i]}
	}
	return out, true
}

func (c *Cache) store(path string, series Series) error {
	entry := cachedSeries{
		SavedAt: time.Now().Unix(),
		Times:   make([]int64, len(series)),
		Prices:  make([]float64, len(series)),
	}
	for i, s := range series {
		entry.Times[i] = s.Time.UnixMilli()
		entry.Prices[i] = s.Price
	}
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
