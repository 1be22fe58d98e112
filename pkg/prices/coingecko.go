package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko fetches historical prices via the market_chart range endpoint.
// The symbol → coin-id directory is fetched lazily and kept for the client
// lifetime because /coins/list is large and rarely changes.
type CoinGecko struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter

	coinIDsMu sync.Mutex
	coinIDs   map[string]string
}

// CoinGeckoOption customises the CoinGecko client.
type CoinGeckoOption func(*CoinGecko)

// WithCoinGeckoHTTPClient replaces the default HTTP client.
func WithCoinGeckoHTTPClient(c *http.Client) CoinGeckoOption {
	return func(cg *CoinGecko) {
		if c != nil {
			cg.http = c
		}
	}
}

// WithCoinGeckoBaseURL overrides the API base URL (used by recorded tests).
func WithCoinGeckoBaseURL(u string) CoinGeckoOption {
	return func(cg *CoinGecko) {
		if u != "" {
			cg.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// NewCoinGecko constructs a CoinGecko provider.
func NewCoinGecko(apiKey string, requestsPerMinute int, opts ...CoinGeckoOption) *CoinGecko {
	cg := &CoinGecko{
		baseURL: defaultCoinGeckoBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: newMinuteLimiter(requestsPerMinute),
	}
	for _, opt := range opts {
		opt(cg)
	}
	return cg
}

// Series implements Provider against /coins/{id}/market_chart/range.
// CoinGecko chooses its own granularity for the window (typically hourly for
// day-scale ranges), so the result may be coarser than the requested step.
func (c *CoinGecko) Series(ctx context.Context, ticker string, start time.Time, steps int, step time.Duration) (Series, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("prices: steps must be positive, got %d", steps)
	}
	if step <= 0 {
		step = time.Minute
	}

	coinID, err := c.coinID(ctx, ticker)
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(steps) * step)
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("from", strconv.FormatInt(start.Unix(), 10))
	q.Set("to", strconv.FormatInt(end.Unix(), 10))

	var payload struct {
		Prices [][2]float64 `json:"prices"`
	}
	if err := c.get(ctx, fmt.Sprintf("/coins/%s/market_chart/range", coinID), q, &payload); err != nil {
		return nil, fmt.Errorf("coingecko market_chart %s: %w", coinID, err)
	}

	out := make(Series, 0, len(payload.Prices))
	for _, p := range payload.Prices {
		if p[1] <= 0 {
			continue
		}
		out = append(out, Sample{Time: time.UnixMilli(int64(p[0])).UTC(), Price: p[1]})
	}
	return out.Sorted(), nil
}

func (c *CoinGecko) coinID(ctx context.Context, ticker string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(ticker))
	if sym == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrUnknownTicker)
	}

	c.coinIDsMu.Lock()
	defer c.coinIDsMu.Unlock()

	// Load lazily but never latch a failure: a canceled context or a 429 on
	// the first call must not poison the directory for the client lifetime.
	if c.coinIDs == nil {
		if err := c.loadCoinList(ctx); err != nil {
			return "", err
		}
	}

	id, ok := c.coinIDs[sym]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTicker, sym)
	}
	return id, nil
}

func (c *CoinGecko) loadCoinList(ctx context.Context) error {
	var coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}
	if err := c.get(ctx, "/coins/list", nil, &coins); err != nil {
		return fmt.Errorf("coingecko coins/list: %w", err)
	}

	ids := make(map[string]string, len(coins))
	for _, coin := range coins {
		sym := strings.ToUpper(coin.Symbol)
		// First listing wins; duplicates are mostly wrapped or bridged variants.
		if _, exists := ids[sym]; !exists {
			ids[sym] = coin.ID
		}
	}
	c.coinIDs = ids
	return nil
}

func (c *CoinGecko) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
