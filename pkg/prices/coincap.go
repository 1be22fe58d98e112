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

const defaultCoinCapBaseURL = "https://rest.coincap.io/v3"

// CoinCap fetches historical prices from the CoinCap REST API.
// Asset ids are resolved once per ticker and memoized for the client lifetime.
type CoinCap struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter

	assetIDsMu sync.RWMutex
	assetIDs   map[string]string
}

// CoinCapOption customises the CoinCap client.
type CoinCapOption func(*CoinCap)

// WithCoinCapHTTPClient replaces the default HTTP client.
func WithCoinCapHTTPClient(c *http.Client) CoinCapOption {
	return func(cc *CoinCap) {
		if c != nil {
			cc.http = c
		}
	}
}

// WithCoinCapBaseURL overrides the API base URL (used by recorded tests).
func WithCoinCapBaseURL(u string) CoinCapOption {
	return func(cc *CoinCap) {
		if u != "" {
			cc.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// NewCoinCap constructs a CoinCap provider. requestsPerMinute throttles
// upstream calls; zero disables throttling.
func NewCoinCap(apiKey string, requestsPerMinute int, opts ...CoinCapOption) *CoinCap {
	cc := &CoinCap{
		baseURL:  defaultCoinCapBaseURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
		limiter:  newMinuteLimiter(requestsPerMinute),
		assetIDs: make(map[string]string),
	}
	for _, opt := range opts {
		opt(cc)
	}
	return cc
}

// Series implements Provider against /assets/{id}/history with interval m1.
func (c *CoinCap) Series(ctx context.Context, ticker string, start time.Time, steps int, step time.Duration) (Series, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("prices: steps must be positive, got %d", steps)
	}
	if step <= 0 {
		step = time.Minute
	}

	assetID, err := c.assetID(ctx, ticker)
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(steps) * step)
	q := url.Values{}
	q.Set("interval", "m1")
	q.Set("start", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("end", strconv.FormatInt(end.UnixMilli(), 10))

	var payload struct {
		Data []struct {
			PriceUsd string `json:"priceUsd"`
			Time     int64  `json:"time"`
		} `json:"data"`
	}
	if err := c.get(ctx, fmt.Sprintf("/assets/%s/history", assetID), q, &payload); err != nil {
		return nil, fmt.Errorf("coincap history %s: %w", assetID, err)
	}

	out := make(Series, 0, len(payload.Data))
	for _, p := range payload.Data {
		px, err := strconv.ParseFloat(p.PriceUsd, 64)
		if err != nil || px <= 0 {
			continue
		}
		out = append(out, Sample{Time: time.UnixMilli(p.Time).UTC(), Price: px})
	}
	return out.Sorted(), nil
}

// assetID resolves a ticker to a CoinCap asset id, preferring exact symbol
// matches and falling back to the first search hit.
func (c *CoinCap) assetID(ctx context.Context, ticker string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(ticker))
	if sym == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrUnknownTicker)
	}
	c.assetIDsMu.RLock()
	id, ok := c.assetIDs[sym]
	c.assetIDsMu.RUnlock()
	if ok {
		return id, nil
	}

	q := url.Values{}
	q.Set("search", sym)
	q.Set("limit", "10")

	var payload struct {
		Data []struct {
			ID     string `json:"id"`
			Symbol string `json:"symbol"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/assets", q, &payload); err != nil {
		return "", fmt.Errorf("coincap search %s: %w", sym, err)
	}

	for _, a := range payload.Data {
		if strings.EqualFold(a.Symbol, sym) {
			c.memoizeAssetID(sym, a.ID)
			return a.ID, nil
		}
	}
	if len(payload.Data) > 0 {
		c.memoizeAssetID(sym, payload.Data[0].ID)
		return payload.Data[0].ID, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTicker, sym)
}

func (c *CoinCap) memoizeAssetID(sym, id string) {
	c.assetIDsMu.Lock()
	c.assetIDs[sym] = id
	c.assetIDsMu.Unlock()
}

func (c *CoinCap) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

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

func newMinuteLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}
