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

const defaultMoralisBaseURL = "https://deep-index.moralis.io/api/v2"

// Moralis resolves ERC-20 token prices block by block. It is the slowest of
// the real providers (one dateToBlock plus one price call per sample), so it
// defaults to hourly sampling regardless of the requested step.
type Moralis struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter

	addressesMu sync.RWMutex
	addresses   map[string]string
}

// MoralisOption customises the Moralis client.
type MoralisOption func(*Moralis)

// WithMoralisHTTPClient replaces the default HTTP client.
func WithMoralisHTTPClient(c *http.Client) MoralisOption {
	return func(m *Moralis) {
		if c != nil {
			m.http = c
		}
	}
}

// WithMoralisBaseURL overrides the API base URL (used by recorded tests).
func WithMoralisBaseURL(u string) MoralisOption {
	return func(m *Moralis) {
		if u != "" {
			m.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// NewMoralis constructs a Moralis provider.
func NewMoralis(apiKey string, requestsPerMinute int, opts ...MoralisOption) *Moralis {
	m := &Moralis{
		baseURL:   defaultMoralisBaseURL,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: 15 * time.Second},
		limiter:   newMinuteLimiter(requestsPerMinute),
		addresses: make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Series implements Provider. Sampling is clamped to hourly; a 24h window
// costs roughly 48 upstream calls, which the limiter spreads out.
func (m *Moralis) Series(ctx context.Context, ticker string, start time.Time, steps int, step time.Duration) (Series, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("prices: steps must be positive, got %d", steps)
	}
	if step < time.Hour {
		// Convert a fine-grained request into the equivalent hourly window.
		steps = int((time.Duration(steps)*step + time.Hour - 1) / time.Hour)
		if steps == 0 {
			steps = 1
		}
		step = time.Hour
	}

	addr, err := m.tokenAddress(ctx, ticker)
	if err != nil {
		return nil, err
	}

	out := make(Series, 0, steps)
	for i := 0; i < steps; i++ {
		at := start.Add(time.Duration(i) * step)
		block, err := m.blockAt(ctx, at)
		if err != nil {
			return nil, fmt.Errorf("moralis dateToBlock %s: %w", at.Format(time.RFC3339), err)
		}
		px, err := m.priceAtBlock(ctx, addr, block)
		if err != nil {
			return nil, fmt.Errorf("moralis price %s@%d: %w", ticker, block, err)
		}
		if px > 0 {
			out = append(out, Sample{Time: at.UTC(), Price: px})
		}
	}
	return out, nil
}

func (m *Moralis) tokenAddress(ctx context.Context, ticker string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(ticker))
	if sym == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrUnknownTicker)
	}
	m.addressesMu.RLock()
	addr, ok := m.addresses[sym]
	m.addressesMu.RUnlock()
	if ok {
		return addr, nil
	}

	q := url.Values{}
	q.Add("symbols", sym)
	q.Set("chain", "eth")

	var tokens []struct {
		Address string `json:"address"`
		Symbol  string `json:"symbol"`
	}
	if err := m.get(ctx, "/erc20/metadata/symbols", q, &tokens); err != nil {
		return "", fmt.Errorf("moralis metadata %s: %w", sym, err)
	}
	for _, tok := range tokens {
		if strings.EqualFold(tok.Symbol, sym) && tok.Address != "" {
			m.addressesMu.Lock()
			m.addresses[sym] = tok.Address
			m.addressesMu.Unlock()
			return tok.Address, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTicker, sym)
}

func (m *Moralis) blockAt(ctx context.Context, at time.Time) (int64, error) {
	q := url.Values{}
	q.Set("chain", "eth")
	q.Set("date", strconv.FormatInt(at.Unix(), 10))

	var payload struct {
		Block int64 `json:"block"`
	}
	if err := m.get(ctx, "/dateToBlock", q, &payload); err != nil {
		return 0, err
	}
	if payload.Block <= 0 {
		return 0, fmt.Errorf("no block for %s", at.Format(time.RFC3339))
	}
	return payload.Block, nil
}

func (m *Moralis) priceAtBlock(ctx context.Context, addr string, block int64) (float64, error) {
	q := url.Values{}
	q.Set("chain", "eth")
	q.Set("to_block", strconv.FormatInt(block, 10))

	var payload struct {
		UsdPrice float64 `json:"usdPrice"`
	}
	if err := m.get(ctx, "/erc20/"+addr+"/price", q, &payload); err != nil {
		return 0, err
	}
	return payload.UsdPrice, nil
}

func (m *Moralis) get(ctx context.Context, path string, q url.Values, out any) error {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", m.apiKey)

	resp, err := m.http.Do(req)
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
