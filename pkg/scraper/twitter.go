package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultTwitterBaseURL = "https://api.twitter.com/2"

// maxTimelinePage is the upper bound the tweets endpoint accepts per request.
const maxTimelinePage = 100

// Twitter pulls timelines from the X API v2 using a bearer token. User ids
// are resolved once per handle and memoized for the client lifetime.
type Twitter struct {
	baseURL string
	bearer  string
	http    *http.Client
	limiter *rate.Limiter

	userIDs map[string]string
}

// TwitterOption customises the Twitter client.
type TwitterOption func(*Twitter)

// WithTwitterHTTPClient replaces the default HTTP client.
func WithTwitterHTTPClient(c *http.Client) TwitterOption {
	return func(t *Twitter) {
		if c != nil {
			t.http = c
		}
	}
}

// WithTwitterBaseURL overrides the API base URL (used by recorded tests).
func WithTwitterBaseURL(u string) TwitterOption {
	return func(t *Twitter) {
		if u != "" {
			t.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// NewTwitter constructs a timeline source. requestsPerMinute throttles
// upstream calls; zero disables throttling.
func NewTwitter(bearerToken string, requestsPerMinute int, opts ...TwitterOption) *Twitter {
	t := &Twitter{
		baseURL: defaultTwitterBaseURL,
		bearer:  bearerToken,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: newMinuteLimiter(requestsPerMinute),
		userIDs: make(map[string]string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Timeline implements Source against /users/{id}/tweets.
func (t *Twitter) Timeline(ctx context.Context, handle string, limit int) ([]Tweet, error) {
	handle = NormalizeHandle(handle)
	if handle == "" {
		return nil, ErrUnknownHandle
	}
	if limit <= 0 || limit > maxTimelinePage {
		limit = maxTimelinePage
	}

	userID, err := t.userID(ctx, handle)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("max_results", strconv.Itoa(limit))
	q.Set("tweet.fields", "created_at")

	var payload struct {
		Data []struct {
			ID        string    `json:"id"`
			Text      string    `json:"text"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"data"`
	}
	if err := t.get(ctx, "/users/"+userID+"/tweets", q, &payload); err != nil {
		return nil, fmt.Errorf("scraper: fetch timeline for %s: %w", handle, err)
	}

	out := make([]Tweet, 0, len(payload.Data))
	for _, item := range payload.Data {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		out = append(out, Tweet{
			ID:        item.ID,
			Author:    handle,
			Text:      text,
			CreatedAt: item.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (t *Twitter) userID(ctx context.Context, handle string) (string, error) {
	if id, ok := t.userIDs[handle]; ok {
		return id, nil
	}

	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := t.get(ctx, "/users/by/username/"+url.PathEscape(handle), nil, &payload); err != nil {
		return "", fmt.Errorf("scraper: resolve handle %s: %w", handle, err)
	}
	if payload.Data.ID == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	t.userIDs[handle] = payload.Data.ID
	return payload.Data.ID, nil
}

func (t *Twitter) get(ctx context.Context, path string, q url.Values, target any) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := t.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+t.bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUnknownHandle
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

func newMinuteLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}
