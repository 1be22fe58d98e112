package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSourceDeterministic(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC) }
	src := NewMockSource(WithClock(clock))

	first, err := src.Timeline(context.Background(), "@cryptocaller", 5)
	require.NoError(t, err)
	second, err := src.Timeline(context.Background(), "cryptocaller", 5)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same handle and clock yield the same timeline")
	require.Len(t, first, 5)
	assert.Equal(t, "cryptocaller", first[0].Author, "@ prefix is stripped")
	assert.True(t, first[0].CreatedAt.After(first[4].CreatedAt), "newest first")

	other, err := src.Timeline(context.Background(), "someoneelse", 5)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].Text, other[0].Text, "different handles rotate through different templates")
}

func TestMockSourceEmptyHandle(t *testing.T) {
	src := NewMockSource()
	_, err := src.Timeline(context.Background(), "  ", 5)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestTwitterTimeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/users/by/username/"):
			_, _ = w.Write([]byte(`{"data":{"id":"12345"}}`))
		case strings.HasPrefix(r.URL.Path, "/users/12345/tweets"):
			assert.Equal(t, "5", r.URL.Query().Get("max_results"))
			_, _ = w.Write([]byte(`{"data":[
				{"id":"t1","text":"$BTC long here","created_at":"2025-03-01T12:00:00Z"},
				{"id":"t2","text":"  ","created_at":"2025-03-01T11:00:00Z"},
				{"id":"t3","text":"$ETH looking heavy","created_at":"2025-03-01T10:00:00Z"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	src := NewTwitter("test-token", 0,
		WithTwitterBaseURL(server.URL),
		WithTwitterHTTPClient(server.Client()),
	)

	tweets, err := src.Timeline(context.Background(), "@cryptocaller", 5)
	require.NoError(t, err)
	require.Len(t, tweets, 2, "blank tweets are dropped")
	assert.Equal(t, "t1", tweets[0].ID)
	assert.Equal(t, "cryptocaller", tweets[0].Author)
	assert.Equal(t, "$BTC long here", tweets[0].Text)

	// Second call reuses the memoized user id.
	again, err := src.Timeline(context.Background(), "cryptocaller", 5)
	require.NoError(t, err)
	require.Len(t, again, 2)
}

func TestTwitterUnknownHandle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := NewTwitter("test-token", 0, WithTwitterBaseURL(server.URL), WithTwitterHTTPClient(server.Client()))
	_, err := src.Timeline(context.Background(), "nobody", 5)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestConfigDefaultsAndFallback(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(`
source: mock
handles:
  - "@cryptocaller"
  - trader2
`))
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Source)
	assert.Equal(t, []string{"cryptocaller", "trader2"}, cfg.Handles)
	assert.Equal(t, defaultTimelineLimit, cfg.Limit)

	src, err := New(cfg)
	require.NoError(t, err)
	_, ok := src.(*MockSource)
	assert.True(t, ok)
}

func TestConfigTwitterWithoutTokenFallsBack(t *testing.T) {
	t.Setenv(envBearerToken, "")
	cfg, err := LoadConfigFromReader(strings.NewReader("source: twitter\n"))
	require.NoError(t, err)

	src, err := New(cfg)
	require.NoError(t, err)
	_, ok := src.(*MockSource)
	assert.True(t, ok, "missing bearer token falls back to mock")
}

func TestConfigRejectsUnknownSource(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader("source: telegram\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}
