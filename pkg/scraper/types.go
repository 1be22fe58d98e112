package scraper

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Tweet is one post pulled from a timeline, reduced to the fields the signal
// pipeline consumes.
type Tweet struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Source produces recent tweets for a handle, newest first.
type Source interface {
	Timeline(ctx context.Context, handle string, limit int) ([]Tweet, error)
}

// ErrUnknownHandle is returned when the upstream cannot resolve the handle.
var ErrUnknownHandle = errors.New("scraper: unknown handle")

// NormalizeHandle strips the @ prefix and surrounding whitespace.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
