package prices

import (
	"fmt"
	"sort"
	"time"
)

// Sample is a single observed price for a ticker.
type Sample struct {
	Time  time.Time `json:"timestamp"`
	Price float64   `json:"price"`
}

// Series is a chronologically ordered, finite sequence of samples covering a
// simulation window. Providers build it once per request; callers treat it as
// read-only.
type Series []Sample

// Empty reports whether the series carries no samples.
func (s Series) Empty() bool { return len(s) == 0 }

// First returns the earliest sample. Callers must check Empty first.
func (s Series) First() Sample { return s[0] }

// Last returns the latest sample. Callers must check Empty first.
func (s Series) Last() Sample { return s[len(s)-1] }

// Sorted returns a copy ordered by ascending timestamp. Providers that cannot
// guarantee ordering from their upstream call this before returning.
func (s Series) Sorted() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// RawSample mirrors the wire shape produced by upstream price APIs:
// an ISO-8601 timestamp string plus a price.
type RawSample struct {
	Timestamp string  `json:"timestamp"`
	Price     float64 `json:"price"`
}

// ParseSeries converts wire samples into a validated, ordered Series.
// Samples with unparseable timestamps or non-positive prices are rejected.
func ParseSeries(raw []RawSample) (Series, error) {
	out := make(Series, 0, len(raw))
	for i, r := range raw {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("prices: sample %d: bad timestamp %q: %w", i, r.Timestamp, err)
		}
		if r.Price <= 0 {
			return nil, fmt.Errorf("prices: sample %d: price must be positive, got %v", i, r.Price)
		}
		out = append(out, Sample{Time: ts.UTC(), Price: r.Price})
	}
	return out.Sorted(), nil
}
