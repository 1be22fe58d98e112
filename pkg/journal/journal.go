package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// RunRecord captures one end-to-end pipeline run (scrape, extract, simulate)
// for audit and later analysis.
type RunRecord struct {
	RunID          string                 `json:"run_id"`
	Timestamp      time.Time              `json:"timestamp"`
	Handles        []string               `json:"handles,omitempty"`
	TweetCount     int                    `json:"tweet_count"`
	SignalCount    int                    `json:"signal_count"`
	SkippedSignals int                    `json:"skipped_signals"`
	PromptDigest   string                 `json:"prompt_digest,omitempty"`
	Provider       string                 `json:"price_provider,omitempty"`
	SummaryJSON    string                 `json:"summary_json,omitempty"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Extra          map[string]interface{} `json:"extra,omitempty"`
}

// Writer persists run records to a directory as JSON files (journal style).
type Writer struct {
	dir   string
	nowFn func() time.Time
}

// NewWriter constructs a journal writer.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "journal"
	}
	_ = os.MkdirAll(dir, 0o755)
	return &Writer{dir: dir, nowFn: time.Now}
}

// WriteRun writes a run record to a timestamped JSON file. A missing RunID is
// filled with a fresh UUID so records stay addressable across processes.
func (w *Writer) WriteRun(rec *RunRecord) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("journal: nil record")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = w.nowFn()
	}
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	name := fmt.Sprintf("run_%s_%s.json", rec.Timestamp.UTC().Format("20060102_150405"), rec.RunID[:8])
	path := filepath.Join(w.dir, name)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
