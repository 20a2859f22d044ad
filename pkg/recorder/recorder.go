package recorder

import (
	"context"
	"time"

	"github.com/andrew-pixel/Stock-Alerts/pkg/stocks"
)

// RunSummary is one recorded invocation as read back from history
type RunSummary struct {
	RunID      string
	EventType  string
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Skipped    int
	Failed     int
	Warnings   int
}

// Recorder persists run reports for later inspection.
type Recorder interface {
	RecordReport(ctx context.Context, report *stocks.Report) error
	History(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}

// Open returns a SQLite recorder for path, or a no-op one when path is empty.
func Open(path string) (Recorder, error) {
	if path == "" {
		return NewNoopRecorder(), nil
	}
	return NewSQLiteRecorder(path)
}
