package recorder

import (
	"context"

	"github.com/andrew-pixel/Stock-Alerts/pkg/stocks"
)

// NoopRecorder is used when no history database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ context.Context, _ *stocks.Report) error { return nil }
func (n *NoopRecorder) History(_ context.Context, _ int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                           { return nil }
