package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/andrew-pixel/Stock-Alerts/pkg/config"
	"github.com/andrew-pixel/Stock-Alerts/pkg/recorder"
	"github.com/andrew-pixel/Stock-Alerts/pkg/stocks"
	"go.uber.org/zap"
)

type fakeRunner struct {
	events []string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, event stocks.Event) (*stocks.Report, error) {
	f.events = append(f.events, event.EventType)
	return &stocks.Report{RunID: "run", EventType: event.EventType}, f.err
}

type fakeRecorder struct {
	reports []*stocks.Report
}

func (f *fakeRecorder) RecordReport(_ context.Context, r *stocks.Report) error {
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeRecorder) History(context.Context, int) ([]recorder.RunSummary, error) { return nil, nil }
func (f *fakeRecorder) Close() error                                              { return nil }

// go test -v --run TestRegisterAll
func TestRegisterAll(t *testing.T) {
	s, err := NewScheduler(context.Background(), "America/New_York", &fakeRunner{}, &fakeRecorder{}, zap.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	err = s.RegisterAll(config.ScheduleConfig{IntradayCron: "0 */15 9-15 * * 1-5", CloseCron: "0 5 16 * * 1-5"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}

	bad, _ := NewScheduler(context.Background(), "UTC", &fakeRunner{}, &fakeRecorder{}, zap.NewNop())
	if err := bad.RegisterAll(config.ScheduleConfig{IntradayCron: "every minute", CloseCron: "0 5 16 * * 1-5"}); err == nil {
		t.Errorf("expected invalid cron expression error")
	}

	if _, err := NewScheduler(context.Background(), "Mars/Olympus", &fakeRunner{}, &fakeRecorder{}, zap.NewNop()); err == nil {
		t.Errorf("expected unknown timezone error")
	}
}

// go test -v --run TestRunNowRecords
func TestRunNowRecords(t *testing.T) {
	runner := &fakeRunner{}
	rec := &fakeRecorder{}
	s, err := NewScheduler(context.Background(), "UTC", runner, rec, zap.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	s.RunNow("")
	s.RunNow(stocks.EventClose)

	runner.err = errors.New("no watchlist data loaded")
	s.RunNow("")

	if len(runner.events) != 3 || runner.events[1] != "close" {
		t.Errorf("unexpected events %v", runner.events)
	}
	if len(rec.reports) != 3 {
		t.Errorf("failed runs should still be recorded, got %d", len(rec.reports))
	}
}
