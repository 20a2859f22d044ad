package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/andrew-pixel/Stock-Alerts/pkg/config"
	"github.com/andrew-pixel/Stock-Alerts/pkg/recorder"
	"github.com/andrew-pixel/Stock-Alerts/pkg/stocks"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner is the part of the bot the scheduler drives
type Runner interface {
	Run(ctx context.Context, event stocks.Event) (*stocks.Report, error)
}

// Scheduler invokes the bot on the intraday and close schedules, the way the
// platform's scheduled events would.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	Recorder recorder.Recorder
	Ctx      context.Context
	log      *zap.Logger
}

// NewScheduler creates a scheduler in the configured timezone. A job that is
// still running when its next tick fires is skipped.
func NewScheduler(ctx context.Context, timezone string, runner Runner, rec recorder.Recorder, log *zap.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	cl := cronLogger{log: log.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Runner:   runner,
		Recorder: rec,
		Ctx:      ctx,
		log:      log,
	}, nil
}

// RegisterAll registers the intraday and close jobs.
func (s *Scheduler) RegisterAll(cfg config.ScheduleConfig) error {
	if _, err := s.Cron.AddFunc(cfg.IntradayCron, func() { s.RunNow("") }); err != nil {
		return fmt.Errorf("register intraday task: %w", err)
	}
	if _, err := s.Cron.AddFunc(cfg.CloseCron, func() { s.RunNow(stocks.EventClose) }); err != nil {
		return fmt.Errorf("register close task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow runs one invocation immediately and records its report.
func (s *Scheduler) RunNow(eventType string) *stocks.Report {
	report, err := s.Runner.Run(s.Ctx, stocks.Event{EventType: eventType})
	if err != nil {
		s.log.Error("scheduled run failed", zap.String("event_type", eventType), zap.Error(err))
	}
	if report == nil {
		return nil
	}
	if err := s.Recorder.RecordReport(s.Ctx, report); err != nil {
		s.log.Error("failed to record report", zap.String("run_id", report.RunID), zap.Error(err))
	}
	return report
}

// cronLogger routes cron's own logging through zap
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
