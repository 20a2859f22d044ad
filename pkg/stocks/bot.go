package stocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the persistence the bot needs for tracked stocks and alerts
type Store interface {
	ListStocks(ctx context.Context) ([]types.TrackedStock, error)
	ListAlerts(ctx context.Context) ([]types.PriceAlert, error)
	UpdateStockPrice(ctx context.Context, name string, price decimal.Decimal) error
	DeleteAlert(ctx context.Context, name string, target decimal.Decimal) error
}

// QuoteProvider returns the most recent daily close for a symbol
type QuoteProvider interface {
	LatestQuote(ctx context.Context, symbol string) (types.Quote, error)
}

// Notifier delivers a push notification
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// Event is the invocation payload. Only event_type is read.
type Event struct {
	EventType string `json:"event_type"`
}

// UnmarshalJSON keeps event_type only when it is a string. Any other value,
// or a payload that is not an object, is the default event.
func (e *Event) UnmarshalJSON(data []byte) error {
	e.EventType = ""
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	var eventType string
	if err := json.Unmarshal(raw["event_type"], &eventType); err == nil {
		e.EventType = eventType
	}
	return nil
}

// Response is what the Lambda handler returns
type Response struct {
	StatusCode int          `json:"statusCode"`
	Body       string       `json:"body"`
	Results    []ItemResult `json:"results"`
}

type Bot struct {
	store    Store
	quotes   QuoteProvider
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func New(store Store, quotes QuoteProvider, notifier Notifier, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		store:    store,
		quotes:   quotes,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Handler is the Lambda entry point
func (b *Bot) Handler(ctx context.Context, event Event) (Response, error) {
	report, err := b.Run(ctx, event)
	if err != nil {
		return Response{}, err
	}
	return Response{
		StatusCode: 200,
		Body:       report.Summary(),
		Results:    report.Results,
	}, nil
}

// Run loads the watchlist and alerts and processes them once. A list that
// cannot be loaded is treated as empty; Run fails only when neither loads.
func (b *Bot) Run(ctx context.Context, event Event) (*Report, error) {
	report := b.newReport(ctx, event.EventType)
	log := b.log.With(zap.String("run_id", report.RunID), zap.String("event_type", report.EventType))

	stocks, stocksErr := b.store.ListStocks(ctx)
	if stocksErr != nil {
		log.Error("failed to load tracked stocks", zap.Error(stocksErr))
		report.Warnings = append(report.Warnings, fmt.Sprintf("tracked stocks unavailable: %v", stocksErr))
		stocks = nil
	}

	alerts, alertsErr := b.store.ListAlerts(ctx)
	if alertsErr != nil {
		log.Error("failed to load price alerts", zap.Error(alertsErr))
		report.Warnings = append(report.Warnings, fmt.Sprintf("price alerts unavailable: %v", alertsErr))
		alerts = nil
	}

	if stocksErr != nil && alertsErr != nil {
		report.FinishedAt = b.now()
		return report, fmt.Errorf("no watchlist data loaded: %w", errors.Join(stocksErr, alertsErr))
	}

	b.process(ctx, log, report, stocks, alerts)
	return report, nil
}

// Process evaluates already-loaded stocks and alerts. Items are handled
// strictly in order, stocks first, and a failure on one never stops the rest.
func (b *Bot) Process(ctx context.Context, eventType string, stocks []types.TrackedStock, alerts []types.PriceAlert) *Report {
	report := b.newReport(ctx, eventType)
	log := b.log.With(zap.String("run_id", report.RunID), zap.String("event_type", report.EventType))
	b.process(ctx, log, report, stocks, alerts)
	return report
}

func (b *Bot) process(ctx context.Context, log *zap.Logger, report *Report, stocks []types.TrackedStock, alerts []types.PriceAlert) {
	log.Info("processing watchlist", zap.Int("stocks", len(stocks)), zap.Int("alerts", len(alerts)))

	for _, stock := range stocks {
		report.Results = append(report.Results, b.processStock(ctx, log, stock, report.EventType))
	}
	for _, alert := range alerts {
		report.Results = append(report.Results, b.processAlert(ctx, log, alert))
	}

	report.FinishedAt = b.now()
	log.Info("run finished",
		zap.Int("stocks_failed", report.Count(KindStock, OutcomeFailed)),
		zap.Int("stocks_skipped", report.Count(KindStock, OutcomeSkipped)),
		zap.Int("alerts_failed", report.Count(KindAlert, OutcomeFailed)),
		zap.Int("alerts_skipped", report.Count(KindAlert, OutcomeSkipped)),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
}

func (b *Bot) newReport(ctx context.Context, eventType string) *Report {
	runID := uuid.NewString()
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		runID = lc.AwsRequestID
	}
	return &Report{
		RunID:     runID,
		EventType: eventType,
		StartedAt: b.now(),
	}
}
