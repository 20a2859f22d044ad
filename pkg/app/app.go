// Package app wires configuration into a ready-to-run bot.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andrew-pixel/Stock-Alerts/pkg/alpaca"
	"github.com/andrew-pixel/Stock-Alerts/pkg/config"
	"github.com/andrew-pixel/Stock-Alerts/pkg/dynamo"
	"github.com/andrew-pixel/Stock-Alerts/pkg/postgres"
	"github.com/andrew-pixel/Stock-Alerts/pkg/pushbullet"
	"github.com/andrew-pixel/Stock-Alerts/pkg/stocks"
	"github.com/andrew-pixel/Stock-Alerts/pkg/supabase"
	"github.com/andrew-pixel/Stock-Alerts/pkg/yahoo"
	"go.uber.org/zap"
)

// LocalHTTPTimeout bounds each outbound call for local runs, which have no
// invocation deadline.
const LocalHTTPTimeout = 30 * time.Second

// Build resolves secrets and constructs the store, quote provider and
// notifier selected by cfg. Outbound calls carry no timeout of their own;
// the invocation context's deadline is the only bound.
// The returned cleanup releases any connections.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stocks.Bot, func(), error) {
	return BuildWithClient(ctx, cfg, log, defaultHTTPClient())
}

func defaultHTTPClient() *http.Client {
	return &http.Client{}
}

// BuildWithClient is Build with the HTTP client used by the REST store,
// the Yahoo provider and the notifier.
func BuildWithClient(ctx context.Context, cfg *config.Config, log *zap.Logger, httpClient *http.Client) (*stocks.Bot, func(), error) {
	if cfg.HasSecretRefs() {
		getter, err := config.NewParameterGetter(ctx, cfg.Store.Dynamo.Region)
		if err != nil {
			return nil, nil, err
		}
		if err := cfg.ResolveSecrets(ctx, getter); err != nil {
			return nil, nil, err
		}
	}

	store, cleanup, err := NewStore(ctx, cfg.Store, httpClient)
	if err != nil {
		return nil, nil, err
	}

	quotes, err := NewQuoteProvider(cfg.Market, httpClient)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	notifier := pushbullet.NewClient(cfg.Notify.BaseURL, cfg.Notify.APIKey, httpClient)

	log.Info("bot configured",
		zap.String("store", cfg.Store.Backend),
		zap.String("market", cfg.Market.Provider),
	)
	return stocks.New(store, quotes, notifier, log), cleanup, nil
}

// NewStore builds the configured persistence backend
func NewStore(ctx context.Context, cfg config.StoreConfig, httpClient *http.Client) (stocks.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendSupabase:
		return supabase.NewClient(cfg.URL, cfg.APIKey, httpClient), func() {}, nil
	case config.BackendDynamo:
		store, err := dynamo.Initialize(ctx, cfg.Dynamo.Region, cfg.Dynamo.StocksTable, cfg.Dynamo.AlertsTable)
		if err != nil {
			return nil, nil, fmt.Errorf("init dynamodb: %w", err)
		}
		return store, func() {}, nil
	case config.BackendPostgres:
		store, err := postgres.NewStore(cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := store.AutoMigrate(); err != nil {
				_ = store.Close()
				return nil, nil, err
			}
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// NewQuoteProvider builds the configured market data source
func NewQuoteProvider(cfg config.MarketConfig, httpClient *http.Client) (stocks.QuoteProvider, error) {
	switch cfg.Provider {
	case config.ProviderYahoo:
		return yahoo.NewClient(cfg.Yahoo.BaseURL, httpClient), nil
	case config.ProviderAlpaca:
		return alpaca.NewClient(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Provider)
	}
}
