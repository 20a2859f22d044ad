package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/spf13/viper"
)

const (
	BackendSupabase = "supabase"
	BackendDynamo   = "dynamodb"
	BackendPostgres = "postgres"

	ProviderYahoo  = "yahoo"
	ProviderAlpaca = "alpaca"
)

type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Market   MarketConfig   `mapstructure:"market"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Log      LogConfig      `mapstructure:"log"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Recorder RecorderConfig `mapstructure:"recorder"`
}

type StoreConfig struct {
	Backend  string         `mapstructure:"backend"`
	URL      string         `mapstructure:"url"`
	APIKey   string         `mapstructure:"api_key"`
	Dynamo   DynamoConfig   `mapstructure:"dynamo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type DynamoConfig struct {
	Region      string `mapstructure:"region"`
	StocksTable string `mapstructure:"stocks_table"`
	AlertsTable string `mapstructure:"alerts_table"`
}

type PostgresConfig struct {
	DSN         string `mapstructure:"dsn"`
	// AutoMigrate creates the stocks and alerts tables on startup when missing
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type MarketConfig struct {
	Provider string       `mapstructure:"provider"`
	Yahoo    YahooConfig  `mapstructure:"yahoo"`
	Alpaca   AlpacaConfig `mapstructure:"alpaca"`
}

type YahooConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type AlpacaConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

type NotifyConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // optional rotated log file
	Environment string `mapstructure:"environment"` // "dev" or "prod"
}

// ScheduleConfig drives the local cron runner. Cron specs include seconds.
type ScheduleConfig struct {
	IntradayCron string `mapstructure:"intraday_cron"`
	CloseCron    string `mapstructure:"close_cron"`
	Timezone     string `mapstructure:"timezone"`
}

type RecorderConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

// legacyEnv lists the variable names the first deployments used.
var legacyEnv = map[string][]string{
	"store.url":                {"STORE_URL", "URL"},
	"store.api_key":            {"STORE_API_KEY", "APIKEY"},
	"store.dynamo.region":      {"STORE_DYNAMO_REGION", "AWS_REGION"},
	"notify.api_key":           {"NOTIFY_API_KEY", "PUSHAPIKEY"},
	"market.alpaca.api_key":    {"MARKET_ALPACA_API_KEY", "ALPACA_API_KEY"},
	"market.alpaca.api_secret": {"MARKET_ALPACA_API_SECRET", "ALPACA_SECRET_KEY"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendSupabase)
	v.SetDefault("store.url", "")
	v.SetDefault("store.api_key", "")
	v.SetDefault("store.dynamo.region", "")
	v.SetDefault("store.dynamo.stocks_table", "stocks")
	v.SetDefault("store.dynamo.alerts_table", "alerts")
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.auto_migrate", false)

	v.SetDefault("market.provider", ProviderYahoo)
	v.SetDefault("market.yahoo.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market.alpaca.api_key", "")
	v.SetDefault("market.alpaca.api_secret", "")
	v.SetDefault("market.alpaca.base_url", "")

	v.SetDefault("notify.api_key", "")
	v.SetDefault("notify.base_url", "https://api.pushbullet.com")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "prod")

	v.SetDefault("schedule.intraday_cron", "0 */15 9-15 * * 1-5")
	v.SetDefault("schedule.close_cron", "0 5 16 * * 1-5")
	v.SetDefault("schedule.timezone", "America/New_York")

	v.SetDefault("recorder.sqlite_path", "")
}

// Load reads config.yaml when one is present and applies environment
// overrides (e.g. STORE_BACKEND for store.backend).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := os.Getenv("STOCKWATCH_CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.Market.Provider = strings.ToLower(strings.TrimSpace(cfg.Market.Provider))

	return &cfg, nil
}

// Validate checks that every value the selected backends need is set.
func (c *Config) Validate() error {
	var missing []string

	switch c.Store.Backend {
	case BackendSupabase:
		if c.Store.URL == "" {
			missing = append(missing, "store.url")
		}
		if c.Store.APIKey == "" {
			missing = append(missing, "store.api_key")
		}
	case BackendDynamo:
		if c.Store.Dynamo.StocksTable == "" {
			missing = append(missing, "store.dynamo.stocks_table")
		}
		if c.Store.Dynamo.AlertsTable == "" {
			missing = append(missing, "store.dynamo.alerts_table")
		}
	case BackendPostgres:
		if c.Store.Postgres.DSN == "" {
			missing = append(missing, "store.postgres.dsn")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Market.Provider {
	case ProviderYahoo:
		if c.Market.Yahoo.BaseURL == "" {
			missing = append(missing, "market.yahoo.base_url")
		}
	case ProviderAlpaca:
		if c.Market.Alpaca.APIKey == "" {
			missing = append(missing, "market.alpaca.api_key")
		}
		if c.Market.Alpaca.APISecret == "" {
			missing = append(missing, "market.alpaca.api_secret")
		}
	default:
		return fmt.Errorf("unknown market provider %q", c.Market.Provider)
	}

	if c.Notify.APIKey == "" {
		missing = append(missing, "notify.api_key")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", types.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}
