// Package config loads the application configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"stock_sync/internal/platform/db"
	"stock_sync/internal/platform/logger"
	"stock_sync/internal/platform/redis"
)

const (
	StoreDB   = "db"
	StoreFile = "file"

	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogDB       = "db"

	ProviderYahoo      = "yahoo"
	ProviderTwelveData = "twelvedata"
)

// Config is the whole application configuration.
type Config struct {
	Server   ServerConfig   `env:", prefix=SERVER_"`
	DB       db.Config      `env:", prefix=DB_"`
	Redis    redis.Config   `env:", prefix=REDIS_"`
	Log      logger.Config  `env:", prefix=LOG_"`
	Sync     SyncConfig     `env:", prefix=SYNC_"`
	Store    StoreConfig    `env:", prefix=STORE_"`
	Catalog  CatalogConfig  `env:", prefix=CATALOG_"`
	Provider ProviderConfig `env:", prefix=PROVIDER_"`
	Schedule ScheduleConfig `env:", prefix=SCHEDULE_"`
}

type ServerConfig struct {
	Port            int           `env:"PORT, default=8080"`
	CORSOrigins     []string      `env:"CORS_ORIGINS, default=*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	WithScheduler   bool          `env:"WITH_SCHEDULER, default=false"`
}

// SyncConfig tunes symbol synchronization and batch runs.
type SyncConfig struct {
	Workers       int           `env:"WORKERS, default=4"`
	Delay         time.Duration `env:"DELAY, default=0s"`
	IndexPause    time.Duration `env:"INDEX_PAUSE, default=3s"`
	SymbolTimeout time.Duration `env:"SYMBOL_TIMEOUT, default=2m"`
	Period        string        `env:"PERIOD, default=5y"`
	Interval      string        `env:"INTERVAL, default=1d"`
	RateLimit     int           `env:"RATE_LIMIT, default=60"`
	RateWindow    time.Duration `env:"RATE_WINDOW, default=1m"`
	Indices       []string      `env:"INDICES, default=nifty50,niftyNext50,niftyMidcap150,ftse100,ftse250,usStocks"`
}

type StoreConfig struct {
	Backend string `env:"BACKEND, default=db"`
	DataDir string `env:"DATA_DIR, default=./DATA"`
}

type CatalogConfig struct {
	Source string `env:"SOURCE, default=embedded"`
	Dir    string `env:"DIR, default=./DATA/indices"`
}

type ProviderConfig struct {
	Name    string        `env:"NAME, default=yahoo"`
	APIKey  string        `env:"API_KEY"`
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT, default=30s"`
}

type ScheduleConfig struct {
	At       string `env:"AT, default=06:00"`
	Force    bool   `env:"FORCE, default=true"`
	Timezone string `env:"TZ, default=Local"`
}

// Clock parses At as HH:MM.
func (s ScheduleConfig) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", s.At)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q: %w", s.At, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Location resolves Timezone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// Load reads an optional .env file, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Sync.Workers <= 0 {
		return fmt.Errorf("SYNC_WORKERS must be positive, got %d", c.Sync.Workers)
	}
	if c.Sync.Delay < 0 || c.Sync.IndexPause < 0 || c.Sync.SymbolTimeout < 0 {
		return errors.New("sync durations must not be negative")
	}
	switch c.Store.Backend {
	case StoreDB, StoreFile:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Catalog.Source {
	case CatalogEmbedded, CatalogFile, CatalogDB:
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	if c.Catalog.Source == CatalogDB && c.Store.Backend != StoreDB {
		return errors.New("CATALOG_SOURCE=db requires STORE_BACKEND=db")
	}
	switch c.Provider.Name {
	case ProviderYahoo:
	case ProviderTwelveData:
		if c.Provider.APIKey == "" {
			return errors.New("PROVIDER_API_KEY is required for twelvedata")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider.Name)
	}
	switch c.DB.Driver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", db.ErrUnknownDriver, c.DB.Driver)
	}
	if _, _, err := c.Schedule.Clock(); err != nil {
		return err
	}
	if _, err := c.Schedule.Location(); err != nil {
		return fmt.Errorf("invalid schedule timezone: %w", err)
	}
	return nil
}
