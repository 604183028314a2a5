// Package config loads service configuration from a YAML file with
// environment variable overrides for secrets and deploy-specific values.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds HTTP server settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// Database selects the storage backend. When PostgresDSN is set the service
// uses Postgres; otherwise it falls back to a local SQLite file.
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// Redis holds cache connection settings. An empty Addr disables caching.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

// Finnhub holds quote provider settings.
type Finnhub struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Poll holds the scheduled refresh settings.
type Poll struct {
	IntervalSec       int `yaml:"interval_sec"`
	WindowSize        int `yaml:"window_size"`
	RequestsPerMinute int `yaml:"requests_per_minute"`
	TickTimeoutSec    int `yaml:"tick_timeout_sec"`
}

// Config is the root configuration for the service.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Finnhub  Finnhub  `yaml:"finnhub"`
	Poll     Poll     `yaml:"poll"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:   Server{Addr: ":8080"},
		Database: Database{SQLitePath: "stock_watchlist.db"},
		Finnhub: Finnhub{
			BaseURL:    "https://finnhub.io/api/v1",
			TimeoutSec: 10,
		},
		Poll: Poll{
			IntervalSec:       60,
			WindowSize:        10,
			RequestsPerMinute: 30,
			TickTimeoutSec:    45,
		},
	}
}

// Load reads YAML config from path. If path is empty or the file does not
// exist, defaults are used. Environment variables override select fields so
// secrets stay out of the config file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Finnhub.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Finnhub.APIKey == "" {
		return errors.New("finnhub api_key is required (set FINNHUB_API_KEY)")
	}
	if c.Poll.IntervalSec <= 0 {
		return errors.New("poll interval_sec must be positive")
	}
	if c.Poll.WindowSize <= 0 {
		return errors.New("poll window_size must be positive")
	}
	if c.Poll.TickTimeoutSec <= 0 || c.Poll.TickTimeoutSec >= c.Poll.IntervalSec {
		return errors.New("poll tick_timeout_sec must be positive and shorter than interval_sec")
	}
	if c.Poll.RequestsPerMinute <= 0 {
		return errors.New("poll requests_per_minute must be positive")
	}
	return nil
}

// PollInterval returns the poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSec) * time.Second
}

// TickTimeout returns the per-tick soft deadline as a duration.
func (c Config) TickTimeout() time.Duration {
	return time.Duration(c.Poll.TickTimeoutSec) * time.Second
}

// FinnhubTimeout returns the per-request quote provider timeout.
func (c Config) FinnhubTimeout() time.Duration {
	return time.Duration(c.Finnhub.TimeoutSec) * time.Second
}
