package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		DB   int    `yaml:"db"`
	} `yaml:"redis"`
	Cache struct {
		FetchTTLSeconds    int `yaml:"fetch_ttl_seconds"`
		MomentumTTLSeconds int `yaml:"momentum_ttl_seconds"`
	} `yaml:"cache"`
	Fetch struct {
		RetentionDays int     `yaml:"retention_days"`
		DelayMinSec   float64 `yaml:"delay_min_sec"`
		DelayMaxSec   float64 `yaml:"delay_max_sec"`
		OnStart       bool    `yaml:"on_start"`
	} `yaml:"fetch"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		PruneCron   string `yaml:"prune_cron"`
	} `yaml:"schedule"`
	Stocks []model.StockInfo `yaml:"stocks"`
	Proxy  string            `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Port = p
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = d
		}
	}
	if v := os.Getenv("FETCH_TTL"); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.Cache.FetchTTLSeconds = t
		}
	}
	if v := os.Getenv("MOMENTUM_TTL"); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MomentumTTLSeconds = t
		}
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("FETCH_ON_START"); v != "" {
		cfg.Fetch.OnStart = v == "true" || v == "1"
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stocks.db"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.FetchTTLSeconds == 0 {
		cfg.Cache.FetchTTLSeconds = 3600
	}
	if cfg.Cache.MomentumTTLSeconds == 0 {
		cfg.Cache.MomentumTTLSeconds = 300
	}
	if cfg.Fetch.RetentionDays == 0 {
		cfg.Fetch.RetentionDays = 180
	}
	if cfg.Fetch.DelayMinSec == 0 {
		cfg.Fetch.DelayMinSec = 1
	}
	if cfg.Fetch.DelayMaxSec == 0 {
		cfg.Fetch.DelayMaxSec = 2
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.PruneCron == "" {
		cfg.Schedule.PruneCron = "0 0 3 * * *"
	}
	if len(cfg.Stocks) == 0 {
		cfg.Stocks = []model.StockInfo{
			{Symbol: "C", Name: "Citigroup Inc."},
			{Symbol: "XOM", Name: "Exxon Mobil Corporation"},
			{Symbol: "NEM", Name: "Newmont Corporation"},
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if len(c.Stocks) == 0 {
		return fmt.Errorf("at least one stock is required")
	}
	for _, s := range c.Stocks {
		if s.Symbol == "" {
			return fmt.Errorf("stock symbol must not be empty")
		}
	}
	if c.Fetch.RetentionDays <= 0 {
		return fmt.Errorf("fetch.retention_days must be positive")
	}
	if c.Fetch.DelayMaxSec < c.Fetch.DelayMinSec {
		return fmt.Errorf("fetch.delay_max_sec must be >= fetch.delay_min_sec")
	}
	return nil
}

// Symbols returns the ticker symbols of the configured universe.
func (c *Config) Symbols() []string {
	out := make([]string, len(c.Stocks))
	for i, s := range c.Stocks {
		out[i] = s.Symbol
	}
	return out
}
