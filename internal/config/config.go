package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"WatchBoard/internal/model"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		Token          string `yaml:"token"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		MaxConcurrency int    `yaml:"max_concurrency"`
		// Mock serves generated data instead of calling the API.
		Mock bool `yaml:"mock"`
	} `yaml:"api"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Dashboard struct {
		DefaultTimeframe  string   `yaml:"default_timeframe"`
		Picks             []string `yaml:"picks"`
		HotCount          int      `yaml:"hot_count"`
		ChartCacheSeconds int      `yaml:"chart_cache_seconds"`
	} `yaml:"dashboard"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Timezone string `yaml:"timezone"`
	Proxy    string `yaml:"proxy"`
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

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HORODEX_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("HORODEX_MOCK"); v != "" {
		cfg.API.Mock = truthy(v)
	}
	if v := os.Getenv("HORODEX_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.MaxConcurrency = n
		}
	}
	if v := os.Getenv("WATCH_PICKS"); v != "" {
		var picks []string
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				picks = append(picks, id)
			}
		}
		cfg.Dashboard.Picks = picks
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api-dev.horodex.io/watch_data/api/v1"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 30
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":9095"
	}
	if cfg.Schedule.RefreshCron == "" {
		// Every 30 minutes; six fields because the scheduler parses seconds.
		cfg.Schedule.RefreshCron = "0 */30 * * * *"
	}
	if cfg.Dashboard.DefaultTimeframe == "" {
		cfg.Dashboard.DefaultTimeframe = string(model.DefaultTimeframe)
	}
	if cfg.Dashboard.HotCount == 0 {
		cfg.Dashboard.HotCount = 5
	}
	if cfg.Dashboard.ChartCacheSeconds == 0 {
		cfg.Dashboard.ChartCacheSeconds = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.API.Token == "" && !c.API.Mock {
		return fmt.Errorf("api.token is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative")
	}
	if c.API.MaxConcurrency < 0 {
		return fmt.Errorf("api.max_concurrency must not be negative")
	}
	if _, ok := model.ParseTimeframe(c.Dashboard.DefaultTimeframe); !ok {
		return fmt.Errorf("dashboard.default_timeframe %q is not one of %v", c.Dashboard.DefaultTimeframe, model.Timeframes())
	}
	if c.Dashboard.HotCount < 0 {
		return fmt.Errorf("dashboard.hot_count must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	if c.Timezone != "" {
		if _, err := c.Location(); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}
	return nil
}

// DefaultTimeframe is the validated dashboard default.
func (c *Config) DefaultTimeframe() model.Timeframe {
	if tf, ok := model.ParseTimeframe(c.Dashboard.DefaultTimeframe); ok {
		return tf
	}
	return model.DefaultTimeframe
}
