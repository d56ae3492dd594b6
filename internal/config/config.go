package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type UpstreamConfig struct {
	BaseURL string `json:"base_url"` // e.g. "https://api.coingecko.com/api/v3"
	Timeout string `json:"timeout"`  // e.g. "10s"
}

type AppConfig struct {
	HTTPPort int            `json:"http_port"`
	CacheTTL string         `json:"cache_ttl"` // e.g. "60s"
	Redis    RedisConfig    `json:"redis"`
	Upstream UpstreamConfig `json:"upstream"`
}

// Default returns the configuration used when no file is given.
func Default() AppConfig {
	return AppConfig{
		HTTPPort: 8080,
		CacheTTL: "60s",
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://api.coingecko.com/api/v3",
			Timeout: "10s",
		},
	}
}

// Load reads a JSON config file over the defaults.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c AppConfig) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port out of range: %d", c.HTTPPort)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base_url is required")
	}
	if _, err := time.ParseDuration(c.CacheTTL); c.CacheTTL != "" && err != nil {
		return fmt.Errorf("invalid cache_ttl: %q", c.CacheTTL)
	}
	return nil
}

// ParseDuration parses a duration string like "60s" and falls back to def on
// error or empty input.
func ParseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
