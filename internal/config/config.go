package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort          string `mapstructure:"SERVER_PORT"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
	FetchMode           string `mapstructure:"FETCH_MODE"`
	FetchTimeoutSeconds int    `mapstructure:"FETCH_TIMEOUT_SECONDS"`
	UserAgent           string `mapstructure:"USER_AGENT"`
	Accept              string `mapstructure:"ACCEPT"`
	AcceptLanguage      string `mapstructure:"ACCEPT_LANGUAGE"`
	ProxyURLs           string `mapstructure:"PROXY_URLS"`
	RedisAddr           string `mapstructure:"REDIS_ADDR"`
	RedisPassword       string `mapstructure:"REDIS_PASSWORD"`
	RedisDB             int    `mapstructure:"REDIS_DB"`
	StatusTTLHours      int    `mapstructure:"STATUS_TTL_HOURS"`
	PostgresURL         string `mapstructure:"POSTGRES_URL"`
}

// Load reads configuration from the given .env file (if present) and environment variables.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine; production config comes from the environment.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "3001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FETCH_MODE", FetchModeHTTP)
	v.SetDefault("FETCH_TIMEOUT_SECONDS", 8)
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("ACCEPT", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	v.SetDefault("ACCEPT_LANGUAGE", "en-US,en;q=0.9")
	v.SetDefault("PROXY_URLS", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STATUS_TTL_HOURS", 48)
	v.SetDefault("POSTGRES_URL", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return fmt.Errorf("unknown FETCH_MODE %q", c.FetchMode)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive, got %d", c.FetchTimeoutSeconds)
	}
	if c.StatusTTLHours <= 0 {
		return fmt.Errorf("STATUS_TTL_HOURS must be positive, got %d", c.StatusTTLHours)
	}
	return nil
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func (c *Config) StatusTTL() time.Duration {
	return time.Duration(c.StatusTTLHours) * time.Hour
}

// Proxies splits PROXY_URLS on commas, dropping blanks.
func (c *Config) Proxies() []string {
	var out []string
	for _, p := range strings.Split(c.ProxyURLs, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
