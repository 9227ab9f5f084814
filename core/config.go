package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultSourceColumn        = "account_id"
	DefaultRateLimitCalls      = 100
	DefaultRateLimitWindow     = 60
	DefaultAPITimeoutSeconds   = 30
	DefaultMaxResponseBodySize = 10 << 20 // 10 MiB
)

type SourceConfig struct {
	Path   string `koanf:"path" mapstructure:"path"`
	Column string `koanf:"column" mapstructure:"column"`
}

type APIConfig struct {
	Endpoint         string `koanf:"endpoint" mapstructure:"endpoint"`
	APIKey           string `koanf:"api_key" mapstructure:"api_key"`
	TimeoutSeconds   int    `koanf:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxResponseBytes int64  `koanf:"max_response_bytes" mapstructure:"max_response_bytes"`
}

type RateLimitConfig struct {
	Calls         int `koanf:"calls" mapstructure:"calls"`
	WindowSeconds int `koanf:"window_seconds" mapstructure:"window_seconds"`
}

type RunConfig struct {
	DryRun bool `koanf:"dry_run" mapstructure:"dry_run"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" mapstructure:"level"`
	Format string `koanf:"format" mapstructure:"format"`
	Output string `koanf:"output" mapstructure:"output"`
}

type Config struct {
	Source    SourceConfig    `koanf:"source" mapstructure:"source"`
	API       APIConfig       `koanf:"api" mapstructure:"api"`
	RateLimit RateLimitConfig `koanf:"rate_limit" mapstructure:"rate_limit"`
	Run       RunConfig       `koanf:"run" mapstructure:"run"`
	Logging   LoggingConfig   `koanf:"logging" mapstructure:"logging"`
}

func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{Column: DefaultSourceColumn},
		API: APIConfig{
			TimeoutSeconds:   DefaultAPITimeoutSeconds,
			MaxResponseBytes: DefaultMaxResponseBodySize,
		},
		RateLimit: RateLimitConfig{
			Calls:         DefaultRateLimitCalls,
			WindowSeconds: DefaultRateLimitWindow,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Source.Path) == "" {
		return fmt.Errorf("config: source.path is required")
	}
	if strings.TrimSpace(c.Source.Column) == "" {
		return fmt.Errorf("config: source.column is required")
	}
	endpoint := strings.TrimSpace(c.API.Endpoint)
	if endpoint == "" {
		return fmt.Errorf("config: api.endpoint is required")
	}
	if parsed, err := url.Parse(endpoint); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: api.endpoint %q is invalid", endpoint)
	}
	if strings.TrimSpace(c.API.APIKey) == "" {
		return fmt.Errorf("config: api.api_key is required")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("config: api.timeout_seconds must be >= 0")
	}
	if c.RateLimit.Calls <= 0 {
		return fmt.Errorf("config: rate_limit.calls must be > 0")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("config: rate_limit.window_seconds must be > 0")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging.format %q is invalid", c.Logging.Format)
	}
	return nil
}

func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func (c Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
