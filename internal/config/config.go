// Package config loads agencyhub settings from defaults, an optional YAML
// file and AGENCYHUB_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	OTel     OTelConfig     `mapstructure:"otel"`
	Expiry   ExpiryConfig   `mapstructure:"expiry"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimit is the sustained number of API requests per second across
	// all callers; zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	Leeway     time.Duration `mapstructure:"leeway"`
}

type OTelConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"`
	Exporter       string `mapstructure:"exporter"`
}

type ExpiryConfig struct {
	Schedule     string        `mapstructure:"schedule"`
	NoticeWindow time.Duration `mapstructure:"notice_window"`
}

type CacheConfig struct {
	OfferingTTL time.Duration `mapstructure:"offering_ttl"`
}

// Load reads the configuration. An empty path searches for agencyhub.yaml
// in the working directory and /etc/agencyhub; a missing file is not an
// error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AGENCYHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("agencyhub")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/agencyhub/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("config: http.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("config: database.path is required")
	}
	if c.Auth.SigningKey == "" {
		return fmt.Errorf("config: auth.signing_key is required")
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return fmt.Errorf("config: http rate limits must not be negative")
	}
	if c.Expiry.NoticeWindow < 0 {
		return fmt.Errorf("config: expiry.notice_window must not be negative")
	}
	switch c.OTel.Exporter {
	case "stdout", "otlp", "none":
	default:
		return fmt.Errorf("config: unsupported otel.exporter %q", c.OTel.Exporter)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.rate_limit", 20.0)
	v.SetDefault("http.rate_burst", 40)
	v.SetDefault("database.path", "agencyhub.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.add_source", false)
	// No default key: every deployment must bring its own secret.
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.issuer", "agencyhub")
	v.SetDefault("auth.audience", "agencyhub-api")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.leeway", "30s")
	v.SetDefault("otel.service_name", "agencyhub")
	v.SetDefault("otel.service_version", "0.1.0")
	v.SetDefault("otel.environment", "development")
	v.SetDefault("otel.exporter", "stdout")
	v.SetDefault("expiry.schedule", "@every 1h")
	v.SetDefault("expiry.notice_window", "168h")
	v.SetDefault("cache.offering_ttl", "5m")
}
