package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SourceDriverHTTP     = "http"
	SourceDriverPostgres = "postgres"

	defaultSourceURL = "https://srijandubey.github.io/campus-api-mock/SRM-C1-25.json"
)

type Config struct {
	App       AppConfig
	Source    SourceConfig
	DB        DBConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port           string
	Env            string
	LogLevel       string
	CORSOrigins    []string
	TrustedProxies []string
}

type SourceConfig struct {
	Driver   string
	URL      string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Enabled reports whether a Postgres host was configured.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SOURCE_DRIVER", SourceDriverHTTP)
	v.SetDefault("SOURCE_URL", defaultSourceURL)
	v.SetDefault("SOURCE_TIMEOUT", "10s")
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	// The .env file is optional; environment variables alone are enough.
	_ = v.ReadInConfig()

	config := &Config{
		App: AppConfig{
			Port:           v.GetString("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Source: SourceConfig{
			Driver:   strings.ToLower(strings.TrimSpace(v.GetString("SOURCE_DRIVER"))),
			URL:      v.GetString("SOURCE_URL"),
			Timeout:  v.GetDuration("SOURCE_TIMEOUT"),
			CacheTTL: v.GetDuration("CACHE_TTL"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("SESSION_TTL"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case SourceDriverHTTP:
		if c.Source.URL == "" {
			return fmt.Errorf("SOURCE_URL is required when SOURCE_DRIVER is %q", SourceDriverHTTP)
		}
	case SourceDriverPostgres:
		if !c.DB.Enabled() {
			return fmt.Errorf("DB_HOST is required when SOURCE_DRIVER is %q", SourceDriverPostgres)
		}
	default:
		return fmt.Errorf("SOURCE_DRIVER must be %q or %q, got %q", SourceDriverHTTP, SourceDriverPostgres, c.Source.Driver)
	}

	// Unparsable durations read as zero and are rejected here.
	durations := []struct {
		key   string
		value time.Duration
	}{
		{"SOURCE_TIMEOUT", c.Source.Timeout},
		{"CACHE_TTL", c.Source.CacheTTL},
		{"SESSION_TTL", c.Session.TTL},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be a positive duration such as 30s or 10m", d.key)
		}
	}

	for _, proxy := range c.App.TrustedProxies {
		if !validProxyEntry(proxy) {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP address or CIDR range", proxy)
		}
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

func (c *Config) IsDev() bool {
	return c.App.Env == "development"
}

func validProxyEntry(entry string) bool {
	if _, _, err := net.ParseCIDR(entry); err == nil {
		return true
	}
	return net.ParseIP(entry) != nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
