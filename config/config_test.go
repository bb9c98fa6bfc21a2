package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SOURCE_DRIVER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, SourceDriverHTTP, cfg.Source.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Source.CacheTTL)
	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.DB.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadConfig_HTTPDriver(t *testing.T) {
	t.Setenv("SOURCE_DRIVER", "HTTP")
	t.Setenv("SOURCE_TIMEOUT", "3s")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, SourceDriverHTTP, cfg.Source.Driver)
	assert.Equal(t, defaultSourceURL, cfg.Source.URL)
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 45*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Source.CacheTTL)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
	assert.Empty(t, cfg.App.TrustedProxies)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
}

func TestLoadConfig_RejectsBadDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SESSION_TTL", "not-a-duration"},
		{"SOURCE_TIMEOUT", "-5s"},
		{"CACHE_TTL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("SOURCE_DRIVER", "")
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func validConfig() Config {
	return Config{
		Source: SourceConfig{
			Driver:   SourceDriverHTTP,
			URL:      "http://x",
			Timeout:  time.Second,
			CacheTTL: time.Minute,
		},
		Session:   SessionConfig{TTL: time.Minute},
		RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "http with url", mutate: func(c *Config) {}},
		{name: "http without url", mutate: func(c *Config) { c.Source.URL = "" }, wantErr: true},
		{name: "postgres without host", mutate: func(c *Config) { c.Source.Driver = SourceDriverPostgres }, wantErr: true},
		{
			name: "postgres with host",
			mutate: func(c *Config) {
				c.Source.Driver = SourceDriverPostgres
				c.DB.Host = "localhost"
			},
		},
		{name: "unknown driver", mutate: func(c *Config) { c.Source.Driver = "ftp" }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimit = RateLimitConfig{} }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Source.Timeout = 0 }, wantErr: true},
		{name: "negative cache ttl", mutate: func(c *Config) { c.Source.CacheTTL = -time.Second }, wantErr: true},
		{name: "zero session ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: true},
		{name: "trusted proxies", mutate: func(c *Config) { c.App.TrustedProxies = []string{"10.0.0.1", "172.16.0.0/12"} }},
		{name: "bad trusted proxy", mutate: func(c *Config) { c.App.TrustedProxies = []string{"loadbalancer"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
