package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, time.Second, cfg.Database.RetryDelay)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("PAGINATION_MAX_PAGE_SIZE", "250")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_NAME", "royalties")
	t.Setenv("DB_MAX_CONN_LIFETIME", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, 250, cfg.MaxPageSize)
	assert.Equal(t, 15*time.Minute, cfg.Database.MaxConnLifetime)
	assert.Contains(t, cfg.Database.DSN(), "db.internal:6432/royalties")
}

func TestLoad_RejectsMalformedValue(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "a-real-production-secret")
		t.Setenv("DB_PASSWORD", "s3cret")
		t.Setenv("AUTH_ENABLED", "true")
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"production ready", func(*Config) {}, ""},
		{"default jwt secret", func(c *Config) { c.JWT.Secret = defaultJWTSecret }, "JWT_SECRET"},
		{"empty db password", func(c *Config) { c.Database.Password = "" }, "DB_PASSWORD"},
		{"auth disabled", func(c *Config) { c.AuthEnabled = false }, "AUTH_ENABLED"},
		{"no connections", func(c *Config) { c.Database.MaxConns = 0 }, "DB_MAX_CONNECTIONS"},
		{"min above max", func(c *Config) { c.Database.MinConns = 30 }, "DB_MIN_CONNECTIONS"},
		{"zero page size", func(c *Config) { c.MaxPageSize = 0 }, "PAGINATION_MAX_PAGE_SIZE"},
		{"zero token expiry", func(c *Config) { c.JWT.AccessTokenExpiry = 0 }, "JWT_ACCESS_EXPIRY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DevelopmentAllowsDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultJWTSecret, cfg.JWT.Secret)
}
