package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"royalty-backend/internal/infrastructure/database"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database database.DBConfig `envPrefix:"DB_"`
	JWT      JWTConfig

	AuthEnabled      bool   `env:"AUTH_ENABLED" envDefault:"false"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	MaxPageSize      int    `env:"PAGINATION_MAX_PAGE_SIZE" envDefault:"100"`
	MigrateOnStartup bool   `env:"MIGRATE_ON_STARTUP" envDefault:"false"`
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"Royalty API"`
	Environment string `env:"APP_ENV" envDefault:"development"` // development, staging, production
	Port        string `env:"APP_PORT" envDefault:"8080"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
}

type JWTConfig struct {
	Secret            string `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	AccessTokenExpiry int    `env:"JWT_ACCESS_EXPIRY" envDefault:"60"` // minutes
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate rejects settings that are unsafe or unusable.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if !c.AuthEnabled {
			return fmt.Errorf("AUTH_ENABLED must be true in production")
		}
	}

	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be positive")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("PAGINATION_MAX_PAGE_SIZE must be positive")
	}
	if c.JWT.AccessTokenExpiry < 1 {
		return fmt.Errorf("JWT_ACCESS_EXPIRY must be positive")
	}

	return nil
}
