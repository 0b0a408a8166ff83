// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token codec) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the HiSudoku API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// PublicBaseURL is the externally reachable origin used when building
	// links delivered out-of-band (magic links, password resets).
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis). Optional: when empty, one-time tokens live
	// in process memory, which is only correct for a single-node deployment.
	RedisURL string `env:"REDIS_URL"`

	// JWTSecret is the process-wide HMAC signing key. A blank value is a
	// fatal startup condition, never a per-request error.
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	// AccessTokenTTL is the lifetime of an issued bearer token.
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`

	// OneTimeTokenTTL is the lifetime of a magic-link / password-reset token.
	OneTimeTokenTTL time.Duration `env:"OTT_TTL" envDefault:"5m"`

	// EmailTokenTTL is the lifetime of a signed email-activation token.
	EmailTokenTTL time.Duration `env:"EMAIL_TOKEN_TTL" envDefault:"5m"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive, got %s", cfg.AccessTokenTTL)
	}

	if cfg.OneTimeTokenTTL <= 0 {
		return nil, fmt.Errorf("config: OTT_TTL must be positive, got %s", cfg.OneTimeTokenTTL)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
