// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It uses 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded the configuration is read-only and passed to components via
constructors; nothing here is global.
*/
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the narrator API server.
type Config struct {

	// Server settings
	ServerPort  int    `env:"SERVER_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL). DatabaseURL wins over the DB_* parts.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"     envDefault:"localhost"`
	DBPort      int    `env:"DB_PORT"     envDefault:"5432"`
	DBUser      string `env:"DB_USERNAME" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName      string `env:"DB_NAME"     envDefault:"narrator_portal"`
	DBSSLMode   string `env:"DB_SSLMODE"  envDefault:"disable"`

	DBMaxConns         int32         `env:"DB_MAX_CONNS"         envDefault:"10"`
	DBStatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"10s"`

	// MigrationPath overrides the embedded migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Upload session ledger (Redis)
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Object Storage (S3 or an S3-compatible endpoint)
	AWSRegion          string        `env:"AWS_REGION"            envDefault:"us-west-2"`
	AWSAccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket           string        `env:"S3_BUCKET,required,notEmpty"`
	S3Endpoint         string        `env:"S3_ENDPOINT"`
	StorageTimeout     time.Duration `env:"STORAGE_TIMEOUT"       envDefault:"15s"`

	// Authentication. Mutating routes are open when no public key is configured.
	JWTPublicKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`
	JWTIssuer        string `env:"JWT_ISSUER"`

	// Cross-Origin Resource Sharing
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing or 'notEmpty' is blank.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT %d is out of range", c.ServerPort)
	}
	if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
		return errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}
	if c.StorageTimeout <= 0 {
		return errors.New("STORAGE_TIMEOUT must be positive")
	}
	return nil
}

// DatabaseDSN returns the Postgres connection string.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return dsn.String()
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

// AuthEnabled reports whether bearer tokens are required on mutating routes.
func (c *Config) AuthEnabled() bool {
	return c.JWTPublicKeyPath != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
