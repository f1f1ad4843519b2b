// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Placeholder is the sentinel left in unfilled template values. Any required
// storage setting still containing it means the operator never configured the
// service, which is fatal for the session.
const Placeholder = "CHANGE_ME"

// ErrNotConfigured is returned by Validate when the storage settings are
// missing or still hold template placeholders.
var ErrNotConfigured = errors.New("storage configuration incomplete")

// InstructionalMessage is shown on every API route while the service runs
// unconfigured. There is no retry path: fix the environment and restart.
const InstructionalMessage = "Storage is not configured. Set STORAGE_ENDPOINT, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY, STORAGE_BUCKET, and STORAGE_PUBLIC_BASE, then restart the service."

// Config holds all runtime configuration for the service.
type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Object storage (S3-compatible: MinIO locally, any S3 provider in production)
	StorageEndpoint   string `env:"STORAGE_ENDPOINT" envDefault:"localhost:9000"`
	StorageAccessKey  string `env:"STORAGE_ACCESS_KEY" envDefault:"CHANGE_ME"`
	StorageSecretKey  string `env:"STORAGE_SECRET_KEY" envDefault:"CHANGE_ME"`
	StorageBucket     string `env:"STORAGE_BUCKET" envDefault:"gallery"`
	StorageUseSSL     bool   `env:"STORAGE_USE_SSL" envDefault:"false"`
	StoragePublicBase string `env:"STORAGE_PUBLIC_BASE" envDefault:"http://localhost:9000/gallery"`
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that the storage settings were actually filled in. It runs
// once at startup; a failure leaves the service in its unconfigured degraded
// mode until the operator fixes the environment and restarts.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"STORAGE_ENDPOINT", c.StorageEndpoint},
		{"STORAGE_ACCESS_KEY", c.StorageAccessKey},
		{"STORAGE_SECRET_KEY", c.StorageSecretKey},
		{"STORAGE_BUCKET", c.StorageBucket},
		{"STORAGE_PUBLIC_BASE", c.StoragePublicBase},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrNotConfigured, f.name)
		}
		if strings.Contains(f.value, Placeholder) {
			return fmt.Errorf("%w: %s still holds the %s placeholder", ErrNotConfigured, f.name, Placeholder)
		}
	}
	return nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
