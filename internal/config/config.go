package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server configuration, parsed from the environment
type Config struct {
	// HTTP server
	Host string `env:"BSHIP_HOST" envDefault:""`
	Port int    `env:"BSHIP_PORT" envDefault:"8080"`

	// Storage backend: "memory" or "redis"
	StorageType string `env:"BSHIP_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"BSHIP_REDIS_URL" envDefault:"redis://localhost:6379"`

	// Auth
	SessionDuration time.Duration `env:"BSHIP_SESSION_DURATION" envDefault:"24h"`

	// Logging: "debug", "info", "warn", "error"
	LogLevel string `env:"BSHIP_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
