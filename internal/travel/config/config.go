package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds travel plan settings.
type Config struct {
	// MaxDays bounds how many daily plans one travel plan may span.
	MaxDays int `env:"TRAVEL_MAX_DAYS" envDefault:"366"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load travel configuration: %w", err)
	}
	if cfg.MaxDays <= 0 {
		return nil, fmt.Errorf("TRAVEL_MAX_DAYS must be positive, got %d", cfg.MaxDays)
	}
	return cfg, nil
}
