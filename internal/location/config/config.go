package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds location search settings.
type Config struct {
	PlacesAPIKey  string        `env:"PLACES_API_KEY"`
	PlacesBaseURL string        `env:"PLACES_BASE_URL" envDefault:"https://maps.googleapis.com/maps/api/place/textsearch/json"`
	PlacesRPS     float64       `env:"PLACES_RPS" envDefault:"5"`
	PlacesTimeout time.Duration `env:"PLACES_TIMEOUT" envDefault:"10s"`
	// PlacesRadiusM is passed to the places API as its search radius.
	PlacesRadiusM int `env:"PLACES_RADIUS_M" envDefault:"400"`

	SearchRadiusKm float64 `env:"LOCATION_SEARCH_RADIUS_KM" envDefault:"300"`
	MinResults     int     `env:"LOCATION_MIN_RESULTS" envDefault:"5"`
	SampleSize     int64   `env:"LOCATION_SAMPLE_SIZE" envDefault:"50"`
}

// PlacesEnabled reports whether the upstream places API may be called.
func (c *Config) PlacesEnabled() bool {
	return c.PlacesAPIKey != ""
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load location configuration: %w", err)
	}
	if cfg.PlacesRPS <= 0 {
		return nil, fmt.Errorf("PLACES_RPS must be positive, got %v", cfg.PlacesRPS)
	}
	if cfg.SearchRadiusKm <= 0 {
		return nil, fmt.Errorf("LOCATION_SEARCH_RADIUS_KM must be positive, got %v", cfg.SearchRadiusKm)
	}
	return cfg, nil
}
