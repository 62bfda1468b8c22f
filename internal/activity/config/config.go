package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/robfig/cron/v3"
)

// Config holds activity log settings.
type Config struct {
	// StreamMaxLen is the approximate number of entries kept per group.
	StreamMaxLen int64  `env:"ACTIVITY_STREAM_MAXLEN" envDefault:"10000"`
	TrimCron     string `env:"ACTIVITY_TRIM_CRON" envDefault:"@hourly"`
	ReadLimit    int64  `env:"ACTIVITY_READ_LIMIT" envDefault:"200"`
	// DeletedTTL is how long a deleted group's stream is kept.
	DeletedTTL time.Duration `env:"ACTIVITY_DELETED_TTL" envDefault:"168h"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load activity configuration: %w", err)
	}
	if cfg.StreamMaxLen <= 0 {
		return nil, fmt.Errorf("ACTIVITY_STREAM_MAXLEN must be positive, got %d", cfg.StreamMaxLen)
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 200
	}
	if _, err := cron.ParseStandard(cfg.TrimCron); err != nil {
		return nil, fmt.Errorf("invalid ACTIVITY_TRIM_CRON %q: %w", cfg.TrimCron, err)
	}
	return cfg, nil
}
