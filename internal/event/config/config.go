package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds event module settings.
type Config struct {
	// MaxParticipantsCap bounds the maxParticipants a now event may declare.
	MaxParticipantsCap int `env:"EVENT_MAX_PARTICIPANTS_CAP" envDefault:"500"`
	CommentPageSize    int `env:"EVENT_COMMENT_PAGE_SIZE" envDefault:"50"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load event configuration: %w", err)
	}
	if cfg.MaxParticipantsCap <= 0 {
		return nil, fmt.Errorf("EVENT_MAX_PARTICIPANTS_CAP must be positive, got %d", cfg.MaxParticipantsCap)
	}
	if cfg.CommentPageSize <= 0 {
		cfg.CommentPageSize = 50
	}
	return cfg, nil
}
