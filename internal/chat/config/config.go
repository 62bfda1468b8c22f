package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds chat module settings.
type Config struct {
	// PurgeKickedEntry removes the kicked user's own copy of the chat. By
	// default it is left as it was at the time of the kick.
	PurgeKickedEntry bool `env:"CHAT_PURGE_KICKED_ENTRY" envDefault:"false"`
	MessagePageSize  int  `env:"CHAT_MESSAGE_PAGE_SIZE" envDefault:"50"`
	MaxMessagePage   int  `env:"CHAT_MESSAGE_PAGE_MAX" envDefault:"200"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load chat configuration: %w", err)
	}
	if cfg.MessagePageSize <= 0 || cfg.MaxMessagePage < cfg.MessagePageSize {
		return nil, fmt.Errorf("invalid message page sizes: default %d, max %d", cfg.MessagePageSize, cfg.MaxMessagePage)
	}
	return cfg, nil
}
