package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(10000), cfg.StreamMaxLen)
	assert.Equal(t, "@hourly", cfg.TrimCron)
	assert.Equal(t, 168*time.Hour, cfg.DeletedTTL)
}

func TestLoadConfig_BadCron(t *testing.T) {
	t.Setenv("ACTIVITY_TRIM_CRON", "every hour")
	_, err := LoadConfig()
	assert.Error(t, err)
}
