package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-with-enough-length")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "aura-backend", cfg.JWTIssuer)
	assert.Equal(t, 720*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 6, cfg.OTPLength)
	assert.True(t, cfg.OTPEcho)
	assert.Equal(t, "+60", cfg.CountryCode)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate_OTPLength(t *testing.T) {
	cfg := &Config{JWTSecretKey: "x", AccessTokenTTL: time.Hour, OTPTTL: time.Minute, OTPLength: 2, CountryCode: "+60"}
	assert.Error(t, cfg.Validate())

	cfg.OTPLength = 6
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
}
