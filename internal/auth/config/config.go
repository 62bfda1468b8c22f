package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module.
type Config struct {
	// JWT Configuration
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"aura-backend"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"720h"`

	// OTP Configuration
	OTPTTL         time.Duration `env:"OTP_TTL" envDefault:"10m"`
	OTPLength      int           `env:"OTP_LENGTH" envDefault:"6"`
	OTPMaxAttempts int           `env:"OTP_MAX_ATTEMPTS" envDefault:"5"`
	// OTPEcho returns the generated code in the response body. There is no SMS
	// gateway, so clients read the code from the response.
	OTPEcho     bool   `env:"OTP_ECHO" envDefault:"true"`
	CountryCode string `env:"COUNTRY_CODE" envDefault:"+60"`

	// Guest endpoint throttling, per client IP.
	GuestRateLimit  int           `env:"GUEST_RATE_LIMIT" envDefault:"10"`
	GuestRateWindow time.Duration `env:"GUEST_RATE_WINDOW" envDefault:"1m"`
}

// LoadConfig loads configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load auth configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("jwt_secret_key is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("access_token_ttl must be positive")
	}
	if c.OTPTTL <= 0 {
		return errors.New("otp_ttl must be positive")
	}
	if c.OTPLength < 4 || c.OTPLength > 10 {
		return fmt.Errorf("otp_length must be between 4 and 10, got %d", c.OTPLength)
	}
	if c.OTPMaxAttempts <= 0 {
		c.OTPMaxAttempts = 5
	}
	if c.CountryCode == "" {
		return errors.New("country_code is required")
	}
	return nil
}
