package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultJWTIssuer is stamped into feedback tokens when JWT_ISSUER is unset.
const DefaultJWTIssuer = "skill-matcher"

const (
	defaultJWTExpirationHours = 24
	minJWTSecretLength        = 16
)

// JWTConfig holds configuration for feedback bearer tokens. A zero Secret
// leaves feedback unauthenticated.
type JWTConfig struct {
	Secret          string
	Issuer          string // empty: iss is neither set nor checked
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET, JWT_ISSUER and JWT_EXPIRATION_HOURS from the
// process environment.
func NewJWTConfig() (*JWTConfig, error) {
	return JWTConfigFromEnv(os.Getenv)
}

// JWTConfigFromEnv builds a JWTConfig from variables read through getenv.
func JWTConfigFromEnv(getenv func(string) string) (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          getenv("JWT_SECRET"),
		Issuer:          getenv("JWT_ISSUER"),
		ExpirationHours: defaultJWTExpirationHours,
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultJWTIssuer
	}

	if v := getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		cfg.ExpirationHours = hours
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Enabled reports whether a signing secret is configured.
func (c *JWTConfig) Enabled() bool {
	return c != nil && c.Secret != ""
}

// Validate checks the expiration and, when set, the secret length.
func (c *JWTConfig) Validate() error {
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	if c.Secret != "" && len(c.Secret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	return nil
}
