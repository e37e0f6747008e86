// Package config loads application-level security configuration.
// Runtime tuning knobs (pool sizes, timeouts, pagination) live in
// pkg/config; this package covers the YAML-backed security policy.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SecurityConfig represents security configuration.
type SecurityConfig struct {
	Security struct {
		Password struct {
			MinLength int `yaml:"min_length"`
		} `yaml:"password"`
		PublicEndpoints []string `yaml:"public_endpoints"`
		JWT             struct {
			SecretEnv   string   `yaml:"secret_env"`
			ExpiryHours int      `yaml:"expiry_hours"`
			WeakSecrets []string `yaml:"weak_secrets"`
		} `yaml:"jwt"`
	} `yaml:"security"`
}

// DefaultSecurityConfig returns the policy used when no config file is
// provided: 8-char password minimum, 24h tokens, the standard public
// endpoints, and the common weak secret values rejected at startup.
func DefaultSecurityConfig() *SecurityConfig {
	var c SecurityConfig
	c.Security.Password.MinLength = 8
	c.Security.PublicEndpoints = []string{"/health", "/ready", "/live", "/metrics"}
	c.Security.JWT.SecretEnv = "JWT_SECRET"
	c.Security.JWT.ExpiryHours = 24
	c.Security.JWT.WeakSecrets = []string{"secret", "password", "test", "admin", "default"}
	return &c
}

// LoadSecurityConfig loads security configuration from a YAML file.
// The path parameter is expected to come from a trusted source (command-line argument or hardcoded default).
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SecurityConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateSecurityConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// validateSecurityConfig validates the loaded configuration.
func validateSecurityConfig(config *SecurityConfig) error {
	if config.Security.Password.MinLength <= 0 {
		return fmt.Errorf("password min_length must be positive")
	}
	if config.Security.Password.MinLength < 8 {
		return fmt.Errorf("password min_length must be at least 8")
	}

	if config.Security.JWT.SecretEnv == "" {
		return fmt.Errorf("jwt secret_env is required")
	}
	if config.Security.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("jwt expiry_hours must be positive")
	}

	return nil
}

// GetMinPasswordLength returns the minimum password length requirement.
func (c *SecurityConfig) GetMinPasswordLength() int {
	return c.Security.Password.MinLength
}

// GetPublicEndpoints returns the list of endpoints served without a token.
func (c *SecurityConfig) GetPublicEndpoints() []string {
	return c.Security.PublicEndpoints
}

// GetJWTSecretEnv returns the environment variable name for the JWT secret.
func (c *SecurityConfig) GetJWTSecretEnv() string {
	return c.Security.JWT.SecretEnv
}

// GetWeakSecrets returns the secret values rejected at startup.
func (c *SecurityConfig) GetWeakSecrets() []string {
	return c.Security.JWT.WeakSecrets
}

// TokenTTL returns the access token lifetime.
func (c *SecurityConfig) TokenTTL() time.Duration {
	return time.Duration(c.Security.JWT.ExpiryHours) * time.Hour
}
