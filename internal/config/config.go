// ABOUTME: Configuration loading and parsing for fashiond
// ABOUTME: Supports YAML files with environment variable expansion plus an env-only fallback

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// MinSecretLength is the minimum accepted JWT signing secret length in bytes.
const MinSecretLength = 32

// Config represents the complete fashiond configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Payments PaymentsConfig `yaml:"payments"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the HTTP listen address
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds MongoDB connection configuration
type DatabaseConfig struct {
	URI  string `yaml:"uri"`
	Name string `yaml:"name"`
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// PaymentsConfig holds payment processor configuration
type PaymentsConfig struct {
	StripeSecretKey string `yaml:"stripe_secret_key"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config purely from environment variables. Used when no
// config file exists so the server still runs from PORT, MONGODB_URI, DB_NAME,
// ACCESS_TOKEN_SECRET and PAYMENT_SECRET_KEY.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URI:  os.Getenv("MONGODB_URI"),
			Name: os.Getenv("DB_NAME"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
		},
		Payments: PaymentsConfig{
			StripeSecretKey: os.Getenv("PAYMENT_SECRET_KEY"),
		},
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Database.Name == "" {
		c.Database.Name = "sarkerDB"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
// The Stripe key is deliberately not required: a dev instance without it runs
// everything except payment-intent creation.
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("database.uri is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < MinSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", MinSecretLength)
	}

	return nil
}
