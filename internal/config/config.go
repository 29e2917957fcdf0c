// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration shared by the CLI, HTTP and MCP servers.
type Config struct {
	Port      int     `env:"SUBDESIGNER_PORT" envDefault:"3000"`
	DBPath    string  `env:"SUBDESIGNER_DB_PATH" envDefault:"subdesigner.db"`
	RulesDir  string  `env:"SUBDESIGNER_RULES_DIR"`
	RateLimit float64 `env:"SUBDESIGNER_RATE_LIMIT" envDefault:"20"` // requests per second
	RateBurst int     `env:"SUBDESIGNER_RATE_BURST" envDefault:"40"`

	LogLevel      string `env:"SUBDESIGNER_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"SUBDESIGNER_LOG_FORMAT" envDefault:"json"`
	LogOutput     string `env:"SUBDESIGNER_LOG_OUTPUT" envDefault:"stderr"`
	LogMaxAgeDays int    `env:"SUBDESIGNER_LOG_MAX_AGE_DAYS" envDefault:"0"`

	OTelEndpoint string `env:"SUBDESIGNER_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no server could run with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be > 0 (got %v)", c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be >= 1 (got %d)", c.RateBurst)
	}
	if c.LogMaxAgeDays < 0 {
		return fmt.Errorf("log max age must be >= 0 (got %d)", c.LogMaxAgeDays)
	}
	return nil
}
