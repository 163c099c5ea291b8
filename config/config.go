package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process-wide configuration, read from the environment once at startup
type Config struct {
	Port            string        `env:"TASKS_PORT" envDefault:"8080"`
	DatabasePath    string        `env:"TASKS_DATABASE_PATH" envDefault:"./tasks.db"`
	SecretKey       string        `env:"TASKS_SECRET_KEY"`
	TokenTTL        time.Duration `env:"TASKS_TOKEN_TTL" envDefault:"30m"`
	BcryptCost      int           `env:"TASKS_BCRYPT_COST" envDefault:"12"`
	ShutdownTimeout time.Duration `env:"TASKS_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment into a Config
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TASKS_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

// RequireSecret fails when no signing key is configured. Only commands that
// issue or check tokens need one.
func (c Config) RequireSecret() error {
	if c.SecretKey == "" {
		return fmt.Errorf("TASKS_SECRET_KEY must be set")
	}
	return nil
}
