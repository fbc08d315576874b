package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"GO_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL"`

	BackendURL string `env:"BACKEND_URL,required,notEmpty"`
	// BackendTimeout of zero leaves backend calls unbounded.
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"`

	SignupFeedbackDelay  time.Duration `env:"SIGNUP_FEEDBACK_DELAY" envDefault:"5s"`
	RemovalFeedbackDelay time.Duration `env:"REMOVAL_FEEDBACK_DELAY" envDefault:"4s"`

	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	WorkerPoolSize int           `env:"WORKER_POOL_SIZE" envDefault:"4"`

	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration from the environment. Outside production a .env
// file in the working directory is loaded first; it never overrides
// variables that are already set.
func Load() (Config, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.BackendURL)
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must not be negative")
	}
	if c.SignupFeedbackDelay <= 0 || c.RemovalFeedbackDelay <= 0 {
		return fmt.Errorf("feedback delays must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.WorkerPoolSize < 1 {
		return fmt.Errorf("WORKER_POOL_SIZE must be at least 1")
	}
	return nil
}
