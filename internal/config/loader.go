package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if CPCOACH_CONFIG is set
//  3. env (prefix CPCOACH_)
//
// A .env file in the working directory is read first, if present, so local
// development does not need exported variables.
func Load(_ context.Context) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("CPCOACH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CPCOACH_ADDR, CPCOACH_FETCH_TIMEOUT_MS, ...
	// Map env keys like CPCOACH_FETCH_TIMEOUT_MS -> fetch_timeout_ms and
	// preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("CPCOACH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "cpcoach_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.FetchTimeoutMS <= 0 {
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.ContestWindowDays <= 0 {
		return fmt.Errorf("%w: contest_window_days must be positive", ErrInvalidConfig)
	}
	if c.ContestLimit <= 0 {
		return fmt.Errorf("%w: contest_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
