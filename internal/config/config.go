// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BearerToken, when non-empty, is required on every API request.
	BearerToken string `koanf:"bearer_token"`

	// FetchTimeoutMS bounds each platform API call.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// Per-platform base URLs, overridable for testing against doubles.
	CodeforcesBaseURL string `koanf:"codeforces_base_url"`
	LeetCodeBaseURL   string `koanf:"leetcode_base_url"`
	CodeChefBaseURL   string `koanf:"codechef_base_url"`

	// ContestWindowDays caps how far ahead the contest feed looks.
	ContestWindowDays int `koanf:"contest_window_days"`

	// ContestLimit caps the number of entries in the merged contest feed.
	ContestLimit int `koanf:"contest_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		FetchTimeoutMS:    8_000,
		ContestWindowDays: 30,
		ContestLimit:      15,
	}
}

// FetchTimeout returns the per-platform call budget as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// ContestWindow returns the contest lookahead as a duration.
func (c *Config) ContestWindow() time.Duration {
	return time.Duration(c.ContestWindowDays) * 24 * time.Hour
}
