// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults.
//   - Load layers defaults, an optional YAML file and RALLY_* env vars.
//   - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/rallyscore/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches the log handler to JSON output.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DefaultWinner is the tie-break side ("top" or "bottom") credited when
	// a section has no usable point winner. Requests may override it.
	DefaultWinner string `koanf:"default_winner"`

	// MaxSectionsPerMatch bounds how many sections one match may hold.
	MaxSectionsPerMatch int `koanf:"max_sections_per_match"`

	// MaxBodyBytes caps request bodies accepted by the HTTP API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DefaultWinner:       "top",
		MaxSectionsPerMatch: 10_000,
		MaxBodyBytes:        4 << 20,
	}
}

// Winner returns the parsed tie-break side.
func (c *Config) Winner() model.Side {
	return model.ParseSide(c.DefaultWinner)
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !c.Winner().Valid():
		return fmt.Errorf("%w: default_winner must be top or bottom, got %q", ErrInvalidConfig, c.DefaultWinner)
	case c.MaxSectionsPerMatch <= 0:
		return fmt.Errorf("%w: max_sections_per_match must be positive", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
