// Package config loads settings for undostack.
//
// Settings come from three places, later ones overriding earlier:
//
//  1. Built-in defaults (Default)
//  2. A configuration file, TOML or YAML chosen by extension
//  3. Environment variables with the UNDOSTACK_ prefix
//
// Example TOML:
//
//	[history]
//	max_units = 30000
//	min_transactions = 30
//
//	[logging]
//	level = "debug"
//	format = "json"
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/undostack/internal/history"
)

// Config is the complete configuration.
type Config struct {
	History HistoryConfig `toml:"history" yaml:"history"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// HistoryConfig holds the undo retention policy.
type HistoryConfig struct {
	// MaxUnits is the unit budget above which old transactions are dropped.
	MaxUnits int `toml:"max_units" yaml:"max_units"`

	// MinTransactions is the number of transactions always kept.
	MinTransactions int `toml:"min_transactions" yaml:"min_transactions"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxUnits:        history.DefaultMaxUnits,
			MinTransactions: history.DefaultMinTransactions,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var problems []FieldError

	if c.History.MaxUnits < 1 {
		problems = append(problems, FieldError{
			Path:    "history.max_units",
			Message: "must be at least 1",
			Value:   c.History.MaxUnits,
		})
	}
	if c.History.MinTransactions < 1 {
		problems = append(problems, FieldError{
			Path:    "history.min_transactions",
			Message: "must be at least 1",
			Value:   c.History.MinTransactions,
		})
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		problems = append(problems, FieldError{
			Path:    "logging.level",
			Message: "must be debug, info, warn or error",
			Value:   c.Logging.Level,
		})
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		problems = append(problems, FieldError{
			Path:    "logging.format",
			Message: `must be "text" or "json"`,
			Value:   c.Logging.Format,
		})
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

// HistoryOptions returns the manager options this configuration implies.
func (c Config) HistoryOptions() []history.Option {
	return []history.Option{
		history.WithRetention(c.History.MaxUnits, c.History.MinTransactions),
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
