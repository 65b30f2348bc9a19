// Package config provides configuration types, defaults, and persistence
// for scopekit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scopekit/scopekit/internal/ident"
	"github.com/scopekit/scopekit/internal/tracing"
)

// Config holds all configuration options for scopekit.
type Config struct {
	// LogPath enables debug logging to the given file when non-empty.
	LogPath string `mapstructure:"log_path"`

	// Debug lowers the minimum log level to debug.
	Debug bool `mapstructure:"debug"`

	// TypeCodes maps widget kind names to the short codes embedded in
	// identifiers, e.g. "chart" -> "ch".
	TypeCodes map[string]string `mapstructure:"type_codes"`

	Registry RegistryConfig `mapstructure:"registry"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// RegistryConfig holds registry tuning options.
type RegistryConfig struct {
	// EventBuffer is the per-subscriber channel depth for registry
	// lifecycle events. Slow subscribers drop events past this depth.
	EventBuffer int `mapstructure:"event_buffer"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		TypeCodes: DefaultTypeCodes(),
		Registry:  RegistryConfig{EventBuffer: 16},
		Tracing:   tracing.DefaultConfig(),
	}
}

// DefaultTypeCodes returns the built-in widget kind table.
func DefaultTypeCodes() map[string]string {
	return map[string]string{
		"chart":   "ch",
		"scope":   "sc",
		"table":   "tb",
		"readout": "ro",
		"control": "cn",
	}
}

// DefaultConfigPath returns ~/.config/scopekit/config.yml, or empty
// string if the home directory is unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "scopekit", "config.yml")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "scopekit", "traces", "traces.jsonl")
}

// Validate checks the full configuration for errors.
func Validate(cfg Config) error {
	if err := ValidateTypeCodes(cfg.TypeCodes); err != nil {
		return err
	}
	if err := ValidateRegistry(cfg.Registry); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateTypeCodes checks the widget kind table. Codes become identifier
// fields, so they must not collide with the grammar's reserved tokens.
func ValidateTypeCodes(codes map[string]string) error {
	for kind, code := range codes {
		if code == "" {
			return fmt.Errorf("type_codes.%s: code is required", kind)
		}
		if strings.Contains(code, ":") {
			return fmt.Errorf("type_codes.%s: code %q must not contain %q", kind, code, ":")
		}
		if code == ident.ObservableTag {
			return fmt.Errorf("type_codes.%s: code %q is reserved for observables", kind, code)
		}
		if code == ident.NullField {
			return fmt.Errorf("type_codes.%s: code %q is reserved as the null field", kind, code)
		}
	}
	return nil
}

// ValidateRegistry checks registry tuning options.
func ValidateRegistry(reg RegistryConfig) error {
	if reg.EventBuffer < 0 {
		return fmt.Errorf("registry.event_buffer must be >= 0, got %d", reg.EventBuffer)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Empty values use defaults.
func ValidateTracing(cfg tracing.Config) error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	switch cfg.Exporter {
	case "", "none", "file", "stdout", "otlp":
		return nil
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter)
	}
}
