package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	lgreperrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/logging"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
// Returns an error if validation fails
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	v.setSmartDefaults(cfg)

	if err := v.validateOutputConfig(&cfg.Output); err != nil {
		return lgreperrors.NewConfigError("output", cfg.Output.Color, err)
	}

	if err := v.validateLogConfig(&cfg.Log); err != nil {
		return lgreperrors.NewConfigError("log", cfg.Log.Level, err)
	}

	if err := v.validatePatterns("include", cfg.Include); err != nil {
		return err
	}
	if err := v.validatePatterns("exclude", cfg.Exclude); err != nil {
		return err
	}

	return nil
}

// validateOutputConfig validates output configuration
func (v *Validator) validateOutputConfig(output *Output) error {
	switch output.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("color must be one of auto, always, never, got %q", output.Color)
	}
}

// validateLogConfig validates log configuration
func (v *Validator) validateLogConfig(l *Log) error {
	if _, err := logging.ParseLevel(l.Level); err != nil {
		return err
	}
	if l.Enabled && strings.TrimSpace(l.Dir) == "" {
		return errors.New("log dir cannot be empty when logging is enabled")
	}
	return nil
}

func (v *Validator) validatePatterns(field string, patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return lgreperrors.NewConfigError(field, p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// setSmartDefaults fills in values left empty by a config file
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	cfg.Output.Color = strings.ToLower(strings.TrimSpace(cfg.Output.Color))
	if cfg.Output.Color == "" {
		cfg.Output.Color = ColorAuto
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	cfg.Include = DeduplicatePatterns(cfg.Include)
	cfg.Exclude = DeduplicatePatterns(cfg.Exclude)
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
