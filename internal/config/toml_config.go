package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// tomlConfig mirrors Config with optional fields, so that only keys present
// in the file override the defaults
type tomlConfig struct {
	Version *int `toml:"version"`
	Search  struct {
		IgnoreCase     *bool `toml:"ignore_case"`
		Recursive      *bool `toml:"recursive"`
		FollowSymlinks *bool `toml:"follow_symlinks"`
	} `toml:"search"`
	Output struct {
		Color     *string `toml:"color"`
		CountZero *bool   `toml:"count_zero"`
		JSON      *bool   `toml:"json"`
	} `toml:"output"`
	Log struct {
		Enabled *bool   `toml:"enabled"`
		Dir     *string `toml:"dir"`
		Level   *string `toml:"level"`
	} `toml:"log"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// loadTOML applies the .lgrep.toml file in dir on top of base. It returns nil
// when the file does not exist.
func loadTOML(dir string, base *Config) (*Config, error) {
	tomlPath := filepath.Join(dir, TOMLFileName)

	data, err := os.ReadFile(tomlPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", tomlPath, err)
	}

	cfg, err := overlayTOML(base, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tomlPath, err)
	}
	cfg.Sources = append(cfg.Sources, tomlPath)
	return cfg, nil
}

func parseTOML(data []byte) (*Config, error) {
	return overlayTOML(Default(), data)
}

// overlayTOML applies the keys present in data on top of a copy of base
func overlayTOML(base *Config, data []byte) (*Config, error) {
	var tc tomlConfig
	if err := toml.Unmarshal(data, &tc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse TOML config at line %d, column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := base.clone()
	setInt(&cfg.Version, tc.Version)
	setBool(&cfg.Search.IgnoreCase, tc.Search.IgnoreCase)
	setBool(&cfg.Search.Recursive, tc.Search.Recursive)
	setBool(&cfg.Search.FollowSymlinks, tc.Search.FollowSymlinks)
	setString(&cfg.Output.Color, tc.Output.Color)
	setBool(&cfg.Output.CountZero, tc.Output.CountZero)
	setBool(&cfg.Output.JSON, tc.Output.JSON)
	setBool(&cfg.Log.Enabled, tc.Log.Enabled)
	setString(&cfg.Log.Dir, tc.Log.Dir)
	setString(&cfg.Log.Level, tc.Log.Level)
	if tc.Include != nil {
		cfg.Include = append([]string{}, tc.Include...)
	}
	cfg.Exclude = append(cfg.Exclude, tc.Exclude...)
	return cfg, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
