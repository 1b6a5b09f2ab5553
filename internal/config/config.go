package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config file names looked up in the home and working directories
const (
	KDLFileName  = ".lgrep.kdl"
	TOMLFileName = ".lgrep.toml"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	DefaultLogDir   = "logs"
	DefaultLogLevel = "info"
)

type Config struct {
	Version int
	Search  Search
	Output  Output
	Log     Log
	Include []string // doublestar globs a file must match, empty means every file
	Exclude []string // doublestar globs for files and directories to skip
	Sources []string // files this config was loaded from, in load order
}

// Search holds the defaults for the matching flags
type Search struct {
	IgnoreCase     bool
	Recursive      bool
	FollowSymlinks bool
}

type Output struct {
	Color     string // "auto", "always" or "never"
	CountZero bool   // emit path:0 lines in count mode
	JSON      bool
}

type Log struct {
	Enabled bool
	Dir     string
	Level   string // "debug", "info", "warn" or "error"
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Version: 1,
		Output: Output{
			Color: ColorAuto,
		},
		Log: Log{
			Enabled: true,
			Dir:     DefaultLogDir,
			Level:   DefaultLogLevel,
		},
		Include: []string{},
		Exclude: []string{},
	}
}

// Load reads path when given, otherwise the home and working directory configs
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	return LoadWithRoot("")
}

// LoadWithRoot loads ~/.lgrep.kdl as a base, then applies the config in
// rootDir (the working directory when empty) on top of it. Settings the
// project file leaves out keep their base value, exclusions accumulate and a
// project include list replaces the base one.
func LoadWithRoot(rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	// Step 1: Load global base config from the home directory (if exists)
	base := Default()
	if homeDir, err := os.UserHomeDir(); err == nil && !sameDir(homeDir, searchDir) {
		globalCfg, err := loadDir(homeDir, base)
		if err != nil {
			return nil, err
		}
		if globalCfg != nil {
			base = globalCfg
		}
	}

	// Step 2: Apply the project-specific config over the base
	projectConfig, err := loadDir(searchDir, base)
	if err != nil {
		return nil, err
	}
	if projectConfig == nil {
		return base, nil
	}
	projectConfig.Exclude = DeduplicatePatterns(projectConfig.Exclude)
	return projectConfig, nil
}

// LoadFile loads one explicit config file. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kdl":
		cfg, err = parseKDL(string(content))
	case ".toml":
		cfg, err = parseTOML(content)
	default:
		return nil, fmt.Errorf("unsupported config format %q (expected .kdl or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Sources = []string{path}
	return cfg, nil
}

// loadDir applies the KDL config in dir on top of base, falling back to
// TOML. It returns nil when neither file exists.
func loadDir(dir string, base *Config) (*Config, error) {
	if cfg, err := loadKDL(dir, base); err != nil || cfg != nil {
		return cfg, err
	}
	return loadTOML(dir, base)
}

// sameDir reports whether a and b resolve to the same directory
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// clone returns a copy whose slices can be appended to without touching c
func (c *Config) clone() *Config {
	cp := *c
	cp.Include = append([]string{}, c.Include...)
	cp.Exclude = append([]string{}, c.Exclude...)
	cp.Sources = append([]string(nil), c.Sources...)
	return &cp
}

// DeduplicatePatterns removes repeated patterns, keeping first occurrences in order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
