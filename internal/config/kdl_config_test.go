package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default(), cfg)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
version 1

search {
    ignore_case true
    recursive true
    follow_symlinks true
}

output {
    color "always"
    count_zero true
    json true
}

log {
    enabled false
    dir "/var/log/lgrep"
    level "debug"
}

include "*.go" "*.md"
exclude "**/.git/**" "**/node_modules/**"
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.True(t, cfg.Search.IgnoreCase)
	assert.True(t, cfg.Search.Recursive)
	assert.True(t, cfg.Search.FollowSymlinks)
	assert.Equal(t, "always", cfg.Output.Color)
	assert.True(t, cfg.Output.CountZero)
	assert.True(t, cfg.Output.JSON)
	assert.False(t, cfg.Log.Enabled)
	assert.Equal(t, "/var/log/lgrep", cfg.Log.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"*.go", "*.md"}, cfg.Include)
	assert.Equal(t, []string{"**/.git/**", "**/node_modules/**"}, cfg.Exclude)
}

func TestParseKDL_PartialSection(t *testing.T) {
	cfg, err := parseKDL(`
output {
    count_zero true
}
`)
	require.NoError(t, err)
	assert.True(t, cfg.Output.CountZero)
	assert.Equal(t, ColorAuto, cfg.Output.Color, "unset keys keep their defaults")
	assert.True(t, cfg.Log.Enabled)
}

func TestParseKDL_WrongTypeIgnored(t *testing.T) {
	cfg, err := parseKDL(`
search {
    recursive "yes"
}
`)
	require.NoError(t, err)
	assert.False(t, cfg.Search.Recursive)
}

func TestParseKDL_RepeatedListsAppend(t *testing.T) {
	cfg, err := parseKDL(`
exclude "vendor"
exclude "build"
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor", "build"}, cfg.Exclude)
}

func TestParseKDL_SyntaxError(t *testing.T) {
	_, err := parseKDL("search {\n    recursive true\n")
	assert.Error(t, err)
}
