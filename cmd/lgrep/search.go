package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/standardbeagle/lgrep/internal/config"
	lgreperrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/logging"
	"github.com/standardbeagle/lgrep/internal/metrics"
	"github.com/standardbeagle/lgrep/internal/search"
	"github.com/standardbeagle/lgrep/internal/searchtypes"
	"github.com/standardbeagle/lgrep/internal/version"

	"github.com/urfave/cli/v2"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("ignore-case") {
		cfg.Search.IgnoreCase = c.Bool("ignore-case")
	}
	if c.IsSet("recursive") {
		cfg.Search.Recursive = c.Bool("recursive")
	}
	if c.IsSet("follow-symlinks") {
		cfg.Search.FollowSymlinks = c.Bool("follow-symlinks")
	}
	if c.IsSet("color") {
		cfg.Output.Color = c.String("color")
	}
	if c.IsSet("count-zero") {
		cfg.Output.CountZero = c.Bool("count-zero")
	}
	if c.IsSet("json") {
		cfg.Output.JSON = c.Bool("json")
	}
	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if c.IsSet("log-dir") {
		cfg.Log.Dir = c.String("log-dir")
	}
	if c.Bool("no-log") {
		cfg.Log.Enabled = false
	}
	if c.Bool("debug") {
		cfg.Log.Level = "debug"
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLogger builds the run logger. The returned close func is never nil.
func openLogger(cfg *config.Config, stderr io.Writer, colorStderr bool) (*logging.RunLogger, string, func(), error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, "", nil, err
	}

	opts := logging.Options{
		FileLevel:    level,
		Console:      stderr,
		ConsoleLevel: logging.LevelWarn,
		Color:        colorStderr,
	}
	if !cfg.Log.Enabled {
		return logging.New(opts), "", func() {}, nil
	}

	file, logPath, err := logging.OpenRunLog(cfg.Log.Dir, time.Now())
	if err != nil {
		return nil, "", nil, err
	}
	opts.File = file
	return logging.New(opts), logPath, func() { _ = file.Close() }, nil
}

func buildRequest(c *cli.Context, cfg *config.Config, highlight bool) searchtypes.SearchRequest {
	args := c.Args().Slice()
	return searchtypes.SearchRequest{
		Pattern:        args[0],
		Paths:          args[1:],
		IgnoreCase:     cfg.Search.IgnoreCase,
		InvertMatch:    c.Bool("invert-match"),
		Recursive:      cfg.Search.Recursive,
		CountOnly:      c.Bool("count"),
		Highlight:      highlight,
		FollowSymlinks: cfg.Search.FollowSymlinks,
		Include:        cfg.Include,
		Exclude:        cfg.Exclude,
		CountZero:      cfg.Output.CountZero,
		JSON:           cfg.Output.JSON,
	}
}

func searchAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: "+usageText, exitError)
	}
	stdout, stderr := c.App.Writer, c.App.ErrWriter

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("lgrep: %v", err), exitError)
	}

	colorOut := colorEnabled(cfg.Output.Color, stdout)
	colorErr := colorEnabled(cfg.Output.Color, stderr)

	logger, logPath, closeLog, err := openLogger(cfg, stderr, colorErr)
	if err != nil {
		return cli.Exit(fmt.Sprintf("lgrep: %v", err), exitError)
	}
	defer closeLog()

	logger.Infof("%s started: args=%q cwd=%s", version.FullInfo(), c.Args().Slice(), workingDir())
	logger.Debugf("build=%s config_sources=%q", version.BuildID(), cfg.Sources)

	req := buildRequest(c, cfg, colorOut)
	engine := search.NewEngine(stdout, logger)
	if colorOut {
		engine.SetMarkers(matchMarkers(), prefixMarkers())
	}

	stats, runErr := engine.Run(c.Context, req)

	// The performance record is written whatever the outcome
	summary := metrics.NewRunSummary(stats)
	logger.Infof("%s", summary.String())
	if cfg.Output.JSON {
		if data, err := json.Marshal(summary.FormatAsJSON()); err == nil {
			logger.Infof("Performance JSON: %s", data)
		}
	}
	if logPath != "" {
		logger.Console("%s", paint(colorErr, "Log written to: "+logPath, color.FgCyan))
	}

	switch {
	case stats.Interrupted:
		logger.Infof("Interrupted by user")
		return cli.Exit(paint(colorErr, "Interrupted.", color.FgRed), exitInterrupted)
	case lgreperrors.IsFatal(runErr):
		return cli.Exit("", exitError) // already reported through the logger
	case runErr != nil:
		logger.Errorf("%v", runErr)
		return cli.Exit("", exitError)
	case stats.HasMatches():
		return nil
	default:
		return cli.Exit("", exitNoMatch)
	}
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "?"
	}
	return wd
}
