package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/standardbeagle/lgrep/internal/version"

	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	exitMatch       = 0
	exitNoMatch     = 1
	exitError       = 2
	exitInterrupted = 130
)

const usageText = "lgrep [options] PATTERN PATH..."

func newApp(stdout, stderr io.Writer) *cli.App {
	// -v belongs to --invert-match, as in grep
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "Print the version",
		DisableDefaultText: true,
	}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.FullInfo())
	}

	return &cli.App{
		Name:                   "lgrep",
		Usage:                  "Search files for lines matching a regular expression",
		UsageText:              usageText,
		ArgsUsage:              "PATTERN PATH...",
		Version:                version.Version,
		UseShortOptionHandling: true,
		HideHelpCommand:        true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "Case-insensitive matching",
			},
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"r"},
				Usage:   "Descend into subdirectories",
			},
			&cli.BoolFlag{
				Name:    "invert-match",
				Aliases: []string{"v", "not"},
				Usage:   "Select lines that do NOT match",
			},
			&cli.BoolFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Usage:   "Print only a count of selected lines per file",
			},
			&cli.BoolFlag{
				Name:  "count-zero",
				Usage: "With --count, also print files with zero selected lines",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Highlight matches: auto, always or never",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print one JSON object per result line",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only search files matching glob patterns (e.g., --include '*.go' --include 'src/**/*.ts')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip files and directories matching glob patterns (e.g., --exclude vendor)",
			},
			&cli.BoolFlag{
				Name:    "follow-symlinks",
				Aliases: []string{"L"},
				Usage:   "Follow symbolic links to directories during recursion",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file path (.kdl or .toml); default: ~/" + ".lgrep.kdl merged with ./.lgrep.kdl",
			},
			&cli.StringFlag{
				Name:  "log-dir",
				Usage: "Directory for the run log",
			},
			&cli.BoolFlag{
				Name:  "no-log",
				Usage: "Do not write a run log",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug details to the run log",
			},
		},
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return cli.Exit(fmt.Sprintf("lgrep: %v\nusage: %s", err, usageText), exitError)
		},
		// Exit codes are mapped by run so that tests never hit os.Exit
		ExitErrHandler: func(c *cli.Context, err error) {},
		Action:         searchAction,
	}
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	return exitCode(app.RunContext(ctx, args), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitMatch
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}

	fmt.Fprintf(stderr, "lgrep: %v\n", err)
	return exitError
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
