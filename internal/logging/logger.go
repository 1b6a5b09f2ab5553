// Package logging is the run's error and diagnostics side channel.
//
// Every run writes a log file (info and above, debug with --debug). Warnings
// and errors are also echoed to the console so that a piped stdout stays
// clean. Nothing in this package writes to stdout.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Level orders log messages by severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase level name
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a case-insensitive level name
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}

// Logger is the interface the search pipeline logs through
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Options configures a RunLogger. A nil writer disables that sink.
type Options struct {
	File         io.Writer
	FileLevel    Level
	Console      io.Writer
	ConsoleLevel Level
	Color        bool // color console prefixes
}

// RunLogger fans messages out to the log file and the console
type RunLogger struct {
	mu           sync.Mutex
	fileLogger   *log.Logger
	fileLevel    Level
	console      io.Writer
	consoleLevel Level
	warnColor    *color.Color
	errorColor   *color.Color
}

// New creates a RunLogger
func New(opts Options) *RunLogger {
	rl := &RunLogger{
		fileLevel:    opts.FileLevel,
		console:      opts.Console,
		consoleLevel: opts.ConsoleLevel,
		warnColor:    color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed, color.Bold),
	}
	if opts.File != nil {
		rl.fileLogger = log.New(opts.File, "", log.LstdFlags|log.Lmicroseconds)
	}
	if opts.Color {
		rl.warnColor.EnableColor()
		rl.errorColor.EnableColor()
	} else {
		rl.warnColor.DisableColor()
		rl.errorColor.DisableColor()
	}
	return rl
}

// Debugf logs at debug level
func (rl *RunLogger) Debugf(format string, args ...interface{}) {
	rl.logf(LevelDebug, format, args...)
}

// Infof logs at info level
func (rl *RunLogger) Infof(format string, args ...interface{}) {
	rl.logf(LevelInfo, format, args...)
}

// Warnf logs at warn level
func (rl *RunLogger) Warnf(format string, args ...interface{}) {
	rl.logf(LevelWarn, format, args...)
}

// Errorf logs at error level
func (rl *RunLogger) Errorf(format string, args ...interface{}) {
	rl.logf(LevelError, format, args...)
}

// Console writes a plain notice to the console regardless of level
func (rl *RunLogger) Console(format string, args ...interface{}) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.console != nil {
		fmt.Fprintf(rl.console, format+"\n", args...)
	}
}

func (rl *RunLogger) logf(level Level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.fileLogger != nil && level >= rl.fileLevel {
		rl.fileLogger.Printf("%s: %s", strings.ToUpper(level.String()), msg)
	}
	if rl.console != nil && level >= rl.consoleLevel {
		fmt.Fprintf(rl.console, "%s %s\n", rl.consolePrefix(level), msg)
	}
}

func (rl *RunLogger) consolePrefix(level Level) string {
	switch level {
	case LevelError:
		return rl.errorColor.Sprint("error:")
	case LevelWarn:
		return rl.warnColor.Sprint("warning:")
	default:
		return level.String() + ":"
	}
}

type discard struct{}

func (discard) Debugf(string, ...interface{}) {}
func (discard) Infof(string, ...interface{})  {}
func (discard) Warnf(string, ...interface{})  {}
func (discard) Errorf(string, ...interface{}) {}

// Discard drops every message
var Discard Logger = discard{}
