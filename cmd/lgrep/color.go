package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/standardbeagle/lgrep/internal/config"
	"github.com/standardbeagle/lgrep/internal/display"
)

// colorEnabled resolves a color mode for the writer it will be applied to
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	if _, set := os.LookupEnv("NO_COLOR"); set || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// colorMarkers returns the escape sequences fatih/color wraps text with
func colorMarkers(attrs ...color.Attribute) display.Markers {
	c := color.New(attrs...)
	c.EnableColor()

	s := c.Sprint("\x00")
	i := strings.IndexByte(s, 0)
	if i < 0 {
		return display.Markers{}
	}
	return display.Markers{Begin: s[:i], End: s[i+1:]}
}

func matchMarkers() display.Markers  { return colorMarkers(color.FgYellow) }
func prefixMarkers() display.Markers { return colorMarkers(color.Faint) }

// paint colors a one-off stderr message
func paint(enabled bool, s string, attrs ...color.Attribute) string {
	if !enabled {
		return s
	}
	m := colorMarkers(attrs...)
	return m.Begin + s + m.End
}
