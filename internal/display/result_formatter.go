package display

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/standardbeagle/lgrep/internal/searchtypes"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Markers are inserted around a highlighted region. The formatter does not
// care what they contain; the CLI supplies terminal escape sequences.
type Markers struct {
	Begin string
	End   string
}

// IsZero reports whether both markers are empty
func (m Markers) IsZero() bool {
	return m.Begin == "" && m.End == ""
}

// ResultOptions controls result rendering
type ResultOptions struct {
	Format    string  // "text" (default) or "json"
	Highlight bool    // wrap matched spans with Match markers (text only)
	Match     Markers // around each matched span
	Prefix    Markers // around the "path:line:" / "path:" prefix (text only)
}

// ResultFormatter renders match and count lines. It never writes output; the
// engine owns sequencing.
type ResultFormatter struct {
	options ResultOptions
}

// NewResultFormatter creates a formatter
func NewResultFormatter(options ResultOptions) *ResultFormatter {
	if options.Format == "" {
		options.Format = FormatText
	}
	return &ResultFormatter{options: options}
}

// Options returns the effective options
func (rf *ResultFormatter) Options() ResultOptions {
	return rf.options
}

type jsonCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// FormatMatch renders one selected line as path:line_number:text
func (rf *ResultFormatter) FormatMatch(rec searchtypes.MatchRecord) string {
	if rf.options.Format == FormatJSON {
		return marshalLine(rec)
	}

	prefix := rec.Path + ":" + strconv.Itoa(rec.LineNumber) + ":"
	text := rec.Text
	if rf.options.Highlight {
		text = InsertMarkers(text, rec.Spans, rf.options.Match)
	}
	return rf.wrapPrefix(prefix) + text
}

// FormatCount renders a per-file total as path:count
func (rf *ResultFormatter) FormatCount(path string, count int) string {
	if rf.options.Format == FormatJSON {
		return marshalLine(jsonCount{Path: path, Count: count})
	}
	return rf.wrapPrefix(path+":") + strconv.Itoa(count)
}

func (rf *ResultFormatter) wrapPrefix(prefix string) string {
	if rf.options.Prefix.IsZero() {
		return prefix
	}
	return rf.options.Prefix.Begin + prefix + rf.options.Prefix.End
}

// InsertMarkers wraps every span of text with m. Spans are applied right to
// left so earlier offsets stay valid while markers are inserted. Spans that
// are empty, out of range, unordered or overlapping are skipped.
func InsertMarkers(text string, spans []searchtypes.Span, m Markers) string {
	if len(spans) == 0 || m.IsZero() {
		return text
	}

	out := text
	limit := len(text)
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		if s.Start < 0 || s.End > limit || s.Start >= s.End {
			continue
		}
		out = out[:s.Start] + m.Begin + out[s.Start:s.End] + m.End + out[s.End:]
		limit = s.Start
	}
	return out
}

// StripMarkers removes every occurrence of the given markers from s
func StripMarkers(s string, markers ...Markers) string {
	for _, m := range markers {
		if m.Begin != "" {
			s = strings.ReplaceAll(s, m.Begin, "")
		}
		if m.End != "" {
			s = strings.ReplaceAll(s, m.End, "")
		}
	}
	return s
}

func marshalLine(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only strings and ints are marshalled; this cannot fail
		return "{}"
	}
	return string(data)
}
