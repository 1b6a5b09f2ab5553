// Package matcher wraps the compiled search pattern and answers, per line,
// whether it is selected and which byte spans should be highlighted.
package matcher

import (
	"errors"
	"regexp"

	lgreperrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/searchtypes"
)

// caseInsensitiveFlag is prepended to the pattern when case folding is requested
const caseInsensitiveFlag = "(?i)"

// Outcome is the result of evaluating one line.
// Spans holds the non-empty matched ranges in increasing order; it is empty
// for inverted selections and for lines matched only by empty matches.
type Outcome struct {
	Matched bool
	Spans   []searchtypes.Span
}

// NoMatch is the outcome for an unselected line
var NoMatch = Outcome{}

// Matcher is safe for reuse across lines and files
type Matcher struct {
	pattern    string
	ignoreCase bool
	re         *regexp.Regexp
}

// New compiles pattern. A compile failure is reported as a PatternError.
func New(pattern string, ignoreCase bool) (*Matcher, error) {
	if pattern == "" {
		return nil, lgreperrors.NewPatternError(pattern, errors.New("pattern cannot be empty"))
	}

	expr := pattern
	if ignoreCase {
		expr = caseInsensitiveFlag + pattern
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, lgreperrors.NewPatternError(pattern, err)
	}

	return &Matcher{pattern: pattern, ignoreCase: ignoreCase, re: re}, nil
}

// String returns the pattern text as given by the user
func (m *Matcher) String() string {
	return m.pattern
}

// IgnoreCase reports whether the matcher folds case
func (m *Matcher) IgnoreCase() bool {
	return m.ignoreCase
}

// Evaluate reports the raw (non-inverted) outcome for line.
// Matches are collected left to right, each scan resuming at the end of the
// previous match; an empty match moves the scan forward by one character.
func (m *Matcher) Evaluate(line string) Outcome {
	locs := m.re.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return NoMatch
	}

	spans := make([]searchtypes.Span, 0, len(locs))
	for _, loc := range locs {
		if loc[1] > loc[0] {
			spans = append(spans, searchtypes.Span{Start: loc[0], End: loc[1]})
		}
	}
	return Outcome{Matched: true, Spans: spans}
}

// Select applies invert-match on top of Evaluate. An inverted selection never
// carries spans.
func (m *Matcher) Select(line string, invert bool) Outcome {
	if !invert {
		return m.Evaluate(line)
	}
	if m.re.MatchString(line) {
		return NoMatch
	}
	return Outcome{Matched: true}
}
