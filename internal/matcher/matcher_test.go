package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lgreperrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/searchtypes"
)

func TestNew_InvalidPattern(t *testing.T) {
	for _, pattern := range []string{"(abc", "a[", "*x", "a{2,1}", ""} {
		t.Run(pattern, func(t *testing.T) {
			m, err := New(pattern, false)
			require.Error(t, err)
			assert.Nil(t, m)

			var pe *lgreperrors.PatternError
			require.True(t, errors.As(err, &pe), "expected PatternError, got %T", err)
			assert.Equal(t, pattern, pe.Pattern)
		})
	}
}

func TestEvaluate_CaseSensitivity(t *testing.T) {
	sensitive, err := New("abc", false)
	require.NoError(t, err)
	assert.False(t, sensitive.Evaluate("ABC123").Matched)

	insensitive, err := New("abc", true)
	require.NoError(t, err)
	out := insensitive.Evaluate("ABC123")
	assert.True(t, out.Matched)
	assert.Equal(t, []searchtypes.Span{{Start: 0, End: 3}}, out.Spans)
	assert.Equal(t, "abc", insensitive.String())
	assert.True(t, insensitive.IgnoreCase())
}

func TestEvaluate_MultipleSpans(t *testing.T) {
	m, err := New("o+", false)
	require.NoError(t, err)

	out := m.Evaluate("foo boo zoooo")
	require.True(t, out.Matched)
	assert.Equal(t, []searchtypes.Span{
		{Start: 1, End: 3},
		{Start: 5, End: 7},
		{Start: 9, End: 13},
	}, out.Spans)
}

func TestEvaluate_EmptyMatchesTerminate(t *testing.T) {
	m, err := New("x*", false)
	require.NoError(t, err)

	out := m.Evaluate("abxxc")
	assert.True(t, out.Matched)
	assert.Equal(t, []searchtypes.Span{{Start: 2, End: 4}}, out.Spans)

	// Only empty matches: selected, nothing to highlight
	out = m.Evaluate("abc")
	assert.True(t, out.Matched)
	assert.Empty(t, out.Spans)

	anchor, err := New("^", false)
	require.NoError(t, err)
	assert.True(t, anchor.Evaluate("").Matched)
}

func TestEvaluate_UnicodeSpansOnRuneBoundaries(t *testing.T) {
	m, err := New("é", false)
	require.NoError(t, err)

	line := "café é"
	out := m.Evaluate(line)
	require.Len(t, out.Spans, 2)
	for _, s := range out.Spans {
		assert.Equal(t, "é", line[s.Start:s.End])
	}
}

func TestSelect_Invert(t *testing.T) {
	m, err := New("error", false)
	require.NoError(t, err)

	assert.Equal(t, NoMatch, m.Select("an error here", true))

	out := m.Select("all good", true)
	assert.True(t, out.Matched)
	assert.Empty(t, out.Spans, "inverted selections carry no spans")

	assert.True(t, m.Select("an error here", false).Matched)
	assert.False(t, m.Select("all good", false).Matched)
}

func TestSelect_InvertIsComplement(t *testing.T) {
	lines := []string{"alpha", "beta", "gamma", "", "ALPHA", "delta alpha"}
	for _, pattern := range []string{"alpha", "^$", "a$", "[bg]"} {
		m, err := New(pattern, false)
		require.NoError(t, err)
		for _, line := range lines {
			normal := m.Select(line, false).Matched
			inverted := m.Select(line, true).Matched
			assert.NotEqual(t, normal, inverted, "pattern %q line %q", pattern, line)
		}
	}
}
