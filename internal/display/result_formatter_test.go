package display

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/lgrep/internal/searchtypes"
)

var testMarkers = Markers{Begin: "<<", End: ">>"}

func TestNewResultFormatter_Defaults(t *testing.T) {
	rf := NewResultFormatter(ResultOptions{})
	assert.Equal(t, FormatText, rf.Options().Format)
}

func TestFormatMatch_Plain(t *testing.T) {
	rf := NewResultFormatter(ResultOptions{})
	line := rf.FormatMatch(searchtypes.MatchRecord{
		Path:       "dir/a.txt",
		LineNumber: 12,
		Text:       "hello: world",
		Spans:      []searchtypes.Span{{Start: 0, End: 5}},
	})
	assert.Equal(t, "dir/a.txt:12:hello: world", line)
}

func TestFormatMatch_Highlight(t *testing.T) {
	rf := NewResultFormatter(ResultOptions{Highlight: true, Match: testMarkers})
	line := rf.FormatMatch(searchtypes.MatchRecord{
		Path:       "a.txt",
		LineNumber: 3,
		Text:       "foo bar foo",
		Spans:      []searchtypes.Span{{Start: 0, End: 3}, {Start: 8, End: 11}},
	})
	assert.Equal(t, "a.txt:3:<<foo>> bar <<foo>>", line)
}

func TestFormatMatch_HighlightWithoutSpans(t *testing.T) {
	rf := NewResultFormatter(ResultOptions{Highlight: true, Match: testMarkers})
	line := rf.FormatMatch(searchtypes.MatchRecord{Path: "a.txt", LineNumber: 1, Text: "inverted line"})
	assert.Equal(t, "a.txt:1:inverted line", line)
}

func TestFormatMatch_PrefixMarkers(t *testing.T) {
	prefix := Markers{Begin: "[", End: "]"}
	rf := NewResultFormatter(ResultOptions{Highlight: true, Match: testMarkers, Prefix: prefix})

	line := rf.FormatMatch(searchtypes.MatchRecord{
		Path: "a.txt", LineNumber: 7, Text: "xyz", Spans: []searchtypes.Span{{Start: 1, End: 2}},
	})
	assert.Equal(t, "[a.txt:7:]x<<y>>z", line)
	assert.Equal(t, "[a.txt:]4", rf.FormatCount("a.txt", 4))
}

func TestFormatCount(t *testing.T) {
	rf := NewResultFormatter(ResultOptions{})
	assert.Equal(t, "dir/sub/b.txt:0", rf.FormatCount("dir/sub/b.txt", 0))
	assert.Equal(t, "a.txt:15", rf.FormatCount("a.txt", 15))
}

func TestInsertMarkers_SkipsInvalidSpans(t *testing.T) {
	text := "abcdef"
	tests := []struct {
		name     string
		spans    []searchtypes.Span
		expected string
	}{
		{"out of range", []searchtypes.Span{{Start: 4, End: 10}}, "abcdef"},
		{"negative", []searchtypes.Span{{Start: -1, End: 2}}, "abcdef"},
		{"empty span", []searchtypes.Span{{Start: 2, End: 2}}, "abcdef"},
		{"overlapping keeps later", []searchtypes.Span{{Start: 0, End: 3}, {Start: 2, End: 4}}, "ab<<cd>>ef"},
		{"adjacent", []searchtypes.Span{{Start: 0, End: 2}, {Start: 2, End: 4}}, "<<ab>><<cd>>ef"},
		{"whole line", []searchtypes.Span{{Start: 0, End: 6}}, "<<abcdef>>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InsertMarkers(text, tt.spans, testMarkers))
		})
	}
}

func TestHighlightRoundTrip(t *testing.T) {
	prefix := Markers{Begin: "\x1b[2m", End: "\x1b[0m"}
	match := Markers{Begin: "\x1b[33m", End: "\x1b[0m"}
	plain := NewResultFormatter(ResultOptions{})
	highlighted := NewResultFormatter(ResultOptions{Highlight: true, Match: match, Prefix: prefix})

	records := []searchtypes.MatchRecord{
		{Path: "a.txt", LineNumber: 1, Text: "error: disk error", Spans: []searchtypes.Span{{Start: 0, End: 5}, {Start: 12, End: 17}}},
		{Path: "b.txt", LineNumber: 99, Text: "héllo wörld", Spans: []searchtypes.Span{{Start: 1, End: 3}, {Start: 8, End: 10}}},
		{Path: "c.txt", LineNumber: 2, Text: "", Spans: nil},
	}

	for _, rec := range records {
		h := highlighted.FormatMatch(rec)
		assert.Equal(t, plain.FormatMatch(rec), StripMarkers(h, prefix, match))
	}
}

func TestFormatJSON(t *testing.T) {
	rf := NewResultFormatter(ResultOptions{Format: FormatJSON, Highlight: true, Match: testMarkers})

	line := rf.FormatMatch(searchtypes.MatchRecord{
		Path: "a.txt", LineNumber: 2, Text: "foo", Spans: []searchtypes.Span{{Start: 0, End: 3}},
	})
	var decoded searchtypes.MatchRecord
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "foo", decoded.Text, "JSON output is never highlighted")
	assert.Equal(t, 2, decoded.LineNumber)
	assert.Equal(t, []searchtypes.Span{{Start: 0, End: 3}}, decoded.Spans)

	assert.JSONEq(t, `{"path":"a.txt","count":3}`, rf.FormatCount("a.txt", 3))
}
