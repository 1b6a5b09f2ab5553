package searchtypes

import (
	"errors"
	"time"
)

// SearchRequest is the immutable configuration for one invocation.
// It is built once by the CLI and passed by value.
type SearchRequest struct {
	Pattern     string   `json:"pattern"`
	IgnoreCase  bool     `json:"ignore_case"`
	InvertMatch bool     `json:"invert_match"`
	Recursive   bool     `json:"recursive"`
	CountOnly   bool     `json:"count_only"`
	Highlight   bool     `json:"highlight"`
	Paths       []string `json:"paths"`

	FollowSymlinks bool     `json:"follow_symlinks,omitempty"`
	Include        []string `json:"include,omitempty"` // doublestar globs, relative to each input directory
	Exclude        []string `json:"exclude,omitempty"`
	CountZero      bool     `json:"count_zero,omitempty"` // emit path:0 lines in count mode
	JSON           bool     `json:"json,omitempty"`
}

// Validate checks the request invariants that do not need the regexp engine
func (r SearchRequest) Validate() error {
	if r.Pattern == "" {
		return errors.New("pattern cannot be empty")
	}
	if len(r.Paths) == 0 {
		return errors.New("at least one input path is required")
	}
	return nil
}

// ResolvedFile is a single concrete file discovered by the walker, paired with
// the input argument it was reached from.
type ResolvedFile struct {
	Path   string `json:"path"`
	Origin string `json:"origin"`
}

// Span is a [Start, End) byte-offset pair within a line
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the byte length of the span
func (s Span) Len() int {
	return s.End - s.Start
}

// MatchRecord is one selected line, consumed immediately by the formatter
type MatchRecord struct {
	Path       string `json:"path"`
	LineNumber int    `json:"line"`
	Text       string `json:"text"`
	Spans      []Span `json:"spans,omitempty"`
}

// FileStats holds the counters for one file. It is owned by the engine while
// the file is scanned and frozen by Finalize before being folded into RunStats.
type FileStats struct {
	Path         string
	LinesScanned int
	LinesMatched int
	DecodeErrors int
	BytesRead    int64
	Err          error // hard failure: the file could not be opened or read

	frozen bool
}

// NewFileStats returns fresh counters for path
func NewFileStats(path string) *FileStats {
	return &FileStats{Path: path}
}

func (fs *FileStats) mustBeOpen() {
	if fs.frozen {
		panic("searchtypes: FileStats modified after Finalize: " + fs.Path)
	}
}

// AddScanned records one line read from the file
func (fs *FileStats) AddScanned() {
	fs.mustBeOpen()
	fs.LinesScanned++
}

// AddMatched records one selected line
func (fs *FileStats) AddMatched() {
	fs.mustBeOpen()
	fs.LinesMatched++
}

// AddDecodeError records one line whose bytes were not valid text
func (fs *FileStats) AddDecodeError() {
	fs.mustBeOpen()
	fs.DecodeErrors++
}

// SetBytesRead records how many bytes the scanner consumed
func (fs *FileStats) SetBytesRead(n int64) {
	fs.mustBeOpen()
	fs.BytesRead = n
}

// Fail marks the file as errored
func (fs *FileStats) Fail(err error) {
	fs.mustBeOpen()
	fs.Err = err
}

// Errored reports whether the file hit a hard failure
func (fs *FileStats) Errored() bool {
	return fs.Err != nil
}

// Finalize freezes the counters
func (fs *FileStats) Finalize() {
	fs.frozen = true
}

// Finalized reports whether Finalize has been called
func (fs *FileStats) Finalized() bool {
	return fs.frozen
}

// RunStats aggregates a whole run. It is mutated only by folding finalized
// FileStats and is read-only once the run returns.
type RunStats struct {
	FilesScanned    int           `json:"files_scanned"`
	FilesWithErrors int           `json:"files_with_errors"`
	PathErrors      int           `json:"path_errors"`
	TotalMatches    int           `json:"total_matches"`
	LinesScanned    int64         `json:"lines_scanned"`
	LinesReported   int64         `json:"lines_reported"`
	DecodeErrors    int64         `json:"decode_errors"`
	BytesRead       int64         `json:"bytes_read"`
	Elapsed         time.Duration `json:"elapsed"`
	Interrupted     bool          `json:"interrupted,omitempty"`
}

// Fold adds a finalized FileStats to the totals
func (rs *RunStats) Fold(fs *FileStats) {
	if !fs.Finalized() {
		panic("searchtypes: folding FileStats before Finalize: " + fs.Path)
	}
	rs.FilesScanned++
	if fs.Errored() {
		rs.FilesWithErrors++
	}
	rs.TotalMatches += fs.LinesMatched
	rs.LinesScanned += int64(fs.LinesScanned)
	rs.DecodeErrors += int64(fs.DecodeErrors)
	rs.BytesRead += fs.BytesRead
}

// AddPathError counts one non-fatal walk error
func (rs *RunStats) AddPathError() {
	rs.PathErrors++
}

// AddReported counts one line written to the output
func (rs *RunStats) AddReported() {
	rs.LinesReported++
}

// HasMatches reports whether at least one line was selected
func (rs RunStats) HasMatches() bool {
	return rs.TotalMatches > 0
}
