package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/standardbeagle/lgrep/internal/searchtypes"
)

// RunSummary represents the performance figures derived from one run
type RunSummary struct {
	// File-level metrics
	FilesSeen   int
	FilesRead   int
	FilesFailed int
	PathErrors  int

	// Line-level metrics
	LinesSeen     int64
	LinesMatched  int
	LinesReported int64
	DecodeErrors  int64

	// Throughput
	BytesRead      int64
	Elapsed        time.Duration
	LinesPerSecond float64
	MiBPerSecond   float64

	Interrupted bool
}

// NewRunSummary computes a summary from the run totals
func NewRunSummary(stats searchtypes.RunStats) RunSummary {
	rs := RunSummary{
		FilesSeen:     stats.FilesScanned,
		FilesRead:     stats.FilesScanned - stats.FilesWithErrors,
		FilesFailed:   stats.FilesWithErrors,
		PathErrors:    stats.PathErrors,
		LinesSeen:     stats.LinesScanned,
		LinesMatched:  stats.TotalMatches,
		LinesReported: stats.LinesReported,
		DecodeErrors:  stats.DecodeErrors,
		BytesRead:     stats.BytesRead,
		Elapsed:       stats.Elapsed,
		Interrupted:   stats.Interrupted,
	}

	// A run too short to time has no meaningful rate
	if secs := stats.Elapsed.Seconds(); secs > 0 {
		rs.LinesPerSecond = float64(stats.LinesScanned) / secs
		rs.MiBPerSecond = float64(stats.BytesRead) / 1024.0 / 1024.0 / secs
	}
	return rs
}

// FormatAsJSON returns the summary as a JSON-serializable map
func (rs RunSummary) FormatAsJSON() map[string]interface{} {
	return map[string]interface{}{
		"files": map[string]interface{}{
			"seen":        rs.FilesSeen,
			"read":        rs.FilesRead,
			"failed":      rs.FilesFailed,
			"path_errors": rs.PathErrors,
		},
		"lines": map[string]interface{}{
			"seen":          rs.LinesSeen,
			"matched":       rs.LinesMatched,
			"reported":      rs.LinesReported,
			"decode_errors": rs.DecodeErrors,
		},
		"throughput": map[string]interface{}{
			"bytes_read":    rs.BytesRead,
			"elapsed_s":     rs.Elapsed.Seconds(),
			"lines_per_sec": rs.LinesPerSecond,
			"mib_per_sec":   rs.MiBPerSecond,
		},
		"interrupted": rs.Interrupted,
	}
}

// String returns the one-line performance record written to the run log
func (rs RunSummary) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Performance: files_seen=%d files_read=%d lines_seen=%d lines_reported=%d elapsed=%.6fs",
		rs.FilesSeen, rs.FilesRead, rs.LinesSeen, rs.LinesReported, rs.Elapsed.Seconds()))
	sb.WriteString(fmt.Sprintf(" rate=%.0f lines/s %.2f MiB/s", rs.LinesPerSecond, rs.MiBPerSecond))
	if rs.PathErrors > 0 || rs.FilesFailed > 0 {
		sb.WriteString(fmt.Sprintf(" path_errors=%d read_errors=%d", rs.PathErrors, rs.FilesFailed))
	}
	if rs.DecodeErrors > 0 {
		sb.WriteString(fmt.Sprintf(" decode_errors=%d", rs.DecodeErrors))
	}
	if rs.Interrupted {
		sb.WriteString(" interrupted=true")
	}
	return sb.String()
}
