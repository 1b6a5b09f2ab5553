package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/standardbeagle/lgrep/internal/display"
	lgreperrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/logging"
	"github.com/standardbeagle/lgrep/internal/matcher"
	"github.com/standardbeagle/lgrep/internal/scanner"
	"github.com/standardbeagle/lgrep/internal/searchtypes"
	"github.com/standardbeagle/lgrep/internal/walker"
)

// Engine runs one search at a time and streams its results to out.
// It holds no per-run state: every Run starts from zero counters.
type Engine struct {
	out           io.Writer
	log           logging.Logger
	matchMarkers  display.Markers
	prefixMarkers display.Markers
}

// NewEngine creates an engine writing results to out and diagnostics to log
func NewEngine(out io.Writer, log logging.Logger) *Engine {
	if log == nil {
		log = logging.Discard
	}
	return &Engine{out: out, log: log}
}

// SetMarkers sets the markers wrapped around matched spans and line prefixes
func (e *Engine) SetMarkers(match, prefix display.Markers) {
	e.matchMarkers = match
	e.prefixMarkers = prefix
}

// run carries the state of a single Run call
type run struct {
	ctx       context.Context
	req       searchtypes.SearchRequest
	matcher   *matcher.Matcher
	formatter *display.ResultFormatter
	stats     searchtypes.RunStats
}

// Run executes req. It returns the run totals together with a fatal error, if
// any: an invalid pattern, an output write failure or cancellation. Per-path
// and per-file failures are logged and counted but never returned.
func (e *Engine) Run(ctx context.Context, req searchtypes.SearchRequest) (stats searchtypes.RunStats, err error) {
	start := time.Now()
	defer func() {
		stats.Elapsed = time.Since(start)
	}()

	m, err := matcher.New(req.Pattern, req.IgnoreCase)
	if err != nil {
		e.log.Errorf("%v", err)
		return searchtypes.RunStats{}, err
	}
	if err := req.Validate(); err != nil {
		return searchtypes.RunStats{}, err
	}
	if err := walker.ValidatePatterns(append(append([]string{}, req.Include...), req.Exclude...)); err != nil {
		cerr := lgreperrors.NewConfigError("glob", "", err)
		e.log.Errorf("%v", cerr)
		return searchtypes.RunStats{}, cerr
	}

	r := &run{
		ctx:     ctx,
		req:     req,
		matcher: m,
		formatter: display.NewResultFormatter(display.ResultOptions{
			Format:    formatFor(req),
			Highlight: req.Highlight && !req.InvertMatch && !req.CountOnly,
			Match:     e.matchMarkers,
			Prefix:    e.prefixMarkers,
		}),
	}

	e.log.Infof("Search started: pattern=%q ignore_case=%t invert=%t recursive=%t count=%t paths=%q",
		m.String(), m.IgnoreCase(), req.InvertMatch, req.Recursive, req.CountOnly, req.Paths)
	if opts := r.formatter.Options(); opts.Highlight {
		e.log.Debugf("Output format=%s highlighted", opts.Format)
	} else {
		e.log.Debugf("Output format=%s", opts.Format)
	}

	w := walker.New(walker.Options{
		Recursive:      req.Recursive,
		FollowSymlinks: req.FollowSymlinks,
		Include:        req.Include,
		Exclude:        req.Exclude,
		OnError: func(perr *lgreperrors.PathError) {
			r.stats.AddPathError()
			e.log.Warnf("%v", perr)
		},
	})

	walkErr := w.Walk(ctx, req.Paths, func(file searchtypes.ResolvedFile) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return e.searchFile(r, file)
	})

	stats = r.stats
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(walkErr, ctxErr) {
			stats.Interrupted = true
			e.log.Infof("Search interrupted after %d files", stats.FilesScanned)
		}
		return stats, walkErr
	}
	return stats, nil
}

// searchFile scans one file. The returned error is fatal to the run.
func (e *Engine) searchFile(r *run, file searchtypes.ResolvedFile) error {
	fs := searchtypes.NewFileStats(file.Path)

	sc, err := scanner.Open(file.Path)
	if err != nil {
		fs.Fail(err)
		e.logFileError(file, err)
		return e.finishFile(r, fs)
	}
	defer sc.Close()

	for sc.Next() {
		line := sc.Line()
		fs.AddScanned()

		var outcome matcher.Outcome
		if line.Undecodable {
			// Never matched, so only an inverted search selects it.
			fs.AddDecodeError()
			e.log.Debugf("Undecodable content in %s at line %d", sc.Path(), line.Number)
			outcome = matcher.Outcome{Matched: r.req.InvertMatch}
		} else {
			outcome = r.matcher.Select(line.Text, r.req.InvertMatch)
		}
		if !outcome.Matched {
			continue
		}
		fs.AddMatched()

		if !r.req.CountOnly {
			rec := searchtypes.MatchRecord{
				Path:       file.Path,
				LineNumber: line.Number,
				Text:       line.Text,
				Spans:      outcome.Spans,
			}
			if err := e.emit(r, r.formatter.FormatMatch(rec)); err != nil {
				return err
			}
		}
	}

	fs.SetBytesRead(sc.BytesRead())
	if err := sc.Err(); err != nil {
		fs.Fail(err)
		e.logFileError(file, err)
	}
	return e.finishFile(r, fs)
}

// logFileError names the input path a file was reached from when it differs
// from the file itself.
func (e *Engine) logFileError(file searchtypes.ResolvedFile, err error) {
	if file.Origin != "" && file.Origin != file.Path {
		e.log.Errorf("%v (reached from %s)", err, file.Origin)
		return
	}
	e.log.Errorf("%v", err)
}

// finishFile freezes the file counters, writes the count line and folds the
// counters into the run totals.
func (e *Engine) finishFile(r *run, fs *searchtypes.FileStats) error {
	fs.Finalize()
	r.stats.Fold(fs)

	e.log.Debugf("File %s: lines=%d matched=%d decode_errors=%d bytes=%d",
		fs.Path, fs.LinesScanned, fs.LinesMatched, fs.DecodeErrors, fs.BytesRead)

	if !r.req.CountOnly || fs.Errored() {
		return nil
	}
	if fs.LinesMatched == 0 && !r.req.CountZero {
		return nil
	}
	return e.emit(r, r.formatter.FormatCount(fs.Path, fs.LinesMatched))
}

func (e *Engine) emit(r *run, line string) error {
	if _, err := io.WriteString(e.out, line+"\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	r.stats.AddReported()
	return nil
}

func formatFor(req searchtypes.SearchRequest) string {
	if req.JSON {
		return display.FormatJSON
	}
	return display.FormatText
}
