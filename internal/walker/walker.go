// Package walker expands input paths into a deterministic stream of files.
//
// Directories are listed in lexicographic order and, when recursion is
// enabled, descended depth-first. Paths that cannot be resolved are reported
// through Options.OnError and skipped; they never stop the walk.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	lgreperrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/searchtypes"
)

// Options controls which files a walk yields
type Options struct {
	Recursive      bool
	FollowSymlinks bool     // descend into symlinked directories (recursive only)
	Include        []string // doublestar globs; empty means every file
	Exclude        []string // doublestar globs; matching directories are pruned
	OnError        func(*lgreperrors.PathError)
}

// Walker yields files for a set of input paths
type Walker struct {
	opts Options
}

// walkState is scoped to a single Walk call
type walkState struct {
	ctx         context.Context
	visit       func(searchtypes.ResolvedFile) error
	seenFiles   map[uint64]struct{}
	visitedDirs map[string]bool
}

// New creates a walker
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Walk resolves paths in order and calls visit for every file found.
// It returns ctx.Err() when cancelled, or the first error returned by visit.
func (w *Walker) Walk(ctx context.Context, paths []string, visit func(searchtypes.ResolvedFile) error) error {
	st := &walkState{
		ctx:         ctx,
		visit:       visit,
		seenFiles:   make(map[uint64]struct{}),
		visitedDirs: make(map[string]bool),
	}

	for _, input := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Stat follows symlinks: a link to a file is a file, a dangling link is an error
		info, err := os.Stat(input)
		if err != nil {
			w.report(lgreperrors.NewPathError(input, input, err))
			continue
		}

		switch {
		case info.Mode().IsRegular():
			if err := w.yield(st, input, input); err != nil {
				return err
			}
		case info.IsDir():
			if err := w.walkDir(st, input, input, ""); err != nil {
				return err
			}
		default:
			w.report(lgreperrors.NewUnsupportedPathError(input, input, info.Mode()))
		}
	}

	return nil
}

// walkDir lists dir and handles its entries in name order. rel is the
// slash-separated path of dir relative to the input directory.
func (w *Walker) walkDir(st *walkState, origin, dir, rel string) error {
	realPath, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.report(lgreperrors.NewPathError(dir, origin, err))
		return nil
	}
	if st.visitedDirs[realPath] {
		return nil // symlink cycle or directory given twice
	}
	st.visitedDirs[realPath] = true

	// os.ReadDir sorts by filename and returns what it could read before failing
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.report(lgreperrors.NewPathError(dir, origin, err))
	}

	for _, entry := range entries {
		if err := st.ctx.Err(); err != nil {
			return err
		}

		name := entry.Name()
		fullPath := filepath.Join(dir, name)
		relPath := path.Join(rel, name)

		mode := entry.Type()
		viaSymlink := false
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(fullPath)
			if err != nil {
				w.report(lgreperrors.NewPathError(fullPath, origin, err))
				continue
			}
			mode = info.Mode().Type()
			viaSymlink = true
		}

		switch {
		case mode.IsDir():
			if !w.opts.Recursive || (viaSymlink && !w.opts.FollowSymlinks) {
				continue
			}
			if w.excludedDir(relPath, name) {
				continue
			}
			if err := w.walkDir(st, origin, fullPath, relPath); err != nil {
				return err
			}
		case mode.IsRegular():
			if w.excluded(relPath, name) || !w.included(relPath, name) {
				continue
			}
			if err := w.yield(st, fullPath, origin); err != nil {
				return err
			}
		default:
			w.report(lgreperrors.NewUnsupportedPathError(fullPath, origin, mode))
		}
	}

	return nil
}

// yield hands a file to visit unless the same file was already yielded
func (w *Walker) yield(st *walkState, filePath, origin string) error {
	key := fileKey(filePath)
	if _, dup := st.seenFiles[key]; dup {
		return nil
	}
	st.seenFiles[key] = struct{}{}
	return st.visit(searchtypes.ResolvedFile{Path: filePath, Origin: origin})
}

// fileKey identifies a file by the hash of its cleaned absolute path
func fileKey(filePath string) uint64 {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filepath.Clean(filePath)
	}
	return xxhash.Sum64String(abs)
}

func (w *Walker) report(err *lgreperrors.PathError) {
	if w.opts.OnError != nil {
		w.opts.OnError(err)
	}
}

func (w *Walker) excludedDir(relPath, name string) bool {
	return w.excluded(relPath, name) || matchAny(w.opts.Exclude, relPath+"/")
}

func (w *Walker) excluded(relPath, name string) bool {
	return matchAny(w.opts.Exclude, relPath) || matchAny(w.opts.Exclude, name)
}

func (w *Walker) included(relPath, name string) bool {
	if len(w.opts.Include) == 0 {
		return true
	}
	return matchAny(w.opts.Include, relPath) || matchAny(w.opts.Include, name)
}

// matchAny reports whether p matches one of patterns. Malformed patterns
// never match; config validation rejects them up front.
func matchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, p); err == nil && matched {
			return true
		}
	}
	return false
}

// ValidatePatterns checks that every glob is well formed
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", doublestar.ErrBadPattern, pattern)
		}
	}
	return nil
}
