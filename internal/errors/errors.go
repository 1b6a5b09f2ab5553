package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for the lgrep search pipeline
type ErrorType string

const (
	// Fatal errors
	ErrorTypePattern ErrorType = "pattern"
	ErrorTypeConfig  ErrorType = "config"

	// Path errors (walk stage)
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypePermission  ErrorType = "permission"
	ErrorTypeUnsupported ErrorType = "unsupported"

	// File errors (scan stage)
	ErrorTypeRead ErrorType = "read"
)

// PatternError reports a regular expression that failed to compile.
// It is fatal: the run stops before any path is touched.
type PatternError struct {
	Type       ErrorType
	Pattern    string
	Underlying error
	Timestamp  time.Time
}

// NewPatternError creates a new pattern error
func NewPatternError(pattern string, err error) *PatternError {
	return &PatternError{
		Type:       ErrorTypePattern,
		Pattern:    pattern,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *PatternError) Unwrap() error {
	return e.Underlying
}

// PathError reports an input path, or an entry found beneath one, that does
// not resolve to a readable file or directory. The walk continues past it.
type PathError struct {
	Type       ErrorType
	Path       string
	Origin     string // input argument the path was reached from
	Underlying error
	Timestamp  time.Time
}

// NewPathError creates a new path error, classifying the underlying cause
func NewPathError(path, origin string, err error) *PathError {
	return &PathError{
		Type:       classifyPathError(err),
		Path:       path,
		Origin:     origin,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewUnsupportedPathError reports a path that exists but is neither a regular
// file nor a directory (device, socket, named pipe).
func NewUnsupportedPathError(path, origin string, mode fs.FileMode) *PathError {
	return &PathError{
		Type:       ErrorTypeUnsupported,
		Path:       path,
		Origin:     origin,
		Underlying: fmt.Errorf("not a regular file or directory (mode %s)", mode.Type()),
		Timestamp:  time.Now(),
	}
}

func classifyPathError(err error) ErrorType {
	switch {
	case isPermissionError(err):
		return ErrorTypePermission
	case stderrors.Is(err, fs.ErrNotExist):
		return ErrorTypeNotFound
	default:
		return ErrorTypeUnsupported
	}
}

// Error implements the error interface
func (e *PathError) Error() string {
	if e.Origin != "" && e.Origin != e.Path {
		return fmt.Sprintf("path %s (from %s): %s: %v", e.Path, e.Origin, e.Type, e.Underlying)
	}
	return fmt.Sprintf("path %s: %s: %v", e.Path, e.Type, e.Underlying)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Underlying
}

// FileReadError reports a resolved file that could not be opened or read.
// Only the affected file is skipped.
type FileReadError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileReadError creates a new file read error
func NewFileReadError(op, path string, err error) *FileReadError {
	errorType := ErrorTypeRead
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileReadError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	return stderrors.Is(err, fs.ErrPermission)
}

// Error implements the error interface
func (e *FileReadError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileReadError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether err must abort a run. Pattern and config errors are
// fatal; path and file errors only affect the entry they name.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var pe *PatternError
	var ce *ConfigError
	return stderrors.As(err, &pe) || stderrors.As(err, &ce)
}
