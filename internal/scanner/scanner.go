// Package scanner reads one file line by line, numbering lines from 1 and
// flagging lines whose bytes are not valid UTF-8 instead of failing on them.
package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	lgreperrors "github.com/standardbeagle/lgrep/internal/errors"
)

// UndecodableText replaces the content of a line that is not valid UTF-8
const UndecodableText = "<undecodable content>"

// readBufferSize is the bufio buffer; lines longer than this are still read whole
const readBufferSize = 64 * 1024

// Line is one line of a file, without its line ending
type Line struct {
	Number      int
	Text        string
	Undecodable bool
}

// Scanner owns an open file handle until Close is called
type Scanner struct {
	path      string
	file      *os.File
	reader    *bufio.Reader
	line      Line
	lineNo    int
	bytesRead int64
	err       error
	done      bool
}

// Open opens path for scanning. A failure is returned as a FileReadError and
// the caller must not call Next.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lgreperrors.NewFileReadError("open", path, err)
	}
	return &Scanner{
		path:   path,
		file:   f,
		reader: bufio.NewReaderSize(f, readBufferSize),
	}, nil
}

// Next advances to the next line. It returns false at end of file or after a
// read error; Err distinguishes the two.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	raw, err := s.reader.ReadBytes('\n')
	s.bytesRead += int64(len(raw))
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = lgreperrors.NewFileReadError("read", s.path, err)
		s.done = true
		return false
	}
	if len(raw) == 0 {
		// EOF with nothing pending: a trailing newline does not start a new line
		s.done = true
		return false
	}
	if err != nil {
		s.done = true
	}

	s.lineNo++
	raw = trimLineEnding(raw)
	if utf8.Valid(raw) {
		s.line = Line{Number: s.lineNo, Text: string(raw)}
	} else {
		s.line = Line{Number: s.lineNo, Text: UndecodableText, Undecodable: true}
	}
	return true
}

// Line returns the line produced by the last successful Next
func (s *Scanner) Line() Line {
	return s.line
}

// Err returns the read error that stopped the scan, if any
func (s *Scanner) Err() error {
	return s.err
}

// BytesRead returns the number of bytes consumed so far
func (s *Scanner) BytesRead() int64 {
	return s.bytesRead
}

// Path returns the scanned file path
func (s *Scanner) Path() string {
	return s.path
}

// Close releases the file handle. It is safe to call more than once.
func (s *Scanner) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.done = true
	return err
}

// trimLineEnding drops a trailing "\n" or "\r\n". A carriage return is only
// part of the line ending when a newline follows it.
func trimLineEnding(b []byte) []byte {
	if !bytes.HasSuffix(b, []byte{'\n'}) {
		return b
	}
	b = b[:len(b)-1]
	return bytes.TrimSuffix(b, []byte{'\r'})
}
