package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one recorded message
type Entry struct {
	Level   Level
	Message string
}

// Recorder keeps messages in memory. Tests use it to assert on the side channel.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(level Level, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Debugf records at debug level
func (r *Recorder) Debugf(format string, args ...interface{}) { r.add(LevelDebug, format, args...) }

// Infof records at info level
func (r *Recorder) Infof(format string, args ...interface{}) { r.add(LevelInfo, format, args...) }

// Warnf records at warn level
func (r *Recorder) Warnf(format string, args ...interface{}) { r.add(LevelWarn, format, args...) }

// Errorf records at error level
func (r *Recorder) Errorf(format string, args ...interface{}) { r.add(LevelError, format, args...) }

// Entries returns a copy of everything recorded
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// AtLevel returns the messages recorded at exactly level
func (r *Recorder) AtLevel(level Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Contains reports whether any message at level contains substr
func (r *Recorder) Contains(level Level, substr string) bool {
	for _, msg := range r.AtLevel(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
