package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// logFileTimeFormat names log files by the second the run started
const logFileTimeFormat = "2006-01-02_15-04-05"

// maxLogFileAttempts bounds the suffix search when several runs start in the same second
const maxLogFileAttempts = 100

// OpenRunLog creates dir if needed and opens a new log file named after now.
// A name already taken gets a numeric suffix. The caller closes the file.
func OpenRunLog(dir string, now time.Time) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create log directory: %w", err)
	}

	base := "log_" + now.Format(logFileTimeFormat)
	for attempt := 0; attempt < maxLogFileAttempts; attempt++ {
		name := base + ".txt"
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d.txt", base, attempt)
		}
		logPath := filepath.Join(dir, name)

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			return file, logPath, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("failed to create log file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("failed to create log file: %d files named %s* already exist", maxLogFileAttempts, base)
}
