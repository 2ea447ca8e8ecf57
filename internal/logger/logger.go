// Package logger provides the shared slog-based debug log for orgrun.
//
// All diagnostic output goes to a file under the orgrun home directory rather
// than the terminal, so command output stays clean for piping. The log sink is
// append-only free text; user-facing messages go through internal/notify
// instead.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const logFileName = "debug.log"

var (
	mu      sync.Mutex
	level   = new(slog.LevelVar)
	current *slog.Logger
	logFile *os.File
)

func init() {
	level.Set(slog.LevelDebug)
	// Until Setup runs, log lines are discarded. Commands call Setup early;
	// tests generally use testutil.DiscardLogger instead.
	current = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level}))
}

// Setup opens (or creates) the debug log file under dir and routes the default
// logger to it. Safe to call more than once; later calls rotate to the new dir.
func Setup(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	current = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

// SetDebug toggles debug-level logging. When off, only info and above are kept.
func SetDebug(debug bool) {
	if debug {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// WithComponent returns a logger with a component attribute pre-attached.
func WithComponent(name string) *slog.Logger {
	return Default().With("component", name)
}

// Close flushes and closes the underlying log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
