package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Options describes logger construction parameters.
type Options struct {
	// Level is the numeric 0..9 log level from the configuration, following
	// the storage stack's convention (4=error, 5=warning, 7=info, 8=debug).
	Level int

	// FilePath, when set, receives a copy of all log output in addition to
	// standard error. The file is opened for append and created if absent.
	FilePath string

	// Stderr overrides the error stream, for tests. Defaults to os.Stderr.
	Stderr io.Writer
}

// New constructs a slog logger using the provided options. The returned
// close function releases the log file, if one was opened, and is safe to
// call exactly once.
func New(opts Options) (*slog.Logger, func() error, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	out := stderr
	closeFn := func() error { return nil }
	if opts.FilePath != "" {
		file, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(stderr, file)
		closeFn = file.Close
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
	return slog.New(handler), closeFn, nil
}

// slogLevel maps the 0..9 numeric scale onto slog levels.
func slogLevel(level int) slog.Level {
	switch {
	case level <= 4:
		return slog.LevelError
	case level == 5:
		return slog.LevelWarn
	case level <= 7:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
