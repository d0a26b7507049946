package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w. Verbose enables debug records
// (UTM notes, per-extractor counts); otherwise only warnings and errors pass.
func New(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
