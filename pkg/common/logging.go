package common

import (
	"io"
	"log/slog"
)

// NewLogger returns the text logger the tools write diagnostics with.
// Only warnings get through unless verbose is set.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
