package run

import (
	"io"
	"log/slog"

	"github.com/go-logr/logr"
)

// newLogger writes text logs to w; verbose enables V(1) messages.
func newLogger(w io.Writer, verbose bool) logr.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logr.FromSlogHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
