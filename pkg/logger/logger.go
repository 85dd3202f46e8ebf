// Package logger provides slog loggers for the search engine. The text
// handler colors warnings yellow and errors red on terminals; the JSON
// handler is for structured log shippers.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// New builds a logger from the configured level and format. Unknown values
// fall back to info-level text logging.
func New(level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	}
	return NewDefaultLogger(lvl)
}

// NewDefaultLogger creates a colored text logger at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(newColorHandler(os.Stderr, level))
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// colorHandler wraps a text handler and colors records by severity.
type colorHandler struct {
	inner slog.Handler
	out   io.Writer
}

func newColorHandler(out io.Writer, level slog.Level) *colorHandler {
	return &colorHandler{
		inner: slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}),
		out:   out,
	}
}

func (h *colorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *colorHandler) Handle(ctx context.Context, record slog.Record) error {
	switch {
	case record.Level >= slog.LevelError:
		io.WriteString(h.out, colorRed)
		defer io.WriteString(h.out, colorReset)
	case record.Level >= slog.LevelWarn:
		io.WriteString(h.out, colorYellow)
		defer io.WriteString(h.out, colorReset)
	}
	return h.inner.Handle(ctx, record)
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{inner: h.inner.WithAttrs(attrs), out: h.out}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	return &colorHandler{inner: h.inner.WithGroup(name), out: h.out}
}
