// Package logx builds the slog loggers used by the encarview binaries:
// a console handler (tint, plain text or JSON), an optional Fluent Bit
// forwarder, and a fanout that feeds both.
package logx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Options configures New.
type Options struct {
	Level  slog.Leveler
	Format string // "text" or "json"
	Writer io.Writer
	Color  bool
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewHandler returns the console handler described by opts.
func NewHandler(opts Options) slog.Handler {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	switch {
	case opts.Format == "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case opts.Color:
		return tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: "2006-01-02 15:04:05"})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// New returns a logger writing through NewHandler(opts) and any extra
// handlers.
func New(opts Options, extra ...slog.Handler) *slog.Logger {
	h := NewHandler(opts)
	if len(extra) > 0 {
		h = Fanout(append([]slog.Handler{h}, extra...)...)
	}
	return slog.New(h)
}

type fanout []slog.Handler

// Fanout returns a handler that passes every record to each of hs.
func Fanout(hs ...slog.Handler) slog.Handler {
	return fanout(hs)
}

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
