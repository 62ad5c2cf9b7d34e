package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// ANSI color codes for console level tags.
const (
	ansiReset  = "\x1b[0m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

// ConsoleHandler is a human-oriented slog.Handler for the startup phase,
// before the process detaches from its terminal. Output is one line per
// record: "LEVEL: message key=value ...", with the level tag colorized
// when enabled.
type ConsoleHandler struct {
	mu       sync.Mutex
	out      io.Writer
	level    slog.Leveler
	colorize bool
	attrs    []slog.Attr
}

// NewConsoleHandler creates a console handler writing to out.
func NewConsoleHandler(out io.Writer, level slog.Leveler, colorize bool) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{out: out, level: level, colorize: colorize}
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	tag := levelTag(r.Level)
	if h.colorize {
		tag = levelColor(r.Level) + tag + ansiReset
	}

	line := tag + ": " + r.Message
	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line+"\n")
	return err
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &ConsoleHandler{
		out:      h.out,
		level:    h.level,
		colorize: h.colorize,
		attrs:    append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
	return clone
}

// WithGroup implements slog.Handler. Groups are flattened; the startup
// console output has no nesting worth preserving.
func (h *ConsoleHandler) WithGroup(string) slog.Handler { return h }

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	case l >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiCyan
	}
}
