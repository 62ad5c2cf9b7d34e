package syslogger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/oversip/oversip/internal/mqueue"
)

// Writer forwards log records into the IPC queue. It is the write side
// used by the master and worker processes once the terminal is gone;
// sends never block, and records that do not fit a full queue are dropped
// and counted rather than stalling the caller.
type Writer struct {
	queue *mqueue.Queue
	drops atomic.Uint64
}

// NewWriter opens the named queue for writing.
func NewWriter(queueName string) (*Writer, error) {
	q, err := mqueue.OpenWriter(queueName)
	if err != nil {
		return nil, err
	}
	return &Writer{queue: q}, nil
}

// Log enqueues a single record.
func (w *Writer) Log(level slog.Level, msg string) error {
	rec := Encode(level, msg, w.queue.MsgSize())
	err := w.queue.Send(rec, Priority(level))
	if errors.Is(err, unix.EAGAIN) {
		w.drops.Add(1)
		return nil
	}
	return err
}

// Drops returns the number of records dropped on a full queue.
func (w *Writer) Drops() uint64 {
	return w.drops.Load()
}

// Close releases the queue descriptor.
func (w *Writer) Close() error {
	return w.queue.Close()
}

// RecordLogger is the write-side contract the slog adapter needs.
type RecordLogger interface {
	Log(level slog.Level, msg string) error
}

// Handler adapts a RecordLogger into a slog.Handler, so the master's
// regular slog calls flow through the queue after daemonization.
type Handler struct {
	writer RecordLogger
	level  slog.Leveler
	attrs  []slog.Attr
}

// NewHandler creates a slog.Handler over the writer.
func NewHandler(w RecordLogger, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{writer: w, level: level}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	line := r.Message
	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})
	return h.writer.Log(r.Level, line)
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		writer: h.writer,
		level:  h.level,
		attrs:  append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *Handler) WithGroup(string) slog.Handler { return h }
