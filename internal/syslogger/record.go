// Package syslogger implements both ends of the logging IPC channel: the
// writer that master and worker processes log through, and the drain loop
// run by the dedicated syslogger process, the queue's sole reader.
package syslogger

import (
	"fmt"
	"log/slog"
)

// A record on the wire is one level byte followed by the UTF-8 message.
// Records longer than the queue's message size are truncated by the
// writer, never split.
const (
	codeDebug = 'D'
	codeInfo  = 'I'
	codeWarn  = 'W'
	codeError = 'E'
)

// Encode serializes a log record, truncating the message so the result
// fits in max bytes.
func Encode(level slog.Level, msg string, max int) []byte {
	if max < 1 {
		max = 1
	}
	if len(msg) > max-1 {
		msg = msg[:max-1]
	}
	out := make([]byte, 0, len(msg)+1)
	out = append(out, levelCode(level))
	return append(out, msg...)
}

// Decode parses a serialized record.
func Decode(p []byte) (slog.Level, string, error) {
	if len(p) == 0 {
		return 0, "", fmt.Errorf("empty log record")
	}
	level, err := codeLevel(p[0])
	if err != nil {
		return 0, "", err
	}
	return level, string(p[1:]), nil
}

func levelCode(l slog.Level) byte {
	switch {
	case l >= slog.LevelError:
		return codeError
	case l >= slog.LevelWarn:
		return codeWarn
	case l >= slog.LevelInfo:
		return codeInfo
	default:
		return codeDebug
	}
}

func codeLevel(b byte) (slog.Level, error) {
	switch b {
	case codeDebug:
		return slog.LevelDebug, nil
	case codeInfo:
		return slog.LevelInfo, nil
	case codeWarn:
		return slog.LevelWarn, nil
	case codeError:
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log record level code %q", b)
}

// Priority maps a level to the queue priority used for the record, so
// errors overtake backlogged debug output inside the kernel queue.
func Priority(level slog.Level) uint {
	switch {
	case level >= slog.LevelError:
		return 3
	case level >= slog.LevelWarn:
		return 2
	case level >= slog.LevelInfo:
		return 1
	default:
		return 0
	}
}
