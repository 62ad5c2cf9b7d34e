//go:build !linux

package mqueue

import (
	"errors"
	"os"
)

// POSIX message queues are Linux-only; other platforms get explicit
// unsupported errors so the bootstrap fails loudly rather than silently.

var errUnsupported = errors.New("POSIX message queues are not supported on this platform")

// Queue is an open POSIX message queue descriptor.
type Queue struct {
	name    string
	msgSize int
}

// Create is unsupported on this platform.
func Create(name string, attr Attr, mode os.FileMode) (*Queue, error) {
	return nil, errUnsupported
}

// OpenWriter is unsupported on this platform.
func OpenWriter(name string) (*Queue, error) { return nil, errUnsupported }

// OpenReader is unsupported on this platform.
func OpenReader(name string) (*Queue, error) { return nil, errUnsupported }

// Unlink is unsupported on this platform.
func Unlink(name string) error { return errUnsupported }

// Name returns the queue name.
func (q *Queue) Name() string { return q.name }

// MsgSize returns the maximum size of a single message.
func (q *Queue) MsgSize() int { return q.msgSize }

// Send is unsupported on this platform.
func (q *Queue) Send(p []byte, prio uint) error { return errUnsupported }

// Receive is unsupported on this platform.
func (q *Queue) Receive(buf []byte) (int, uint, error) { return 0, 0, errUnsupported }

// Depth is unsupported on this platform.
func (q *Queue) Depth() (int, error) { return 0, errUnsupported }

// GrantGroup is unsupported on this platform.
func (q *Queue) GrantGroup(gid int) error { return errUnsupported }

// Close is a no-op on this platform.
func (q *Queue) Close() error { return nil }
