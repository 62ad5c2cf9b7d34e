// Package mqueue wraps the POSIX message queue used as the logging IPC
// channel between the master, its workers, and the syslogger process.
package mqueue

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// NameSuffix is appended to the master process name to form the queue name.
const NameSuffix = "_syslogger"

// Default queue geometry. MsgSize bounds a single serialized log record;
// longer records are truncated by the writer.
const (
	DefaultMaxMsg  = 1000
	DefaultMsgSize = 2048
)

// ErrInvalidName reports a queue name the kernel would reject.
var ErrInvalidName = errors.New("invalid message queue name")

// nameMax bounds a queue name, matching the kernel's NAME_MAX.
const nameMax = 255

// Attr describes queue geometry.
type Attr struct {
	MaxMsg  int
	MsgSize int
}

// DefaultAttr returns the default queue geometry.
func DefaultAttr() Attr {
	return Attr{MaxMsg: DefaultMaxMsg, MsgSize: DefaultMsgSize}
}

// Name derives the queue name from the master process name. The name is a
// pure function of the process name: two masters with the same name share
// the same queue.
func Name(processName string) string {
	return "/" + processName + NameSuffix
}

// ValidateName checks that name is acceptable to the kernel: a leading
// slash followed by a non-empty component with no further slashes.
func ValidateName(name string) error {
	if len(name) < 2 || name[0] != '/' {
		return fmt.Errorf("%w: %q (must start with '/')", ErrInvalidName, name)
	}
	if strings.Contains(name[1:], "/") {
		return fmt.Errorf("%w: %q (only one '/' allowed)", ErrInvalidName, name)
	}
	if len(name) > nameMax {
		return fmt.Errorf("%w: %q (name too long)", ErrInvalidName, name)
	}
	return nil
}

// Remove unlinks the named queue. A queue that does not exist is treated
// as success: removal is idempotent. Permission and invalid-name failures
// are reported.
func Remove(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := Unlink(name)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
