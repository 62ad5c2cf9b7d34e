package mqueue

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mqAttr mirrors the kernel's struct mq_attr.
type mqAttr struct {
	Flags   int64
	MaxMsg  int64
	MsgSize int64
	CurMsgs int64
	_       [4]int64
}

// Queue is an open POSIX message queue descriptor.
type Queue struct {
	fd      int
	name    string
	msgSize int
}

// The kernel takes queue names without the leading slash; the slash is a
// libc-level convention this package preserves in its public API.
func kernelName(name string) (*byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return unix.BytePtrFromString(name[1:])
}

func mqOpen(name string, oflag int, mode uint32, attr *mqAttr) (int, error) {
	np, err := kernelName(name)
	if err != nil {
		return -1, err
	}
	fd, _, errno := unix.Syscall6(unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(np)),
		uintptr(oflag),
		uintptr(mode),
		uintptr(unsafe.Pointer(attr)),
		0, 0)
	if errno != 0 {
		return -1, os.NewSyscallError("mq_open", errno)
	}
	return int(fd), nil
}

// Create makes a fresh queue with the given geometry and mode. An existing
// queue under the same name is unlinked first so that stale geometry or
// ownership from a previous run cannot survive into this one.
func Create(name string, attr Attr, mode os.FileMode) (*Queue, error) {
	if err := Remove(name); err != nil {
		return nil, fmt.Errorf("cannot replace existing queue %s: %w", name, err)
	}

	kattr := mqAttr{
		MaxMsg:  int64(attr.MaxMsg),
		MsgSize: int64(attr.MsgSize),
	}
	fd, err := mqOpen(name, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, uint32(mode.Perm()), &kattr)
	if err != nil {
		return nil, fmt.Errorf("cannot create queue %s: %w", name, err)
	}
	return &Queue{fd: fd, name: name, msgSize: attr.MsgSize}, nil
}

// OpenWriter opens an existing queue for non-blocking sends.
func OpenWriter(name string) (*Queue, error) {
	fd, err := mqOpen(name, unix.O_WRONLY|unix.O_NONBLOCK, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot open queue %s for writing: %w", name, err)
	}
	q := &Queue{fd: fd, name: name}
	attr, err := q.getAttr()
	if err != nil {
		q.Close()
		return nil, err
	}
	q.msgSize = int(attr.MsgSize)
	return q, nil
}

// OpenReader opens an existing queue for blocking receives.
func OpenReader(name string) (*Queue, error) {
	fd, err := mqOpen(name, unix.O_RDONLY, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot open queue %s for reading: %w", name, err)
	}
	q := &Queue{fd: fd, name: name}
	attr, err := q.getAttr()
	if err != nil {
		q.Close()
		return nil, err
	}
	q.msgSize = int(attr.MsgSize)
	return q, nil
}

// Unlink removes the named queue from the kernel namespace.
func Unlink(name string) error {
	np, err := kernelName(name)
	if err != nil {
		return err
	}
	_, _, errno := unix.Syscall(unix.SYS_MQ_UNLINK, uintptr(unsafe.Pointer(np)), 0, 0)
	if errno != 0 {
		return os.NewSyscallError("mq_unlink", errno)
	}
	return nil
}

// Name returns the queue name, leading slash included.
func (q *Queue) Name() string { return q.name }

// MsgSize returns the maximum size of a single message.
func (q *Queue) MsgSize() int { return q.msgSize }

// Send enqueues one message. On a queue opened with OpenWriter a full
// queue fails immediately with unix.EAGAIN instead of blocking.
func (q *Queue) Send(p []byte, prio uint) error {
	var msg unsafe.Pointer
	if len(p) > 0 {
		msg = unsafe.Pointer(&p[0])
	} else {
		var zero byte
		msg = unsafe.Pointer(&zero)
	}
	_, _, errno := unix.Syscall6(unix.SYS_MQ_TIMEDSEND,
		uintptr(q.fd),
		uintptr(msg),
		uintptr(len(p)),
		uintptr(prio),
		0, 0)
	if errno != 0 {
		return os.NewSyscallError("mq_timedsend", errno)
	}
	return nil
}

// Receive dequeues one message into buf, blocking until one arrives.
// buf must be at least MsgSize bytes.
func (q *Queue) Receive(buf []byte) (int, uint, error) {
	var prio uint32
	n, _, errno := unix.Syscall6(unix.SYS_MQ_TIMEDRECEIVE,
		uintptr(q.fd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&prio)),
		0, 0)
	if errno != 0 {
		return 0, 0, os.NewSyscallError("mq_timedreceive", errno)
	}
	return int(n), uint(prio), nil
}

// Depth returns the number of messages currently queued.
func (q *Queue) Depth() (int, error) {
	attr, err := q.getAttr()
	if err != nil {
		return 0, err
	}
	return int(attr.CurMsgs), nil
}

// GrantGroup hands queue access to the given gid: group ownership plus
// group read/write. Called when a privilege-drop group was resolved, so
// the queue stays writable after the identity switch.
func (q *Queue) GrantGroup(gid int) error {
	if err := unix.Fchown(q.fd, -1, gid); err != nil {
		return fmt.Errorf("cannot chown queue %s to gid %d: %w", q.name, gid, err)
	}
	if err := unix.Fchmod(q.fd, 0660); err != nil {
		return fmt.Errorf("cannot chmod queue %s: %w", q.name, err)
	}
	return nil
}

// Close releases the queue descriptor. The queue itself stays in the
// kernel namespace until unlinked.
func (q *Queue) Close() error {
	return unix.Close(q.fd)
}

func (q *Queue) getAttr() (mqAttr, error) {
	var attr mqAttr
	_, _, errno := unix.Syscall6(unix.SYS_MQ_GETSETATTR,
		uintptr(q.fd),
		0,
		uintptr(unsafe.Pointer(&attr)),
		0, 0, 0)
	if errno != 0 {
		return attr, os.NewSyscallError("mq_getsetattr", errno)
	}
	return attr, nil
}
