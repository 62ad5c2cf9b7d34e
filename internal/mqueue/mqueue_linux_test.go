package mqueue

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

// testQueueName returns a per-process queue name so parallel test runs do
// not collide in the kernel namespace.
func testQueueName(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("/oversip_test_%d", os.Getpid())
}

// skipIfUnavailable skips tests in environments without mqueue support
// (kernel built without CONFIG_POSIX_MQUEUE, or a restricted sandbox).
func skipIfUnavailable(t *testing.T, err error) {
	t.Helper()
	if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		t.Skipf("message queues unavailable: %v", err)
	}
}

func TestRemoveMissingQueueIsIdempotent(t *testing.T) {
	err := Remove("/oversip_test_definitely_absent")
	if err != nil {
		skipIfUnavailable(t, err)
		t.Fatalf("Remove(missing) = %v, want nil", err)
	}
}

func TestCreateSendReceive(t *testing.T) {
	name := testQueueName(t)
	q, err := Create(name, Attr{MaxMsg: 8, MsgSize: 128}, 0600)
	if err != nil {
		skipIfUnavailable(t, err)
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() {
		q.Close()
		_ = Unlink(name)
	})

	if q.MsgSize() != 128 {
		t.Fatalf("MsgSize = %d, want 128", q.MsgSize())
	}

	if err := q.Send([]byte("hello"), 3); err != nil {
		t.Fatalf("Send: %v", err)
	}

	depth, err := q.Depth()
	if err != nil {
		t.Fatalf("Depth: %v", err)
	}
	if depth != 1 {
		t.Fatalf("Depth = %d, want 1", depth)
	}

	buf := make([]byte, 128)
	n, prio, err := q.Receive(buf)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("received %q, want %q", buf[:n], "hello")
	}
	if prio != 3 {
		t.Fatalf("priority = %d, want 3", prio)
	}
}

func TestCreateReplacesExisting(t *testing.T) {
	name := testQueueName(t)
	q1, err := Create(name, Attr{MaxMsg: 4, MsgSize: 64}, 0600)
	if err != nil {
		skipIfUnavailable(t, err)
		t.Fatalf("first Create: %v", err)
	}
	q1.Close()

	q2, err := Create(name, Attr{MaxMsg: 8, MsgSize: 256}, 0600)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	t.Cleanup(func() {
		q2.Close()
		_ = Unlink(name)
	})

	if q2.MsgSize() != 256 {
		t.Fatalf("MsgSize after replace = %d, want fresh geometry 256", q2.MsgSize())
	}
}

func TestNonBlockingWriterFullQueue(t *testing.T) {
	name := testQueueName(t)
	q, err := Create(name, Attr{MaxMsg: 1, MsgSize: 64}, 0600)
	if err != nil {
		skipIfUnavailable(t, err)
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() {
		q.Close()
		_ = Unlink(name)
	})

	w, err := OpenWriter(name)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	defer w.Close()

	if err := w.Send([]byte("one"), 0); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	err = w.Send([]byte("two"), 0)
	if !errors.Is(err, unix.EAGAIN) {
		t.Fatalf("Send on full queue = %v, want EAGAIN", err)
	}
}

func TestOpenWriterMissingQueue(t *testing.T) {
	_, err := OpenWriter("/oversip_test_definitely_absent")
	if err == nil {
		t.Fatal("OpenWriter(missing) succeeded, want error")
	}
	skipIfUnavailable(t, err)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("OpenWriter(missing) = %v, want ErrNotExist", err)
	}
}
