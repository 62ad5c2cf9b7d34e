package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestWritePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oversip.pid")

	if err := WritePIDFile(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		t.Fatalf("pid file content %q is not a number", pidStr)
	}
	if pid != os.Getpid() {
		t.Fatalf("pid = %d, want %d", pid, os.Getpid())
	}
}

func TestWritePIDFileEmpty(t *testing.T) {
	// Empty path should be a no-op.
	if err := WritePIDFile(""); err != nil {
		t.Fatal(err)
	}
}

func TestWritePIDFileBadPath(t *testing.T) {
	err := WritePIDFile(filepath.Join(t.TempDir(), "missing", "oversip.pid"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestRemovePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oversip.pid")

	_ = WritePIDFile(path)
	RemovePIDFile(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("pid file should be removed")
	}
}

func TestRemovePIDFileEmpty(t *testing.T) {
	// Should not panic.
	RemovePIDFile("")
}
