// Package daemon provides the detach mechanics the bootstrap hands off
// to: double-fork daemonization, PID file handling, and the one explicit
// process-title write.
package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"syscall"
)

// WritePIDFile writes the current process PID to the given path.
func WritePIDFile(path string) error {
	if path == "" {
		return nil
	}
	pid := os.Getpid()
	data := []byte(strconv.Itoa(pid) + "\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write PID file: %s: %w", path, err)
	}
	return nil
}

// RemovePIDFile removes the PID file if it exists.
func RemovePIDFile(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// Daemonize performs a double-fork to become a background daemon.
// Returns true in the parent (which should exit), false in the daemon
// child.
func Daemonize(logger *slog.Logger) (bool, error) {
	// First fork.
	pid, errno := sysFork()
	if errno != 0 {
		return false, fmt.Errorf("first fork failed: %v", errno)
	}
	if pid > 0 {
		// Parent process -- exit.
		return true, nil
	}

	// Create new session.
	if _, err := syscall.Setsid(); err != nil {
		return false, fmt.Errorf("setsid failed: %w", err)
	}

	// Second fork.
	pid, errno = sysFork()
	if errno != 0 {
		return false, fmt.Errorf("second fork failed: %v", errno)
	}
	if pid > 0 {
		// First child -- exit.
		os.Exit(0)
	}

	// Redirect stdio to /dev/null.
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return false, fmt.Errorf("cannot open /dev/null: %w", err)
	}
	_ = sysDup2(int(devNull.Fd()), int(os.Stdin.Fd()))
	_ = sysDup2(int(devNull.Fd()), int(os.Stdout.Fd()))
	_ = sysDup2(int(devNull.Fd()), int(os.Stderr.Fd()))
	devNull.Close()

	logger.Info("daemonized", "pid", os.Getpid())
	return false, nil
}
