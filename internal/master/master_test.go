package master

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/oversip/oversip/internal/bootstrap"
	"github.com/oversip/oversip/internal/config"
)

func testMaster(buf *bytes.Buffer) *Master {
	m := New(Config{
		Options:   bootstrap.Options{PIDFile: "/run/oversip.pid", ProcessName: "oversip"},
		AppConfig: config.Default(),
		Logger:    slog.New(slog.NewTextHandler(buf, nil)),
	})
	return m
}

func TestHandleSignalTermination(t *testing.T) {
	var buf bytes.Buffer
	m := testMaster(&buf)

	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT} {
		if !m.handleSignal(sig) {
			t.Errorf("handleSignal(%v) = false, want shutdown", sig)
		}
	}
}

func TestHandleSignalNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	m := testMaster(&buf)

	for _, sig := range []os.Signal{syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2} {
		if m.handleSignal(sig) {
			t.Errorf("handleSignal(%v) = true, want continue", sig)
		}
	}
}

func TestToggleDebug(t *testing.T) {
	var buf bytes.Buffer
	m := testMaster(&buf)

	if m.level.Level() != slog.LevelInfo {
		t.Fatalf("initial level = %v, want info", m.level.Level())
	}

	m.toggleDebug()
	if m.level.Level() != slog.LevelDebug {
		t.Fatalf("level after toggle = %v, want debug", m.level.Level())
	}

	m.toggleDebug()
	if m.level.Level() != slog.LevelInfo {
		t.Fatalf("level after second toggle = %v, want info", m.level.Level())
	}
}

func TestHandleReload(t *testing.T) {
	var buf bytes.Buffer
	m := testMaster(&buf)

	path := filepath.Join(t.TempDir(), "oversip.conf")
	if err := os.WriteFile(path, []byte("[core]\nlog_level = \"error\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m.cfg.ConfigPath = path

	m.handleReload()

	if m.level.Level() != slog.LevelError {
		t.Fatalf("level after reload = %v, want error", m.level.Level())
	}
	if !strings.Contains(buf.String(), "config reloaded") {
		t.Errorf("missing reload log: %s", buf.String())
	}
}

func TestHandleReloadBadConfigKeepsOld(t *testing.T) {
	var buf bytes.Buffer
	m := testMaster(&buf)

	path := filepath.Join(t.TempDir(), "oversip.conf")
	if err := os.WriteFile(path, []byte("[core]\nlog_level = \"bogus\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m.cfg.ConfigPath = path

	m.handleReload()

	if m.level.Level() != slog.LevelInfo {
		t.Fatalf("level changed after failed reload: %v", m.level.Level())
	}
	if !strings.Contains(buf.String(), "reload failed") {
		t.Errorf("missing reload failure log: %s", buf.String())
	}
}

func TestSignalQueueDelivery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	PreTrapSignals()
	sq := InstallSignals(logger)
	defer sq.Stop()

	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatal(err)
	}

	select {
	case sig := <-sq.C:
		if sig != syscall.SIGUSR1 {
			t.Fatalf("received %v, want SIGUSR1", sig)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("signal not delivered to the run-loop queue")
	}
}

func TestDeferredSignalSet(t *testing.T) {
	want := map[os.Signal]bool{
		syscall.SIGHUP:  true,
		syscall.SIGINT:  true,
		syscall.SIGUSR1: true,
		syscall.SIGUSR2: true,
	}
	if len(DeferredSignals) != len(want) {
		t.Fatalf("deferred set has %d signals, want %d", len(DeferredSignals), len(want))
	}
	for _, sig := range DeferredSignals {
		if !want[sig] {
			t.Errorf("unexpected deferred signal %v", sig)
		}
	}
}
