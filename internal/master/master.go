// Package master is the run-loop collaborator the bootstrap hands off
// to: it owns the PID file, the process title, the privilege drop, the
// syslogger child process, and the real signal handlers.
package master

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/oversip/oversip/internal/bootstrap"
	"github.com/oversip/oversip/internal/config"
	"github.com/oversip/oversip/internal/daemon"
	"github.com/oversip/oversip/internal/mqueue"
	"github.com/oversip/oversip/internal/privileges"
	"github.com/oversip/oversip/internal/syslogger"
)

// respawnDelay throttles syslogger child restarts.
const respawnDelay = time.Second

// shutdownWait bounds how long the master waits for the syslogger child
// to drain and exit.
const shutdownWait = 5 * time.Second

// Config configures the master run loop.
type Config struct {
	Options    bootstrap.Options
	Identity   privileges.Identity
	ConfigPath string
	AppConfig  *config.Config
	Logger     *slog.Logger // console logger; replaced by the IPC channel once the child runs
}

// Master is the long-running daemon process.
type Master struct {
	cfg      Config
	logger   *slog.Logger
	level    *slog.LevelVar
	writer   *syslogger.Writer
	child    *exec.Cmd
	signals  *SignalQueue
	shutting bool

	// spawnChild is a seam for tests.
	spawnChild func() (*exec.Cmd, error)
}

// New creates a master for the given bootstrap result.
func New(cfg Config) *Master {
	m := &Master{
		cfg:    cfg,
		logger: cfg.Logger,
		level:  new(slog.LevelVar),
	}
	m.level.Set(slogLevel(cfg.AppConfig))
	m.spawnChild = m.execSyslogger
	return m
}

// Run executes the master until a termination signal arrives. It is
// invoked after daemonization; stdio is already detached.
func (m *Master) Run() error {
	if err := daemon.WritePIDFile(m.cfg.Options.PIDFile); err != nil {
		return err
	}
	defer daemon.RemovePIDFile(m.cfg.Options.PIDFile)

	// The one explicit process-visible name write.
	if err := daemon.SetProcessTitle(m.cfg.Options.MasterName()); err != nil {
		m.logger.Warn("cannot set process title", "error", err)
	}

	// Drop privileges before spawning the child so the syslogger inherits
	// the dropped identity. The queue was chowned at bootstrap, so it
	// stays accessible.
	if err := privileges.Apply(m.cfg.Identity, m.logger); err != nil {
		return err
	}

	child, err := m.spawnChild()
	if err != nil {
		return fmt.Errorf("cannot start syslogger: %w", err)
	}
	m.child = child

	// From here the master logs through the IPC channel.
	queueName := m.cfg.Options.QueueName()
	w, err := syslogger.NewWriter(queueName)
	if err != nil {
		return fmt.Errorf("cannot open logging channel: %w", err)
	}
	m.writer = w
	defer w.Close()
	m.logger = slog.New(syslogger.NewHandler(w, m.level))

	childExit := make(chan error, 1)
	go func() { childExit <- m.child.Wait() }()

	m.signals = InstallSignals(m.logger)
	defer m.signals.Stop()

	m.logger.Info("master running",
		"pid", os.Getpid(), "name", m.cfg.Options.MasterName(), "queue", queueName)

	for {
		select {
		case sig := <-m.signals.C:
			if m.handleSignal(sig) {
				return m.shutdown(childExit)
			}
		case err := <-childExit:
			if m.shutting {
				return nil
			}
			m.respawnSyslogger(err, childExit)
		}
	}
}

// handleSignal processes one signal and reports whether to shut down.
func (m *Master) handleSignal(sig os.Signal) bool {
	switch sig {
	case syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT:
		m.logger.Info("received termination signal", "signal", sig.String())
		return true

	case syscall.SIGHUP:
		m.handleReload()
		return false

	case syscall.SIGUSR1:
		m.toggleDebug()
		return false

	case syscall.SIGUSR2:
		// Reserved for zero-downtime binary replacement.
		m.logger.Info("SIGUSR2 received; binary replacement not implemented")
		return false

	default:
		m.logger.Warn("unhandled signal", "signal", sig.String())
		return false
	}
}

func (m *Master) handleReload() {
	m.logger.Info("reloading config", "path", m.cfg.ConfigPath)

	newCfg, warnings, err := config.LoadOrDefault(m.cfg.ConfigPath)
	if err != nil {
		m.logger.Error("reload failed", "error", err)
		return
	}
	for _, w := range warnings {
		m.logger.Warn("config warning", "warning", w)
	}

	m.cfg.AppConfig = newCfg
	m.level.Set(slogLevel(newCfg))
	m.logger.Info("config reloaded", "log_level", newCfg.Core.LogLevel)
}

// toggleDebug flips the master between its configured level and debug.
func (m *Master) toggleDebug() {
	if m.level.Level() == slog.LevelDebug {
		m.level.Set(slogLevel(m.cfg.AppConfig))
		m.logger.Info("debug logging disabled")
		return
	}
	m.level.Set(slog.LevelDebug)
	m.logger.Info("debug logging enabled")
}

func (m *Master) respawnSyslogger(exitErr error, childExit chan error) {
	m.logger.Error("syslogger process exited unexpectedly", "error", exitErr)
	time.Sleep(respawnDelay)

	child, err := m.spawnChild()
	if err != nil {
		m.logger.Error("syslogger respawn failed", "error", err)
		return
	}
	m.child = child
	go func() { childExit <- m.child.Wait() }()
	m.logger.Info("syslogger respawned", "pid", child.Process.Pid)
}

func (m *Master) shutdown(childExit chan error) error {
	m.shutting = true
	m.logger.Info("master shutting down")

	if m.child != nil && m.child.Process != nil {
		_ = m.child.Process.Signal(syscall.SIGTERM)
		select {
		case <-childExit:
		case <-time.After(shutdownWait):
			_ = m.child.Process.Kill()
		}
	}

	if dropped := m.writer.Drops(); dropped > 0 {
		m.logger.Warn("log records were dropped on a full queue", "count", dropped)
	}

	// The queue does not outlive the master.
	if err := mqueue.Remove(m.cfg.Options.QueueName()); err != nil {
		m.logger.Warn("cannot remove logging queue", "error", err)
	}

	return nil
}

func (m *Master) execSyslogger() (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}

	args := []string{
		"syslogger",
		"--queue", m.cfg.Options.QueueName(),
		"--process-name", m.cfg.Options.MasterName(),
	}
	if m.cfg.ConfigPath != "" {
		args = append(args, "--config", m.cfg.ConfigPath)
	}

	cmd := exec.Command(exe, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func slogLevel(cfg *config.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch cfg.Core.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
