package master

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// DeferredSignals is the set trapped to no-op handlers at process entry,
// before any option is consumed. Signals arriving during option parsing
// must not kill the process; the real handlers are installed later, in
// one swap, by InstallSignals.
var DeferredSignals = []os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
}

// pretrap is the phase-one channel. Nobody reads it; its registration
// only keeps the deferred signals from killing the process.
var pretrap chan os.Signal

// PreTrapSignals is phase one of the two-phase signal registration.
// Safe to call once at process entry.
func PreTrapSignals() {
	pretrap = make(chan os.Signal, len(DeferredSignals))
	signal.Notify(pretrap, DeferredSignals...)
}

// SignalQueue captures OS signals for deferred processing in the run loop.
type SignalQueue struct {
	C      <-chan os.Signal
	ch     chan os.Signal
	logger *slog.Logger
}

// InstallSignals is phase two: the run loop's real handler set. The new
// registration is added before the pre-trap one is dropped, so no signal
// can hit a default disposition in between. It registers for SIGTERM,
// SIGINT, SIGQUIT, SIGHUP, SIGUSR1, and SIGUSR2.
func InstallSignals(logger *slog.Logger) *SignalQueue {
	ch := make(chan os.Signal, 16)
	signal.Notify(ch,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGHUP,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
	)
	if pretrap != nil {
		signal.Stop(pretrap)
		pretrap = nil
	}
	return &SignalQueue{
		C:      ch,
		ch:     ch,
		logger: logger,
	}
}

// Stop deregisters signal notifications.
func (sq *SignalQueue) Stop() {
	signal.Stop(sq.ch)
}
