// Package bootstrap drives the master-process startup sequence: option
// validation, privilege resolution, resource-limit escalation, and
// creation of the logging IPC channel, in that order, before control is
// handed to the daemonizer.
package bootstrap

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/oversip/oversip/internal/mqueue"
	"github.com/oversip/oversip/internal/privileges"
	"github.com/oversip/oversip/internal/rlimit"
)

// Channel is the created logging IPC queue as the pipeline sees it.
type Channel interface {
	Name() string
	Close() error
}

// Result is the successful outcome of the pipeline: everything the
// daemonizer collaborator needs to detach and start the run loop.
type Result struct {
	Options  Options
	Identity privileges.Identity
	Channel  Channel
}

// Pipeline runs the bootstrap state machine. Each step is a blocking OS
// call; ordering is a hard dependency (limits must be raised while still
// privileged). Already-applied OS state is not rolled back on a later
// fatal step; the process terminates anyway.
type Pipeline struct {
	opts   Options
	nofile uint64
	logger *slog.Logger
	state  State

	// Seams for tests; production defaults touch real OS state.
	euid          func() int
	applyLimits   func([]rlimit.Limit) error
	createChannel func(name string, id privileges.Identity) (Channel, error)
}

// New creates a pipeline for the given validated-or-not options.
func New(opts Options, nofile uint64, logger *slog.Logger) *Pipeline {
	if nofile == 0 {
		nofile = rlimit.DefaultNofile
	}
	return &Pipeline{
		opts:          opts,
		nofile:        nofile,
		logger:        logger,
		state:         StateParsing,
		euid:          unix.Geteuid,
		applyLimits:   rlimit.Apply,
		createChannel: createQueue,
	}
}

// State returns the last state the pipeline reached.
func (p *Pipeline) State() State { return p.state }

// Run executes the sequence up to CHANNEL_READY and then invokes the
// handoff. Any step failure returns a *FatalError carrying the stage
// that had been completed.
func (p *Pipeline) Run(handoff func(Result) error) error {
	// PARSING -> VALIDATED: the one required option.
	if p.opts.PIDFile == "" {
		p.state = StateFatal
		return fatal(StateParsing, fmt.Errorf("a PID file is required (--pid)"))
	}
	p.state = StateValidated

	// VALIDATED -> PRIVILEGE_RESOLVED: resolve the drop target while we
	// can still tell whether we are privileged. Switching is deferred to
	// the daemonizer.
	identity, err := privileges.ResolveAs(p.opts.User, p.opts.Group, p.euid(), p.logger)
	if err != nil {
		p.state = StateFatal
		return fatal(StateValidated, err)
	}
	p.state = StatePrivilegeResolved

	// PRIVILEGE_RESOLVED -> LIMITS_SET: raise the descriptor ceiling
	// before any potential privilege drop could forbid it.
	if err := p.applyLimits([]rlimit.Limit{rlimit.Nofile(p.nofile)}); err != nil {
		p.state = StateFatal
		return fatal(StatePrivilegeResolved, err)
	}
	p.state = StateLimitsSet
	p.logger.Debug("raised file descriptor limit", "nofile", p.nofile)

	// LIMITS_SET -> CHANNEL_READY: the queue must exist before the fork
	// boundary so no log record is lost while daemonizing.
	ch, err := p.createChannel(p.opts.QueueName(), identity)
	if err != nil {
		p.state = StateFatal
		return fatal(StateLimitsSet, err)
	}
	p.state = StateChannelReady
	p.logger.Info("logging channel ready", "queue", ch.Name())

	// CHANNEL_READY -> HANDED_OFF: from here the daemonizer owns the
	// process.
	p.state = StateHandedOff
	return handoff(Result{
		Options:  p.opts,
		Identity: identity,
		Channel:  ch,
	})
}

func createQueue(name string, id privileges.Identity) (Channel, error) {
	q, err := mqueue.Create(name, mqueue.DefaultAttr(), 0600)
	if err != nil {
		return nil, err
	}
	if id.HasGID {
		if err := q.GrantGroup(id.GID); err != nil {
			q.Close()
			return nil, err
		}
	}
	return q, nil
}
