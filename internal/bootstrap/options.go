package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/oversip/oversip/internal/mqueue"
)

// DefaultProcessName is the master process name when none is given.
const DefaultProcessName = "oversip"

// Options is the validated bootstrap configuration, immutable once flag
// parsing completes.
type Options struct {
	PIDFile     string
	ProcessName string
	ConfigDir   string
	ConfigFile  string
	User        string
	Group       string
	NoColor     bool
}

// MasterName returns the effective master process name: the explicit
// option, then the executable's base name, then the built-in default.
func (o Options) MasterName() string {
	if o.ProcessName != "" {
		return o.ProcessName
	}
	if exe, err := os.Executable(); err == nil {
		if base := filepath.Base(exe); base != "" && base != "." && base != string(filepath.Separator) {
			return base
		}
	}
	return DefaultProcessName
}

// QueueName derives the logging IPC queue name. It is a pure function of
// the master name: masters sharing a name share a queue.
func (o Options) QueueName() string {
	return mqueue.Name(o.MasterName())
}
