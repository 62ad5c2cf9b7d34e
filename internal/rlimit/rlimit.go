// Package rlimit raises kernel resource limits for the master process.
package rlimit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DefaultNofile is the open-file-descriptor ceiling requested at bootstrap.
// A long-running server under-provisioned on descriptors is a startup-time
// defect, so failure to reach this limit is fatal.
const DefaultNofile = 65536

// Limit is a single resource limit request.
type Limit struct {
	Resource int
	Cur      uint64
	Max      uint64
}

// Nofile builds an open-files limit request with soft = hard = n.
func Nofile(n uint64) Limit {
	return Limit{
		Resource: unix.RLIMIT_NOFILE,
		Cur:      n,
		Max:      n,
	}
}

// Apply sets the given limits on the current process. Limits must be
// applied while the process still holds its original privileges; a later
// privilege drop cannot raise a hard limit.
func Apply(limits []Limit) error {
	for _, l := range limits {
		rl := unix.Rlimit{
			Cur: l.Cur,
			Max: l.Max,
		}
		if err := unix.Setrlimit(l.Resource, &rl); err != nil {
			return fmt.Errorf("setrlimit(%d, %d:%d) failed: %w", l.Resource, l.Cur, l.Max, err)
		}
	}
	return nil
}

// Current returns the current limit for the given resource.
func Current(resource int) (unix.Rlimit, error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(resource, &rl); err != nil {
		return rl, fmt.Errorf("getrlimit(%d) failed: %w", resource, err)
	}
	return rl, nil
}
