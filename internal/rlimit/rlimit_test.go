package rlimit

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestNofile(t *testing.T) {
	l := Nofile(65536)
	if l.Resource != unix.RLIMIT_NOFILE {
		t.Fatalf("resource = %d, want RLIMIT_NOFILE", l.Resource)
	}
	if l.Cur != 65536 || l.Max != 65536 {
		t.Fatalf("cur=%d max=%d, want 65536:65536", l.Cur, l.Max)
	}
}

func TestApplyEmpty(t *testing.T) {
	if err := Apply(nil); err != nil {
		t.Fatalf("Apply(nil) = %v, want nil", err)
	}
}

func TestApplyCurrentValues(t *testing.T) {
	// Re-applying the current limit is always permitted.
	cur, err := Current(unix.RLIMIT_NOFILE)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}

	err = Apply([]Limit{{
		Resource: unix.RLIMIT_NOFILE,
		Cur:      cur.Cur,
		Max:      cur.Max,
	}})
	if err != nil {
		t.Fatalf("Apply current values: %v", err)
	}
}

func TestApplyAboveHardFails(t *testing.T) {
	cur, err := Current(unix.RLIMIT_NOFILE)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.Max == unix.RLIM_INFINITY {
		t.Skip("hard limit is unlimited; cannot exceed it")
	}
	if unix.Geteuid() == 0 {
		t.Skip("root may raise hard limits")
	}

	err = Apply([]Limit{{
		Resource: unix.RLIMIT_NOFILE,
		Cur:      cur.Max + 1,
		Max:      cur.Max + 1,
	}})
	if err == nil {
		t.Fatal("Apply above hard ceiling succeeded, want error")
	}
}
