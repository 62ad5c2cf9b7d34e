package daemon

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SetProcessTitle sets the kernel-visible task name. The name is written
// exactly once, after option resolution; it is never mutated again. The
// kernel truncates names beyond 15 bytes.
func SetProcessTitle(name string) error {
	if name == "" {
		return nil
	}
	p, err := unix.BytePtrFromString(name)
	if err != nil {
		return fmt.Errorf("invalid process title %q: %w", name, err)
	}
	if err := unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(p)), 0, 0, 0); err != nil {
		return fmt.Errorf("prctl(PR_SET_NAME) failed: %w", err)
	}
	return nil
}
