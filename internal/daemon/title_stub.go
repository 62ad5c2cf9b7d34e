//go:build !linux

package daemon

// SetProcessTitle is a no-op on platforms without prctl.
func SetProcessTitle(string) error { return nil }
