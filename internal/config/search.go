package config

import "path/filepath"

// Default config location.
const (
	DefaultDir  = "/etc/oversip"
	DefaultFile = "oversip.conf"
)

// ResolvePath combines the --config-dir and --config-file options into the
// path to load, falling back to the defaults for whichever is unset. An
// absolute file option wins outright.
func ResolvePath(dir, file string) string {
	if file != "" && filepath.IsAbs(file) {
		return file
	}
	if dir == "" {
		dir = DefaultDir
	}
	if file == "" {
		file = DefaultFile
	}
	return filepath.Join(dir, file)
}
