package config

import (
	"fmt"
	"net"
	"strings"
)

// validFacilities lists the supported syslog facilities.
var validFacilities = map[string]bool{
	"kern": true, "user": true, "mail": true, "daemon": true,
	"auth": true, "syslog": true, "lpr": true, "news": true,
	"uucp": true, "cron": true, "authpriv": true, "ftp": true,
	"local0": true, "local1": true, "local2": true, "local3": true,
	"local4": true, "local5": true, "local6": true, "local7": true,
}

// validLevels lists the supported log levels.
var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// validFormats lists the supported log formats.
var validFormats = map[string]bool{
	"console": true, "text": true, "json": true,
}

// Validate checks the config for semantic errors and returns all of them.
func Validate(cfg *Config) []error {
	var errs []error

	if !validLevels[strings.ToLower(cfg.Core.LogLevel)] {
		errs = append(errs, fmt.Errorf("core: invalid log_level %q", cfg.Core.LogLevel))
	}
	if !validFormats[strings.ToLower(cfg.Core.LogFormat)] {
		errs = append(errs, fmt.Errorf("core: invalid log_format %q", cfg.Core.LogFormat))
	}
	if !validFacilities[strings.ToLower(cfg.Core.SyslogFacility)] {
		errs = append(errs, fmt.Errorf("core: invalid syslog_facility %q", cfg.Core.SyslogFacility))
	}
	if cfg.Core.Nofile < 0 {
		errs = append(errs, fmt.Errorf("core: nofile must be >= 0, got %d", cfg.Core.Nofile))
	}
	if cfg.Core.LogBackups < 0 {
		errs = append(errs, fmt.Errorf("core: log_backups must be >= 0, got %d", cfg.Core.LogBackups))
	}

	if cfg.Status.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Status.Listen); err != nil {
			errs = append(errs, fmt.Errorf("status: invalid listen address %q: %v", cfg.Status.Listen, err))
		}
		if cfg.Status.Password != "" && cfg.Status.Username == "" {
			errs = append(errs, fmt.Errorf("status: password set without username"))
		}
	}

	return errs
}
