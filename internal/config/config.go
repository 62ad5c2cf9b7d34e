// Package config handles loading and validating OverSIP configuration.
package config

// Config is the top-level OverSIP configuration.
type Config struct {
	Core   CoreConfig   `toml:"core"`
	Status StatusConfig `toml:"status"`
}

// CoreConfig holds master-process settings.
type CoreConfig struct {
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	SyslogFacility string `toml:"syslog_facility"`
	LogFile        string `toml:"log_file"`
	LogMaxBytes    string `toml:"log_max_bytes"`
	LogBackups     int    `toml:"log_backups"`
	Nofile         int    `toml:"nofile"`
}

// StatusConfig holds the HTTP status listener settings.
type StatusConfig struct {
	Enabled  bool   `toml:"enabled"`
	Listen   string `toml:"listen"`
	Username string `toml:"username"`
	Password string `toml:"password"` // bcrypt hash
}
