package config

// ApplyDefaults fills unset fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Core.LogLevel == "" {
		cfg.Core.LogLevel = "info"
	}
	if cfg.Core.LogFormat == "" {
		cfg.Core.LogFormat = "console"
	}
	if cfg.Core.SyslogFacility == "" {
		cfg.Core.SyslogFacility = "daemon"
	}
	if cfg.Core.LogMaxBytes == "" {
		cfg.Core.LogMaxBytes = "10MB"
	}
	if cfg.Core.LogBackups == 0 {
		cfg.Core.LogBackups = 4
	}
	if cfg.Core.Nofile == 0 {
		cfg.Core.Nofile = 65536
	}
	if cfg.Status.Listen == "" {
		cfg.Status.Listen = "127.0.0.1:9652"
	}
}

// Default returns a config with all defaults applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// DefaultConfigTOML is the sample configuration emitted by "oversip init".
const DefaultConfigTOML = `# OverSIP master configuration.

[core]
log_level = "info"            # debug, info, warn, error
log_format = "console"        # console, text, json
syslog_facility = "daemon"    # daemon, user, local0..local7
# log_file = ""               # optional local copy of syslogger output
# log_max_bytes = "10MB"      # rotate log_file beyond this size
# log_backups = 4             # rotated files to keep
nofile = 65536                # open file descriptor ceiling

[status]
enabled = false
listen = "127.0.0.1:9652"
# username = ""
# password = ""               # bcrypt hash; see: oversip hash-password
`
