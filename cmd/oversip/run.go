package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oversip/oversip/internal/bootstrap"
	"github.com/oversip/oversip/internal/config"
	"github.com/oversip/oversip/internal/daemon"
	"github.com/oversip/oversip/internal/logging"
	"github.com/oversip/oversip/internal/master"
	"github.com/oversip/oversip/internal/mqueue"
)

var (
	flagPIDFile      string
	flagProcessName  string
	flagConfigDir    string
	flagConfigFile   string
	flagUser         string
	flagGroup        string
	flagNoColor      bool
	flagRemoveMqueue string
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagPIDFile, "pid", "P", "", "PID file path (required)")
	f.StringVarP(&flagProcessName, "process-name", "p", bootstrap.DefaultProcessName, "master process name")
	f.StringVar(&flagConfigDir, "config-dir", "", "configuration directory")
	f.StringVar(&flagConfigFile, "config-file", "", "configuration file name")
	f.StringVarP(&flagUser, "user", "u", "", "run as this system user")
	f.StringVarP(&flagGroup, "group", "g", "", "run as this system group")
	f.BoolVar(&flagNoColor, "no-color", false, "disable colorized console output")
	f.StringVar(&flagRemoveMqueue, "remove-mqueue", "", "destroy the named message queue and exit")

	// Shorthand for cobra's version flag.
	f.BoolP("version", "v", false, "print version and exit")
}

// runMaster is the primary invocation: the bootstrap sequence followed by
// daemonization and the master run loop.
func runMaster(cmd *cobra.Command, args []string) error {
	// Queue-removal mode short-circuits the whole pipeline.
	if flagRemoveMqueue != "" {
		if err := mqueue.Remove(flagRemoveMqueue); err != nil {
			return fmt.Errorf("cannot remove message queue %s: %w", flagRemoveMqueue, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "message queue %s removed\n", flagRemoveMqueue)
		return nil
	}

	opts := bootstrap.Options{
		PIDFile:     flagPIDFile,
		ProcessName: flagProcessName,
		ConfigDir:   flagConfigDir,
		ConfigFile:  flagConfigFile,
		User:        flagUser,
		Group:       flagGroup,
		NoColor:     flagNoColor,
	}

	logger := logging.New(logging.LogConfig{
		Format:   "console",
		Colorize: logging.Colorizable(os.Stdout, opts.NoColor),
		Output:   os.Stderr,
	})

	configPath := config.ResolvePath(opts.ConfigDir, opts.ConfigFile)
	cfg, warnings, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("config warning", "warning", w)
	}

	pipeline := bootstrap.New(opts, uint64(cfg.Core.Nofile), logger)
	return pipeline.Run(func(result bootstrap.Result) error {
		parent, err := daemon.Daemonize(logger)
		if err != nil {
			return err
		}
		if parent {
			// The original foreground process is done; the daemon child
			// carries on.
			return nil
		}

		m := master.New(master.Config{
			Options:    result.Options,
			Identity:   result.Identity,
			ConfigPath: configPath,
			AppConfig:  cfg,
			Logger:     logger,
		})
		return m.Run()
	})
}
