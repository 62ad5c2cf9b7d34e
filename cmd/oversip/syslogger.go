package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oversip/oversip/internal/config"
	"github.com/oversip/oversip/internal/logging"
	"github.com/oversip/oversip/internal/metrics"
	"github.com/oversip/oversip/internal/status"
	"github.com/oversip/oversip/internal/syslogger"
)

var (
	sysloggerQueue   string
	sysloggerConfig  string
	sysloggerProcess string
)

// sysloggerCmd is the dedicated logger process: the sole reader of the
// IPC queue, spawned by the master after daemonization. Hidden; it is
// not meant to be run by operators.
var sysloggerCmd = &cobra.Command{
	Use:    "syslogger",
	Short:  "Run the syslogger drain process",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if sysloggerConfig != "" {
			loaded, _, err := config.LoadOrDefault(sysloggerConfig)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		// Diagnostics about the drain itself go to stderr; with the
		// master daemonized that is /dev/null unless respawned from a
		// terminal during development.
		diag := logging.New(logging.LogConfig{
			Level:  cfg.Core.LogLevel,
			Format: "text",
			Output: os.Stderr,
		})

		col := metrics.New()
		srv, err := syslogger.New(syslogger.Config{
			QueueName: sysloggerQueue,
			Tag:       sysloggerProcess,
			Facility:  cfg.Core.SyslogFacility,
			LogFile:   cfg.Core.LogFile,
			Rotation: logging.RotationConfig{
				MaxBytes: cfg.Core.LogMaxBytes,
				Backups:  cfg.Core.LogBackups,
			},
			Logger:  diag,
			Metrics: col,
		})
		if err != nil {
			return err
		}
		defer srv.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer cancel()

		if cfg.Status.Enabled {
			st := status.NewServer(status.Config{
				Listen:   cfg.Status.Listen,
				Username: cfg.Status.Username,
				Password: cfg.Status.Password,
			}, srv, col.Handler(), diag)
			if err := st.Start(); err != nil {
				return err
			}
			defer func() {
				shCtx, shCancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer shCancel()
				_ = st.Shutdown(shCtx)
			}()
		}

		started := time.Now()
		go func() {
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					col.SysloggerUptime.Set(time.Since(started).Seconds())
				case <-ctx.Done():
					return
				}
			}
		}()

		return srv.Run(ctx)
	},
}

func init() {
	sysloggerCmd.Flags().StringVar(&sysloggerQueue, "queue", "", "message queue name to drain")
	sysloggerCmd.Flags().StringVar(&sysloggerConfig, "config", "", "configuration file path")
	sysloggerCmd.Flags().StringVar(&sysloggerProcess, "process-name", "oversip", "syslog tag")
	_ = sysloggerCmd.MarkFlagRequired("queue")
	rootCmd.AddCommand(sysloggerCmd)
}
