package syslogger

import (
	"context"
	"fmt"
	"log/slog"
	"log/syslog"
	"os"
	"strings"

	"github.com/oversip/oversip/internal/logging"
	"github.com/oversip/oversip/internal/metrics"
	"github.com/oversip/oversip/internal/mqueue"
)

// Config configures the syslogger drain server.
type Config struct {
	QueueName string
	Tag       string // syslog tag; the master process name
	Facility  string // syslog facility name from the config
	LogFile   string // optional local copy of the drained records
	Rotation  logging.RotationConfig
	Logger    *slog.Logger // diagnostics about the drain itself
	Metrics   *metrics.Collector
}

// Server is the sole reader of the logging IPC queue. It drains records
// written by the master and its workers and serializes them into syslog.
type Server struct {
	cfg    Config
	queue  *mqueue.Queue
	sys    *syslog.Writer
	recent *logging.RingBuffer

	// emit dispatches one record to syslog; replaceable in tests.
	emit func(slog.Level, string) error
}

// New opens the queue for reading and connects to syslog.
func New(cfg Config) (*Server, error) {
	q, err := mqueue.OpenReader(cfg.QueueName)
	if err != nil {
		return nil, err
	}

	sw, err := syslog.New(Facility(cfg.Facility)|syslog.LOG_INFO, cfg.Tag)
	if err != nil {
		q.Close()
		return nil, fmt.Errorf("cannot connect to syslog: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		queue:  q,
		sys:    sw,
		recent: logging.NewRingBuffer(64 * 1024),
	}
	s.emit = s.emitSyslog
	return s, nil
}

// Run drains the queue until ctx is cancelled. Each record is forwarded
// to syslog, mirrored into the recent-log ring buffer, and optionally
// appended to the local log file.
func (s *Server) Run(ctx context.Context) error {
	// Closing the descriptor is the only way to unblock a pending
	// receive; the kernel has no cancellable mq wait.
	go func() {
		<-ctx.Done()
		s.queue.Close()
	}()

	buf := make([]byte, s.queue.MsgSize())
	for {
		n, _, err := s.queue.Receive(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("queue receive failed: %w", err)
		}

		level, msg, err := Decode(buf[:n])
		if err != nil {
			s.cfg.Logger.Warn("discarding malformed log record", "error", err)
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.LogRecordsDiscarded.Inc()
			}
			continue
		}

		s.dispatch(level, msg)

		if s.cfg.Metrics != nil {
			if depth, err := s.queue.Depth(); err == nil {
				s.cfg.Metrics.LogQueueDepth.Set(float64(depth))
			}
		}
	}
}

// Recent returns the last n bytes of drained output.
func (s *Server) Recent(n int) []byte {
	return s.recent.Tail(n)
}

// Close releases the syslog connection. The queue descriptor is closed
// by Run on cancellation.
func (s *Server) Close() error {
	return s.sys.Close()
}

func (s *Server) dispatch(level slog.Level, msg string) {
	if err := s.emit(level, msg); err != nil {
		s.cfg.Logger.Warn("syslog write failed", "error", err)
	}

	if s.cfg.Metrics != nil {
		s.cfg.Metrics.LogRecordsForwarded.WithLabelValues(levelLabel(level)).Inc()
	}

	line := append(logging.StripANSI([]byte(levelLabel(level)+": "+msg)), '\n')
	s.recent.Write(line)

	if s.cfg.LogFile != "" {
		s.appendToFile(line)
	}
}

func (s *Server) emitSyslog(level slog.Level, msg string) error {
	switch {
	case level >= slog.LevelError:
		return s.sys.Err(msg)
	case level >= slog.LevelWarn:
		return s.sys.Warning(msg)
	case level >= slog.LevelInfo:
		return s.sys.Info(msg)
	default:
		return s.sys.Debug(msg)
	}
}

func (s *Server) appendToFile(line []byte) {
	if err := logging.RotateIfNeeded(s.cfg.LogFile, s.cfg.Rotation); err != nil {
		s.cfg.Logger.Warn("log rotation failed", "error", err)
	}
	f, err := os.OpenFile(s.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		s.cfg.Logger.Warn("cannot open log file", "path", s.cfg.LogFile, "error", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		s.cfg.Logger.Warn("log file write failed", "error", err)
	}
}

func levelLabel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// Facility maps a facility name from the config to a syslog priority.
// Unknown names fall back to LOG_DAEMON.
func Facility(name string) syslog.Priority {
	switch strings.ToLower(name) {
	case "kern":
		return syslog.LOG_KERN
	case "user":
		return syslog.LOG_USER
	case "mail":
		return syslog.LOG_MAIL
	case "daemon":
		return syslog.LOG_DAEMON
	case "auth":
		return syslog.LOG_AUTH
	case "syslog":
		return syslog.LOG_SYSLOG
	case "lpr":
		return syslog.LOG_LPR
	case "news":
		return syslog.LOG_NEWS
	case "uucp":
		return syslog.LOG_UUCP
	case "cron":
		return syslog.LOG_CRON
	case "authpriv":
		return syslog.LOG_AUTHPRIV
	case "ftp":
		return syslog.LOG_FTP
	case "local0":
		return syslog.LOG_LOCAL0
	case "local1":
		return syslog.LOG_LOCAL1
	case "local2":
		return syslog.LOG_LOCAL2
	case "local3":
		return syslog.LOG_LOCAL3
	case "local4":
		return syslog.LOG_LOCAL4
	case "local5":
		return syslog.LOG_LOCAL5
	case "local6":
		return syslog.LOG_LOCAL6
	case "local7":
		return syslog.LOG_LOCAL7
	}
	return syslog.LOG_DAEMON
}
