// Package runner wires the helper together: configuration, logging, the
// single-instance guard, lock acquisition, the status handshake, and the
// watchdog loop. It owns the ordering guarantees of the protocol: acquire
// strictly before handshake, handshake strictly before pid record, pid
// record strictly before the loop, and pid-record cleanup on every exit
// path.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"reclockd/internal/config"
	"reclockd/internal/exitproto"
	"reclockd/internal/guard"
	"reclockd/internal/logging"
	"reclockd/internal/monitor"
	"reclockd/internal/notifications"
	"reclockd/internal/storage"
)

// Session is the slice of storage.Session the runner drives. Tests
// substitute their own.
type Session interface {
	Acquire(ctx context.Context) error
	Probe(ctx context.Context) error
	Close() error
}

// ConnectFunc opens the storage session. The default uses the built-in
// mounted-volume driver.
type ConnectFunc func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Session, error)

// Options configures a helper run.
type Options struct {
	ConfigPath string

	// RecordPath overrides the pid-record location, for tests.
	RecordPath string
	// Stdout overrides the handshake channel, for tests.
	Stdout io.Writer
	// Stderr overrides the diagnostic channel, for tests.
	Stderr io.Writer
	// Connect overrides the storage driver, for tests.
	Connect ConnectFunc
	// ParentCheck overrides the spawning-process probe, for tests.
	ParentCheck func() bool
}

// Run executes the full helper lifecycle and returns the process exit
// code. The handshake token has been written by the time Run returns.
func Run(cmdCtx context.Context, opts Options) int {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	recordPath := opts.RecordPath
	if recordPath == "" {
		recordPath = guard.DefaultRecordPath
	}
	connect := opts.Connect
	if connect == nil {
		connect = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Session, error) {
			return storage.Connect(ctx, cfg, logger)
		}
	}

	handshake := exitproto.NewHandshake(stdout)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fail(handshake, stderr, err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
		Stderr:   stderr,
	})
	if err != nil {
		return fail(handshake, stderr, err)
	}
	defer closeLog()

	signalCtx, stop := signal.NotifyContext(cmdCtx, unix.SIGINT, unix.SIGTERM)
	defer stop()

	// Local fast path: refuse to open a network session when an instance
	// already holds the guard on this host.
	g, err := guard.Hold(recordPath)
	if err != nil {
		logger.Error("single-instance guard", "error", err)
		return fail(handshake, stderr, err)
	}
	defer func() {
		if releaseErr := g.Release(); releaseErr != nil {
			logger.Warn("pid record cleanup failed", "error", releaseErr)
		}
	}()

	sess, err := connect(signalCtx, cfg, logger)
	if err != nil {
		logger.Error("storage connection failed", "volume", cfg.VolumeName, "error", err)
		return fail(handshake, stderr, err)
	}
	defer sess.Close()

	if err := sess.Acquire(signalCtx); err != nil {
		logger.Error("lock acquisition failed", "path", cfg.ReclockPath, "error", err)
		return fail(handshake, stderr, err)
	}

	// The synchronous handshake the cluster manager waits on.
	if err := handshake.Emit(exitproto.TokenAcquired); err != nil {
		fmt.Fprintf(stderr, "reclockd: %v\n", err)
		return exitproto.TokenError.ExitCode()
	}
	if err := g.WriteRecord(); err != nil {
		logger.Error("pid record write failed", "error", err)
		return exitproto.TokenError.ExitCode()
	}

	node, _ := os.Hostname()
	notifications.FireAndForget(signalCtx, notifications.NewService(cfg), logger, notifications.Event{
		Node:        node,
		Volume:      cfg.VolumeName,
		ReclockPath: cfg.ReclockPath,
		Pid:         os.Getpid(),
	})

	logger.Info("running as leader watchdog",
		"volume", cfg.VolumeName,
		"path", cfg.ReclockPath,
		"check_interval", cfg.CheckInterval(),
		"liveness_timeout", cfg.LivenessTimeout(),
	)

	var monitorOpts []monitor.Option
	if opts.ParentCheck != nil {
		monitorOpts = append(monitorOpts, monitor.WithParentCheck(opts.ParentCheck))
	}
	m := monitor.New(sess, cfg.CheckInterval(), cfg.LivenessTimeout(), logger, monitorOpts...)

	outcome, err := m.Run(signalCtx)
	if outcome == monitor.OutcomeLivenessLost {
		logger.Error("terminating, lock liveness lost", "error", err)
		return exitproto.TokenNotLeader.ExitCode()
	}
	logger.Info("terminating normally")
	return exitproto.TokenAcquired.ExitCode()
}

// fail reports an acquisition-phase failure: diagnostic to stderr,
// classified token to stdout, matching exit code.
func fail(handshake *exitproto.Handshake, stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "reclockd: %v\n", err)
	token := exitproto.ForError(err)
	if emitErr := handshake.Emit(token); emitErr != nil {
		fmt.Fprintf(stderr, "reclockd: %v\n", emitErr)
	}
	return token.ExitCode()
}
