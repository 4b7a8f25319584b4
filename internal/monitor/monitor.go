// Package monitor drives the watchdog loop that keeps proving the held
// recovery lock is alive, and decides when the helper must terminate.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"reclockd/internal/storage"
)

// Outcome is the loop's terminal condition.
type Outcome int

const (
	// OutcomeShutdown: the spawning process went away or an external
	// termination request arrived. A normal exit, not a failure.
	OutcomeShutdown Outcome = iota
	// OutcomeLivenessLost: a probe failed, timed out, or found the lock
	// semantically void. Fatal to this instance; no retries.
	OutcomeLivenessLost
)

// Prober proves the held lock and storage connection are still alive.
type Prober interface {
	Probe(ctx context.Context) error
}

// Option adjusts monitor construction.
type Option func(*Monitor)

// WithParentCheck replaces the spawning-process existence probe, for tests.
func WithParentCheck(alive func() bool) Option {
	return func(m *Monitor) {
		m.parentAlive = alive
	}
}

// Monitor runs the periodic liveness loop. Single-threaded apart from the
// goroutine that carries each probe so it can be abandoned on deadline.
type Monitor struct {
	prober      Prober
	interval    time.Duration
	timeout     time.Duration
	parentAlive func() bool
	logger      *slog.Logger
}

// New builds a monitor ticking every interval, bounding each probe by
// timeout, and watching the current parent process.
func New(prober Prober, interval, timeout time.Duration, logger *slog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		prober:      prober,
		interval:    interval,
		timeout:     timeout,
		parentAlive: parentAliveFunc(os.Getppid()),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run loops until a terminal condition. Context cancellation is an
// external termination request: it wins immediately, even over an
// in-flight probe, and maps to OutcomeShutdown.
func (m *Monitor) Run(ctx context.Context) (Outcome, error) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return OutcomeShutdown, nil
		case <-ticker.C:
		}

		err := m.probeOnce(ctx)
		if ctx.Err() != nil {
			return OutcomeShutdown, nil
		}
		if err != nil {
			return OutcomeLivenessLost, err
		}

		if !m.parentAlive() {
			m.logger.Info("spawning process exited, shutting down")
			return OutcomeShutdown, nil
		}
	}
}

// probeOnce races the probe against the liveness deadline. On expiry the
// in-flight probe is abandoned, not awaited.
func (m *Monitor) probeOnce(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.prober.Probe(probeCtx) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("liveness probe: %w", err)
		}
		return nil
	case <-probeCtx.Done():
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("liveness probe exceeded %s: %w", m.timeout, storage.ErrLiveness)
		}
		return probeCtx.Err()
	}
}

// parentAliveFunc returns a non-blocking existence probe for the process
// that spawned us. Reparenting means the original parent is gone.
func parentAliveFunc(ppid int) func() bool {
	return func() bool {
		if os.Getppid() != ppid {
			return false
		}
		err := unix.Kill(ppid, 0)
		return err == nil || errors.Is(err, unix.EPERM)
	}
}
