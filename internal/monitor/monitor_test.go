package monitor_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"reclockd/internal/monitor"
	"reclockd/internal/storage"
	"reclockd/internal/testsupport"
)

type probeFunc func(ctx context.Context) error

func (f probeFunc) Probe(ctx context.Context) error { return f(ctx) }

func alive(v bool) func() bool {
	return func() bool { return v }
}

func TestRunStopsOnProbeFailure(t *testing.T) {
	calls := 0
	prober := probeFunc(func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return nil
		}
		return fmt.Errorf("canary write: %w", storage.ErrLiveness)
	})

	m := monitor.New(prober, 5*time.Millisecond, time.Second, testsupport.Logger(t),
		monitor.WithParentCheck(alive(true)))
	outcome, err := m.Run(context.Background())
	if outcome != monitor.OutcomeLivenessLost {
		t.Fatalf("outcome = %v, want OutcomeLivenessLost", outcome)
	}
	if !errors.Is(err, storage.ErrLiveness) {
		t.Fatalf("expected ErrLiveness, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected probe to run until the failure, got %d calls", calls)
	}
}

func TestHangingProbeIsBoundedByTimeout(t *testing.T) {
	block := make(chan struct{})
	prober := probeFunc(func(ctx context.Context) error {
		<-block
		return nil
	})
	defer close(block)

	m := monitor.New(prober, 5*time.Millisecond, 50*time.Millisecond, testsupport.Logger(t),
		monitor.WithParentCheck(alive(true)))

	start := time.Now()
	outcome, err := m.Run(context.Background())
	elapsed := time.Since(start)

	if outcome != monitor.OutcomeLivenessLost {
		t.Fatalf("outcome = %v, want OutcomeLivenessLost", outcome)
	}
	if !errors.Is(err, storage.ErrLiveness) {
		t.Fatalf("expected ErrLiveness, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeded") {
		t.Fatalf("error should name the deadline: %v", err)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("hanging probe not bounded, took %v", elapsed)
	}
}

func TestParentExitIsNormalShutdown(t *testing.T) {
	prober := probeFunc(func(ctx context.Context) error { return nil })
	m := monitor.New(prober, 5*time.Millisecond, time.Second, testsupport.Logger(t),
		monitor.WithParentCheck(alive(false)))

	outcome, err := m.Run(context.Background())
	if outcome != monitor.OutcomeShutdown {
		t.Fatalf("outcome = %v, want OutcomeShutdown", outcome)
	}
	if err != nil {
		t.Fatalf("parent exit should not be an error, got %v", err)
	}
}

func TestCancellationBeforeFirstTick(t *testing.T) {
	prober := probeFunc(func(ctx context.Context) error {
		t.Error("probe should not run after cancellation")
		return nil
	})
	m := monitor.New(prober, time.Hour, time.Second, testsupport.Logger(t),
		monitor.WithParentCheck(alive(true)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, err := m.Run(ctx)
	if outcome != monitor.OutcomeShutdown || err != nil {
		t.Fatalf("canceled run = (%v, %v), want (OutcomeShutdown, nil)", outcome, err)
	}
}

func TestCancellationDoesNotWaitForInflightProbe(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	prober := probeFunc(func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	})
	defer close(block)

	m := monitor.New(prober, 5*time.Millisecond, time.Hour, testsupport.Logger(t),
		monitor.WithParentCheck(alive(true)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	done := make(chan struct{})
	var outcome monitor.Outcome
	var err error
	go func() {
		outcome, err = m.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return promptly after cancellation")
	}
	if outcome != monitor.OutcomeShutdown || err != nil {
		t.Fatalf("canceled run = (%v, %v), want (OutcomeShutdown, nil)", outcome, err)
	}
}
