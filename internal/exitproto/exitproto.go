// Package exitproto implements the machine-readable contract with the
// spawning cluster manager: a single status token on standard output, a
// diagnostic on standard error, and a matching process exit code.
package exitproto

import (
	"errors"
	"fmt"
	"io"

	"reclockd/internal/guard"
	"reclockd/internal/storage"
)

// Token is the one-shot status value the cluster manager waits on.
type Token string

const (
	// TokenAcquired: lock taken; the helper stays up as leader watchdog.
	TokenAcquired Token = "0"
	// TokenNotLeader: lock contended, instance already running, or
	// liveness lost. Not an operational error.
	TokenNotLeader Token = "1"
	// TokenError: configuration or unexpected operational error.
	TokenError Token = "3"
)

// ExitCode maps a token onto the process exit code. The coarse scheme is
// deliberate: the consumer distinguishes only leader, not-leader, and
// error.
func (t Token) ExitCode() int {
	switch t {
	case TokenAcquired:
		return 0
	case TokenNotLeader:
		return 1
	default:
		return 3
	}
}

// ForError classifies an acquisition-phase failure. Contention and the
// local already-running fast path are non-leader outcomes; everything else
// (config, storage, unclassified) is an error.
func ForError(err error) Token {
	switch {
	case err == nil:
		return TokenAcquired
	case errors.Is(err, storage.ErrContention), errors.Is(err, guard.ErrAlreadyRunning):
		return TokenNotLeader
	default:
		return TokenError
	}
}

// Handshake writes the status token exactly once. The helper runs
// single-threaded, so no locking is needed; the guard is against a second
// call on an error path that already reported.
type Handshake struct {
	w       io.Writer
	emitted bool
}

// NewHandshake wraps the output channel the cluster manager reads.
func NewHandshake(w io.Writer) *Handshake {
	return &Handshake{w: w}
}

// Emit writes the token. Calls after the first are no-ops.
func (h *Handshake) Emit(token Token) error {
	if h.emitted {
		return nil
	}
	h.emitted = true
	if _, err := fmt.Fprintf(h.w, "%s\n", token); err != nil {
		return fmt.Errorf("write handshake token: %w", err)
	}
	if s, ok := h.w.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return nil
}

// Emitted reports whether the token was already written.
func (h *Handshake) Emitted() bool { return h.emitted }
