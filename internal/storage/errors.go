package storage

import "errors"

var (
	// ErrContention reports that another holder already owns the recovery
	// lock. It is a distinct non-leader outcome, not an operational error.
	ErrContention = errors.New("recovery lock held elsewhere")

	// ErrStorage reports a connection or I/O failure other than contention.
	ErrStorage = errors.New("storage failure")

	// ErrLiveness reports a failed, timed-out, or semantically void
	// liveness probe on a lock that was previously acquired.
	ErrLiveness = errors.New("liveness check failed")
)
