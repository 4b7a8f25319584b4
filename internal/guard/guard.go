package guard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// DefaultRecordPath is the well-known pid-record location used in
// production; tests inject their own.
const DefaultRecordPath = "/run/reclockd/reclockd.pid"

// ErrAlreadyRunning reports that another instance holds the guard on this
// host. It is a successful no-op outcome, not an operational error.
var ErrAlreadyRunning = errors.New("reclockd already running on this host")

// Guard is the held single-instance lock. The flock stays held for the
// process lifetime; Release drops it and removes the record file.
type Guard struct {
	path string
	lock *flock.Flock
}

// Hold takes the advisory lock on the pid-record file. It is the cheap
// local fast-path run before any storage session is opened: when another
// instance holds the lock, Hold fails with ErrAlreadyRunning. A record
// whose lock is free is stale by definition, whatever pid it contains.
func Hold(path string) (*Guard, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create pid record directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock pid record %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("pid record %s: %w", path, ErrAlreadyRunning)
	}
	return &Guard{path: path, lock: lock}, nil
}

// WriteRecord persists this process's pid into the record file. Called
// only after the recovery lock has been acquired, so the record never
// names a process that is not the lock holder.
func (g *Guard) WriteRecord() error {
	value := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(g.path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write pid record %s: %w", g.path, err)
	}
	return nil
}

// Release removes the record file and drops the flock. Safe to call on
// every exit path, including after a partial startup.
func (g *Guard) Release() error {
	err := os.Remove(g.path)
	_ = g.lock.Unlock()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid record %s: %w", g.path, err)
	}
	return nil
}

// Path returns the record file location.
func (g *Guard) Path() string { return g.path }

// Status describes the record file as seen by external tooling.
type Status struct {
	RecordExists bool
	Pid          int
	Held         bool
}

// Inspect reports whether a record exists, the pid it names, and whether a
// live instance currently holds the guard lock.
func Inspect(path string) (Status, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read pid record %s: %w", path, err)
	}

	status := Status{RecordExists: true}
	if pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data))); parseErr == nil && pid > 0 {
		status.Pid = pid
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return status, fmt.Errorf("probe pid record lock %s: %w", path, err)
	}
	if ok {
		_ = lock.Unlock()
	} else {
		status.Held = true
	}
	return status, nil
}
