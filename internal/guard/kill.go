package guard

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"
)

// KillResult reports what the kill path did.
type KillResult struct {
	// Signaled is true when a termination signal was delivered.
	Signaled bool
	// Pid is the recorded pid, when one was found.
	Pid int
}

// Kill stops the instance named by the pid record: it sends SIGTERM to the
// recorded pid and removes the record. programName is the expected command
// name of the target (normally this binary's own base name); a live pid
// with a different name means the pid was reused, so the record is treated
// as stale and no signal is sent. A missing record, an unparsable record,
// or a dead pid are all no-op results, not errors.
func Kill(recordPath, programName string) (KillResult, error) {
	data, err := os.ReadFile(recordPath)
	if errors.Is(err, os.ErrNotExist) {
		return KillResult{}, nil
	}
	if err != nil {
		return KillResult{}, fmt.Errorf("read pid record %s: %w", recordPath, err)
	}

	pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if parseErr != nil || pid <= 0 {
		return KillResult{}, removeRecord(recordPath)
	}
	if pid == os.Getpid() {
		return KillResult{Pid: pid}, fmt.Errorf("pid record %s names this process (%d)", recordPath, pid)
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		// Recorded pid is gone; the record is stale.
		return KillResult{Pid: pid}, removeRecord(recordPath)
	}
	name, err := proc.Name()
	if err != nil || name != programName {
		// Pid reuse: something else is running under this pid now.
		return KillResult{Pid: pid}, removeRecord(recordPath)
	}

	if err := unix.Kill(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return KillResult{Pid: pid}, fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return KillResult{Signaled: true, Pid: pid}, removeRecord(recordPath)
}

func removeRecord(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid record %s: %w", path, err)
	}
	return nil
}
