package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"reclockd/internal/config"
)

// canaryXattr is the throwaway attribute the probe writes and removes on
// every tick to exercise the volume's write path end to end.
const canaryXattr = "user.reclockd.liveness"

// Session holds the connection to the recovery-lock volume and, after
// Acquire, the locked handle plus the identity captured at acquisition
// time. The handle and identity are populated only by Acquire and never
// mutated afterwards.
type Session struct {
	vol      Volume
	lockPath string
	logger   *slog.Logger

	file     File
	identity Identity
}

// Connect opens a session against the configured volume using the built-in
// mounted-volume driver. Endpoint selection and failover are the
// filesystem client's concern; the endpoint list is recorded for
// diagnostics only.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	vol, err := OpenVolume(cfg.VolumeRoot)
	if err != nil {
		return nil, fmt.Errorf("connect volume %s: %w", cfg.VolumeName, err)
	}
	logger.Debug("volume session established",
		"volume", cfg.VolumeName,
		"root", cfg.VolumeRoot,
		"endpoints", len(cfg.VolfileServers),
	)
	return NewSession(vol, cfg.ReclockPath, logger), nil
}

// NewSession wraps an already-open volume. Used by Connect and by tests
// that substitute their own Volume implementation.
func NewSession(vol Volume, lockPath string, logger *slog.Logger) *Session {
	return &Session{vol: vol, lockPath: lockPath, logger: logger}
}

// Acquire opens the lock file, creating it if absent, and requests the
// exclusive lock. On success it captures the file's identity token for
// later probes. Contention surfaces as ErrContention; any other failure as
// ErrStorage.
func (s *Session) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("acquire: %w", err)
	}

	file, err := s.vol.Open(s.lockPath)
	if err != nil {
		return err
	}
	if err := file.LockExclusive(); err != nil {
		_ = file.Close()
		return err
	}
	identity, err := s.vol.Identity(s.lockPath)
	if err != nil {
		_ = file.Close()
		return err
	}

	s.file = file
	s.identity = identity
	s.logger.Info("recovery lock acquired",
		"path", s.lockPath,
		"device", identity.Device,
		"inode", identity.Inode,
	)
	return nil
}

// Probe proves the held lock is still meaningful. Three sub-checks, all of
// which must pass: the handle still stats, the path still resolves to the
// identity captured at acquisition, and an xattr canary round-trips on the
// handle. Any failure is classified as ErrLiveness.
func (s *Session) Probe(ctx context.Context) error {
	if s.file == nil {
		return fmt.Errorf("probe before acquisition: %w", ErrLiveness)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("probe: %w: %w", ErrLiveness, err)
	}

	if err := s.file.Stat(); err != nil {
		return fmt.Errorf("handle check: %w: %w", ErrLiveness, err)
	}

	identity, err := s.vol.Identity(s.lockPath)
	if err != nil {
		return fmt.Errorf("identity check: %w: %w", ErrLiveness, err)
	}
	if identity != s.identity {
		// The path was deleted or replaced underneath us. The byte-range
		// lock on the stale handle may still be granted, but it no longer
		// guards anything.
		return fmt.Errorf("lock file %s replaced (device %d inode %d, was device %d inode %d): %w",
			s.lockPath, identity.Device, identity.Inode, s.identity.Device, s.identity.Inode, ErrLiveness)
	}

	canary := []byte(uuid.NewString())
	if err := s.file.SetXattr(canaryXattr, canary); err != nil {
		return fmt.Errorf("canary write: %w: %w", ErrLiveness, err)
	}
	if err := s.file.RemoveXattr(canaryXattr); err != nil {
		return fmt.Errorf("canary cleanup: %w: %w", ErrLiveness, err)
	}
	return nil
}

// Close releases the lock handle and the volume session. The byte-range
// lock is released by the kernel when the handle goes away.
func (s *Session) Close() error {
	var first error
	if s.file != nil {
		first = s.file.Close()
		s.file = nil
	}
	if err := s.vol.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
