package storage

// Identity is the stable token identifying a specific file instance on the
// volume. Two opens of the same path compare equal only while the path
// still refers to the same underlying file; a crash-recovery rename or
// delete-and-recreate changes it.
type Identity struct {
	Device uint64
	Inode  uint64
}

// File is an open handle on the volume.
type File interface {
	// LockExclusive requests a non-blocking exclusive lock on the first
	// byte of the file. It fails with an ErrContention-classified error
	// when another holder owns the lock, and ErrStorage otherwise.
	LockExclusive() error

	// Stat confirms the handle is still valid and attached to the volume.
	Stat() error

	// SetXattr and RemoveXattr write and delete an extended attribute on
	// the handle. The probe uses the pair as an end-to-end write canary.
	SetXattr(name string, value []byte) error
	RemoveXattr(name string) error

	Close() error
}

// Volume is the surface this helper needs from the distributed filesystem
// client. Implementations resolve paths relative to the volume root.
type Volume interface {
	// Open opens the file at path, creating it owner read/write if absent.
	Open(path string) (File, error)

	// Identity resolves path to the identity of its current file instance.
	Identity(path string) (Identity, error)

	Close() error
}
