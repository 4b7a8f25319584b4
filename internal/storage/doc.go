// Package storage owns the recovery-lock protocol against the shared
// volume: opening the lock file, taking the exclusive byte-range lock, and
// proving on every watchdog tick that the held lock is still meaningful.
//
// The Volume interface is the narrow surface this helper needs from the
// distributed filesystem client. The built-in driver works against a
// locally mounted volume; the mutual exclusion itself is arbitrated by the
// filesystem, not by this package.
package storage
