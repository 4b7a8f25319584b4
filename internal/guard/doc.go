// Package guard enforces one helper instance per host.
//
// The decision is made by an advisory lock on the pid-record file itself
// rather than by comparing pids and process names, which is racy under pid
// reuse. Holding the flock answers "is someone running" atomically; the pid
// written into the record exists for external tooling and the kill path.
package guard
