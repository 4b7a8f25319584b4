// Package logging builds the helper's slog logger.
//
// All log output goes to standard error and, when configured, an append-only
// log file. Standard output is reserved for the handshake token consumed by
// the spawning cluster manager, so the logger never writes there.
package logging
