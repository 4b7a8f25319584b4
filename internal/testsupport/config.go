// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"reclockd/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated config whose volume root is a unique temp
// directory per test. Timing values stay at repository defaults unless
// overridden.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	root := filepath.Join(t.TempDir(), "volume")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("create volume root: %v", err)
	}

	cfg := config.Default()
	cfg.ReclockPath = ".CTDB-lockfile"
	cfg.VolumeName = "testvol"
	cfg.VolumeRoot = root
	cfg.VolfileServers = []config.VolfileServer{{Host: "127.0.0.1", Proto: "tcp", Port: 24007}}

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithCheckInterval overrides the watchdog interval in seconds.
func WithCheckInterval(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.CheckIntervalSeconds = seconds
	}
}

// WithLivenessTimeout overrides the probe deadline in seconds.
func WithLivenessTimeout(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.LivenessTimeoutSeconds = seconds
	}
}

// WithNotifyURL points the leadership notification at a test server.
func WithNotifyURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.NotifyURL = url
	}
}

// Logger returns a logger that discards output.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
