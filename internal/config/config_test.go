package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reclockd/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"reclock_path": "/.CTDB-lockfile",
		"volume_name": "ctdb_shared",
		"volfile_servers": [{"host": "10.0.0.1"}]
	}`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.CheckInterval() != time.Second {
		t.Fatalf("unexpected check interval: %v", cfg.CheckInterval())
	}
	if cfg.LivenessTimeout() != 10*time.Second {
		t.Fatalf("unexpected liveness timeout: %v", cfg.LivenessTimeout())
	}
	if cfg.ReclockPath != ".CTDB-lockfile" {
		t.Fatalf("expected leading slash stripped, got %q", cfg.ReclockPath)
	}
	if cfg.VolumeRoot != filepath.Join("/mnt", "ctdb_shared") {
		t.Fatalf("unexpected volume root: %q", cfg.VolumeRoot)
	}
	if got := cfg.VolfileServers[0]; got.Proto != "tcp" || got.Port != 24007 {
		t.Fatalf("expected endpoint defaults, got %+v", got)
	}
	if cfg.LogLevel != 6 {
		t.Fatalf("unexpected default log level: %d", cfg.LogLevel)
	}
}

func TestLoadHonorsExplicitValues(t *testing.T) {
	path := writeConfig(t, `{
		"liveness_timeout": 30,
		"check_interval": 5,
		"reclock_path": "locks/reclock",
		"volume_name": "shared",
		"volume_root": "/cluster/shared",
		"volfile_servers": [
			{"host": "node1", "proto": "rdma", "port": 24010},
			{"host": "node2"}
		],
		"log_file": "/var/log/reclockd.log",
		"log_level": 8,
		"notify_url": "http://127.0.0.1:6789/leader"
	}`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.CheckInterval() != 5*time.Second {
		t.Fatalf("unexpected check interval: %v", cfg.CheckInterval())
	}
	if cfg.LivenessTimeout() != 30*time.Second {
		t.Fatalf("unexpected liveness timeout: %v", cfg.LivenessTimeout())
	}
	if cfg.VolumeRoot != "/cluster/shared" {
		t.Fatalf("unexpected volume root: %q", cfg.VolumeRoot)
	}
	if len(cfg.VolfileServers) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(cfg.VolfileServers))
	}
	if cfg.VolfileServers[0].Proto != "rdma" || cfg.VolfileServers[0].Port != 24010 {
		t.Fatalf("unexpected first endpoint: %+v", cfg.VolfileServers[0])
	}
	if cfg.NotifyURL != "http://127.0.0.1:6789/leader" {
		t.Fatalf("unexpected notify url: %q", cfg.NotifyURL)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadMalformedJSONFails(t *testing.T) {
	path := writeConfig(t, `{"reclock_path": `)
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing reclock path",
			body:    `{"volume_name": "v", "volfile_servers": [{"host": "h"}]}`,
			wantErr: "reclock_path",
		},
		{
			name:    "missing volume name",
			body:    `{"reclock_path": "lock", "volfile_servers": [{"host": "h"}]}`,
			wantErr: "volume_name",
		},
		{
			name:    "no endpoints",
			body:    `{"reclock_path": "lock", "volume_name": "v"}`,
			wantErr: "volfile_servers",
		},
		{
			name:    "zero check interval",
			body:    `{"reclock_path": "lock", "volume_name": "v", "volfile_servers": [{"host": "h"}], "check_interval": 0}`,
			wantErr: "check_interval",
		},
		{
			name:    "negative liveness timeout",
			body:    `{"reclock_path": "lock", "volume_name": "v", "volfile_servers": [{"host": "h"}], "liveness_timeout": -1}`,
			wantErr: "liveness_timeout",
		},
		{
			name:    "bad proto",
			body:    `{"reclock_path": "lock", "volume_name": "v", "volfile_servers": [{"host": "h", "proto": "udp"}]}`,
			wantErr: "proto",
		},
		{
			name:    "endpoint without host",
			body:    `{"reclock_path": "lock", "volume_name": "v", "volfile_servers": [{"port": 24007}]}`,
			wantErr: "host",
		},
		{
			name:    "log level out of range",
			body:    `{"reclock_path": "lock", "volume_name": "v", "volfile_servers": [{"host": "h"}], "log_level": 12}`,
			wantErr: "log_level",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)
			_, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}
