package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// VolfileServer describes one endpoint the storage driver may contact to
// resolve the volume. The list is ordered; drivers try entries in order.
type VolfileServer struct {
	Host  string `mapstructure:"host" json:"host"`
	Proto string `mapstructure:"proto" json:"proto"`
	Port  int    `mapstructure:"port" json:"port"`
}

// Config holds every setting the helper consumes. It is immutable once
// loaded; all mutation happens inside Load.
type Config struct {
	// LivenessTimeoutSeconds bounds a single liveness probe. A probe that
	// has not completed within this window is treated as failed.
	LivenessTimeoutSeconds int `mapstructure:"liveness_timeout" json:"liveness_timeout"`

	// CheckIntervalSeconds is the pause between watchdog iterations.
	CheckIntervalSeconds int `mapstructure:"check_interval" json:"check_interval"`

	// ReclockPath is the lock file's path relative to the volume root.
	ReclockPath string `mapstructure:"reclock_path" json:"reclock_path"`

	// VolumeName names the shared volume holding the recovery lock.
	VolumeName string `mapstructure:"volume_name" json:"volume_name"`

	// VolumeRoot is the local mount point of VolumeName, used by the
	// built-in POSIX driver. Defaults to /mnt/<volume_name>.
	VolumeRoot string `mapstructure:"volume_root" json:"volume_root"`

	VolfileServers []VolfileServer `mapstructure:"volfile_servers" json:"volfile_servers"`

	LogFile  string `mapstructure:"log_file" json:"log_file"`
	LogLevel int    `mapstructure:"log_level" json:"log_level"`

	// NotifyURL, when set, receives a best-effort POST after this node
	// acquires leadership. Failures never affect the lock protocol.
	NotifyURL string `mapstructure:"notify_url" json:"notify_url"`
}

// DefaultConfigPath is where the helper looks when --config is not given.
const DefaultConfigPath = "/etc/reclockd/config.json"

// Load reads the JSON configuration at path, applies defaults for unset
// values, and validates the result. A missing or malformed file is a
// configuration error; Load has no side effects beyond reading path.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CheckInterval returns the watchdog iteration pause as a duration.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

// LivenessTimeout returns the per-probe deadline as a duration.
func (c *Config) LivenessTimeout() time.Duration {
	return time.Duration(c.LivenessTimeoutSeconds) * time.Second
}
