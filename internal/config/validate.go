package config

import (
	"errors"
	"fmt"
)

var validProtos = map[string]struct{}{
	"tcp":  {},
	"rdma": {},
	"unix": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.ReclockPath == "" {
		return errors.New("reclock_path must be set")
	}
	if c.VolumeName == "" {
		return errors.New("volume_name must be set")
	}
	if c.CheckIntervalSeconds <= 0 {
		return fmt.Errorf("check_interval must be positive, got %d", c.CheckIntervalSeconds)
	}
	if c.LivenessTimeoutSeconds <= 0 {
		return fmt.Errorf("liveness_timeout must be positive, got %d", c.LivenessTimeoutSeconds)
	}
	if c.LogLevel < 0 || c.LogLevel > 9 {
		return fmt.Errorf("log_level must be between 0 and 9, got %d", c.LogLevel)
	}
	return c.validateVolfileServers()
}

func (c *Config) validateVolfileServers() error {
	if len(c.VolfileServers) == 0 {
		return errors.New("volfile_servers must list at least one endpoint")
	}
	for i, s := range c.VolfileServers {
		if s.Host == "" {
			return fmt.Errorf("volfile_servers[%d].host must be set", i)
		}
		if _, ok := validProtos[s.Proto]; !ok {
			return fmt.Errorf("volfile_servers[%d].proto %q is not one of tcp, rdma, unix", i, s.Proto)
		}
		if s.Port < 1 || s.Port > 65535 {
			return fmt.Errorf("volfile_servers[%d].port %d is out of range", i, s.Port)
		}
	}
	return nil
}
