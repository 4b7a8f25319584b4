package config

import (
	"path/filepath"
	"strings"
)

// normalize trims user-supplied strings and fills per-entry endpoint
// defaults. It never rejects anything; Validate does that.
func (c *Config) normalize() {
	c.ReclockPath = strings.Trim(strings.TrimSpace(c.ReclockPath), "/")
	c.VolumeName = strings.TrimSpace(c.VolumeName)
	c.VolumeRoot = strings.TrimSpace(c.VolumeRoot)
	c.LogFile = strings.TrimSpace(c.LogFile)
	c.NotifyURL = strings.TrimSpace(c.NotifyURL)

	if c.VolumeRoot == "" && c.VolumeName != "" {
		c.VolumeRoot = filepath.Join("/mnt", c.VolumeName)
	}

	for i := range c.VolfileServers {
		s := &c.VolfileServers[i]
		s.Host = strings.TrimSpace(s.Host)
		s.Proto = strings.ToLower(strings.TrimSpace(s.Proto))
		if s.Proto == "" {
			s.Proto = defaultVolfileProto
		}
		if s.Port == 0 {
			s.Port = defaultVolfilePort
		}
	}
}
