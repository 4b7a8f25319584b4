package config

const (
	defaultCheckIntervalSeconds   = 1
	defaultLivenessTimeoutSeconds = 10
	defaultLogLevel               = 6 // INFO on the 0..9 scale
	defaultVolfileProto           = "tcp"
	defaultVolfilePort            = 24007
)

// Default returns a Config populated with repository defaults. Fields with
// no sensible default (reclock_path, volume_name, volfile_servers) stay
// empty and are caught by Validate.
func Default() Config {
	return Config{
		CheckIntervalSeconds:   defaultCheckIntervalSeconds,
		LivenessTimeoutSeconds: defaultLivenessTimeoutSeconds,
		LogLevel:               defaultLogLevel,
	}
}
