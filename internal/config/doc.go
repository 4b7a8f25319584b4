// Package config loads, normalizes, and validates reclockd configuration data.
//
// The configuration is a JSON document describing the recovery-lock volume
// (name, local mount root, volfile servers), the lock path within that
// volume, and the watchdog timing knobs. The Config type centralizes every
// setting the helper needs, so downstream code receives sanitized paths,
// endpoint defaults, and clear validation errors in one pass.
package config
