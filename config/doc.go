// Package config loads yake's own settings: shell, failure policy, timeouts,
// logging and telemetry.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML
// file (--config, else .yake.yml or config/yake.yml), YAKE_-prefixed
// variables from a .env file, and YAKE_-prefixed process environment
// variables (YAKE_SHELL, YAKE_LOGGING_LEVEL, ...). Command-line flags are
// applied on top by the caller.
//
//	cfg, err := config.Load(config.WithConfigFile(path))
package config
