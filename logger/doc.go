// Package logger provides structured logging for yake using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Logs go to stderr by
// default so that command output on stdout stays untouched.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("runner")
//	log.Info("target completed", logger.Fields("target", "docker.postgres"))
package logger
