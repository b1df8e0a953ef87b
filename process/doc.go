// Package process runs subprocesses in their own process group, capturing
// their output and terminating the whole group on context cancellation:
// SIGTERM first, SIGKILL once the grace period has elapsed.
package process
