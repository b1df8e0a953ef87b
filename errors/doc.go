// Package errors provides unified error handling for yake.
// It implements structured error types with machine-readable codes, process
// exit-code mapping, and classification of arbitrary error chains.
package errors
