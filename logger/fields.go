package logger

import (
	"time"
)

// Field keys shared by every component.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldTarget    = "target"
	FieldStep      = "step"
	FieldCommand   = "command"
	FieldExitCode  = "exit_code"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a field map from alternating key-value pairs. Pairs with a
// non-string key are dropped.
//
//	logger.Info("done", logger.Fields("target", "base", "steps", 2))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// StepFields identifies one exec line of a target. step is zero-based and
// logged one-based, matching error messages.
func StepFields(target string, step int, command string) map[string]interface{} {
	return map[string]interface{}{
		FieldTarget:  target,
		FieldStep:    step + 1,
		FieldCommand: command,
	}
}

// MergeWithError adds an error field to fields, allocating if nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field in milliseconds.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
