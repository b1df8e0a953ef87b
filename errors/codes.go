package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeUnknownTarget indicates a reference names no target in the tree.
	ErrCodeUnknownTarget ErrorCode = "UNKNOWN_TARGET"
	// ErrCodeNotACommand indicates a reference resolved to a group where a command was required.
	ErrCodeNotACommand ErrorCode = "NOT_A_COMMAND"
	// ErrCodeCycle indicates the dependency graph contains a cycle.
	ErrCodeCycle ErrorCode = "CYCLE_DETECTED"
	// ErrCodeTemplate indicates a template placeholder could not be expanded.
	ErrCodeTemplate ErrorCode = "TEMPLATE_ERROR"
)

// Execution errors
const (
	// ErrCodeExecutionFailed indicates a command step exited with a non-zero status.
	ErrCodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
	// ErrCodeCancelled indicates the run was aborted from outside.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeTimeout indicates a step exceeded its time budget.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Input errors
const (
	// ErrCodeInvalidTree indicates the target definition violates a structural rule.
	ErrCodeInvalidTree ErrorCode = "INVALID_TREE"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates the runner configuration is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeNotFound indicates a file or resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Exit codes used by the CLI.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

var exitCodes = map[ErrorCode]int{
	ErrCodeUnknownTarget:   ExitUsage,
	ErrCodeNotACommand:     ExitUsage,
	ErrCodeCycle:           ExitUsage,
	ErrCodeTemplate:        ExitUsage,
	ErrCodeInvalidTree:     ExitUsage,
	ErrCodeInvalidInput:    ExitUsage,
	ErrCodeInvalidConfig:   ExitUsage,
	ErrCodeNotFound:        ExitUsage,
	ErrCodeCancelled:       ExitCancelled,
	ErrCodeExecutionFailed: ExitFailure,
	ErrCodeTimeout:         ExitFailure,
	ErrCodeInternal:        ExitFailure,
}

// ExitCodeFor returns the default process exit code for an error code.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitFailure
}
