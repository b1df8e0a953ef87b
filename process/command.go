package process

import (
	"io"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is the complete environment (key=value). If nil, the parent
	// environment is inherited.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Stdout and Stderr receive a copy of the output as it is produced.
	// Output is always captured in the Result as well. May be nil.
	Stdout io.Writer
	Stderr io.Writer
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// Shell builds a Command that runs line through shell -c.
func Shell(shell, line string) Command {
	return Command{Binary: shell, Args: []string{"-c", line}}
}
