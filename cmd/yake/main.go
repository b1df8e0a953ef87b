// Command yake runs targets declared in a Yakefile.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kbukum/yake/errors"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "yake: %v\n", err)
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}
