package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/portal-co/pupi/internal/proc"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode passes through the status of a failed child process.
func exitCode(err error) int {
	var ee *proc.ExitError
	if errors.As(err, &ee) && ee.Code > 0 {
		return ee.Code
	}
	return 1
}
