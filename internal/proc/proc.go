package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Command is one external program invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// String renders the command the way failure diagnostics print it:
// "prog ([arg1] [arg2])@dir".
func (c Command) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = "[" + a + "]"
	}
	dir := c.Dir
	if dir == "" {
		dir = "[[current directory]]"
	}
	return fmt.Sprintf("%s (%s)@%s", c.Name, strings.Join(parts, " "), dir)
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// ExitError reports a program that ran and exited non-zero.
type ExitError struct {
	Command Command
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// Exec runs commands as real subprocesses. Output is captured and copied to
// Stdout/Stderr in one piece once the process exits, so concurrent commands
// never interleave mid-line.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer

	mu sync.Mutex
}

// NewExec returns an Exec forwarding child output to stdout and stderr.
func NewExec(stdout, stderr io.Writer) *Exec {
	return &Exec{Stdout: stdout, Stderr: stderr}
}

// Run starts c, waits for it, and forwards its output.
func (x *Exec) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) //nolint:gosec // commands come from the workspace manifest
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	x.mu.Lock()
	if x.Stdout != nil {
		_, _ = x.Stdout.Write(stdout.Bytes())
	}
	if x.Stderr != nil {
		_, _ = x.Stderr.Write(stderr.Bytes())
	}
	x.mu.Unlock()

	if runErr != nil {
		var ee *exec.ExitError
		if errors.As(runErr, &ee) {
			return &ExitError{Command: c, Code: ee.ExitCode()}
		}
		return fmt.Errorf("running %s: %w", c.Name, runErr)
	}
	return nil
}
