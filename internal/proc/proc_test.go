package proc

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCommand_String(t *testing.T) {
	c := Command{Name: "cargo", Args: []string{"check", "--all"}, Dir: "/ws/a"}
	want := "cargo ([check] [--all])@/ws/a"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	noDir := Command{Name: "git", Args: []string{"status"}}
	if got := noDir.String(); !strings.HasSuffix(got, "@[[current directory]]") {
		t.Errorf("String() = %q, want current-directory suffix", got)
	}
}

func TestExec_forwardsOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	x := NewExec(&stdout, &stderr)

	err := x.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo out; echo err >&2"}, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stdout.String() != "out\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.String() != "err\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestExec_exitCode(t *testing.T) {
	x := &Exec{}
	err := x.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})

	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if ee.Code != 3 {
		t.Errorf("Code = %d, want 3", ee.Code)
	}
	if ee.Command.Name != "sh" {
		t.Errorf("Command.Name = %q, want sh", ee.Command.Name)
	}
}

func TestExec_missingProgram(t *testing.T) {
	x := &Exec{}
	err := x.Run(context.Background(), Command{Name: "pupi-definitely-not-a-program"})
	if err == nil {
		t.Fatal("expected error for missing program")
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		t.Error("missing program should not be reported as an exit status")
	}
}
