package main

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/portal-co/pupi/internal/workspace"
)

// tools are the programs member builds shell out to.
var tools = []struct{ name, hint string }{
	{"git", "Install it from https://git-scm.com/"},
	{"cargo", "Install Rust from https://rustup.rs/"},
	{"npm", "Install Node.js from https://nodejs.org/"},
	{"npx", "Install Node.js from https://nodejs.org/"},
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [root]",
		Short: "Diagnose environment for common issues",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ok := true

	for _, t := range tools {
		fmt.Fprintf(out, "Checking %s... ", t.name)
		path, err := exec.LookPath(t.name)
		if err != nil {
			fmt.Fprintln(out, "NOT FOUND")
			fmt.Fprintf(out, "  %s is required. %s\n", t.name, t.hint)
			ok = false
			continue
		}
		fmt.Fprintf(out, "found at %s\n", path)
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	fmt.Fprintf(out, "Checking manifest in %s... ", root)
	ws, err := workspace.Load(root)
	if err != nil {
		fmt.Fprintln(out, "FAILED")
		fmt.Fprintf(out, "  %v\n", err)
		ok = false
	} else {
		fmt.Fprintf(out, "OK (%d members)\n", len(ws.Root.Members))
	}

	if ok {
		fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}
