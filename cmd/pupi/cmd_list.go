package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/portal-co/pupi/internal/manifest"
	"github.com/portal-co/pupi/internal/ui"
	"github.com/portal-co/pupi/internal/workspace"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <root>",
		Short: "List workspace members",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	ws, err := workspace.Load(args[0])
	if err != nil {
		return err
	}

	tbl := ui.NewTable(cmd.OutOrStdout(), useColor(cmd, cmd.OutOrStdout()), "MEMBER", "VERSION", "PRIVATE", "BINDINGS", "DEPS")
	for _, k := range ws.Root.Keys() {
		m := ws.Root.Members[k]
		tbl.Row(k, m.Version, m.Private, orDash(bindings(m)), orDash(m.DepKeys()))
	}
	return tbl.Flush()
}

func bindings(m *manifest.Member) []string {
	var b []string
	if m.Cargo != nil {
		b = append(b, "cargo")
	}
	if m.NPM != nil {
		b = append(b, "npm")
	}
	if m.Subtree != nil {
		b = append(b, "subtree")
	}
	if m.Submodule != nil {
		b = append(b, "submodule")
	}
	if len(m.Updater) > 0 {
		b = append(b, "hook")
	}
	return b
}

func orDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}
