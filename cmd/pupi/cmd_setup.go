package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/portal-co/pupi/internal/git"
	"github.com/portal-co/pupi/internal/manifest"
	"github.com/portal-co/pupi/internal/pkgfile"
	"github.com/portal-co/pupi/internal/proc"
)

const gitignore = `/target
node_modules
.parcel-cache
`

const rootPackageJSON = `{
  "name": "temp",
  "workspaces": []
}
`

const rootCargoToml = `[workspace]
members = []
resolver = "3"

[workspace.package]

[workspace.dependencies]
`

// devTools are installed into the root package so member builds can call
// them through npx.
var devTools = []string{
	"parcel",
	"zshy",
	"typescript",
	"@parcel/packager-ts",
	"@parcel/transformer-typescript-types",
}

func newSetupCmd(r proc.Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup <root>",
		Short: "Initialize a workspace root",
		Long: `Initialize a git repository at <root> if there is none, seed an empty
manifest, root package.json and Cargo.toml workspace, and install the JS
build tools. Existing files are left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, args[0], r)
		},
	}
	cmd.Flags().Bool("skip-install", false, "Do not run npm install")
	return cmd
}

func runSetup(cmd *cobra.Command, root string, r proc.Runner) error {
	skipInstall, _ := cmd.Flags().GetBool("skip-install")
	ctx := cmd.Context()
	run := runner(cmd, r)
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(root, 0755); err != nil { //nolint:gosec // workspace dirs need to be traversable
		return fmt.Errorf("creating root: %w", err)
	}

	if !git.IsCloned(root) {
		if err := git.New(run).Init(ctx, root); err != nil {
			return err
		}
		if err := seed(root, ".gitignore", gitignore); err != nil {
			return err
		}
	}

	seeds := []struct{ name, content string }{
		{manifest.Name + ".json", "{}\n"},
		{pkgfile.PackageJSONName, rootPackageJSON},
		{pkgfile.CargoTomlName, rootCargoToml},
	}
	for _, s := range seeds {
		if err := seed(root, s.name, s.content); err != nil {
			return err
		}
	}

	if !skipInstall {
		if err := npmInstall(ctx, run, root); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Workspace ready at %s\n", root)
	return nil
}

func npmInstall(ctx context.Context, r proc.Runner, root string) error {
	args := append([]string{"install", "--save-dev"}, devTools...)
	return r.Run(ctx, proc.Command{Name: "npm", Args: args, Dir: root})
}

// seed writes name under root unless it already exists.
func seed(root, name, content string) error {
	path := filepath.Join(root, name)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // workspace files are not secret
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
