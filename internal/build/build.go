package build

import (
	"context"
	"path"
	"path/filepath"

	"github.com/portal-co/pupi/internal/git"
	"github.com/portal-co/pupi/internal/manifest"
	"github.com/portal-co/pupi/internal/proc"
	"github.com/portal-co/pupi/internal/workspace"
)

// Lifecycle verbs with build-system meaning.
const (
	VerbAutogen = "autogen"
	VerbBuild   = "build"
	VerbPublish = "publish"
	VerbUpdate  = "update"
)

// Mutating reports whether verb writes manifest metadata back into native
// package manifests.
func Mutating(verb string) bool {
	switch verb {
	case VerbAutogen, VerbBuild, VerbPublish, VerbUpdate:
		return true
	}
	return false
}

// RunsHook reports whether verb runs a member's lifecycle hook.
func RunsHook(verb string) bool {
	switch verb {
	case VerbAutogen, VerbBuild, VerbPublish:
		return true
	}
	return false
}

// Context is everything a System needs to process one member.
type Context struct {
	// Dir is the member's resolved directory.
	Dir string
	// Member is the member's declared path within its root.
	Member string
	Spec   *manifest.Member
	WS     *workspace.Context
	// Cmd is the full command line: verb first, then forwarded arguments.
	Cmd []string

	Runner proc.Runner
	Git    *git.Client
}

// Verb returns the lifecycle verb.
func (c Context) Verb() string {
	if len(c.Cmd) == 0 {
		return ""
	}
	return c.Cmd[0]
}

// Mutating reports whether the verb is a mutating one.
func (c Context) Mutating() bool { return Mutating(c.Verb()) }

// RootPath returns the directory of the member's root.
func (c Context) RootPath() string { return c.WS.Path }

// relPath returns the member's slash path relative to the root.
func (c Context) relPath() string {
	return path.Clean(filepath.ToSlash(c.Member))
}

// subpath returns member/sub relative to the root.
func (c Context) subpath(sub string) string {
	return path.Join(c.relPath(), sub)
}

func (c Context) run(ctx context.Context, dir, name string, args ...string) error {
	return c.Runner.Run(ctx, proc.Command{Name: name, Args: args, Dir: dir})
}

// System processes one binding of a member.
type System interface {
	Name() string
	Process(ctx context.Context, bc Context) error
}

// Mirrors returns the repository-mirror systems bound to m: subtree first,
// then submodule.
func Mirrors(m *manifest.Member) []System {
	var out []System
	if m.Subtree != nil {
		out = append(out, Subtree{Paths: m.Subtree.Paths})
	}
	if m.Submodule != nil {
		out = append(out, Submodule{Paths: m.Submodule.Paths})
	}
	return out
}

// Builders returns the build systems bound to m: Cargo first, then NPM.
func Builders(m *manifest.Member) []System {
	var out []System
	if m.Cargo != nil {
		out = append(out, Cargo{})
	}
	if m.NPM != nil {
		out = append(out, NPM{})
	}
	return out
}
