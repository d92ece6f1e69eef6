package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/portal-co/pupi/internal/manifest"
)

// Context is one root context: a manifest, where it lives, what has been
// visited in it during this run, and its cache.
type Context struct {
	Root    *manifest.Root
	Path    string
	Visited *VisitSet
	Deps    *DepMap
}

// Load resolves root to an absolute path and loads the manifest there.
func Load(root string) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	m, err := manifest.Load(root)
	if err != nil {
		return nil, err
	}
	return NewContext(m, root), nil
}

// NewContext returns a fresh context for an already loaded manifest.
func NewContext(root *manifest.Root, path string) *Context {
	return &Context{
		Root:    root,
		Path:    path,
		Visited: NewVisitSet(),
		Deps:    NewDepMap(root, path),
	}
}

// MemberDir returns the absolute directory of a member.
func (c *Context) MemberDir(member string) string {
	return filepath.Join(c.Path, member)
}
