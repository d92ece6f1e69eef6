package workspace

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/portal-co/pupi/internal/manifest"
	"github.com/portal-co/pupi/internal/pkgfile"
)

// DepMap caches metadata derived from one root. Each table is computed at
// most once, on first use; concurrent first callers share that computation.
// Returned maps are shared and must not be modified.
type DepMap struct {
	root *manifest.Root
	path string

	npmNames     func() (map[string]string, error)
	reverseNames func() (map[string]string, error)
	nested       func() map[string]*nestedRoot
}

type nestedRoot struct {
	load func() (*Context, error)
}

// NewDepMap returns an empty cache for root at path.
func NewDepMap(root *manifest.Root, path string) *DepMap {
	d := &DepMap{root: root, path: path}
	d.npmNames = sync.OnceValues(d.readNPMNames)
	d.reverseNames = sync.OnceValues(d.invertNPMNames)
	d.nested = sync.OnceValue(d.collectNested)
	return d
}

// NPMNames maps each npm-bound member path to the name in its package.json.
func (d *DepMap) NPMNames() (map[string]string, error) {
	return d.npmNames()
}

// ReverseNPMNames maps package names back to member paths.
func (d *DepMap) ReverseNPMNames() (map[string]string, error) {
	return d.reverseNames()
}

// Nested returns the context of the nested repository name ("member/subdir"
// of some subtree binding). ok is false when no subtree declares name. The
// nested manifest is loaded from {root}/{name} on first access.
func (d *DepMap) Nested(name string) (c *Context, ok bool, err error) {
	n, ok := d.nested()[name]
	if !ok {
		return nil, false, nil
	}
	c, err = n.load()
	if err != nil {
		return nil, true, err
	}
	return c, true, nil
}

func (d *DepMap) readNPMNames() (map[string]string, error) {
	names := map[string]string{}
	for _, k := range d.root.Keys() {
		if d.root.Members[k].NPM == nil {
			continue
		}
		pj, err := pkgfile.ReadPackageJSON(filepath.Join(d.path, k))
		if err != nil {
			return nil, err
		}
		name, ok := pj.Name()
		if !ok {
			return nil, fmt.Errorf("%s: package.json has no name", filepath.Join(d.path, k))
		}
		names[k] = name
	}
	return names, nil
}

func (d *DepMap) invertNPMNames() (map[string]string, error) {
	names, err := d.npmNames()
	if err != nil {
		return nil, err
	}
	rev := make(map[string]string, len(names))
	for member, name := range names {
		rev[name] = member
	}
	return rev, nil
}

func (d *DepMap) collectNested() map[string]*nestedRoot {
	out := map[string]*nestedRoot{}
	for k, m := range d.root.Members {
		if m.Subtree == nil {
			continue
		}
		for sub := range m.Subtree.Paths {
			name := k + "/" + sub
			dir := filepath.Join(d.path, name)
			out[name] = &nestedRoot{load: sync.OnceValues(func() (*Context, error) {
				root, err := manifest.Load(dir)
				if err != nil {
					return nil, fmt.Errorf("loading nested repository %s: %w", name, err)
				}
				return NewContext(root, dir), nil
			})}
		}
	}
	return out
}
