package build

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/portal-co/pupi/internal/git"
)

// Subtree merge-pulls each vendored subdirectory from its upstream.
type Subtree struct {
	Paths map[string]string
}

// Name implements System.
func (Subtree) Name() string { return "subtree" }

// Process implements System. Subdirectories are pulled concurrently; a
// failure in one does not stop the others, and the first error is returned.
//
// git subtree only runs from a repository top level, so the pull runs in the
// nearest enclosing repository with the prefix made relative to it. A root
// outside any repository pulls from the root itself.
func (s Subtree) Process(ctx context.Context, bc Context) error {
	repo, prefixOf, err := subtreeRepo(bc)
	if err != nil {
		return err
	}
	var g errgroup.Group
	for _, sub := range sortedKeys(s.Paths) {
		upstream := s.Paths[sub]
		g.Go(func() error {
			return bc.Git.SubtreePull(ctx, repo, prefixOf(sub), upstream)
		})
	}
	return g.Wait()
}

func subtreeRepo(bc Context) (string, func(sub string) string, error) {
	top, ok := git.TopLevel(bc.RootPath())
	if !ok || top == filepath.Clean(bc.RootPath()) {
		return bc.RootPath(), bc.subpath, nil
	}
	rel, err := filepath.Rel(top, bc.Dir)
	if err != nil {
		return "", nil, fmt.Errorf("locating %s in %s: %w", bc.Dir, top, err)
	}
	base := filepath.ToSlash(rel)
	return top, func(sub string) string { return path.Join(base, sub) }, nil
}

// Submodule registers each linked subdirectory on first use and then
// updates it from its remote-tracking branch.
type Submodule struct {
	Paths map[string]string
}

// Name implements System.
func (Submodule) Name() string { return "submodule" }

// Process implements System, with the same concurrency as Subtree.
func (s Submodule) Process(ctx context.Context, bc Context) error {
	var g errgroup.Group
	for _, sub := range sortedKeys(s.Paths) {
		upstream := s.Paths[sub]
		g.Go(func() error {
			empty, err := git.IsEmptyDir(filepath.Join(bc.Dir, sub))
			if err != nil {
				return err
			}
			if empty {
				if err := bc.Git.SubmoduleAdd(ctx, bc.Dir, upstream, sub); err != nil {
					return err
				}
			}
			return bc.Git.SubmoduleUpdate(ctx, bc.RootPath(), bc.subpath(sub))
		})
	}
	return g.Wait()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
