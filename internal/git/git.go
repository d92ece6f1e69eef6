package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/portal-co/pupi/internal/proc"
)

// Client runs git commands.
type Client struct {
	r proc.Runner
}

// New returns a Client running commands through r.
func New(r proc.Runner) *Client {
	return &Client{r: r}
}

// SubtreePull merge-pulls upstream into the subtree at prefix. repoDir is the
// repository top level; prefix is relative to it. upstream is split on
// whitespace, so "url ref" passes repository and ref separately.
func (c *Client) SubtreePull(ctx context.Context, repoDir, prefix, upstream string) error {
	args := append([]string{"subtree", "pull", "-P", prefix}, strings.Fields(upstream)...)
	return c.run(ctx, repoDir, args...)
}

// SubmoduleAdd registers upstream as a submodule checked out at path
// (relative to dir).
func (c *Client) SubmoduleAdd(ctx context.Context, dir, upstream, path string) error {
	return c.run(ctx, dir, "submodule", "add", "-f", upstream, path)
}

// SubmoduleUpdate initializes and fast-forwards the submodule at path to its
// remote-tracking branch, recursively.
func (c *Client) SubmoduleUpdate(ctx context.Context, repoDir, path string) error {
	return c.run(ctx, repoDir, "submodule", "update", "--init", "--recursive", "--remote", path)
}

// Init runs git init in the given directory.
func (c *Client) Init(ctx context.Context, dir string) error {
	return c.run(ctx, dir, "init")
}

func (c *Client) run(ctx context.Context, dir string, args ...string) error {
	return c.r.Run(ctx, proc.Command{Name: "git", Args: args, Dir: dir})
}

// IsCloned returns true if the directory is a git repository.
func IsCloned(repoDir string) bool {
	info, err := os.Stat(filepath.Join(repoDir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsEmptyDir reports whether dir is missing or has no entries. A submodule
// path in that state still has to be registered.
func IsEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// TopLevel returns the nearest directory at or above dir that holds a .git
// entry (a directory, or a file for worktrees and submodules). ok is false
// when there is none.
func TopLevel(dir string) (top string, ok bool) {
	dir = filepath.Clean(dir)
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
