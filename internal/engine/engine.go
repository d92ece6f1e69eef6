package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/portal-co/pupi/internal/build"
	"github.com/portal-co/pupi/internal/git"
	"github.com/portal-co/pupi/internal/proc"
	"github.com/portal-co/pupi/internal/ui"
	"github.com/portal-co/pupi/internal/workspace"
)

// ReferenceError reports a dependency edge whose target member does not exist
// in the root context it resolved to.
type ReferenceError struct {
	Root   string
	Member string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown member %q in %s", e.Member, e.Root)
}

// Options configures an Engine.
type Options struct {
	// Jobs bounds how many external processes run at once. Zero means
	// runtime.NumCPU().
	Jobs int
	// Progress receives build and failure lines. Nil discards them.
	Progress *ui.Progress
}

// Engine runs one command line over a workspace.
type Engine struct {
	cmd      []string
	mutating bool
	runner   proc.Runner
	git      *git.Client
	progress *ui.Progress
}

// New returns an Engine for the command line cmd (verb first, then the
// arguments forwarded to hooks).
func New(cmd []string, r proc.Runner, opts Options) *Engine {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	progress := opts.Progress
	if progress == nil {
		progress = ui.NewProgress(discard{}, false)
	}
	lr := &limitedRunner{inner: r, sem: semaphore.NewWeighted(int64(jobs)), progress: progress}
	e := &Engine{
		cmd:      cmd,
		runner:   lr,
		git:      git.New(lr),
		progress: progress,
	}
	if len(cmd) > 0 {
		e.mutating = build.Mutating(cmd[0])
	}
	return e
}

func (e *Engine) verb() string {
	if len(e.cmd) == 0 {
		return ""
	}
	return e.cmd[0]
}

// Run visits every member of ws concurrently and returns the first error.
func (e *Engine) Run(ctx context.Context, ws *workspace.Context) error {
	zerolog.Ctx(ctx).Debug().Str("root", ws.Path).Str("verb", e.verb()).Int("members", len(ws.Root.Members)).Msg("starting run")
	var g errgroup.Group
	for _, k := range ws.Root.Keys() {
		g.Go(func() error { return e.Update(ctx, ws, k) })
	}
	return g.Wait()
}

// limitedRunner bounds concurrent processes and reports failures.
type limitedRunner struct {
	inner    proc.Runner
	sem      *semaphore.Weighted
	progress *ui.Progress
}

func (l *limitedRunner) Run(ctx context.Context, c proc.Command) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)

	zerolog.Ctx(ctx).Debug().Str("cmd", c.Name).Strs("args", c.Args).Str("dir", c.Dir).Msg("exec")
	err := l.inner.Run(ctx, c)
	var ee *proc.ExitError
	if errors.As(err, &ee) {
		l.progress.Failed(ee.Command)
	}
	return err
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
