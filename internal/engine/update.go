package engine

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/portal-co/pupi/internal/build"
	"github.com/portal-co/pupi/internal/manifest"
	"github.com/portal-co/pupi/internal/proc"
	"github.com/portal-co/pupi/internal/workspace"
)

// Update visits member in ws. The first caller for a member runs the visit;
// later and concurrent callers wait for it and get its result.
func (e *Engine) Update(ctx context.Context, ws *workspace.Context, member string) error {
	spec, ok := ws.Root.Members[member]
	if !ok {
		return &ReferenceError{Root: ws.Path, Member: member}
	}
	v, owner := ws.Visited.Claim(member)
	if !owner {
		return v.Wait(ctx)
	}
	err := e.visit(ctx, ws, member, spec)
	v.Finish(err)
	return err
}

// UpdateDep resolves the dependency edge key -> dep in ws and visits its
// target.
//
// A plain dep visits its target in ws. A dep with a subrepo hop first
// resolves the hop's pkg under pkg_name in ws, then continues with nest in
// the root context of the nested repository pkg_name/subrepo, repeating
// while nest has further hops. Mutating verbs never follow hops: they build
// the local copy, key, in ws.
func (e *Engine) UpdateDep(ctx context.Context, ws *workspace.Context, key string, dep manifest.Dep) error {
	log := zerolog.Ctx(ctx)
	for dep.Subrepo != nil {
		s := dep.Subrepo
		if e.mutating {
			return e.Update(ctx, ws, key)
		}
		if err := e.UpdateDep(ctx, ws, s.PkgName, s.Pkg); err != nil {
			return err
		}
		nested, ok, err := ws.Deps.Nested(s.NestedName())
		if err != nil {
			return err
		}
		if !ok {
			log.Debug().Str("root", ws.Path).Str("subrepo", s.NestedName()).Msg("no subtree declares subrepo, visiting locally")
			break
		}
		log.Debug().Str("from", ws.Path).Str("to", nested.Path).Msg("entering nested repository")
		key = strings.TrimPrefix(key, s.NestedName()+"/")
		ws = nested
		dep = s.Nest
	}
	return e.Update(ctx, ws, dep.Target(key))
}

func (e *Engine) visit(ctx context.Context, ws *workspace.Context, member string, spec *manifest.Member) error {
	log := zerolog.Ctx(ctx).With().Str("root", ws.Path).Str("member", member).Logger()
	ctx = log.WithContext(ctx)
	log.Debug().Msg("visit")

	bc := build.Context{
		Dir:    ws.MemberDir(member),
		Member: member,
		Spec:   spec,
		WS:     ws,
		Cmd:    e.cmd,
		Runner: e.runner,
		Git:    e.git,
	}

	if err := e.process(ctx, build.Mirrors(spec), bc); err != nil {
		return err
	}

	var g errgroup.Group
	for _, k := range spec.DepKeys() {
		dep := spec.Deps[k]
		g.Go(func() error { return e.UpdateDep(ctx, ws, k, dep) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.progress.Building(member)

	if len(spec.Updater) > 0 && build.RunsHook(e.verb()) {
		if err := e.runHook(ctx, ws, member, spec.Updater, bc.Dir); err != nil {
			return err
		}
	}

	return e.process(ctx, build.Builders(spec), bc)
}

// process runs systems concurrently and returns the first error.
func (e *Engine) process(ctx context.Context, systems []build.System, bc build.Context) error {
	var g errgroup.Group
	for _, s := range systems {
		g.Go(func() error {
			zerolog.Ctx(ctx).Debug().Str("system", s.Name()).Msg("process")
			return s.Process(ctx, bc)
		})
	}
	return g.Wait()
}

// runHook runs "sh {dir}/{script} {root} {member} {extra...} {cmd...}" in the
// member directory.
func (e *Engine) runHook(ctx context.Context, ws *workspace.Context, member string, hook []string, dir string) error {
	args := []string{filepath.Join(dir, hook[0]), ws.Path, member}
	args = append(args, hook[1:]...)
	args = append(args, e.cmd...)
	return e.runner.Run(ctx, proc.Command{Name: "sh", Args: args, Dir: dir})
}
