package build

import (
	"context"
	"path/filepath"

	"github.com/portal-co/pupi/internal/pkgfile"
)

// NPM processes a member's package.json.
type NPM struct{}

// Name implements System.
func (NPM) Name() string { return "npm" }

// Process implements System.
func (NPM) Process(ctx context.Context, bc Context) error {
	pj, err := pkgfile.ReadPackageJSON(bc.Dir)
	if err != nil {
		return err
	}
	if bc.Mutating() {
		if err := pinVersions(pj, bc); err != nil {
			return err
		}
	}

	switch bc.Verb() {
	case VerbBuild, VerbPublish:
		switch {
		case pj.Has("zshy"):
			// zshy may rewrite package.json itself: persist ours first and
			// pick up its changes afterwards.
			if err := pj.Write(bc.Dir); err != nil {
				return err
			}
			tsconfig := filepath.Join(bc.RootPath(), "tsconfig.json")
			if err := bc.run(ctx, bc.Dir, "npx", "zshy", "-p", tsconfig); err != nil {
				return err
			}
			if pj, err = pkgfile.ReadPackageJSON(bc.Dir); err != nil {
				return err
			}
		case pj.Has("source"):
			if err := bc.run(ctx, bc.RootPath(), "npx", "parcel", "build", "./"+bc.relPath()); err != nil {
				return err
			}
		}
	}

	if bc.Verb() == VerbPublish && !bc.Spec.Private {
		if err := bc.run(ctx, bc.Dir, "npm", "publish", "--access", "public"); err != nil {
			return err
		}
	}

	return pj.Write(bc.Dir)
}

// pinVersions copies the member's version and description into package.json
// and rewrites every dependency on another workspace member to a caret range
// of that member's declared version.
func pinVersions(pj *pkgfile.PackageJSON, bc Context) error {
	pj.Set("version", bc.Spec.Version)
	pj.Set("description", bc.Spec.Description)

	deps := pj.Dependencies()
	if len(deps) == 0 {
		return nil
	}
	rev, err := bc.WS.Deps.ReverseNPMNames()
	if err != nil {
		return err
	}
	for name := range deps {
		member, ok := rev[name]
		if !ok {
			continue
		}
		if m, ok := bc.WS.Root.Members[member]; ok {
			deps[name] = "^" + m.Version
		}
	}
	return nil
}
