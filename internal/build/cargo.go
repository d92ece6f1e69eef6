package build

import (
	"context"

	"github.com/portal-co/pupi/internal/pkgfile"
)

// Cargo processes a member's Cargo.toml.
type Cargo struct{}

// Name implements System.
func (Cargo) Name() string { return "cargo" }

// Process implements System.
func (Cargo) Process(ctx context.Context, bc Context) error {
	ct, err := pkgfile.ReadCargoToml(bc.Dir)
	if err != nil {
		return err
	}
	if bc.Mutating() {
		ct.SetPackageMetadata(bc.Spec.Version, bc.Spec.Description, !bc.Spec.Private)
	}

	switch bc.Verb() {
	case VerbBuild, VerbPublish:
		if err := bc.run(ctx, bc.Dir, "cargo", "check"); err != nil {
			return err
		}
	}
	if bc.Verb() == VerbPublish && !bc.Spec.Private {
		if err := bc.run(ctx, bc.Dir, "cargo", "publish"); err != nil {
			return err
		}
	}

	// Always rewritten, which also normalises formatting.
	return ct.Write(bc.Dir)
}
