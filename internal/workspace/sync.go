package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/portal-co/pupi/internal/manifest"
	"github.com/portal-co/pupi/internal/pkgfile"
)

// Sync reconciles the workspace member lists of the root package.json and
// Cargo.toml with the manifest. Members already listed are kept; the result
// is sorted with "./" prefixes stripped, so Sync is idempotent. Missing files
// are skipped.
func Sync(root *manifest.Root, dir string) error {
	var npmMembers, cargoMembers []string
	for _, k := range root.Keys() {
		m := root.Members[k]
		if m.NPM != nil {
			npmMembers = append(npmMembers, k)
		}
		if m.Cargo != nil {
			cargoMembers = append(cargoMembers, k)
		}
	}

	if ok, err := exists(filepath.Join(dir, pkgfile.PackageJSONName)); err != nil {
		return err
	} else if ok {
		pj, err := pkgfile.ReadPackageJSON(dir)
		if err != nil {
			return err
		}
		pj.MergeWorkspaces(npmMembers)
		if err := pj.Write(dir); err != nil {
			return err
		}
	}

	if ok, err := exists(filepath.Join(dir, pkgfile.CargoTomlName)); err != nil {
		return err
	} else if ok {
		ct, err := pkgfile.ReadCargoToml(dir)
		if err != nil {
			return err
		}
		ct.MergeWorkspaceMembers(cargoMembers)
		if err := ct.Write(dir); err != nil {
			return err
		}
	}
	return nil
}

func exists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
