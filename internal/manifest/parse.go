package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Name is the base name of the workspace manifest.
const Name = "pupi"

// ErrNotFound is returned when no manifest file exists for a base name.
var ErrNotFound = fmt.Errorf("configuration file not found: %w", fs.ErrNotExist)

// ParseError reports a manifest file that exists but does not decode.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parsing %s: %v", e.Path, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// LoadConfig decodes {dir}/{name}.json, .yaml or .yml into v, in that order;
// the first file that exists wins.
//
// package.json is never probed: it is always JSON and read by pkgfile.
// Passing "package" is a programming error and panics.
func LoadConfig(dir, name string, v any) error {
	if name == "package" {
		panic("manifest: package.json is not loaded through LoadConfig")
	}

	jsonPath := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(jsonPath) //nolint:gosec // path is inside the workspace
	switch {
	case err == nil:
		if err := json.Unmarshal(data, v); err != nil {
			return &ParseError{Path: jsonPath, Err: err}
		}
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("reading %s: %w", jsonPath, err)
	}

	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(dir, name+ext)
		data, err := os.ReadFile(p) //nolint:gosec // path is inside the workspace
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		if err := yaml.Unmarshal(data, v); err != nil {
			return &ParseError{Path: p, Err: err}
		}
		return nil
	}

	return fmt.Errorf("%w: %s.json, %s.yaml or %s.yml in %s", ErrNotFound, name, name, name, dir)
}

// Load reads and validates the workspace manifest in dir.
func Load(dir string) (*Root, error) {
	var root Root
	if err := LoadConfig(dir, Name, &root); err != nil {
		return nil, err
	}
	if root.Members == nil {
		root.Members = map[string]*Member{}
	}
	if err := validate(&root); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return &root, nil
}

// validate checks member paths, dependency references and cycles.
func validate(root *Root) error {
	for _, k := range root.Keys() {
		m := root.Members[k]
		if m == nil {
			return fmt.Errorf("manifest: member %q is empty", k)
		}
		if err := validatePath(k, "member "+k); err != nil {
			return err
		}
		if m.Updater != nil && len(m.Updater) == 0 {
			return fmt.Errorf("manifest: member %q: updater needs a script path", k)
		}
		for _, dk := range m.DepKeys() {
			if err := validateDep(root, k, dk, m.Deps[dk]); err != nil {
				return err
			}
		}
		for _, b := range []struct {
			label string
			paths map[string]string
		}{{"subtree", subtreePaths(m)}, {"submodule", submodulePaths(m)}} {
			for p := range b.paths {
				if err := validatePath(p, fmt.Sprintf("member %s %s", k, b.label)); err != nil {
					return err
				}
			}
		}
	}
	return checkCycles(root)
}

func validateDep(root *Root, member, key string, d Dep) error {
	if d.Subrepo == nil {
		if _, ok := root.Members[d.Target(key)]; !ok {
			return fmt.Errorf("manifest: member %q depends on unknown member %q", member, d.Target(key))
		}
		return nil
	}
	s := d.Subrepo
	if s.PkgName == "" || s.Subrepo == "" {
		return fmt.Errorf("manifest: member %q dep %q: subrepo needs pkg_name and subrepo", member, key)
	}
	return validateDep(root, member, s.PkgName, s.Pkg)
}

// localEdges lists the members of root a dependency edge visits in root itself.
func localEdges(root *Root, key string, d Dep) []string {
	if d.Subrepo == nil {
		return []string{d.Target(key)}
	}
	edges := localEdges(root, d.Subrepo.PkgName, d.Subrepo.Pkg)
	if _, ok := root.Members[key]; ok {
		edges = append(edges, key)
	}
	return edges
}

func checkCycles(root *Root) error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(root.Members))
	var stack []string

	var visit func(k string) error
	visit = func(k string) error {
		switch color[k] {
		case grey:
			i := 0
			for stack[i] != k {
				i++
			}
			cycle := append(append([]string{}, stack[i:]...), k)
			return fmt.Errorf("manifest: dependency cycle: %s", strings.Join(cycle, " -> "))
		case black:
			return nil
		}
		color[k] = grey
		stack = append(stack, k)
		m := root.Members[k]
		for _, dk := range m.DepKeys() {
			for _, e := range localEdges(root, dk, m.Deps[dk]) {
				if _, ok := root.Members[e]; !ok {
					continue
				}
				if err := visit(e); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[k] = black
		return nil
	}

	for _, k := range root.Keys() {
		if err := visit(k); err != nil {
			return err
		}
	}
	return nil
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if p == "" {
		return fmt.Errorf("manifest: %s: empty path", label)
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("manifest: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("manifest: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}

func subtreePaths(m *Member) map[string]string {
	if m.Subtree == nil {
		return nil
	}
	return m.Subtree.Paths
}

func submodulePaths(m *Member) map[string]string {
	if m.Submodule == nil {
		return nil
	}
	return m.Submodule.Paths
}
