package pkgfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// PackageJSONName is the JS package metadata file name.
const PackageJSONName = "package.json"

// PackageJSON is a decoded package.json. A document whose top level is not an
// object is kept as-is and rewritten unchanged.
type PackageJSON struct {
	Value any
}

// ReadPackageJSON reads {dir}/package.json.
func ReadPackageJSON(dir string) (*PackageJSON, error) {
	p := filepath.Join(dir, PackageJSONName)
	data, err := os.ReadFile(p) //nolint:gosec // path is inside the workspace
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p, err)
	}
	return &PackageJSON{Value: v}, nil
}

// Write pretty-prints the document to {dir}/package.json. Strings are
// written raw: "&", "<" and ">" are not escaped.
func (p *PackageJSON) Write(dir string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Value); err != nil {
		return fmt.Errorf("marshaling %s: %w", PackageJSONName, err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	path := filepath.Join(dir, PackageJSONName)
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // package.json needs to be readable
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Object returns the top-level object, or nil when the document is not one.
func (p *PackageJSON) Object() map[string]any {
	o, _ := p.Value.(map[string]any)
	return o
}

// Has reports whether the top-level object has key.
func (p *PackageJSON) Has(key string) bool {
	_, ok := p.Object()[key]
	return ok
}

// Name returns the declared package name.
func (p *PackageJSON) Name() (string, bool) {
	s, ok := p.Object()["name"].(string)
	return s, ok
}

// Set assigns a top-level string field.
func (p *PackageJSON) Set(key, value string) {
	if o := p.Object(); o != nil {
		o[key] = value
	}
}

// Dependencies returns the "dependencies" table, or nil.
func (p *PackageJSON) Dependencies() map[string]any {
	d, _ := p.Object()["dependencies"].(map[string]any)
	return d
}

// MergeWorkspaces replaces "workspaces" with the sorted union of add and the
// paths already listed, each with any leading "./" stripped.
func (p *PackageJSON) MergeWorkspaces(add []string) {
	o := p.Object()
	if o == nil {
		return
	}
	var existing []string
	if arr, ok := o["workspaces"].([]any); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok {
				existing = append(existing, s)
			}
		}
	}
	merged := MergePaths(add, existing)
	out := make([]any, len(merged))
	for i, s := range merged {
		out[i] = s
	}
	o["workspaces"] = out
}

// MergePaths returns the sorted, de-duplicated union of both lists after
// stripping every leading "./".
func MergePaths(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			for strings.HasPrefix(s, "./") {
				s = strings.TrimPrefix(s, "./")
			}
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
