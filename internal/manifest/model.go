package manifest

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// CoreKey is the reserved manifest key holding root-level metadata.
const CoreKey = "//"

// Root is one workspace manifest: member path -> Member.
type Root struct {
	Core    *RootCore
	Members map[string]*Member
}

// RootCore is the root-level metadata stored under "//". It has no fields yet.
type RootCore struct{}

// Member is one package in the workspace.
type Member struct {
	Deps        map[string]Dep `json:"deps" yaml:"deps"`
	Version     string         `json:"version" yaml:"version"`
	Description string         `json:"description" yaml:"description"`
	Private     bool           `json:"private,omitempty" yaml:"private,omitempty"`
	Parent      string         `json:"parent,omitempty" yaml:"parent,omitempty"`
	Cargo       *Cargo         `json:"cargo,omitempty" yaml:"cargo,omitempty"`
	NPM         *NPM           `json:"npm,omitempty" yaml:"npm,omitempty"`
	Subtree     *Subtree       `json:"subtree,omitempty" yaml:"subtree,omitempty"`
	Submodule   *Submodule     `json:"submodule,omitempty" yaml:"submodule,omitempty"`
	// Updater is the lifecycle hook: a script path relative to the member
	// followed by extra arguments.
	Updater []string `json:"updater,omitempty" yaml:"updater,omitempty"`
}

// Cargo marks a member whose Cargo.toml is managed by pupi.
type Cargo struct{}

// NPM marks a member whose package.json is managed by pupi.
type NPM struct{}

// Subtree maps a local subdirectory to the upstream it is subtree-pulled from.
type Subtree struct {
	Paths map[string]string `json:"paths" yaml:"paths"`
}

// Submodule maps a local subdirectory to the upstream it is checked out from.
type Submodule struct {
	Paths map[string]string `json:"paths" yaml:"paths"`
}

// Dep is a dependency edge. A plain Dep refers to the sibling member named by
// the edge key, or by Member when set. A Dep with Subrepo set reaches its
// target through a vendored mirror of another repository.
type Dep struct {
	Member  string     `json:"member,omitempty" yaml:"member,omitempty"`
	Subrepo *SubrepoID `json:"subrepo,omitempty" yaml:"subrepo,omitempty"`
}

// SubrepoID says: resolve Pkg under member PkgName, then continue with Nest
// inside the manifest of the mirror PkgName/Subrepo.
type SubrepoID struct {
	PkgName string `json:"pkg_name" yaml:"pkg_name"`
	Pkg     Dep    `json:"pkg" yaml:"pkg"`
	Subrepo string `json:"subrepo" yaml:"subrepo"`
	Nest    Dep    `json:"nest" yaml:"nest"`
}

// NestedName returns the nested repository name this hop switches into.
func (s *SubrepoID) NestedName() string {
	return s.PkgName + "/" + s.Subrepo
}

// Target returns the member a terminal Dep visits for the given edge key.
func (d Dep) Target(key string) string {
	if d.Member != "" {
		return d.Member
	}
	return key
}

// Keys returns the member paths in sorted order.
func (r *Root) Keys() []string {
	keys := make([]string, 0, len(r.Members))
	for k := range r.Members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DepKeys returns the member's dependency edge keys in sorted order.
func (m *Member) DepKeys() []string {
	keys := make([]string, 0, len(m.Deps))
	for k := range m.Deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalJSON splits the reserved "//" key from the member entries.
func (r *Root) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Members = make(map[string]*Member, len(raw))
	for k, v := range raw {
		if k == CoreKey {
			r.Core = &RootCore{}
			continue
		}
		var m Member
		if err := json.Unmarshal(v, &m); err != nil {
			return fmt.Errorf("member %q: %w", k, err)
		}
		r.Members[k] = &m
	}
	return nil
}

// UnmarshalYAML splits the reserved "//" key from the member entries.
func (r *Root) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: manifest root must be a mapping", node.Line)
	}
	r.Members = make(map[string]*Member, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i].Value
		if k == CoreKey {
			r.Core = &RootCore{}
			continue
		}
		var m Member
		if err := node.Content[i+1].Decode(&m); err != nil {
			return fmt.Errorf("member %q: %w", k, err)
		}
		r.Members[k] = &m
	}
	return nil
}
