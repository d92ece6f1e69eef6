package pkgfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// CargoTomlName is the native package manifest file name.
const CargoTomlName = "Cargo.toml"

// CargoToml is a decoded Cargo.toml.
type CargoToml struct {
	Table map[string]any
}

// ReadCargoToml reads {dir}/Cargo.toml.
func ReadCargoToml(dir string) (*CargoToml, error) {
	p := filepath.Join(dir, CargoTomlName)
	data, err := os.ReadFile(p) //nolint:gosec // path is inside the workspace
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	t := map[string]any{}
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p, err)
	}
	return &CargoToml{Table: t}, nil
}

// Write encodes the document to {dir}/Cargo.toml.
func (c *CargoToml) Write(dir string) error {
	data, err := toml.Marshal(c.Table)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", CargoTomlName, err)
	}
	p := filepath.Join(dir, CargoTomlName)
	if err := os.WriteFile(p, data, 0644); err != nil { //nolint:gosec // Cargo.toml needs to be readable
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}

// Package returns the [package] table, or nil.
func (c *CargoToml) Package() map[string]any {
	p, _ := c.Table["package"].(map[string]any)
	return p
}

// SetPackageMetadata overwrites version, description and publish in
// [package] when the table exists.
func (c *CargoToml) SetPackageMetadata(version, description string, publish bool) {
	p := c.Package()
	if p == nil {
		return
	}
	p["version"] = version
	p["description"] = description
	p["publish"] = publish
}

// MergeWorkspaceMembers replaces [workspace].members with the sorted union of
// add and the existing entries. Nothing happens unless the array exists.
func (c *CargoToml) MergeWorkspaceMembers(add []string) {
	ws, ok := c.Table["workspace"].(map[string]any)
	if !ok {
		return
	}
	arr, ok := ws["members"].([]any)
	if !ok {
		return
	}
	var existing []string
	for _, v := range arr {
		if s, ok := v.(string); ok {
			existing = append(existing, s)
		}
	}
	ws["members"] = MergePaths(add, existing)
}
