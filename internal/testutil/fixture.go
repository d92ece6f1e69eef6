package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

// WriteFile writes content to dir/rel, creating parent directories.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	return p
}

// WriteJSON marshals v to dir/rel.
func WriteJSON(t *testing.T, dir, rel string, v any) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshaling %s: %v", rel, err)
	}
	return WriteFile(t, dir, rel, string(data))
}

// ReadJSON decodes dir/rel into a generic map.
func ReadJSON(t *testing.T, dir, rel string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, rel)) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decoding %s: %v", rel, err)
	}
	return v
}

// PackageJSON writes a minimal package.json for a JS member.
func PackageJSON(t *testing.T, dir, member, name string, extra map[string]any) {
	t.Helper()
	v := map[string]any{"name": name, "version": "0.0.0"}
	for k, e := range extra {
		v[k] = e
	}
	WriteJSON(t, dir, filepath.Join(member, "package.json"), v)
}

// CargoToml writes a minimal Cargo.toml for a native member.
func CargoToml(t *testing.T, dir, member, name string) {
	t.Helper()
	WriteFile(t, dir, filepath.Join(member, "Cargo.toml"), "[package]\nname = \""+name+"\"\nversion = \"0.0.0\"\n")
}
