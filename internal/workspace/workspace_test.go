package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/portal-co/pupi/internal/manifest"
	"github.com/portal-co/pupi/internal/testutil"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "pupi.json", `{"a": {"deps": {}, "version": "1.0.0", "description": ""}}`)

	ctx, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !filepath.IsAbs(ctx.Path) {
		t.Errorf("Path = %q, want absolute", ctx.Path)
	}
	if ctx.Visited == nil || ctx.Deps == nil {
		t.Fatal("Load() must initialise Visited and Deps")
	}
	if got, want := ctx.MemberDir("a"), filepath.Join(ctx.Path, "a"); got != want {
		t.Errorf("MemberDir() = %q, want %q", got, want)
	}
}

func TestLoad_missingManifest(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load() should fail when pupi.json is missing")
	}
}

func TestVisitSet_claimOnce(t *testing.T) {
	s := NewVisitSet()
	var owners atomic.Int32
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, owner := s.Claim("lib"); owner {
				owners.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := owners.Load(); n != 1 {
		t.Errorf("owners = %d, want exactly 1", n)
	}
	if diff := cmp.Diff([]string{"lib"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestVisit_waitersSeeOwnerResult(t *testing.T) {
	s := NewVisitSet()
	v, owner := s.Claim("lib")
	if !owner {
		t.Fatal("first claim should own the visit")
	}
	w, owner := s.Claim("lib")
	if owner {
		t.Fatal("second claim must not own the visit")
	}

	done := make(chan error, 1)
	go func() { done <- w.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Wait returned before Finish")
	case <-time.After(20 * time.Millisecond):
	}

	boom := os.ErrPermission
	v.Finish(boom)
	if err := <-done; err != boom {
		t.Errorf("Wait() = %v, want %v", err, boom)
	}
}

func TestDepMap_npmNames(t *testing.T) {
	dir := t.TempDir()
	testutil.PackageJSON(t, dir, "js/a", "@x/a", nil)
	testutil.PackageJSON(t, dir, "js/b", "@x/b", nil)
	root := &manifest.Root{Members: map[string]*manifest.Member{
		"js/a":  {NPM: &manifest.NPM{}},
		"js/b":  {NPM: &manifest.NPM{}},
		"crate": {Cargo: &manifest.Cargo{}},
	}}
	d := NewDepMap(root, dir)

	names, err := d.NPMNames()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]string{"js/a": "@x/a", "js/b": "@x/b"}, names); diff != "" {
		t.Errorf("NPMNames() mismatch (-want +got):\n%s", diff)
	}
	rev, err := d.ReverseNPMNames()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]string{"@x/a": "js/a", "@x/b": "js/b"}, rev); diff != "" {
		t.Errorf("ReverseNPMNames() mismatch (-want +got):\n%s", diff)
	}

	// Memoized: removing the file afterwards changes nothing.
	if err := os.RemoveAll(filepath.Join(dir, "js")); err != nil {
		t.Fatal(err)
	}
	again, err := d.NPMNames()
	if err != nil || len(again) != 2 {
		t.Errorf("second NPMNames() = %v, %v; want cached result", again, err)
	}
}

func TestDepMap_npmNameMissing(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "js/a/package.json", `{"version": "1.0.0"}`)
	root := &manifest.Root{Members: map[string]*manifest.Member{"js/a": {NPM: &manifest.NPM{}}}}

	if _, err := NewDepMap(root, dir).NPMNames(); err == nil {
		t.Fatal("expected error for package.json without name")
	}
}

func TestDepMap_nested(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "x/vendor/pupi.json", `{"y": {"deps": {}, "version": "3.0.0", "description": ""}}`)
	root := &manifest.Root{Members: map[string]*manifest.Member{
		"x": {Subtree: &manifest.Subtree{Paths: map[string]string{"vendor": "https://example.com/v.git main"}}},
	}}
	d := NewDepMap(root, dir)

	if _, ok, err := d.Nested("x/other"); ok || err != nil {
		t.Errorf("unknown name: ok=%v err=%v, want not found", ok, err)
	}

	var wg sync.WaitGroup
	got := make([]*Context, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, ok, err := d.Nested("x/vendor")
			if err != nil || !ok {
				t.Errorf("Nested() ok=%v err=%v", ok, err)
				return
			}
			got[i] = c
		}()
	}
	wg.Wait()

	first := got[0]
	if first == nil {
		t.Fatal("Nested() returned nil context")
	}
	for i, c := range got {
		if c != first {
			t.Errorf("caller %d got a different context; nested root must load once", i)
		}
	}
	if first.Path != filepath.Join(dir, "x/vendor") {
		t.Errorf("Path = %q", first.Path)
	}
	if first.Root.Members["y"].Version != "3.0.0" {
		t.Errorf("nested root not loaded: %+v", first.Root.Members)
	}
	if first.Visited == nil || first.Deps == nil || first.Deps == d {
		t.Error("nested context needs its own visited set and DepMap")
	}
}

func TestDepMap_nestedLoadError(t *testing.T) {
	dir := t.TempDir()
	root := &manifest.Root{Members: map[string]*manifest.Member{
		"x": {Subtree: &manifest.Subtree{Paths: map[string]string{"vendor": "u"}}},
	}}
	_, ok, err := NewDepMap(root, dir).Nested("x/vendor")
	if !ok || err == nil {
		t.Errorf("ok=%v err=%v, want found with load error", ok, err)
	}
}

func TestSync(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "package.json", `{"name":"temp","workspaces":["./legacy","js/b"]}`)
	testutil.WriteFile(t, dir, "Cargo.toml", "[workspace]\nmembers = [\"./old\"]\nresolver = \"3\"\n")
	root := &manifest.Root{Members: map[string]*manifest.Member{
		"js/b":    {NPM: &manifest.NPM{}},
		"./js/a":  {NPM: &manifest.NPM{}},
		"crate/c": {Cargo: &manifest.Cargo{}},
		"plain":   {},
	}}

	if err := Sync(root, dir); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}

	pj := testutil.ReadJSON(t, dir, "package.json")
	if diff := cmp.Diff([]any{"js/a", "js/b", "legacy"}, pj["workspaces"]); diff != "" {
		t.Errorf("workspaces mismatch (-want +got):\n%s", diff)
	}
	cargo, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"crate/c", "old", "resolver"} {
		if !strings.Contains(string(cargo), want) {
			t.Errorf("Cargo.toml missing %q:\n%s", want, cargo)
		}
	}
}

func TestSync_idempotent(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "package.json", `{"name":"temp","workspaces":["./z"]}`)
	testutil.WriteFile(t, dir, "Cargo.toml", "[workspace]\nmembers = []\n\n[workspace.dependencies]\n")
	root := &manifest.Root{Members: map[string]*manifest.Member{
		"a": {NPM: &manifest.NPM{}, Cargo: &manifest.Cargo{}},
	}}

	if err := Sync(root, dir); err != nil {
		t.Fatal(err)
	}
	firstPJ := readFile(t, dir, "package.json")
	firstCargo := readFile(t, dir, "Cargo.toml")

	if err := Sync(root, dir); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, dir, "package.json"); got != firstPJ {
		t.Errorf("package.json changed on second pass:\n%s\nvs\n%s", firstPJ, got)
	}
	if got := readFile(t, dir, "Cargo.toml"); got != firstCargo {
		t.Errorf("Cargo.toml changed on second pass:\n%s\nvs\n%s", firstCargo, got)
	}
}

func TestSync_noFiles(t *testing.T) {
	root := &manifest.Root{Members: map[string]*manifest.Member{"a": {NPM: &manifest.NPM{}}}}
	if err := Sync(root, t.TempDir()); err != nil {
		t.Fatalf("Sync() without package.json/Cargo.toml should succeed: %v", err)
	}
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, rel)) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
