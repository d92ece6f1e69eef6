package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portal-co/pupi/internal/testutil"
)

func TestSetup_seedsFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")
	rec := &testutil.Recorder{}

	out, err := execute(t, rec, "setup", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Workspace ready")
	assert.Equal(t, []string{
		"git init",
		"npm install --save-dev parcel zshy typescript @parcel/packager-ts @parcel/transformer-typescript-types",
	}, rec.Lines())
	for _, c := range rec.Calls() {
		assert.Equal(t, dir, c.Dir)
	}

	pj := testutil.ReadJSON(t, dir, "package.json")
	assert.Equal(t, "temp", pj["name"])
	assert.Equal(t, []any{}, pj["workspaces"])
	assert.Empty(t, testutil.ReadJSON(t, dir, "pupi.json"))

	cargo, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(cargo), `resolver = "3"`)
	ignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), "node_modules")
}

func TestSetup_keepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	testutil.WriteFile(t, dir, "pupi.json", `{"a": {"deps": {}, "version": "1", "description": ""}}`)
	rec := &testutil.Recorder{}

	_, err := execute(t, rec, "setup", "--skip-install", dir)
	require.NoError(t, err)

	assert.Empty(t, rec.Calls(), "existing repository is not re-initialized")
	assert.Contains(t, testutil.ReadJSON(t, dir, "pupi.json"), "a")
	_, err = os.Stat(filepath.Join(dir, ".gitignore"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "package.json"))
	assert.NoError(t, err)
}
