// Package workspace holds the per-root state of one orchestration run. A
// Context bundles a loaded manifest with its resolved path, the set of
// members already visited in it, and a DepMap of lazily computed metadata
// (JS package names and the nested repositories reachable from the root).
// Nested repositories get Contexts of their own.
//
// Sync reconciles the root package.json and Cargo.toml workspace member lists
// with the manifest.
package workspace
