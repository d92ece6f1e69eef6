// Package pkgfile reads and writes the native package manifests pupi
// rewrites: package.json (always JSON, never probed for YAML) and
// Cargo.toml. Both are handled as generic documents so fields pupi does not
// know about survive a rewrite.
package pkgfile
