// Package build holds the per-binding dispatchers. Each member binding
// (Cargo, NPM, subtree, submodule) is a System that processes the member
// for the requested lifecycle verb: it reads its native manifest, updates it
// on mutating verbs, runs the external tools the verb calls for, and writes
// the manifest back.
package build
