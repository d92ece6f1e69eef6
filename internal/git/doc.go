// Package git provides a wrapper around the Git CLI commands pupi needs to
// keep vendored subtrees and linked submodules in step with their upstreams.
// Commands go through a proc.Runner so callers control concurrency and
// failure reporting.
package git
