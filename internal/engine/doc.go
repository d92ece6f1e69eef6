// Package engine traverses a workspace and runs lifecycle actions on its
// members.
//
// Every member is visited at most once per root context. A visit first
// refreshes the member's repository mirrors, then visits all of its
// dependencies concurrently and waits for them, then runs the member's
// lifecycle hook and build systems. A dependency may live inside a vendored
// mirror of another repository; resolving it switches to that repository's
// own root context (see UpdateDep).
//
// Sibling tasks share a first-error slot and are not cancelled when one of
// them fails.
package engine
