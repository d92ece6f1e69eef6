// Package proc defines how pupi runs external programs (git, cargo, npm,
// npx, sh hooks). Every program is treated as an opaque subprocess with an
// exit status and captured output; callers depend on the Runner interface so
// traversal can be exercised without the real toolchains installed.
package proc
