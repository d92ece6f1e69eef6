// Package ui renders pupi's terminal output: per-member progress lines,
// failure diagnostics, and aligned tables.
package ui
