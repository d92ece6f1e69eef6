package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/portal-co/pupi/internal/proc"
)

// Recorder is a proc.Runner that records commands instead of running them.
type Recorder struct {
	// Fail, when set, decides the outcome of each command; a non-nil error is
	// returned to the caller (the command is still recorded).
	Fail func(c proc.Command) error
	// Effect, when set, runs before the command is recorded, e.g. to
	// simulate a bundler rewriting package.json.
	Effect func(c proc.Command)

	mu    sync.Mutex
	calls []proc.Command
}

// Run records c.
func (r *Recorder) Run(_ context.Context, c proc.Command) error {
	if r.Effect != nil {
		r.Effect(c)
	}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail(c)
	}
	return nil
}

// Calls returns a copy of the recorded commands in call order.
func (r *Recorder) Calls() []proc.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]proc.Command(nil), r.calls...)
}

// Lines returns each recorded command as "name arg arg", in call order.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = Line(c)
	}
	return out
}

// Index returns the position of the first command whose Line is line and
// whose Dir is dir, or -1.
func (r *Recorder) Index(line, dir string) int {
	for i, c := range r.Calls() {
		if Line(c) == line && c.Dir == dir {
			return i
		}
	}
	return -1
}

// Count returns how many recorded commands have the given Line and Dir.
func (r *Recorder) Count(line, dir string) int {
	n := 0
	for _, c := range r.Calls() {
		if Line(c) == line && c.Dir == dir {
			n++
		}
	}
	return n
}

// Line renders c as "name arg arg".
func Line(c proc.Command) string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}
