package ui

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

var (
	buildStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Progress writes progress and failure lines for concurrently running
// members. Lines are never interleaved.
type Progress struct {
	out   io.Writer
	color bool
	built atomic.Int32
	mu    sync.Mutex
}

// NewProgress creates a progress writer. color enables ANSI styling of the
// line tags.
func NewProgress(out io.Writer, color bool) *Progress {
	return &Progress{out: out, color: color}
}

// Building announces that member has finished its dependencies and is about
// to run its hook and build actions.
func (p *Progress) Building(member string) {
	p.built.Add(1)
	p.line(buildStyle, "[Build]", "Building "+member)
}

// Failed reports an external command that exited non-zero.
func (p *Progress) Failed(command fmt.Stringer) {
	p.line(failStyle, "[FAIL]", command.String())
}

// Built returns how many members have started building.
func (p *Progress) Built() int {
	return int(p.built.Load())
}

func (p *Progress) line(style lipgloss.Style, tag, msg string) {
	if p.color {
		tag = style.Render(tag)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, "%s %s\n", tag, msg)
}
