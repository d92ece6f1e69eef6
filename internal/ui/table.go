package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// Table renders rows of data in aligned columns.
type Table struct {
	w *tabwriter.Writer
}

// NewTable creates a table with the given column headers. bold styles the
// header row; leave it off when out is not a terminal, since escape codes
// upset the column alignment of plain-text consumers.
func NewTable(out io.Writer, bold bool, headers ...string) *Table {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	hs := headers
	if bold {
		hs = make([]string, len(headers))
		for i, h := range headers {
			hs[i] = headerStyle.Render(h)
		}
	}
	_, _ = fmt.Fprintln(tw, strings.Join(hs, "\t"))
	return &Table{w: tw}
}

// Row appends a row of values. The number of values should match the number of headers.
func (t *Table) Row(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}
