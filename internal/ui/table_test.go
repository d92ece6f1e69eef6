package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable_render(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, false, "MEMBER", "VERSION", "PRIVATE")
	tbl.Row("crates/core", "1.0.0", false)
	tbl.Row("js/app", "0.2.0", true)
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header + 2 rows), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "MEMBER") {
		t.Errorf("header = %q", lines[0])
	}
	// Columns are aligned: VERSION starts at the same offset in every line.
	col := strings.Index(lines[0], "VERSION")
	if strings.Index(lines[1], "1.0.0") != col || strings.Index(lines[2], "0.2.0") != col {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestTable_emptyTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, false, "A", "B")
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected 1 line (header only), got %d", len(lines))
	}
}
