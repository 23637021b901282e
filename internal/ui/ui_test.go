package ui

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var sb strings.Builder
	tbl := NewTable(&sb, "PROJECT", "REVISION")
	tbl.Row("backend", "main")
	tbl.Row("tools", "v1.0")
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}

	out := sb.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "PROJECT") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "backend") || !strings.Contains(lines[1], "main") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestProgress(t *testing.T) {
	var sb strings.Builder
	p := NewProgress(&sb, 2)
	p.Done("one")
	p.Log("note %d", 42)
	p.Done("two")

	out := sb.String()
	if !strings.Contains(out, "[1/2] one") {
		t.Errorf("missing first step: %q", out)
	}
	if !strings.Contains(out, "note 42") {
		t.Errorf("missing log line: %q", out)
	}
	if !strings.Contains(out, "[2/2] two") {
		t.Errorf("missing second step: %q", out)
	}
}

func TestBanner(t *testing.T) {
	var sb strings.Builder
	Banner(&sb, "backend", "services/backend")
	out := sb.String()
	if !strings.Contains(out, "services/backend") || !strings.Contains(out, "backend") {
		t.Errorf("banner = %q", out)
	}
}
