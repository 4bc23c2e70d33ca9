package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteGreppable_SortsHostsAndJoinsPorts(t *testing.T) {
	var buf bytes.Buffer
	WriteGreppable(&buf, map[string][]uint16{
		"10.0.0.2": {443, 80},
		"10.0.0.1": {22},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if lines[0] != "10.0.0.1 -> [22]" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "10.0.0.2 -> [443,80]" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestWriteTable_NoColorFallback(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, map[string][]uint16{"127.0.0.1": {80}}, true)

	out := buf.String()
	if !strings.Contains(out, "127.0.0.1") || !strings.Contains(out, "80") {
		t.Errorf("table output missing expected cells: %q", out)
	}
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, map[string][]uint16{}, true)
	if !strings.Contains(buf.String(), "No open ports found") {
		t.Errorf("got %q", buf.String())
	}
}
