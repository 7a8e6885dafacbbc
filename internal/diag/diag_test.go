package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestCollector_RecordsInOrder(t *testing.T) {
	c := New(slog.New(slog.DiscardHandler))

	c.Warn("first", slog.String("path", "a.md"))
	c.Warn("second")

	if c.Count() != 2 {
		t.Fatalf("Count = %d, want 2", c.Count())
	}
	got := c.Warnings()
	if got[0] != "first path=a.md" {
		t.Errorf("entry[0] = %q", got[0])
	}
	if got[1] != "second" {
		t.Errorf("entry[1] = %q", got[1])
	}
}

func TestCollector_ForwardsToLogger(t *testing.T) {
	var buf bytes.Buffer
	c := New(slog.New(slog.NewJSONHandler(&buf, nil)))

	c.Warn("skipping document", slog.String("path", "x.md"))

	out := buf.String()
	if !strings.Contains(out, "skipping document") || !strings.Contains(out, "x.md") {
		t.Errorf("log output missing warning: %q", out)
	}
	if !strings.Contains(out, `"level":"WARN"`) {
		t.Errorf("log output missing level: %q", out)
	}
}

func TestCollector_Empty(t *testing.T) {
	c := New(slog.New(slog.DiscardHandler))
	if c.Count() != 0 {
		t.Errorf("Count = %d, want 0", c.Count())
	}
	if len(c.Warnings()) != 0 {
		t.Errorf("Warnings = %v, want empty", c.Warnings())
	}
}
