package output

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/diag"
	"github.com/starford/raido/internal/pathguard"
)

type page struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func newWriter(t *testing.T, dryRun bool) (*Writer, *diag.Collector, string) {
	t.Helper()
	root := t.TempDir()
	diags := diag.New(slog.New(slog.DiscardHandler))
	return NewWriter(root, dryRun, diags), diags, root
}

func TestWriteJSON_Format(t *testing.T) {
	w, diags, root := newWriter(t, false)

	pages := []page{{Title: "a & b", Body: "<em>hi</em>"}}
	if err := w.WriteJSON("pages.json", len(pages), pages); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "pages.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := `[
  {
    "title": "a & b",
    "body": "<em>hi</em>"
  }
]
`
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
	if diags.Count() != 0 {
		t.Errorf("unexpected warnings: %v", diags.Warnings())
	}
}

func TestWriteJSON_EmptyCollection(t *testing.T) {
	w, _, root := newWriter(t, false)

	if err := w.WriteJSON("pages.json", 0, []page{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "pages.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "[]\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteJSON_OverwriteWarns(t *testing.T) {
	w, diags, root := newWriter(t, false)
	if err := os.WriteFile(filepath.Join(root, "pages.json"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := w.WriteJSON("pages.json", 0, []page{}); err != nil {
		t.Fatal(err)
	}

	if diags.Count() != 1 {
		t.Fatalf("got %d warnings, want 1: %v", diags.Count(), diags.Warnings())
	}
	data, err := os.ReadFile(filepath.Join(root, "pages.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "[]\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteJSON_DryRun(t *testing.T) {
	w, diags, root := newWriter(t, true)

	if err := w.WriteJSON("pages.json", 1, []page{{Title: "x"}}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(root, "pages.json")); !os.IsNotExist(err) {
		t.Errorf("file should not exist, stat err = %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output root should be empty, found %d entries", len(entries))
	}
	if diags.Count() != 0 {
		t.Errorf("unexpected warnings: %v", diags.Warnings())
	}
}

func TestWriteJSON_RejectsBadName(t *testing.T) {
	w, _, _ := newWriter(t, false)

	err := w.WriteJSON("../escape.json", 0, []page{})
	if !errors.Is(err, pathguard.ErrTraversal) {
		t.Fatalf("got %v, want ErrTraversal", err)
	}
}

func TestWriteJSON_MissingRootFails(t *testing.T) {
	diags := diag.New(slog.New(slog.DiscardHandler))
	w := NewWriter(filepath.Join(t.TempDir(), "missing"), false, diags)

	if err := w.WriteJSON("pages.json", 0, []page{}); err == nil {
		t.Fatal("expected error for missing output root")
	}
}
