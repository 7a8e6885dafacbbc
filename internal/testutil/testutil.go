// Package testutil provides shared test helpers for setting up vault trees.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVault creates a temporary vault directory with the standard blog layout.
func TestVault(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{
		"blog/articles/2024/published",
		"blog/articles/images",
		"blog/books",
	} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// WriteFile writes content under root at the slash-separated relative path,
// creating parent directories as needed. It returns the absolute path.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return abs
}
