// Package output serializes the generated collections to JSON files.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/diag"
	"github.com/starford/raido/internal/pathguard"
)

// Writer writes JSON collections into the output directory. In dry-run mode
// it performs every encoding step and reports what would be written, without
// touching the filesystem.
type Writer struct {
	root   string // absolute output directory
	dryRun bool
	diags  *diag.Collector
}

// NewWriter returns a Writer rooted at the output directory.
func NewWriter(root string, dryRun bool, diags *diag.Collector) *Writer {
	return &Writer{root: root, dryRun: dryRun, diags: diags}
}

// WriteJSON encodes v with two-space indentation and stable key order and
// writes it atomically to name under the output root. count is the number of
// records in v, reported alongside the byte size and content digest.
func (w *Writer) WriteJSON(name string, count int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("output: encode %s: %w", name, err)
	}
	data := buf.Bytes()

	dest, err := pathguard.SafeChild(w.root, name)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if _, err := os.Stat(dest); err == nil {
		w.diags.Warn("output: overwriting existing file", slog.String("file", name))
	}

	if w.dryRun {
		slog.Info("output: would write file",
			slog.String("file", name),
			slog.Int("records", count),
			slog.Int("bytes", len(data)),
			slog.String("checksum", checksum.Sum(data)))
		return nil
	}

	if err := w.writeAtomic(dest, data); err != nil {
		return fmt.Errorf("output: write %s: %w", name, err)
	}
	slog.Info("output: wrote file",
		slog.String("file", name),
		slog.Int("records", count),
		slog.Int("bytes", len(data)),
		slog.String("checksum", checksum.Sum(data)))
	return nil
}

// writeAtomic writes content: tmp file → fsync → rename.
func (w *Writer) writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(w.root, ".raido-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	success = true
	return nil
}
