// Package pathguard validates filesystem paths against a trusted root and
// sanitizes untrusted file names. Every component that reads or writes the
// filesystem resolves its paths here first.
package pathguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Kind restricts what a validated path may point to.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

// Sentinel errors, matched with errors.Is.
var (
	ErrTraversal = errors.New("path escapes root")
	ErrNotFound  = errors.New("path not found")
	ErrWrongType = errors.New("path has wrong type")
)

// ValidatedPath is an absolute path proven to live under its root, to exist,
// and to match the expected kind. It is constructed immediately before use
// and never cached: the filesystem may change between calls.
type ValidatedPath struct {
	Abs  string
	Kind Kind
}

// Validate resolves path against root and proves containment. path may be
// root-relative or absolute. Containment is checked lexically before any
// filesystem access and again after symlink resolution, so a symlink inside
// the root pointing outside it is rejected the same way a ".." segment is.
func Validate(path, root string, kind Kind) (ValidatedPath, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return ValidatedPath{}, fmt.Errorf("pathguard: resolve root: %w", err)
	}

	var cand string
	if filepath.IsAbs(path) {
		cand = filepath.Clean(path)
	} else {
		cand = filepath.Join(rootAbs, path)
	}
	if !within(rootAbs, cand) {
		return ValidatedPath{}, fmt.Errorf("pathguard: %w", ErrTraversal)
	}

	rootReal, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ValidatedPath{}, fmt.Errorf("pathguard: root: %w", ErrNotFound)
		}
		return ValidatedPath{}, fmt.Errorf("pathguard: resolve root: %w", err)
	}

	real, err := filepath.EvalSymlinks(cand)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ValidatedPath{}, fmt.Errorf("pathguard: %s: %w", relToRoot(rootAbs, cand), ErrNotFound)
		}
		return ValidatedPath{}, fmt.Errorf("pathguard: resolve path: %w", err)
	}
	if !within(rootReal, real) {
		return ValidatedPath{}, fmt.Errorf("pathguard: %w", ErrTraversal)
	}

	info, err := os.Stat(real)
	if err != nil {
		return ValidatedPath{}, fmt.Errorf("pathguard: %s: %w", relToRoot(rootAbs, cand), ErrNotFound)
	}
	if kind == KindDir && !info.IsDir() {
		return ValidatedPath{}, fmt.Errorf("pathguard: %s: expected directory: %w", relToRoot(rootAbs, cand), ErrWrongType)
	}
	if kind == KindFile && !info.Mode().IsRegular() {
		return ValidatedPath{}, fmt.Errorf("pathguard: %s: expected file: %w", relToRoot(rootAbs, cand), ErrWrongType)
	}

	return ValidatedPath{Abs: real, Kind: kind}, nil
}

// ValidateRoot resolves a root directory itself, requiring it to exist and
// to be a directory.
func ValidateRoot(root string) (ValidatedPath, error) {
	return Validate(".", root, KindDir)
}

// SafeChild joins a single file name onto root after rejecting names that
// contain separators or traversal segments. The target does not need to
// exist; this is the check for paths about to be created.
func SafeChild(root, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("pathguard: empty file name: %w", ErrTraversal)
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("pathguard: %w", ErrTraversal)
	}
	abs := filepath.Join(root, cleaned)
	if !within(root, abs) {
		return "", fmt.Errorf("pathguard: %w", ErrTraversal)
	}
	return abs, nil
}

const maxNameBytes = 255

var reservedRe = regexp.MustCompile(`[<>:"|?*\x00-\x1f]`)

// SanitizeFilename reduces an untrusted name to a safe base name: it
// normalizes to NFC, drops any directory part (both separator styles),
// strips control characters and the reserved set <>:"|?*, removes remaining
// ".." sequences, and caps the result at 255 bytes preserving the extension.
// The result may be empty; callers must treat an empty name as invalid.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = reservedRe.ReplaceAllString(name, "")
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", "")
	}
	if name == "." {
		return ""
	}
	if len(name) > maxNameBytes {
		ext := filepath.Ext(name)
		if len(ext) >= maxNameBytes {
			ext = ""
		}
		cut := maxNameBytes - len(ext)
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut] + ext
	}
	return name
}

// within reports whether p equals root or sits underneath it.
func within(root, p string) bool {
	return p == root || strings.HasPrefix(p, root+string(os.PathSeparator))
}

// relToRoot renders a contained path relative to its root for diagnostics,
// so messages never expose the absolute directory layout.
func relToRoot(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.Base(p)
	}
	return filepath.ToSlash(rel)
}
