// Package vault discovers and reads the Markdown documents of a content
// vault laid out for the blog export:
//
//	blog/articles/<year>/published/<name>.md
//	blog/articles/images/<asset>
//	blog/books/<name>.md
package vault

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/raido/internal/diag"
	"github.com/starford/raido/internal/pathguard"
)

// Vault layout, relative to the validated root.
const (
	ArticlesDir = "blog/articles"
	BooksDir    = "blog/books"
	ImagesDir   = "blog/articles/images"

	articlesGlob = "blog/articles/*/published/*.md"
	booksGlob    = "blog/books/*.md"
)

// DocKind tells which collection a document belongs to.
type DocKind int

const (
	KindArticle DocKind = iota
	KindBook
)

// Document is one discovered Markdown file. Path is vault-relative and
// slash-separated.
type Document struct {
	Path string
	Raw  []byte
	Kind DocKind
}

// Vault reads documents from a validated root directory.
type Vault struct {
	root    string // absolute
	maxSize int64
	diags   *diag.Collector
}

// Open validates root and returns a Vault over it. A missing or non-directory
// root is the caller's fatal error; everything below it is recoverable.
func Open(root string, maxSize int64, diags *diag.Collector) (*Vault, error) {
	vp, err := pathguard.ValidateRoot(root)
	if err != nil {
		return nil, fmt.Errorf("vault: open %s: %w", root, err)
	}
	return &Vault{root: vp.Abs, maxSize: maxSize, diags: diags}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string {
	return v.root
}

// Articles yields the published article documents in deterministic
// (lexical) order. The sequence re-walks the filesystem on each range.
func (v *Vault) Articles() iter.Seq[Document] {
	return v.scan(ArticlesDir, articlesGlob, KindArticle)
}

// Books yields the book documents in deterministic (lexical) order.
func (v *Vault) Books() iter.Seq[Document] {
	return v.scan(BooksDir, booksGlob, KindBook)
}

func (v *Vault) scan(dir, pattern string, kind DocKind) iter.Seq[Document] {
	return func(yield func(Document) bool) {
		info, err := os.Stat(filepath.Join(v.root, filepath.FromSlash(dir)))
		if err != nil {
			v.diags.Warn("vault: directory not found", slog.String("dir", dir))
			return
		}
		if !info.IsDir() {
			v.diags.Warn("vault: exists but is not a directory", slog.String("dir", dir))
			return
		}
		matches, err := doublestar.Glob(os.DirFS(v.root), pattern)
		if err != nil {
			v.diags.Warn("vault: scan failed",
				slog.String("dir", dir),
				slog.String("error", err.Error()))
			return
		}
		slices.Sort(matches)
		for _, rel := range matches {
			doc, ok := v.load(rel, kind)
			if !ok {
				continue
			}
			if !yield(doc) {
				return
			}
		}
	}
}

// load reads one candidate document, enforcing path validation, the size
// ceiling, and UTF-8 wellformedness. Failures skip the document.
func (v *Vault) load(rel string, kind DocKind) (Document, bool) {
	vp, err := pathguard.Validate(filepath.FromSlash(rel), v.root, pathguard.KindFile)
	if err != nil {
		v.diags.Warn("vault: skipping document",
			slog.String("path", rel),
			slog.String("error", err.Error()))
		return Document{}, false
	}
	info, err := os.Stat(vp.Abs)
	if err != nil {
		v.diags.Warn("vault: skipping document",
			slog.String("path", rel),
			slog.String("error", err.Error()))
		return Document{}, false
	}
	if info.Size() > v.maxSize {
		v.diags.Warn("vault: document exceeds size limit",
			slog.String("path", rel),
			slog.Int64("size", info.Size()),
			slog.Int64("limit", v.maxSize))
		return Document{}, false
	}
	data, err := os.ReadFile(vp.Abs)
	if err != nil {
		v.diags.Warn("vault: read failed",
			slog.String("path", rel),
			slog.String("error", err.Error()))
		return Document{}, false
	}
	if !utf8.Valid(data) {
		v.diags.Warn("vault: not valid UTF-8", slog.String("path", rel))
		return Document{}, false
	}
	return Document{Path: rel, Raw: data, Kind: kind}, true
}
