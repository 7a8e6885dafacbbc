// Package assets copies referenced thumbnail images into the output tree.
//
// Every reference coming out of document metadata is untrusted: only its base
// name is looked up, the lookup goes through the path guard, and warnings
// never echo anything but the sanitized file name.
package assets

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/diag"
	"github.com/starford/raido/internal/pathguard"
	"github.com/starford/raido/internal/vault"
)

// Config carries the copier's fixed run parameters.
type Config struct {
	VaultRoot  string   // absolute, validated vault root
	DestDir    string   // absolute output images directory
	MaxSize    int64    // per-image size ceiling in bytes
	Extensions []string // allowed extensions, lowercase with leading dot
	DryRun     bool
}

// Copier resolves thumbnail references against the vault's images directory
// and copies the files into the output images directory.
type Copier struct {
	cfg    Config
	diags  *diag.Collector
	copied map[string]string // destination name -> source, within one run
	count  int
}

// NewCopier returns a Copier. A missing images directory is noted once and a
// non-directory images path warns once; individual lookups under it still
// warn per thumbnail.
func NewCopier(cfg Config, diags *diag.Collector) *Copier {
	if info, err := os.Stat(filepath.Join(cfg.VaultRoot, filepath.FromSlash(vault.ImagesDir))); err != nil {
		slog.Info("assets: images directory not found", slog.String("dir", vault.ImagesDir))
	} else if !info.IsDir() {
		diags.Warn("assets: images path exists but is not a directory", slog.String("dir", vault.ImagesDir))
	}
	return &Copier{cfg: cfg, diags: diags, copied: make(map[string]string)}
}

// Count reports how many images were copied, or would have been in dry-run.
func (c *Copier) Count() int {
	return c.count
}

// Copy resolves one thumbnail reference and copies the image. Failures warn
// and return; the owning article keeps its thumbnail value either way.
func (c *Copier) Copy(ref string) {
	base := path.Base(strings.ReplaceAll(ref, `\`, "/"))
	name := pathguard.SanitizeFilename(base)
	if name == "" {
		c.diags.Warn("assets: thumbnail name sanitizes to nothing")
		return
	}

	srcRel := path.Join(vault.ImagesDir, base)
	vp, err := pathguard.Validate(filepath.FromSlash(srcRel), c.cfg.VaultRoot, pathguard.KindFile)
	if err != nil {
		if errors.Is(err, pathguard.ErrNotFound) {
			c.diags.Warn("assets: thumbnail not found", slog.String("file", name))
		} else {
			c.diags.Warn("assets: thumbnail failed path validation", slog.String("file", name))
		}
		return
	}

	if ext := strings.ToLower(path.Ext(name)); !slices.Contains(c.cfg.Extensions, ext) {
		c.diags.Warn("assets: unsupported image extension",
			slog.String("file", name),
			slog.String("ext", ext))
		return
	}

	info, err := os.Stat(vp.Abs)
	if err != nil {
		c.diags.Warn("assets: thumbnail not found", slog.String("file", name))
		return
	}
	if info.Size() > c.cfg.MaxSize {
		c.diags.Warn("assets: image exceeds size limit",
			slog.String("file", name),
			slog.Int64("size", info.Size()),
			slog.Int64("limit", c.cfg.MaxSize))
		return
	}

	dest, err := pathguard.SafeChild(c.cfg.DestDir, name)
	if err != nil {
		c.diags.Warn("assets: thumbnail failed path validation", slog.String("file", name))
		return
	}

	if prev, dup := c.copied[name]; dup {
		if prev == srcRel {
			return // same image referenced by several articles
		}
		c.diags.Warn("assets: sanitized name collision, overwriting", slog.String("file", name))
	} else if _, err := os.Stat(dest); err == nil {
		c.diags.Warn("assets: overwriting existing image", slog.String("file", name))
	}

	if c.cfg.DryRun {
		slog.Info("assets: would copy image",
			slog.String("file", name),
			slog.Int64("bytes", info.Size()))
		c.copied[name] = srcRel
		c.count++
		return
	}

	if err := c.copyFile(vp.Abs, dest, name); err != nil {
		c.diags.Warn("assets: copy failed", slog.String("file", name))
		return
	}
	c.copied[name] = srcRel
	c.count++
}

// copyFile writes dest atomically: tmp file → fsync → rename. The content
// digest is computed on the same pass as the copy.
func (c *Copier) copyFile(src, dest, name string) error {
	if err := os.MkdirAll(c.cfg.DestDir, 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(c.cfg.DestDir, ".raido-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	digest, n, err := checksum.SumReader(io.TeeReader(in, tmp))
	if err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return err
	}
	success = true

	slog.Info("assets: copied image",
		slog.String("file", name),
		slog.Int64("bytes", n),
		slog.String("checksum", digest))
	return nil
}
