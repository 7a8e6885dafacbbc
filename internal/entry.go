// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/raido/internal/assets"
	"github.com/starford/raido/internal/diag"
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/output"
	"github.com/starford/raido/internal/records"
	"github.com/starford/raido/internal/vault"
)

// Layout of the output directory.
const (
	articlesFile = "articles.json"
	booksFile    = "books.json"
	imagesDir    = "images"
)

// Run executes one export pass with the given options. The pass is strictly
// sequential; ctx is accepted for CLI plumbing but a started run is never
// cancelled midway.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		vaultPath:  ".",
		outputPath: "./data",
		stdout:     os.Stdout,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. Logs go to stderr; stdout carries
	// the run summary.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", app.vaultPath),
		slog.String("output_path", app.outputPath),
		slog.Bool("dry_run", app.dryRun),
		slog.String("parser_strategy", cfg.Parser.Strategy),
		slog.String("log_level", cfg.App.LogLevel.String()))

	diags := diag.New(logger)

	// Open the vault.
	v, err := vault.Open(app.vaultPath, cfg.Vault.MaxDocumentSize, diags)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}

	// Resolve the output root, created up front except in dry-run.
	outputRoot, err := filepath.Abs(app.outputPath)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if !app.dryRun {
		if err := os.MkdirAll(outputRoot, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	dec, err := frontmatter.NewDecoder(cfg.Parser.Strategy)
	if err != nil {
		return fmt.Errorf("select parser: %w", err)
	}

	copier := assets.NewCopier(assets.Config{
		VaultRoot:  v.Root(),
		DestDir:    filepath.Join(outputRoot, imagesDir),
		MaxSize:    cfg.Images.MaxSize,
		Extensions: cfg.Images.Extensions,
		DryRun:     app.dryRun,
	}, diags)

	// Collect the published articles, copying their thumbnails as they come.
	articles := []records.Article{}
	for doc := range v.Articles() {
		meta, _, err := frontmatter.Parse(doc.Raw, dec)
		if err != nil {
			diags.Warn("parse: malformed frontmatter",
				slog.String("path", doc.Path),
				slog.String("error", err.Error()))
			continue
		}
		article, ok := records.BuildArticle(meta)
		if !ok {
			logger.Debug("skipping unpublished article", slog.String("path", doc.Path))
			continue
		}
		if article.Thumbnail != nil && *article.Thumbnail != "" {
			copier.Copy(*article.Thumbnail)
		}
		articles = append(articles, article)
	}
	records.SortArticles(articles)

	// Collect the read books.
	books := []records.Book{}
	for doc := range v.Books() {
		meta, body, err := frontmatter.Parse(doc.Raw, dec)
		if err != nil {
			diags.Warn("parse: malformed frontmatter",
				slog.String("path", doc.Path),
				slog.String("error", err.Error()))
			continue
		}
		book, ok := records.BuildBook(meta, body)
		if !ok {
			logger.Debug("skipping unread book", slog.String("path", doc.Path))
			continue
		}
		books = append(books, book)
	}
	records.SortBooks(books)

	// Write both collections.
	writer := output.NewWriter(outputRoot, app.dryRun, diags)
	if err := writer.WriteJSON(articlesFile, len(articles), articles); err != nil {
		return err
	}
	if err := writer.WriteJSON(booksFile, len(books), books); err != nil {
		return err
	}

	printSummary(app.stdout, app.dryRun, app.outputPath, articles, books, copier.Count(), diags.Count())
	return nil
}

// printSummary writes the human-readable run report to the summary writer.
func printSummary(w io.Writer, dryRun bool, outPath string, articles []records.Article, books []records.Book, copied, warnings int) {
	prefix, generated, copiedVerb := "", "Generated", "Copied"
	if dryRun {
		prefix, generated, copiedVerb = "[dry-run] ", "Would generate", "Would copy"
	}

	fmt.Fprintf(w, "%s%s %s with %d articles\n", prefix, generated, filepath.Join(outPath, articlesFile), len(articles))
	for _, a := range articles {
		fmt.Fprintf(w, "  - %s (%s)\n", a.Title, a.Date)
	}

	fmt.Fprintf(w, "%s%s %s with %d books\n", prefix, generated, filepath.Join(outPath, booksFile), len(books))
	for _, b := range books {
		author := "Unknown"
		if b.Author != nil && *b.Author != "" {
			author = *b.Author
		}
		rating := "unrated"
		if b.Rating != nil {
			rating = fmt.Sprintf("%.1f/5", *b.Rating)
		}
		fmt.Fprintf(w, "  - %s by %s (%s)\n", b.Title, author, rating)
	}

	fmt.Fprintf(w, "%s%s %d images\n", prefix, copiedVerb, copied)
	if warnings > 0 {
		fmt.Fprintf(w, "Warnings: %d (see logs)\n", warnings)
	}
	if dryRun {
		fmt.Fprintln(w, "Dry run: no files were written")
	}
}
