// Package records builds the article and book entries exported to JSON.
package records

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/starford/raido/internal/frontmatter"
)

// Article is one published article entry. Struct field order fixes the JSON
// key order.
type Article struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Thumbnail   *string  `json:"thumbnail"`
	Tags        []string `json:"tags"`
}

// Book is one read book entry.
type Book struct {
	Title  string   `json:"title"`
	Author *string  `json:"author"`
	Cover  *string  `json:"cover"`
	Rating *float64 `json:"rating"`
	URL    *string  `json:"url"`
	Tags   []string `json:"tags"`
	Lesson string   `json:"lesson"`
}

// BuildArticle constructs an Article from document metadata. The bool reports
// whether the document qualifies for export: status "published" or a
// non-empty url.
func BuildArticle(meta frontmatter.Metadata) (Article, bool) {
	if stringField(meta, "status") != "published" && stringField(meta, "url") == "" {
		return Article{}, false
	}
	return Article{
		Title:       stringField(meta, "title"),
		Date:        stringField(meta, "date"),
		Description: stringField(meta, "description"),
		URL:         stringField(meta, "url"),
		Thumbnail:   optionalString(meta, "thumbnail"),
		Tags:        tagsField(meta),
	}, true
}

// BuildBook constructs a Book from document metadata and the Markdown body.
// The bool reports whether the document qualifies: status "read" or a rating
// key in the metadata, whatever its value.
func BuildBook(meta frontmatter.Metadata, body string) (Book, bool) {
	_, hasRating := meta["rating"]
	if stringField(meta, "status") != "read" && !hasRating {
		return Book{}, false
	}
	return Book{
		Title:  stringField(meta, "title"),
		Author: optionalString(meta, "author"),
		Cover:  optionalString(meta, "cover"),
		Rating: ratingField(meta),
		URL:    optionalString(meta, "url"),
		Tags:   tagsField(meta),
		Lesson: lessonField(meta, body),
	}, true
}

// SortArticles orders articles by date descending. Ties keep their discovery
// order.
func SortArticles(articles []Article) {
	slices.SortStableFunc(articles, func(a, b Article) int {
		return strings.Compare(b.Date, a.Date)
	})
}

// SortBooks orders books by rating descending with unrated books last. Ties
// keep their discovery order.
func SortBooks(books []Book) {
	slices.SortStableFunc(books, func(a, b Book) int {
		switch {
		case a.Rating == nil && b.Rating == nil:
			return 0
		case a.Rating == nil:
			return 1
		case b.Rating == nil:
			return -1
		default:
			return cmp.Compare(*b.Rating, *a.Rating)
		}
	})
}

// stringField returns the string value for key. Missing or non-string values
// count as absent.
func stringField(meta frontmatter.Metadata, key string) string {
	v, _ := meta[key].(string)
	return v
}

// optionalString returns a pointer to the string value for key, or nil when
// the key is missing or not a string.
func optionalString(meta frontmatter.Metadata, key string) *string {
	v, ok := meta[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// ratingField coerces the rating value to a float64. Numeric strings are
// parsed; anything else, including values JSON cannot represent, yields nil.
func ratingField(meta frontmatter.Metadata) *float64 {
	var r float64
	switch v := meta["rating"].(type) {
	case int64:
		r = float64(v)
	case float64:
		r = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		r = parsed
	default:
		return nil
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return nil
	}
	return &r
}

func tagsField(meta frontmatter.Metadata) []string {
	v, ok := meta["tags"].([]string)
	if !ok {
		return []string{}
	}
	return nonNilSlice(slices.Clone(v))
}

// lessonField prefers the trimmed lesson metadata value and falls back to
// the trimmed document body when the value is absent or empty.
func lessonField(meta frontmatter.Metadata, body string) string {
	if v, ok := meta["lesson"].(string); ok && v != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(body)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
