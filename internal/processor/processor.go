package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/categorize"
	"github.com/frijal/ArtikelHub/internal/collector"
)

// MaxDescriptionRunes bounds the stored description.
const MaxDescriptionRunes = 600

// FallbackCategory receives articles nobody could classify.
const FallbackCategory = categorize.Fallback

// Categorizer assigns a category to a title.
type Categorizer interface {
	Categorize(title string) string
}

// ProcessedArticle is what the storage layer persists.
type ProcessedArticle struct {
	ID string
	article.Article
	Source string
	// Position keeps the collected order so the index can be rebuilt with
	// categories and tuples in their original sequence.
	Position int
}

// SimpleProcessor cleans collected items and derives their IDs.
type SimpleProcessor struct {
	categorizer Categorizer
	loc         *time.Location
}

// NewSimpleProcessor returns a processor. c may be nil, in which case
// uncategorized items fall into FallbackCategory.
func NewSimpleProcessor(c Categorizer, loc *time.Location) *SimpleProcessor {
	if loc == nil {
		loc = article.DefaultLocation
	}
	return &SimpleProcessor{categorizer: c, loc: loc}
}

// Process trims, de-duplicates by slug (first wins), truncates
// descriptions, fills in missing categories and formats missing dates.
func (p *SimpleProcessor) Process(items []collector.Item) []ProcessedArticle {
	out := make([]ProcessedArticle, 0, len(items))
	seen := make(map[string]struct{})

	for _, it := range items {
		slug := strings.TrimSpace(it.Slug)
		if slug == "" {
			continue
		}
		id := hashSlug(slug)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		title := strings.TrimSpace(it.Title)
		category := strings.TrimSpace(it.Category)
		if category == "" {
			category = p.categoryFor(title)
		}
		rawDate := strings.TrimSpace(it.RawDate)
		if rawDate == "" && !it.PublishedAt.IsZero() {
			rawDate = article.FormatISO8601(it.PublishedAt, p.loc)
		}

		out = append(out, ProcessedArticle{
			ID: id,
			Article: article.Article{
				Title:       title,
				Slug:        slug,
				Image:       strings.TrimSpace(it.Image),
				Published:   it.PublishedAt,
				RawDate:     rawDate,
				Description: truncateRunes(strings.TrimSpace(it.Description), MaxDescriptionRunes),
				Category:    category,
			},
			Source:   it.Source,
			Position: len(out),
		})
	}

	return out
}

func (p *SimpleProcessor) categoryFor(title string) string {
	if p.categorizer == nil {
		return FallbackCategory
	}
	if c := p.categorizer.Categorize(title); c != "" {
		return c
	}
	return FallbackCategory
}

func hashSlug(slug string) string {
	h := sha1.New()
	h.Write([]byte(slug))
	return hex.EncodeToString(h.Sum(nil))
}

// truncateRunes cuts s to limit runes and appends an ellipsis when cut.
func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if limit <= 0 || len(rs) <= limit {
		return s
	}
	return string(rs[:limit]) + "…"
}
