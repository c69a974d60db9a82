package collector

import (
	"context"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
)

// Item is one collected article before processing.
type Item struct {
	Title       string
	Slug        string
	Image       string
	Category    string
	Description string
	PublishedAt time.Time
	// RawDate is the date string as found at the source.
	RawDate string
	Source  string
}

// Fetcher abstracts one article source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]Item, error)
}

// ItemsFromIndex flattens ix in file order: categories as they appear,
// tuples as they appear inside each category.
func ItemsFromIndex(source string, ix *article.Index) []Item {
	out := make([]Item, 0, ix.Len())
	for _, g := range ix.Groups() {
		for _, a := range g.Articles {
			out = append(out, Item{
				Title:       a.Title,
				Slug:        a.Slug,
				Image:       a.Image,
				Category:    g.Name,
				Description: a.Description,
				PublishedAt: a.Published,
				RawDate:     a.RawDate,
				Source:      source,
			})
		}
	}
	return out
}
