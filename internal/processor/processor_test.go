package processor

import (
	"strings"
	"testing"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/collector"
)

type staticCategorizer map[string]string

func (s staticCategorizer) Categorize(title string) string {
	for kw, cat := range s {
		if strings.Contains(strings.ToLower(title), kw) {
			return cat
		}
	}
	return ""
}

func TestHashSlugDeterministicAndDistinct(t *testing.T) {
	h1a := hashSlug("instal-arch.html")
	h1b := hashSlug("instal-arch.html")
	h2 := hashSlug("systemd.html")

	if h1a != h1b {
		t.Fatalf("hashSlug not deterministic: %q vs %q", h1a, h1b)
	}
	if h1a == h2 {
		t.Fatalf("hashSlug should differ for different slugs: %q", h1a)
	}
}

func TestTruncateRunesHandlesMultibyteAndEllipsis(t *testing.T) {
	s := "Rendang adalah masakan daging bercita rasa pedas"
	out := truncateRunes(s, 7)
	if out != "Rendang…" {
		t.Fatalf("truncateRunes = %q, want %q", out, "Rendang…")
	}

	emoji := truncateRunes("🐧🐧🐧🐧", 2)
	if len([]rune(emoji)) != 3 {
		t.Fatalf("truncateRunes rune length = %d, want 3: %q", len([]rune(emoji)), emoji)
	}

	if full := truncateRunes("pendek", 10); full != "pendek" {
		t.Fatalf("truncateRunes should keep original when under limit: %q", full)
	}
}

func TestSimpleProcessorDeduplicateAndFill(t *testing.T) {
	p := NewSimpleProcessor(staticCategorizer{"linux": "🐧 Linux"}, time.UTC)
	published := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)

	items := []collector.Item{
		{
			Title:       "  Instal Arch Linux ",
			Slug:        "instal-arch.html",
			Category:    "📚 Catatan",
			Description: "desc 1",
			PublishedAt: published,
			RawDate:     "2025-03-10T08:00:00+07:00",
			Source:      "artikel_index",
		},
		{
			Title:  "Instal Arch Linux duplicate",
			Slug:   "instal-arch.html",
			Source: "artikel_dir",
		},
		{
			Title:       "Tips Linux Harian",
			Slug:        "tips.html",
			PublishedAt: published,
			Source:      "artikel_dir",
		},
		{
			Title: "Resep Rendang",
			Slug:  "rendang.html",
		},
		{
			Title: "tanpa slug",
			Slug:  "   ",
		},
	}

	out := p.Process(items)
	if len(out) != 3 {
		t.Fatalf("expected 3 processed items after dedupe, got %d", len(out))
	}

	first := out[0]
	if first.Title != "Instal Arch Linux" || first.Category != "📚 Catatan" || first.Source != "artikel_index" {
		t.Fatalf("first item should win and keep its category: %+v", first)
	}
	if first.RawDate != "2025-03-10T08:00:00+07:00" {
		t.Fatalf("existing raw date should be kept: %q", first.RawDate)
	}

	if out[1].Category != "🐧 Linux" {
		t.Fatalf("categorizer not applied: %q", out[1].Category)
	}
	if out[1].RawDate != "2025-03-10T01:00:00.000+00:00" {
		t.Fatalf("missing raw date should be formatted: %q", out[1].RawDate)
	}
	if out[1].Position != 1 {
		t.Fatalf("position = %d, want 1", out[1].Position)
	}

	if out[2].Category != FallbackCategory {
		t.Fatalf("unmatched title should fall back: %q", out[2].Category)
	}
	if out[2].RawDate != "" {
		t.Fatalf("undated item should keep an empty date: %q", out[2].RawDate)
	}
	if out[2].ID != hashSlug("rendang.html") {
		t.Fatalf("unexpected id %q", out[2].ID)
	}
}

func TestNilCategorizerFallsBack(t *testing.T) {
	out := NewSimpleProcessor(nil, nil).Process([]collector.Item{{Title: "x", Slug: "x.html"}})
	if len(out) != 1 || out[0].Category != FallbackCategory {
		t.Fatalf("unexpected result: %+v", out)
	}
	long := strings.Repeat("a", MaxDescriptionRunes+10)
	out = NewSimpleProcessor(nil, article.DefaultLocation).Process([]collector.Item{{Slug: "y.html", Description: long}})
	if n := len([]rune(out[0].Description)); n != MaxDescriptionRunes+1 {
		t.Fatalf("description rune length = %d", n)
	}
}
