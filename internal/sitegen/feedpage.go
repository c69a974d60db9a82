package sitegen

import (
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/fsutil"
	"github.com/frijal/ArtikelHub/internal/render"
	"github.com/microcosm-cc/bluemonday"
)

// NoSnippet replaces an empty item description.
const NoSnippet = "Tidak ada ringkasan."

var (
	snippetPolicy = bluemonday.StrictPolicy()
	snippetSpace  = regexp.MustCompile(`\s+`)
)

// Snippet is the plain-text form of an item description.
func Snippet(description string) string {
	text := html.UnescapeString(snippetPolicy.Sanitize(description))
	text = strings.TrimSpace(snippetSpace.ReplaceAllString(text, " "))
	if text == "" {
		return NoSnippet
	}
	return text
}

// FeedCards converts feed items into page cards.
func FeedCards(feed *RSS) []render.FeedCard {
	cards := make([]render.FeedCard, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		card := render.FeedCard{
			Title:   it.Title,
			Link:    it.Link,
			Snippet: Snippet(it.Description),
		}
		if it.Enclosure != nil {
			card.Image = it.Enclosure.URL
		}
		for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
			if t, err := time.Parse(layout, strings.TrimSpace(it.PubDate)); err == nil {
				card.Published = t
				break
			}
		}
		cards = append(cards, card)
	}
	return cards
}

// BuildFeedPage renders rssPath into the feed.html page at outPath.
func BuildFeedPage(rssPath, outPath string, r *render.Renderer) (int, error) {
	fh, err := os.Open(rssPath)
	if err != nil {
		return 0, err
	}
	defer fh.Close()

	feed, err := ParseRSS(fh)
	if err != nil {
		return 0, err
	}
	data := render.FeedData{SiteTitle: feed.Channel.Title, Cards: FeedCards(feed)}
	err = fsutil.WriteAtomic(outPath, func(w io.Writer) error {
		return r.Execute(w, render.FeedTemplate, data)
	})
	if err != nil {
		return 0, fmt.Errorf("build feed page: %w", err)
	}
	return len(data.Cards), nil
}
