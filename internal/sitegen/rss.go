package sitegen

import (
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
)

// DefaultFeedSize is the number of items in rss.xml.
const DefaultFeedSize = 50

// RSS is the subset of RSS 2.0 the site writes and reads back.
type RSS struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel RSSChannel `xml:"channel"`
}

type RSSChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []RSSItem `xml:"item"`
}

type RSSItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	GUID        string        `xml:"guid"`
	PubDate     string        `xml:"pubDate,omitempty"`
	Description string        `xml:"description"`
	Category    string        `xml:"category,omitempty"`
	Enclosure   *RSSEnclosure `xml:"enclosure,omitempty"`
}

type RSSEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length string `xml:"length,attr"`
}

// Channel describes the feed itself.
type Channel struct {
	Title       string
	Link        string
	Description string
}

// WriteRSS writes the newest limit articles as RSS 2.0.
func WriteRSS(w io.Writer, ix *article.Index, ch Channel, siteURL string, limit int, now time.Time) error {
	if limit <= 0 {
		limit = DefaultFeedSize
	}
	feed := RSS{
		Version: "2.0",
		Channel: RSSChannel{
			Title:         ch.Title,
			Link:          ch.Link,
			Description:   ch.Description,
			Language:      "id",
			LastBuildDate: now.Format(time.RFC1123Z),
		},
	}
	for _, a := range ix.All() {
		if len(feed.Channel.Items) == limit {
			break
		}
		link := AbsoluteURL(siteURL, a)
		item := RSSItem{
			Title:       a.Title,
			Link:        link,
			GUID:        link,
			Description: a.Description,
			Category:    a.Category,
		}
		if a.Dated() {
			item.PubDate = a.Published.In(ix.Location()).Format(time.RFC1123Z)
		}
		if a.Image != "" {
			item.Enclosure = &RSSEnclosure{URL: a.Image, Type: imageType(a.Image), Length: "0"}
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ParseRSS reads a feed written by WriteRSS (or any plain RSS 2.0 feed).
func ParseRSS(r io.Reader) (*RSS, error) {
	var feed RSS
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}
	return &feed, nil
}

func imageType(u string) string {
	ext := strings.ToLower(path.Ext(strings.SplitN(u, "?", 2)[0]))
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".avif":
		return "image/avif"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}
