package sitegen

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/frijal/ArtikelHub/internal/article"
)

const (
	sitemapNS      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapImageNS = "http://www.google.com/schemas/sitemap-image/1.1"

	sitemapPriority   = "0.6"
	sitemapChangefreq = "monthly"
)

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	XmlnsIm string       `xml:"xmlns:image,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string        `xml:"loc"`
	Lastmod    string        `xml:"lastmod,omitempty"`
	Priority   string        `xml:"priority"`
	Changefreq string        `xml:"changefreq"`
	Image      *sitemapImage `xml:"image:image,omitempty"`
}

type sitemapImage struct {
	Loc string `xml:"image:loc"`
}

// AbsoluteURL turns an article slug into its public URL.
func AbsoluteURL(siteURL string, a article.Article) string {
	u := a.URL()
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(siteURL, "/") + u
}

// WriteSitemap writes every indexed article, newest first.
func WriteSitemap(w io.Writer, ix *article.Index, siteURL string) error {
	set := urlset{Xmlns: sitemapNS, XmlnsIm: sitemapImageNS}
	for _, a := range ix.All() {
		u := sitemapURL{
			Loc:        AbsoluteURL(siteURL, a),
			Priority:   sitemapPriority,
			Changefreq: sitemapChangefreq,
		}
		if a.Dated() {
			u.Lastmod = article.FormatISO8601(a.Published, ix.Location())
		}
		if a.Image != "" {
			u.Image = &sitemapImage{Loc: a.Image}
		}
		set.URLs = append(set.URLs, u)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
