package collector

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTitle is used for pages without a <title>.
const DefaultTitle = "Tanpa Judul"

var validImageExt = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp|avif|svg)$`)

// Page is the metadata extracted from one article HTML file.
type Page struct {
	Title         string
	Description   string
	Image         string
	PublishedTime string
}

// ParsePage extracts the article metadata of file (a name such as
// "foo.html") from its HTML. siteURL is the public origin used to make
// image URLs absolute.
func ParsePage(r io.Reader, file, siteURL string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("parse %s: %w", file, err)
	}

	p := Page{Title: DefaultTitle}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		p.Title = t
	}
	p.Description = metaContent(doc, `meta[name="description"]`)
	p.PublishedTime = metaContent(doc, `meta[property="article:published_time"]`)

	og := metaContent(doc, `meta[property="og:image"]`)
	firstImg, _ := doc.Find("img[src]").First().Attr("src")
	p.Image = ResolveImage(og, strings.TrimSpace(firstImg), file, siteURL)
	return p, nil
}

// ResolveImage picks the card image: og:image, else the first <img> made
// absolute under <site>/artikel/, else <site>/artikel/<base>.jpg. Anything
// without an image extension becomes the site thumbnail.
func ResolveImage(og, firstImg, file, siteURL string) string {
	site := strings.TrimRight(siteURL, "/")
	src := strings.TrimSpace(og)
	if src == "" && firstImg != "" {
		src = firstImg
		if !isRemote(src) {
			src = site + "/artikel/" + strings.TrimLeft(src, "/")
		}
	}
	if src == "" {
		base := strings.TrimSuffix(strings.TrimSuffix(file, ".html"), ".htm")
		src = site + "/artikel/" + base + ".jpg"
	}
	if !validImageExt.MatchString(strings.SplitN(src, "?", 2)[0]) {
		return site + "/thumbnail.jpg"
	}
	return src
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}
