// Package render holds the server-side HTML pages: the article grid, the
// RSS feed page and the page-check report.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/pagecheck"
	"github.com/mattn/go-runewidth"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	GridTemplate   = "grid.html"
	FeedTemplate   = "feed.html"
	ReportTemplate = "pagecheck.html"

	// SidebarTitleWidth is the display width of sidebar titles.
	SidebarTitleWidth = 45
)

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
	loc  *time.Location
}

// New parses the templates; dates are shown in loc.
func New(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = article.DefaultLocation
	}
	r := &Renderer{loc: loc}
	tmpl, err := template.New("").Funcs(r.funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Templates exposes the set for gin's SetHTMLTemplate.
func (r *Renderer) Templates() *template.Template {
	return r.tmpl
}

// Execute renders one named template.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"longDate":  func(t time.Time) string { return article.FormatLong(t, r.loc) },
		"shortDate": func(t time.Time) string { return article.FormatMonthDay(t, r.loc) },
		"sidebarTitle": func(s string) string {
			return runewidth.Truncate(s, SidebarTitleWidth, "...")
		},
		"gradient": func(name string) template.CSS { return template.CSS(article.Gradient(name)) },
		"inc":      func(i int) int { return i + 1 },
		"dec":      func(i int) int { return i - 1 },
		"pageURL":  pageURL,
	}
}

// GridData feeds grid.html.
type GridData struct {
	SiteTitle  string
	Hero       *article.Hero
	Page       article.Page
	Query      article.Query
	Categories []article.CategoryInfo
	Archive    article.Archive
	Sidebar    []article.Article
	Error      string
}

// FeedCard is one entry of the feed page.
type FeedCard struct {
	Title     string
	Link      string
	Image     string
	Snippet   string
	Published time.Time
}

// FeedData feeds feed.html.
type FeedData struct {
	SiteTitle string
	Cards     []FeedCard
}

// ReportData feeds pagecheck.html.
type ReportData struct {
	URL    string
	Report *pagecheck.Report
	Error  string
}

func pageURL(q article.Query, page int) string {
	v := url.Values{}
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	if q.Category != "" && q.Category != "all" {
		v.Set("category", q.Category)
	}
	if q.Year != 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	if q.Month != 0 {
		v.Set("month", strconv.Itoa(q.Month))
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if q.PageSize > 0 && q.PageSize != article.DefaultPageSize {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}
