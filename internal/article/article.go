// Package article holds the article index read model: decoding artikel.json,
// flattening it into a date-sorted list and answering every read view the
// site renders (grid pages, archive, sidebar, navigation, search).
package article

import (
	"os"
	"sort"
	"strings"
	"time"
)

// Article is one flattened entry of the index.
type Article struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Image       string    `json:"image"`
	Published   time.Time `json:"published"`
	RawDate     string    `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
}

// Dated reports whether the publish date parsed.
func (a Article) Dated() bool {
	return !a.Published.IsZero()
}

// URL returns the public path of the article page.
func (a Article) URL() string {
	if strings.HasPrefix(a.Slug, "http://") || strings.HasPrefix(a.Slug, "https://") || strings.HasPrefix(a.Slug, "/") {
		return a.Slug
	}
	return "/artikel/" + a.Slug
}

// Tuple returns the on-disk representation [title, slug, image, date, description].
func (a Article) Tuple() []string {
	return []string{a.Title, a.Slug, a.Image, a.RawDate, a.Description}
}

// Group is one category key of artikel.json with its tuples in file order.
type Group struct {
	Name     string
	Articles []Article
}

// Index is an immutable snapshot of artikel.json.
type Index struct {
	groups []Group
	all    []Article
	bySlug map[string]int
	loc    *time.Location
}

// DefaultLocation is the site time zone used for archive buckets and date labels.
var DefaultLocation *time.Location

func init() {
	DefaultLocation, _ = time.LoadLocation("Asia/Jakarta")
	if DefaultLocation == nil {
		DefaultLocation = time.FixedZone("WIB", 7*3600)
	}
}

// New builds an index from groups. Category names on the articles are
// overwritten with their group name.
func New(groups []Group, loc *time.Location) *Index {
	if loc == nil {
		loc = DefaultLocation
	}
	ix := &Index{
		groups: make([]Group, 0, len(groups)),
		bySlug: make(map[string]int),
		loc:    loc,
	}
	for _, g := range groups {
		cp := Group{Name: g.Name, Articles: make([]Article, 0, len(g.Articles))}
		for _, a := range g.Articles {
			a.Category = g.Name
			cp.Articles = append(cp.Articles, a)
			ix.all = append(ix.all, a)
		}
		ix.groups = append(ix.groups, cp)
	}
	sortNewest(ix.all)
	for i, a := range ix.all {
		if _, ok := ix.bySlug[a.Slug]; !ok {
			ix.bySlug[a.Slug] = i
		}
	}
	return ix
}

// Load reads and parses an index file.
func Load(path string, loc *time.Location) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseIn(data, loc)
}

// Groups returns a copy of the category groups in file order.
func (ix *Index) Groups() []Group {
	out := make([]Group, len(ix.groups))
	for i, g := range ix.groups {
		out[i] = Group{Name: g.Name, Articles: append([]Article(nil), g.Articles...)}
	}
	return out
}

// All returns every article, newest first. The slice must not be modified.
func (ix *Index) All() []Article {
	return ix.all
}

// Len returns the number of articles.
func (ix *Index) Len() int {
	return len(ix.all)
}

// Location returns the site time zone of the index.
func (ix *Index) Location() *time.Location {
	return ix.loc
}

// Find looks an article up by slug.
func (ix *Index) Find(slug string) (Article, bool) {
	i, ok := ix.bySlug[slug]
	if !ok {
		return Article{}, false
	}
	return ix.all[i], true
}

// Contains reports whether slug is already indexed.
func (ix *Index) Contains(slug string) bool {
	_, ok := ix.bySlug[slug]
	return ok
}

// sortNewest orders by publish date descending; undated articles go last
// and keep their relative order.
func sortNewest(list []Article) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Dated() != b.Dated() {
			return a.Dated()
		}
		return a.Published.After(b.Published)
	})
}
