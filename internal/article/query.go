package article

import (
	"math/rand/v2"
	"sort"
	"strings"
)

const (
	DefaultPageSize    = 10
	MaxPageSize        = 100
	DefaultLatest      = 12
	DefaultSearchLimit = 20
	MinSearchLen       = 2
	HeroExcerptLen     = 150
)

// Query filters the flattened list. Zero values mean "no filter";
// Month is 1-12.
type Query struct {
	Text     string
	Category string
	Year     int
	Month    int
	Page     int
	PageSize int
}

// Page is one slice of a filtered list.
type Page struct {
	Items    []Article `json:"items"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"hasMore"`
}

// Filter returns the matching articles, newest first.
func (ix *Index) Filter(q Query) []Article {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]Article, 0, len(ix.all))
	for _, a := range ix.all {
		if q.Category != "" && q.Category != "all" && a.Category != q.Category {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(a.Title), text) &&
			!strings.Contains(strings.ToLower(a.Description), text) {
			continue
		}
		if q.Year != 0 || q.Month != 0 {
			if !a.Dated() {
				continue
			}
			t := a.Published.In(ix.loc)
			if q.Year != 0 && t.Year() != q.Year {
				continue
			}
			if q.Month != 0 && int(t.Month()) != q.Month {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// Query filters and paginates in one step.
func (ix *Index) Query(q Query) Page {
	return Paginate(ix.Filter(q), q.Page, q.PageSize)
}

// Paginate slices list[(page-1)*size : page*size]. page < 1 is treated as
// the first page; size defaults to DefaultPageSize and is capped.
func Paginate(list []Article, page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	start := (page - 1) * size
	end := start + size
	p := Page{Page: page, PageSize: size, Total: len(list), Items: []Article{}}
	if start < len(list) {
		if end > len(list) {
			end = len(list)
		}
		p.Items = list[start:end]
	}
	p.HasMore = page*size < len(list)
	return p
}

// Hero is the featured (newest) article.
type Hero struct {
	Article
	Excerpt string `json:"excerpt"`
}

func (ix *Index) Hero() (Hero, bool) {
	if len(ix.all) == 0 {
		return Hero{}, false
	}
	a := ix.all[0]
	return Hero{Article: a, Excerpt: Truncate(a.Description, HeroExcerptLen)}, true
}

// CategoryInfo describes one category pill / table-of-contents header.
type CategoryInfo struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Anchor   string `json:"anchor"`
	URL      string `json:"url"`
	Gradient string `json:"gradient"`
	Count    int    `json:"count"`
}

// Categories lists every non-empty category, biggest first; ties keep file order.
func (ix *Index) Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(ix.groups))
	for _, g := range ix.groups {
		if len(g.Articles) == 0 {
			continue
		}
		out = append(out, CategoryInfo{
			Name:     g.Name,
			Slug:     CategorySlug(g.Name),
			Anchor:   AnchorID(g.Name),
			URL:      CategoryURL(g.Name),
			Gradient: Gradient(g.Name),
			Count:    len(g.Articles),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// CategoryBySlug resolves a CategorySlug back to its name.
func (ix *Index) CategoryBySlug(slug string) (string, bool) {
	for _, g := range ix.groups {
		if CategorySlug(g.Name) == slug {
			return g.Name, true
		}
	}
	return "", false
}

// Archive feeds the year/month selectors.
type Archive struct {
	Years  []int          `json:"years"`
	Months []string       `json:"months"`
	Counts map[string]int `json:"counts"`
}

func (ix *Index) Archive() Archive {
	ar := Archive{Months: MonthNames[:], Counts: make(map[string]int), Years: []int{}}
	seen := make(map[int]bool)
	for _, a := range ix.all {
		if !a.Dated() {
			continue
		}
		t := a.Published.In(ix.loc)
		if !seen[t.Year()] {
			seen[t.Year()] = true
			ar.Years = append(ar.Years, t.Year())
		}
		ar.Counts[t.Format("2006-01")]++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ar.Years)))
	return ar
}

// Section is one block of the index page.
type Section struct {
	Title    string    `json:"title"`
	Anchor   string    `json:"anchor"`
	Articles []Article `json:"articles"`
}

// Sections returns the "latest" block followed by one block per category
// (alphabetical) holding the articles the latest block did not show.
func (ix *Index) Sections(latest int) []Section {
	if latest <= 0 {
		latest = DefaultLatest
	}
	var out []Section
	shown := make(map[string]bool)

	var dated []Article
	for _, a := range ix.all {
		if a.Dated() {
			dated = append(dated, a)
		}
	}
	if len(dated) > 0 {
		if len(dated) > latest {
			dated = dated[:latest]
		}
		for _, a := range dated {
			shown[a.Slug] = true
		}
		out = append(out, Section{Title: "Artikel Terbaru", Anchor: "terbaru", Articles: dated})
	}

	names := make([]string, 0, len(ix.groups))
	byName := make(map[string][]Article, len(ix.groups))
	for _, g := range ix.groups {
		names = append(names, g.Name)
		byName[g.Name] = g.Articles
	}
	sort.Strings(names)
	for _, name := range names {
		var rest []Article
		for _, a := range byName[name] {
			if !shown[a.Slug] {
				rest = append(rest, a)
			}
		}
		if len(rest) == 0 {
			continue
		}
		sortNewest(rest)
		out = append(out, Section{Title: name, Anchor: AnchorID(name), Articles: rest})
	}
	return out
}

// TOCEntry is one numbered line of the table of contents.
type TOCEntry struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Slug   string `json:"slug"`
	Date   string `json:"date"`
}

type TOCCategory struct {
	CategoryInfo
	Entries []TOCEntry `json:"entries"`
}

type TOC struct {
	Total      int           `json:"total"`
	Categories []TOCCategory `json:"categories"`
}

// TOC groups the index by category, biggest category first, each newest first.
func (ix *Index) TOC() TOC {
	toc := TOC{Total: len(ix.all)}
	byName := make(map[string][]Article, len(ix.groups))
	for _, g := range ix.groups {
		list := append([]Article(nil), g.Articles...)
		sortNewest(list)
		byName[g.Name] = list
	}
	for _, info := range ix.Categories() {
		tc := TOCCategory{CategoryInfo: info}
		for i, a := range byName[info.Name] {
			tc.Entries = append(tc.Entries, TOCEntry{
				Number: i + 1,
				Title:  a.Title,
				URL:    a.URL(),
				Slug:   a.Slug,
				Date:   FormatShort(a.Published, ix.loc),
			})
		}
		toc.Categories = append(toc.Categories, tc)
	}
	return toc
}

// SearchHit is one floating-search result.
type SearchHit struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// Search matches title or description. Queries shorter than MinSearchLen
// return nothing.
func (ix *Index) Search(q string, limit int) []SearchHit {
	q = strings.ToLower(strings.TrimSpace(q))
	if len([]rune(q)) < MinSearchLen {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	var out []SearchHit
	for _, g := range ix.groups {
		for _, a := range g.Articles {
			if !strings.Contains(strings.ToLower(a.Title), q) &&
				!strings.Contains(strings.ToLower(a.Description), q) {
				continue
			}
			out = append(out, SearchHit{Category: g.Name, Title: a.Title, URL: a.URL()})
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// Nav is the floating prev/next bar of an article page.
type Nav struct {
	Category    string   `json:"category"`
	CategoryURL string   `json:"categoryUrl"`
	Prev        *Article `json:"prev,omitempty"`
	Next        *Article `json:"next,omitempty"`
}

// Navigate finds filename and its neighbours inside the category, newest
// first, wrapping at both ends.
func (ix *Index) Navigate(filename string) (Nav, bool) {
	list, idx, name := ix.locate(filename)
	if idx < 0 {
		return Nav{}, false
	}
	nav := Nav{Category: name, CategoryURL: CategoryURL(name)}
	if n := len(list); n > 1 {
		next := list[(idx+1)%n]
		prev := list[(idx-1+n)%n]
		nav.Next = &next
		nav.Prev = &prev
	}
	return nav, true
}

// Related returns the other articles of filename's category that are not
// in read, shuffled. rnd may be nil.
func (ix *Index) Related(filename string, read []string, rnd *rand.Rand) ([]Article, bool) {
	list, idx, _ := ix.locate(filename)
	if idx < 0 {
		return nil, false
	}
	seen := make(map[string]bool, len(read)+1)
	for _, r := range read {
		seen[r] = true
	}
	seen[filename] = true
	out := make([]Article, 0, len(list))
	for _, a := range list {
		if !seen[a.Slug] {
			out = append(out, a)
		}
	}
	shuffle(out, rnd)
	return out, true
}

// Random returns up to n distinct articles in random order.
func (ix *Index) Random(n int, rnd *rand.Rand) []Article {
	list := append([]Article(nil), ix.all...)
	shuffle(list, rnd)
	if n >= 0 && n < len(list) {
		list = list[:n]
	}
	return list
}

func (ix *Index) locate(filename string) ([]Article, int, string) {
	for _, g := range ix.groups {
		list := append([]Article(nil), g.Articles...)
		sortNewest(list)
		for i, a := range list {
			if a.Slug == filename {
				return list, i, g.Name
			}
		}
	}
	return nil, -1, ""
}

func shuffle(list []Article, rnd *rand.Rand) {
	swap := func(i, j int) { list[i], list[j] = list[j], list[i] }
	if rnd != nil {
		rnd.Shuffle(len(list), swap)
		return
	}
	rand.Shuffle(len(list), swap)
}

// Truncate cuts s to n runes and appends "..." when something was cut.
func Truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return strings.TrimSpace(string(rs[:n])) + "..."
}
