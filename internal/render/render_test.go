package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/pagecheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *article.Index {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 1, 0, 0, 0, time.UTC) }
	return article.New([]article.Group{
		{Name: "🐧 Linux", Articles: []article.Article{
			{Title: "Instal Arch Linux dari nol sampai desktop yang siap dipakai harian", Slug: "arch.html", Image: "https://x.test/arch.jpg", Published: day(10), Description: "Panduan <lengkap>"},
			{Title: "Systemd", Slug: "systemd.html", Published: day(5)},
		}},
		{Name: "📚 Catatan", Articles: []article.Article{
			{Title: "Belajar Go", Slug: "go.html", Published: day(7)},
		}},
	}, time.UTC)
}

func TestGridPage(t *testing.T) {
	r, err := New(time.UTC)
	require.NoError(t, err)
	ix := testIndex()
	hero, _ := ix.Hero()

	q := article.Query{Category: "🐧 Linux", Page: 1, PageSize: 1}
	data := GridData{
		SiteTitle:  "Frijal",
		Hero:       &hero,
		Page:       ix.Query(q),
		Query:      q,
		Categories: ix.Categories(),
		Archive:    ix.Archive(),
		Sidebar:    ix.All(),
	}
	var buf bytes.Buffer
	require.NoError(t, r.Execute(&buf, GridTemplate, data))
	out := buf.String()

	assert.Contains(t, out, `<h1>Instal Arch Linux dari nol`)
	assert.Contains(t, out, `Panduan &lt;lengkap&gt;`)
	assert.Contains(t, out, `href="/artikel/arch.html"`)
	assert.Contains(t, out, "10 Maret 2025")
	assert.Contains(t, out, "linear-gradient(")
	assert.Contains(t, out, `href="/kategori/catatan"`)
	assert.Contains(t, out, `<option value="3">Maret</option>`)
	// sidebar title cut to 45 columns
	assert.Contains(t, out, ">Instal Arch Linux dari nol sampai desktop ...</a>")
	assert.Contains(t, out, "10 Mar")
	// page 1 of 2 in the Linux category
	assert.Contains(t, out, `id="loadMoreBtn"`)
	assert.Contains(t, out, "page=2")
	assert.NotContains(t, out, "Sebelumnya")
}

func TestGridPageErrorAndEmpty(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Execute(&buf, GridTemplate, GridData{Error: "index tidak tersedia"}))
	assert.Contains(t, buf.String(), "Error: index tidak tersedia")

	buf.Reset()
	require.NoError(t, r.Execute(&buf, GridTemplate, GridData{Page: article.Paginate(nil, 1, 10)}))
	assert.Contains(t, buf.String(), "Tidak ada artikel ditemukan.")
}

func TestFeedPage(t *testing.T) {
	r, err := New(time.UTC)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Execute(&buf, FeedTemplate, FeedData{
		SiteTitle: "Frijal",
		Cards: []FeedCard{
			{Title: "Satu", Link: "https://x.test/1.html", Image: "https://x.test/1.jpg", Snippet: "Ringkas", Published: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
			{Title: "Dua", Link: "https://x.test/2.html", Snippet: "Tidak ada ringkasan."},
		},
	}))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `class="article-card"`))
	assert.Equal(t, 1, strings.Count(out, `class="card-image"`))
	assert.Contains(t, out, "2 Januari 2025")
	assert.Contains(t, out, "Tidak ada ringkasan.")
}

func TestReportPage(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	rep := &pagecheck.Report{
		ID:         "abc",
		Status:     200,
		StatusText: pagecheck.StatusVerdict(200),
		Ratio:      pagecheck.AnalyzeRatio("<p>abcd</p>"),
		Extra:      []pagecheck.MarkerHit{{Marker: "overlay_pattern", Count: 2}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Execute(&buf, ReportTemplate, ReportData{URL: "https://x.test", Report: rep}))
	out := buf.String()
	assert.Contains(t, out, "200 &ndash; looks OK")
	assert.Contains(t, out, "36.4% text")
	assert.Contains(t, out, "<li>overlay_pattern (2)</li>")
	assert.Contains(t, out, "none found")

	buf.Reset()
	require.NoError(t, r.Execute(&buf, ReportTemplate, ReportData{URL: "bad", Error: "invalid URL"}))
	assert.Contains(t, buf.String(), `<div class="error">invalid URL</div>`)
	assert.NotContains(t, buf.String(), "HTTP status")
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "/", pageURL(article.Query{Category: "all"}, 1))
	assert.Equal(t, "/?month=3&page=2&q=go+lang&year=2025", pageURL(article.Query{Text: "go lang", Year: 2025, Month: 3}, 2))

	// a non-default page size survives paging so page 2 starts after item 20
	assert.Equal(t, "/?page=2&pageSize=20", pageURL(article.Query{PageSize: 20}, 2))
	assert.Equal(t, "/?pageSize=20", pageURL(article.Query{PageSize: 20}, 1))
	assert.Equal(t, "/?page=2", pageURL(article.Query{PageSize: article.DefaultPageSize}, 2))
}
