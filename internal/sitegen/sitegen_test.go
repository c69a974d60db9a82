package sitegen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/categorize"
	"github.com/frijal/ArtikelHub/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleCategorizer map[string]string

func (m titleCategorizer) Categorize(title string) string {
	for word, cat := range m {
		if strings.Contains(title, word) {
			return cat
		}
	}
	return ""
}

const master = `{
  "🐧 Linux & Open Source": [
    ["Catatan Lama","lama.html","https://frijal.pages.dev/img/lama.webp","2024-01-01T00:00:00+07:00","lama sekali"]
  ]
}`

const datedPage = `<html><head>
<title>
   Belajar Go
</title>
<meta name="description" content="Dasar bahasa Go">
<meta property="og:image" content="https://frijal.pages.dev/img/go.webp">
<meta property="article:published_time" content="2025-02-01T10:00:00+07:00">
</head><body><p>isi</p></body></html>`

const undatedPage = `<html><head><title>Tanpa Tanggal</title>
</head><body><img src="gambar/foto.png"></body></html>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGenerateMergesOnlyNewPages(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(dir, "artikel.json"), master)
	writeFile(t, filepath.Join(dir, "lama.html"), "<html><head><title>Lama</title></head></html>")
	writeFile(t, filepath.Join(dir, "belajar-go.html"), datedPage)
	writeFile(t, filepath.Join(dir, "tanpa-tanggal.html"), undatedPage)

	mtime := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "tanpa-tanggal.html"), mtime, mtime))

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	res, err := Generate(context.Background(), Options{
		ArticleDir:  dir,
		OutDir:      out,
		SiteURL:     "https://frijal.pages.dev/",
		Loc:         time.UTC,
		Categorizer: titleCategorizer{"Go": "📚 Catatan"},
		Workers:     2,
		Now:         func() time.Time { return now },
	})
	require.NoError(t, err)

	require.Len(t, res.Added, 2)
	assert.Equal(t, "belajar-go.html", res.Added[0].Slug)
	assert.Equal(t, "Belajar Go", res.Added[0].Title)
	assert.Equal(t, "📚 Catatan", res.Added[0].Category)
	assert.Equal(t, "https://frijal.pages.dev/img/go.webp", res.Added[0].Image)

	undated := res.Added[1]
	assert.Equal(t, "tanpa-tanggal.html", undated.Slug)
	assert.Equal(t, categorize.Fallback, undated.Category)
	assert.Equal(t, "https://frijal.pages.dev/artikel/gambar/foto.png", undated.Image)
	assert.True(t, undated.Published.Equal(mtime))
	assert.Equal(t, "2025-01-02T03:04:05.000+00:00", undated.RawDate)

	assert.ElementsMatch(t, []string{"belajar-go.html", "tanpa-tanggal.html"}, res.Rewritten)

	fixed, err := os.ReadFile(filepath.Join(dir, "belajar-go.html"))
	require.NoError(t, err)
	assert.Contains(t, string(fixed), "<title>Belajar Go</title>")

	injected, err := os.ReadFile(filepath.Join(dir, "tanpa-tanggal.html"))
	require.NoError(t, err)
	assert.Contains(t, string(injected), `<meta property="article:published_time" content="2025-01-02T03:04:05.000+00:00">`)

	names := []string{}
	for _, g := range res.Index.Groups() {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"🐧 Linux & Open Source", "📚 Catatan", categorize.Fallback}, names)
	assert.Equal(t, 3, res.Index.Len())

	data, err := os.ReadFile(filepath.Join(out, "artikel.json"))
	require.NoError(t, err)
	ix, err := article.ParseIn(data, time.UTC)
	require.NoError(t, err)
	assert.True(t, ix.Contains("lama.html"))
	assert.True(t, ix.Contains("tanpa-tanggal.html"))

	sitemap, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<loc>https://frijal.pages.dev/artikel/belajar-go.html</loc>")
	assert.Contains(t, string(sitemap), "<image:loc>https://frijal.pages.dev/img/go.webp</image:loc>")

	rss, err := os.ReadFile(filepath.Join(out, "rss.xml"))
	require.NoError(t, err)
	feed, err := ParseRSS(bytes.NewReader(rss))
	require.NoError(t, err)
	require.Len(t, feed.Channel.Items, 3)
	assert.Equal(t, "Belajar Go", feed.Channel.Items[0].Title)
	assert.Equal(t, now.Format(time.RFC1123Z), feed.Channel.LastBuildDate)

	// a second run finds nothing new
	again, err := Generate(context.Background(), Options{ArticleDir: dir, MasterPath: filepath.Join(out, "artikel.json"), OutDir: out, Loc: time.UTC})
	require.NoError(t, err)
	assert.Empty(t, again.Added)
	assert.Equal(t, 3, again.Index.Len())
}

func TestGenerateMissingDirAndCorruptMaster(t *testing.T) {
	_, err := Generate(context.Background(), Options{ArticleDir: filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, ErrNoArticleDir)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "artikel.json"), "{rusak")
	writeFile(t, filepath.Join(dir, "a.html"), datedPage)
	res, err := Generate(context.Background(), Options{ArticleDir: dir, OutDir: t.TempDir(), Loc: time.UTC})
	require.NoError(t, err)
	assert.Len(t, res.Added, 1)
}

func TestGenerateInvalidMetaDateUsesNow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.html"), `<html><head><title>X</title><meta property="article:published_time" content="kemarin"></head></html>`)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	res, err := Generate(context.Background(), Options{ArticleDir: dir, OutDir: t.TempDir(), Loc: time.UTC, Now: func() time.Time { return now }})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.True(t, res.Added[0].Published.Equal(now))
	assert.Empty(t, res.Rewritten)
}

func TestFixTitle(t *testing.T) {
	got := FixTitle([]byte("<head><TITLE>\n  Judul  \n</TITLE></head>"))
	assert.Equal(t, "<head><title>Judul</title></head>", string(got))
}

func TestInjectPublishedTime(t *testing.T) {
	_, ok := InjectPublishedTime([]byte("<html><body></body></html>"), "2025")
	assert.False(t, ok)

	out, ok := InjectPublishedTime([]byte("<head>\n</head>"), "2025-01-01T00:00:00.000+07:00")
	require.True(t, ok)
	assert.Equal(t, "<head>\n    <meta property=\"article:published_time\" content=\"2025-01-01T00:00:00.000+07:00\">\n</head>", string(out))
}

func TestWriteRSSLimitAndEnclosure(t *testing.T) {
	var groups []article.Group
	g := article.Group{Name: "A"}
	for i := 0; i < 5; i++ {
		g.Articles = append(g.Articles, article.Article{
			Title:     "T",
			Slug:      "t.html",
			Image:     "https://x/img.png?v=1",
			Published: time.Date(2025, 1, i+1, 0, 0, 0, 0, time.UTC),
		})
	}
	groups = append(groups, g)
	ix := article.New(groups, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteRSS(&buf, ix, Channel{Title: "Frijal"}, "https://x", 2, time.Now()))
	feed, err := ParseRSS(&buf)
	require.NoError(t, err)
	require.Len(t, feed.Channel.Items, 2)
	require.NotNil(t, feed.Channel.Items[0].Enclosure)
	assert.Equal(t, "image/png", feed.Channel.Items[0].Enclosure.Type)
	assert.Equal(t, "https://x/artikel/t.html", feed.Channel.Items[0].Link)
	assert.Equal(t, "Sun, 05 Jan 2025 00:00:00 +0000", feed.Channel.Items[0].PubDate)
}

func TestSitemapSkipsLastmodForUndated(t *testing.T) {
	ix := article.New([]article.Group{{Name: "A", Articles: []article.Article{{Title: "U", Slug: "u.html"}}}}, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, WriteSitemap(&buf, ix, "https://x"))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.NotContains(t, out, "<lastmod>")
	assert.NotContains(t, out, "<image:image>")
	assert.Contains(t, out, "<priority>0.6</priority>")
	assert.Contains(t, out, "<changefreq>monthly</changefreq>")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "Halo & dunia", Snippet("<p>Halo &amp; <b>dunia</b></p>"))
	assert.Equal(t, NoSnippet, Snippet("  <br> "))
}

func TestBuildFeedPage(t *testing.T) {
	dir := t.TempDir()
	rssPath := filepath.Join(dir, "rss.xml")
	writeFile(t, rssPath, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Frijal</title>
<item><title>Belajar Go</title><link>https://x/artikel/go.html</link>
<pubDate>Sat, 01 Feb 2025 03:00:00 +0000</pubDate><description></description>
<enclosure url="https://x/go.webp" type="image/webp" length="0"/></item>
</channel></rss>`)

	r, err := render.New(time.UTC)
	require.NoError(t, err)
	outPath := filepath.Join(dir, "feed.html")
	n, err := BuildFeedPage(rssPath, outPath, r)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	html, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Belajar Go")
	assert.Contains(t, string(html), NoSnippet)
	assert.Contains(t, string(html), "1 Februari 2025")
	assert.Contains(t, string(html), `src="https://x/go.webp"`)

	_, err = BuildFeedPage(filepath.Join(dir, "missing.xml"), outPath, r)
	assert.Error(t, err)
}
