package collector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const site = "https://frijal.pages.dev"

func TestParsePageReadsMeta(t *testing.T) {
	html := `<html><head>
<title>
   Belajar Go   </title>
<meta name="description" content=" Pengantar bahasa Go ">
<meta property="article:published_time" content="2025-03-10T08:00:00+07:00">
<meta property="og:image" content="https://cdn.example.com/go.png?w=800">
</head><body><img src="lain.jpg"></body></html>`

	p, err := ParsePage(strings.NewReader(html), "belajar-go.html", site)
	require.NoError(t, err)
	assert.Equal(t, "Belajar Go", p.Title)
	assert.Equal(t, "Pengantar bahasa Go", p.Description)
	assert.Equal(t, "2025-03-10T08:00:00+07:00", p.PublishedTime)
	assert.Equal(t, "https://cdn.example.com/go.png?w=800", p.Image)
}

func TestParsePageDefaults(t *testing.T) {
	p, err := ParsePage(strings.NewReader(`<html><body><p>isi</p></body></html>`), "kosong.html", site+"/")
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Empty(t, p.Description)
	assert.Empty(t, p.PublishedTime)
	assert.Equal(t, site+"/artikel/kosong.jpg", p.Image)
}

func TestResolveImage(t *testing.T) {
	cases := []struct {
		name, og, img, want string
	}{
		{"og wins", "https://x.test/a.webp", "b.jpg", "https://x.test/a.webp"},
		{"relative first img", "", "/gambar/b.JPG", site + "/artikel/gambar/b.JPG"},
		{"absolute first img", "", "http://x.test/c.png", "http://x.test/c.png"},
		{"base name fallback", "", "", site + "/artikel/halaman.jpg"},
		{"bad extension", "https://x.test/render.php?id=1", "", site + "/thumbnail.jpg"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ResolveImage(c.og, c.img, "halaman.html", site))
		})
	}
}
