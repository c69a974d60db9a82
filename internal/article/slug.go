package article

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf16"
)

var (
	leadingNonWord = regexp.MustCompile(`^[^\w\s]*`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	dashRun        = regexp.MustCompile(`-+`)
)

// CategorySlug turns "🐧 Linux & Open Source" into "linux-and-open-source".
func CategorySlug(name string) string {
	s := strings.TrimSpace(leadingNonWord.ReplaceAllString(name, ""))
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " & ", "-and-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	return dashRun.ReplaceAllString(s, "-")
}

// CategoryURL is the listing page of a category.
func CategoryURL(name string) string {
	return "/artikel/-/" + CategorySlug(name)
}

// AnchorID is the in-page anchor of a category section.
func AnchorID(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// FilenameFromPath maps a request path to the article file name:
// "/artikel/foo.html" and "/artikel/foo/" both give "foo.html".
func FilenameFromPath(p string) string {
	if strings.HasSuffix(p, ".html") {
		return path.Base(p)
	}
	p = strings.TrimSuffix(p, "/")
	return p[strings.LastIndex(p, "/")+1:] + ".html"
}

var gradients = []string{
	"linear-gradient(90deg, #FF4500, #FF7F50)",
	"linear-gradient(90deg, #FFA500, #FFD700)",
	"linear-gradient(90deg, #2E8B57, #3CB371)",
	"linear-gradient(90deg, #8A2BE2, #9370DB)",
	"linear-gradient(90deg, #1E90FF, #4682B4)",
	"linear-gradient(90deg, #2F4F4F, #708090)",
	"linear-gradient(90deg, #696969, #A9A9A9)",
	"linear-gradient(90deg, #ff7e5f, #feb47b)",
	"linear-gradient(90deg, #00c6ff, #0072ff)",
}

// Gradient returns the header background of a category. The choice must
// match the browser-side hash so server and client pages agree.
func Gradient(name string) string {
	return gradients[hashString(name)%int64(len(gradients))]
}

// hashString is the 32-bit "h*31 + c" hash over UTF-16 code units.
func hashString(s string) int64 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
