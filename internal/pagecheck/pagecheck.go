// Package pagecheck is a quick pre-flight for ad review: it fetches a page,
// estimates its text-to-HTML ratio and counts configurable marker strings.
package pagecheck

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidURL    = errors.New("invalid URL")
	ErrEmptyResponse = errors.New("empty response")
)

var (
	schemeRe   = regexp.MustCompile(`(?i)^https?://`)
	preBlockRe = regexp.MustCompile(`(?is)<pre\b[^>]*>.*?</pre>`)
	codeRe     = regexp.MustCompile(`(?is)<code\b[^>]*>.*?</code>`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// NormalizeURL trims raw, prepends https:// when it has no http(s) scheme
// and validates the result.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	if !schemeRe.MatchString(raw) {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" || strings.HasSuffix(u.Host, ":") {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}

// Ratio is the text-to-HTML estimate.
type Ratio struct {
	TextLen int     `json:"textLen"`
	HTMLLen int     `json:"htmlLen"`
	Ratio   float64 `json:"ratio"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

const (
	LabelOK         = "OK (good amount of text)"
	LabelBorderline = "Borderline (consider adding more text)"
	LabelLow        = "Low (may look thin)"
	LabelVeryLow    = "Very low (very thin content)"
)

// RatioLabel maps a ratio to its verdict.
func RatioLabel(r float64) string {
	switch {
	case r >= 0.25:
		return LabelOK
	case r >= 0.15:
		return LabelBorderline
	case r >= 0.10:
		return LabelLow
	default:
		return LabelVeryLow
	}
}

// VisibleText strips tags, decodes entities and collapses whitespace. The
// raw text of <script> and <style> is kept, like PHP's strip_tags.
func VisibleText(doc string) string {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(parsed.Text(), " "))
}

// AnalyzeRatio compares visible characters to raw HTML bytes.
func AnalyzeRatio(doc string) Ratio {
	r := Ratio{HTMLLen: len(doc)}
	r.TextLen = utf8.RuneCountInString(VisibleText(doc))
	if r.HTMLLen > 0 {
		r.Ratio = float64(r.TextLen) / float64(r.HTMLLen)
		r.Percent = math.Round(r.Ratio*1000) / 10
	}
	r.Label = RatioLabel(r.Ratio)
	return r
}

// MarkerHit is one marker found Count times.
type MarkerHit struct {
	Marker string `json:"marker"`
	Count  int    `json:"count"`
}

// ScanMarkers counts case-insensitive occurrences of each marker, in marker
// order, leaving out the ones not found.
func ScanMarkers(haystack string, markers []string) []MarkerHit {
	haystack = strings.ToLower(haystack)
	var found []MarkerHit
	for _, m := range markers {
		needle := strings.ToLower(m)
		if needle == "" {
			continue
		}
		if n := strings.Count(haystack, needle); n > 0 {
			found = append(found, MarkerHit{Marker: m, Count: n})
		}
	}
	return found
}

// StripCode removes <pre> and <code> blocks so samples do not trigger
// markers.
func StripCode(doc string) string {
	doc = preBlockRe.ReplaceAllString(doc, " ")
	return codeRe.ReplaceAllString(doc, " ")
}

// StatusVerdict explains an HTTP status; 0 means unknown.
func StatusVerdict(status int) string {
	switch {
	case status == 0:
		return "Unknown (no status available)"
	case status >= 200 && status < 300:
		return "looks OK"
	case status >= 300 && status < 400:
		return "redirect (check final URL)"
	default:
		return "error status (not ad-ready)"
	}
}

// Report is the outcome of one check.
type Report struct {
	ID         string      `json:"id"`
	URL        string      `json:"url"`
	FinalURL   string      `json:"finalUrl"`
	Status     int         `json:"status"`
	StatusText string      `json:"statusText"`
	Ratio      Ratio       `json:"ratio"`
	Sensitive  []MarkerHit `json:"sensitive"`
	Extra      []MarkerHit `json:"extra"`
	CheckedAt  time.Time   `json:"checkedAt"`
}

// Analyze runs every content check on an already fetched document.
func Analyze(doc string, m Markers) (Ratio, []MarkerHit, []MarkerHit) {
	ratio := AnalyzeRatio(doc)
	clean := StripCode(doc)
	sensitive := ScanMarkers(VisibleText(clean), m.Sensitive)
	extra := ScanMarkers(clean, m.ExtraWindow)
	return ratio, sensitive, extra
}

// Fetcher downloads one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Page is a fetched document.
type Page struct {
	Status   int
	FinalURL string
	Body     []byte
}

// Checker ties fetching and analysis together.
type Checker struct {
	Fetcher Fetcher
	Markers Markers
	Log     *zap.Logger
}

func NewChecker(f Fetcher, m Markers, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{Fetcher: f, Markers: m, Log: log}
}

// Check normalizes raw, fetches it and analyzes the body.
func (c *Checker) Check(ctx context.Context, raw string) (*Report, error) {
	target, err := NormalizeURL(raw)
	if err != nil {
		return nil, err
	}
	page, err := c.Fetcher.Fetch(ctx, target)
	if err != nil {
		c.Log.Info("page check fetch failed", zap.String("url", target), zap.Error(err))
		return nil, err
	}
	if len(page.Body) == 0 {
		return nil, ErrEmptyResponse
	}

	rep := &Report{
		ID:         uuid.NewString(),
		URL:        target,
		FinalURL:   page.FinalURL,
		Status:     page.Status,
		StatusText: StatusVerdict(page.Status),
		CheckedAt:  time.Now(),
	}
	if rep.FinalURL == "" {
		rep.FinalURL = target
	}
	rep.Ratio, rep.Sensitive, rep.Extra = Analyze(string(page.Body), c.Markers)
	c.Log.Debug("page checked",
		zap.String("url", target),
		zap.Int("status", rep.Status),
		zap.Float64("ratio", rep.Ratio.Ratio))
	return rep, nil
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: %d (%s), %.1f%% text, %d sensitive, %d extra-window",
		r.URL, r.Status, r.StatusText, r.Ratio.Percent, len(r.Sensitive), len(r.Extra))
}
