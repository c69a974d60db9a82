// Package sitegen builds the static site artefacts from the article
// folder: artikel.json, sitemap.xml, rss.xml and feed.html.
package sitegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/categorize"
	"github.com/frijal/ArtikelHub/internal/collector"
	"github.com/frijal/ArtikelHub/internal/fsutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoArticleDir = errors.New("sitegen: article folder not found")

var titleRe = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

// Categorizer assigns a category to a title.
type Categorizer interface {
	Categorize(title string) string
}

type Options struct {
	// ArticleDir holds the article pages and the master artikel.json.
	ArticleDir string
	// MasterPath defaults to <ArticleDir>/artikel.json.
	MasterPath string
	// OutDir receives artikel.json, sitemap.xml and rss.xml.
	OutDir      string
	SiteURL     string
	SiteTitle   string
	Loc         *time.Location
	Categorizer Categorizer
	Workers     int
	Now         func() time.Time
	Log         *zap.Logger
}

func (o *Options) defaults() {
	if o.MasterPath == "" {
		o.MasterPath = filepath.Join(o.ArticleDir, "artikel.json")
	}
	if o.Loc == nil {
		o.Loc = article.DefaultLocation
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.SiteTitle == "" {
		o.SiteTitle = "Frijal"
	}
	o.SiteURL = strings.TrimRight(o.SiteURL, "/")
}

// Result reports what Generate did.
type Result struct {
	Index *article.Index
	// Added are the articles that were not in the master index.
	Added []article.Article
	// Rewritten lists pages whose HTML was fixed in place.
	Rewritten []string
}

type pageResult struct {
	article   article.Article
	rewritten bool
}

// Generate merges every page not yet listed in the master index, fixing
// their <title> and published_time meta on disk, then writes artikel.json,
// sitemap.xml and rss.xml into OutDir. Pages are read concurrently but
// merged in file name order.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	opts.defaults()
	log := opts.Log

	if st, err := os.Stat(opts.ArticleDir); err != nil || !st.IsDir() {
		return nil, ErrNoArticleDir
	}

	master, err := article.Load(opts.MasterPath, opts.Loc)
	if err != nil {
		log.Warn("master index unreadable, starting empty", zap.String("path", opts.MasterPath), zap.Error(err))
		master = article.New(nil, opts.Loc)
	}

	files, err := collector.HTMLFiles(opts.ArticleDir)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, f := range files {
		if master.Contains(f) {
			log.Debug("skip, already in master", zap.String("file", f))
			continue
		}
		pending = append(pending, f)
	}

	results := make([]pageResult, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, file := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := processPage(opts, file)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	groups := master.Groups()
	pos := make(map[string]int, len(groups))
	for i, gr := range groups {
		pos[gr.Name] = i
	}
	out := &Result{}
	for i, res := range results {
		a := res.article
		if res.rewritten {
			out.Rewritten = append(out.Rewritten, pending[i])
		}
		j, ok := pos[a.Category]
		if !ok {
			j = len(groups)
			pos[a.Category] = j
			groups = append(groups, article.Group{Name: a.Category})
		}
		groups[j].Articles = append(groups[j].Articles, a)
		out.Added = append(out.Added, a)
		log.Info("indexed", zap.String("file", a.Slug), zap.String("category", a.Category))
	}
	out.Index = article.New(groups, opts.Loc)

	if err := writeOutputs(opts, out.Index); err != nil {
		return nil, err
	}
	return out, nil
}

func writeOutputs(opts Options, ix *article.Index) error {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return err
	}
	data, err := article.Marshal(ix)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(opts.OutDir, "artikel.json"), data); err != nil {
		return err
	}
	if err := fsutil.WriteAtomic(filepath.Join(opts.OutDir, "sitemap.xml"), func(w io.Writer) error {
		return WriteSitemap(w, ix, opts.SiteURL)
	}); err != nil {
		return err
	}
	ch := Channel{
		Title:       opts.SiteTitle,
		Link:        opts.SiteURL + "/",
		Description: "Artikel terbaru dari " + opts.SiteTitle,
	}
	return fsutil.WriteAtomic(filepath.Join(opts.OutDir, "rss.xml"), func(w io.Writer) error {
		return WriteRSS(w, ix, ch, opts.SiteURL, DefaultFeedSize, opts.Now())
	})
}

func processPage(opts Options, file string) (pageResult, error) {
	path := filepath.Join(opts.ArticleDir, file)
	raw, err := os.ReadFile(path)
	if err != nil {
		return pageResult{}, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return pageResult{}, err
	}

	content := FixTitle(raw)
	changed := !bytes.Equal(content, raw)

	page, err := collector.ParsePage(bytes.NewReader(content), file, opts.SiteURL)
	if err != nil {
		return pageResult{}, err
	}

	var published time.Time
	if page.PublishedTime != "" {
		t, ok := article.ParseDate(page.PublishedTime, opts.Loc)
		if !ok {
			opts.Log.Warn("invalid published_time, using now", zap.String("file", file), zap.String("value", page.PublishedTime))
			t = opts.Now()
		}
		published = t
	} else {
		published = st.ModTime()
		if injected, ok := InjectPublishedTime(content, article.FormatISO8601(published, opts.Loc)); ok {
			content = injected
			changed = true
		}
	}

	if changed {
		if err := fsutil.WriteFileAtomic(path, content); err != nil {
			return pageResult{}, err
		}
	}

	category := ""
	if opts.Categorizer != nil {
		category = opts.Categorizer.Categorize(page.Title)
	}
	if category == "" {
		category = categorize.Fallback
	}

	return pageResult{
		article: article.Article{
			Title:       page.Title,
			Slug:        file,
			Image:       page.Image,
			Published:   published,
			RawDate:     article.FormatISO8601(published, opts.Loc),
			Description: page.Description,
			Category:    category,
		},
		rewritten: changed,
	}, nil
}

// FixTitle puts every <title> on one trimmed line.
func FixTitle(content []byte) []byte {
	return titleRe.ReplaceAllFunc(content, func(m []byte) []byte {
		inner := titleRe.FindSubmatch(m)[1]
		return append(append([]byte("<title>"), bytes.TrimSpace(inner)...), "</title>"...)
	})
}

// InjectPublishedTime adds an article:published_time meta right before
// </head>. It reports false when the page has no </head>.
func InjectPublishedTime(content []byte, iso string) ([]byte, bool) {
	i := bytes.Index(content, []byte("</head>"))
	if i < 0 {
		return content, false
	}
	tag := fmt.Sprintf("    <meta property=\"article:published_time\" content=\"%s\">\n", iso)
	out := make([]byte, 0, len(content)+len(tag))
	out = append(out, content[:i]...)
	out = append(out, tag...)
	out = append(out, content[i:]...)
	return out, true
}
