package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"go.uber.org/zap"
)

// DirFetcher scans <Dir>/*.html and builds items from the page metadata.
// Pages without a published_time meta fall back to the file mtime. It
// never writes to the files; see sitegen for that.
type DirFetcher struct {
	Dir     string
	SiteURL string
	Loc     *time.Location
	Log     *zap.Logger
}

func (f *DirFetcher) Name() string {
	return "artikel_dir"
}

func (f *DirFetcher) Fetch(ctx context.Context) ([]Item, error) {
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}
	files, err := HTMLFiles(f.Dir)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		it, err := f.readItem(name)
		if err != nil {
			log.Warn("skip article file", zap.String("file", name), zap.Error(err))
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (f *DirFetcher) readItem(name string) (Item, error) {
	full := filepath.Join(f.Dir, name)
	fh, err := os.Open(full)
	if err != nil {
		return Item{}, err
	}
	defer fh.Close()

	page, err := ParsePage(fh, name, f.SiteURL)
	if err != nil {
		return Item{}, err
	}

	it := Item{
		Title:       page.Title,
		Slug:        name,
		Image:       page.Image,
		Description: page.Description,
		RawDate:     page.PublishedTime,
		Source:      f.Name(),
	}
	if t, ok := article.ParseDate(page.PublishedTime, f.Loc); ok {
		it.PublishedAt = t
	} else {
		st, err := fh.Stat()
		if err != nil {
			return Item{}, err
		}
		it.PublishedAt = st.ModTime()
		it.RawDate = ""
	}
	return it, nil
}

// HTMLFiles lists the *.html names in dir, sorted.
func HTMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read article dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
