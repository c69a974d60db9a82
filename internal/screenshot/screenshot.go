// Package screenshot captures a cover image for every article page that
// does not have one yet.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/collector"
	"github.com/frijal/ArtikelHub/internal/fsutil"
	"go.uber.org/zap"
)

// DefaultDelay is the pause between two captures.
const DefaultDelay = time.Second

var ErrNoArticleDir = errors.New("screenshot: article folder not found")

// StatusError reports a page that did not answer 200.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("load %s: status %d", e.URL, e.Status)
}

// Shooter captures one URL.
type Shooter interface {
	Shoot(ctx context.Context, url string) ([]byte, error)
}

type Options struct {
	ArticleDir string
	ImageDir   string
	// BaseURL is prefixed to "<name>.html", e.g. https://frijal.pages.dev/artikel/.
	BaseURL string
	Delay   time.Duration
	Log     *zap.Logger
}

// Result lists file names by outcome.
type Result struct {
	Taken   []string
	Skipped []string
	Failed  []string
}

// Run walks ArticleDir strictly in order, one capture at a time. Pages whose
// <ImageDir>/<name>.webp already exists are skipped; failed captures are
// logged and skipped.
func Run(ctx context.Context, s Shooter, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if st, err := os.Stat(opts.ArticleDir); err != nil || !st.IsDir() {
		return nil, ErrNoArticleDir
	}
	if err := os.MkdirAll(opts.ImageDir, 0o755); err != nil {
		return nil, err
	}
	files, err := collector.HTMLFiles(opts.ArticleDir)
	if err != nil {
		return nil, err
	}
	log.Info("articles found", zap.Int("count", len(files)))

	res := &Result{}
	base := strings.TrimRight(opts.BaseURL, "/") + "/"
	for _, file := range files {
		name := strings.TrimSuffix(file, ".html")
		out := filepath.Join(opts.ImageDir, name+".webp")
		if _, err := os.Stat(out); err == nil {
			log.Debug("skip, image exists", zap.String("path", out))
			res.Skipped = append(res.Skipped, file)
			continue
		}

		url := base + name + ".html"
		data, err := s.Shoot(ctx, url)
		if err == nil {
			err = fsutil.WriteFileAtomic(out, data)
		}
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Warn("screenshot failed", zap.String("url", url), zap.Error(err))
			res.Failed = append(res.Failed, file)
		} else {
			log.Info("screenshot saved", zap.String("path", out), zap.Int("bytes", len(data)))
			res.Taken = append(res.Taken, file)
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}
	return res, nil
}
