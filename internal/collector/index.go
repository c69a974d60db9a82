package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
)

const (
	indexMaxResponseBytes = 16 << 20 // 16MB
	indexClientTimeout    = 10 * time.Second
)

// IndexFetcher reads artikel.json from a local path or an http(s) URL.
type IndexFetcher struct {
	Location string
	Loc      *time.Location
	Client   *http.Client
}

func (f *IndexFetcher) Name() string {
	return "artikel_index"
}

func (f *IndexFetcher) Fetch(ctx context.Context) ([]Item, error) {
	data, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	ix, err := article.ParseIn(data, f.Loc)
	if err != nil {
		return nil, fmt.Errorf("artikel index: parse %s: %w", f.Location, err)
	}
	return ItemsFromIndex(f.Name(), ix), nil
}

func (f *IndexFetcher) read(ctx context.Context) ([]byte, error) {
	if !isRemote(f.Location) {
		data, err := os.ReadFile(f.Location)
		if err != nil {
			return nil, fmt.Errorf("artikel index: read %s: %w", f.Location, err)
		}
		return data, nil
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: indexClientTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("artikel index: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artikel index: fetch %s: %w", f.Location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artikel index: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, indexMaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("artikel index: read body: %w", err)
	}
	return body, nil
}

func isRemote(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
