package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/frijal/ArtikelHub/internal/collector"
	"github.com/frijal/ArtikelHub/internal/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	name  string
	items []collector.Item
	err   error
}

func (f *staticFetcher) Name() string { return f.name }

func (f *staticFetcher) Fetch(ctx context.Context) ([]collector.Item, error) {
	return f.items, f.err
}

type memSaver struct {
	mu    sync.Mutex
	saved [][]processor.ProcessedArticle
}

func (m *memSaver) SaveArticles(_ context.Context, items []processor.ProcessedArticle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, items)
	return nil
}

func TestRunOnceMergesInFetcherOrder(t *testing.T) {
	index := &staticFetcher{name: "artikel_index", items: []collector.Item{
		{Title: "Dari Index", Slug: "a.html", Category: "📚 Catatan"},
	}}
	dir := &staticFetcher{name: "artikel_dir", items: []collector.Item{
		{Title: "Dari Folder", Slug: "a.html"},
		{Title: "Baru", Slug: "b.html"},
	}}
	store := &memSaver{}
	s, err := New("", []collector.Fetcher{index, dir}, processor.NewSimpleProcessor(nil, time.UTC), store, nil)
	require.NoError(t, err)

	var hooked *Report
	s.OnSync(func(_ context.Context, r *Report) { hooked = r })

	rep, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"artikel_index": 1, "artikel_dir": 2}, rep.Fetched)
	assert.Equal(t, 2, rep.Saved)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "Dari Index", store.saved[0][0].Title)
	assert.Equal(t, "b.html", store.saved[0][1].Slug)
	assert.Same(t, rep, hooked)
}

func TestRunOnceKeepsSnapshotOnFailure(t *testing.T) {
	ok := &staticFetcher{name: "ok", items: []collector.Item{{Title: "A", Slug: "a.html"}}}
	bad := &staticFetcher{name: "bad", err: errors.New("boom")}
	store := &memSaver{}
	s, err := New("", []collector.Fetcher{ok, bad}, processor.NewSimpleProcessor(nil, time.UTC), store, nil)
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch bad: boom")
	assert.Empty(t, store.saved)
}

func TestRunOnceNoItems(t *testing.T) {
	store := &memSaver{}
	s, err := New("", []collector.Fetcher{&staticFetcher{name: "empty"}}, processor.NewSimpleProcessor(nil, time.UTC), store, nil)
	require.NoError(t, err)
	_, err = s.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrNoItems)
	assert.Empty(t, store.saved)
}

func TestRunOnceBusy(t *testing.T) {
	s, err := New("", nil, processor.NewSimpleProcessor(nil, time.UTC), &memSaver{}, nil)
	require.NoError(t, err)
	s.running.Lock()
	defer s.running.Unlock()
	_, err = s.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("every now and then", nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestWatchFileFiresOnReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artikel.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fired := make(chan struct{}, 4)
	require.NoError(t, WatchFile(ctx, path, func() { fired <- struct{}{} }, nil))

	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	tmp := filepath.Join(dir, ".artikel.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"A":[]}`), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire")
	}
}
