package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirFetcherUsesMetaOrMtime(t *testing.T) {
	dir := t.TempDir()
	dated := `<html><head><title>Dengan Tanggal</title>
<meta property="article:published_time" content="2025-01-02T03:04:05Z"></head></html>`
	undated := `<html><head><title>Tanpa Tanggal</title></head></html>`

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-dated.html"), []byte(dated), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-undated.html"), []byte(undated), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catatan.txt"), []byte("bukan html"), 0o644))

	mtime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "a-undated.html"), mtime, mtime))

	f := &DirFetcher{Dir: dir, SiteURL: "https://frijal.pages.dev"}
	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "a-undated.html", items[0].Slug)
	assert.True(t, items[0].PublishedAt.Equal(mtime))
	assert.Empty(t, items[0].RawDate)

	assert.Equal(t, "b-dated.html", items[1].Slug)
	assert.Equal(t, "Dengan Tanggal", items[1].Title)
	assert.True(t, items[1].PublishedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, "artikel_dir", items[1].Source)
}

func TestDirFetcherMissingDir(t *testing.T) {
	_, err := (&DirFetcher{Dir: filepath.Join(t.TempDir(), "nope")}).Fetch(context.Background())
	assert.Error(t, err)
}
