package storage

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
)

// FileSource serves the index straight from artikel.json, re-reading it
// only when the file's modification time or size changes.
type FileSource struct {
	Path string
	Loc  *time.Location

	mu    sync.Mutex
	mod   time.Time
	size  int64
	index *article.Index
}

func NewFileSource(path string, loc *time.Location) *FileSource {
	return &FileSource{Path: path, Loc: loc}
}

func (f *FileSource) LoadIndex(ctx context.Context) (*article.Index, error) {
	st, err := os.Stat(f.Path)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index != nil && st.ModTime().Equal(f.mod) && st.Size() == f.size {
		return f.index, nil
	}
	ix, err := article.Load(f.Path, f.Loc)
	if err != nil {
		return nil, err
	}
	f.index, f.mod, f.size = ix, st.ModTime(), st.Size()
	return ix, nil
}

// Invalidate forces the next LoadIndex to re-read the file.
func (f *FileSource) Invalidate() {
	f.mu.Lock()
	f.index = nil
	f.mu.Unlock()
}
