package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitemap.xml")
	require.NoError(t, os.WriteFile(path, []byte("lama"), 0o644))

	require.NoError(t, WriteFileAtomic(path, []byte("baru")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "baru", string(got))
}

func TestWriteAtomicKeepsOldContentOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artikel.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	boom := errors.New("boom")
	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "setengah")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "pending file must be cleaned up")
}
