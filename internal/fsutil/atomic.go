// Package fsutil writes generated site files atomically.
package fsutil

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/renameio/v2"
)

// WriteAtomic streams write into a pending file next to path, then fsyncs
// and renames it over path. On error path is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file %s: %w", path, err)
	}
	defer func() { _ = pendingFile.Cleanup() }()

	if err := write(pendingFile); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

// WriteFileAtomic is WriteAtomic for an in-memory payload.
func WriteFileAtomic(path string, data []byte) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
}
