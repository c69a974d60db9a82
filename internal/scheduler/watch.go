package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchDebounce collapses bursts of write events into one callback.
const WatchDebounce = 500 * time.Millisecond

// WatchFile calls onChange after path is written, created or renamed into
// place. The parent directory is watched so atomic replaces are seen. The
// watcher stops with ctx.
func WatchFile(ctx context.Context, path string, onChange func(), log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	log.Info("watching index file", zap.String("path", abs))

	go func() {
		defer w.Close()
		var debounce *time.Timer
		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				log.Debug("index file changed", zap.String("op", ev.Op.String()))
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(WatchDebounce, onChange)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
