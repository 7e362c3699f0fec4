package locator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the override file at path whenever it changes and hands the
// merged table to apply. A file that fails to load is logged and the previous
// table stays in use. Watch returns when ctx is done.
func Watch(ctx context.Context, path string, logger *log.Logger, apply func(*Table)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch locators: %w", err)
	}
	defer w.Close()

	// Editors replace files by rename, so watch the directory.
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			t, err := Load(target)
			if err != nil {
				logger.Warn("locator overrides not reloaded", "file", target, "err", err)
				continue
			}
			logger.Info("locator overrides reloaded", "file", target)
			apply(t)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("locator watch error", "err", err)
		}
	}
}
