package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/humanscore/internal/report"
)

// Watch analyzes path once, then again after every burst of writes, until
// ctx is done. The parent directory is watched because many editors save by
// renaming a temp file over the original.
func (a *App) Watch(ctx context.Context, path string, onResult func(report.Document)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	analyze := func() {
		b, err := os.ReadFile(abs)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("read failed")
			return
		}
		onResult(a.Analyze(ctx, path, string(b)))
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	analyze()

	debounce := a.cfg.WatchDebounce
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			analyze()
		}
	}
}
