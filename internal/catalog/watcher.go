package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/yk/internal/checksum"
	"github.com/starford/yk/internal/models"
)

const debounce = 200 * time.Millisecond

// ChangeCallback receives a freshly built catalog.
type ChangeCallback func(cat *models.Catalog)

// Watch builds the catalog once, then watches configDir and everything below
// it, rebuilding after each burst of file events until ctx is cancelled.
// cb is called with the initial catalog and after every rebuild whose set of
// loaded sources or their content changed.
func Watch(ctx context.Context, l *Loader, configDir string, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, configDir); err != nil {
		return err
	}

	l.logger.Info("watcher: started", slog.String("root", configDir))

	last := ""
	rebuild := func() {
		cat := l.Build()
		fp := checksum.Sources(cat.Sources)
		if fp == last {
			l.logger.Debug("watcher: sources unchanged")
			return
		}
		last = fp
		if cb != nil {
			cb(cat)
		}
	}
	rebuild()

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			l.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			rebuild()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						l.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						l.logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
				}
			}
			if strings.HasPrefix(filepath.Base(ev.Name), ".yk-tmp-") {
				continue
			}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
