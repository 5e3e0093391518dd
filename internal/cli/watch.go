package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/aretw0/concerto"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce lets editors finish writing before a file is re-read.
const watchDebounce = 100 * time.Millisecond

// RunWatch validates the inputs once, then again each time one of them
// changes, until ctx is cancelled.
func RunWatch(ctx context.Context, v *concerto.Validator, paths []string, r *Reporter, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Directories, not files: editors often replace a file by renaming over it.
	tracked := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		tracked[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs[dir] = true
		logger.Info("Watching directory", "dir", dir)
	}

	revalidate := func(files []string) {
		rep := v.ValidateFiles(ctx, files, concerto.BatchOptions{})
		for _, res := range rep.Results {
			r.Result(res)
		}
		printSystemMessage(r.w, "Waiting for changes...")
	}
	revalidate(paths)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("Stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p, ok := tracked[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			logger.Debug("File changed", "file", p, "op", event.Op.String())
			pending[p] = true
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)

		case <-fire:
			fire = nil
			files := make([]string, 0, len(pending))
			for p := range pending {
				files = append(files, p)
			}
			clear(pending)
			slices.Sort(files)
			printSystemMessage(r.w, "Change detected in %d file(s).", len(files))
			revalidate(files)
		}
	}
}
