package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// Watch reports changes to the files of res until ctx is cancelled. Bursts of
// writes are coalesced into one notification. The root config file is watched
// even when it does not exist yet.
//
// Directories are watched rather than files so editors that replace the file
// on save keep being tracked.
func Watch(ctx context.Context, res *LoadResult, logger *slog.Logger) (<-chan struct{}, error) {
	if res == nil {
		return nil, fmt.Errorf("no config loaded")
	}
	if logger == nil {
		logger = slog.Default()
	}

	files := watchedFiles(res)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}

	dirs := make(map[string]struct{})
	for file := range files {
		dir := filepath.Dir(file)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			// The config directory may not exist; that only disables reloads.
			logger.Debug("config watch skipped", "dir", dir, "error", err)
			continue
		}
		dirs[dir] = struct{}{}
	}
	if len(dirs) == 0 {
		watcher.Close()
		return nil, fmt.Errorf("config: nothing to watch")
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "error", err)
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if _, tracked := files[filepath.Clean(ev.Name)]; !tracked {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(watchDebounce)
				} else {
					timer.Reset(watchDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				select {
				case changes <- struct{}{}:
				default:
					// A notification is already pending.
				}
			}
		}
	}()

	return changes, nil
}

func watchedFiles(res *LoadResult) map[string]struct{} {
	out := make(map[string]struct{}, len(res.Files)+1)
	if res.Path != "" {
		if abs, err := filepath.Abs(res.Path); err == nil {
			out[abs] = struct{}{}
		}
	}
	for _, f := range res.Files {
		out[filepath.Clean(f)] = struct{}{}
	}
	return out
}
