package config

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// FileWatcher polls the policy file for changes so excluded-column
// edits take effect between units of work without a redeploy.
// Polling rather than fsnotify: inotify is flaky on K8s mounted volumes
// because of the symlink swap trick, and a 5s poll is cheap.
type FileWatcher struct {
	path     string
	interval time.Duration
	lastMod  time.Time
	logger   *slog.Logger
}

func NewFileWatcher(path string, interval time.Duration, logger *slog.Logger) *FileWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &FileWatcher{
		path:     path,
		interval: interval,
		logger:   logger,
	}
}

// Watch blocks until ctx is done, invoking onChange after each observed
// modification.
func (w *FileWatcher) Watch(ctx context.Context, onChange func()) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if info, err := os.Stat(w.path); err == nil {
		w.lastMod = info.ModTime()
	}

	w.logger.Info("audit policy watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue // file may be mid-swap
			}

			if info.ModTime().After(w.lastMod) {
				w.logger.Info("audit policy changed, reloading", "path", w.path)
				w.lastMod = info.ModTime()
				onChange()
			}
		}
	}
}
