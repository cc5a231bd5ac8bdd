package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultReloadDebounce = 250 * time.Millisecond

// ConfigWatcher reports edits to a single config file. It watches the parent
// directory so editors that replace the file by rename are seen too.
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
}

// NewConfigWatcher starts watching path's directory. The directory must exist.
func NewConfigWatcher(path string, debounce time.Duration, logger *slog.Logger) (*ConfigWatcher, error) {
	if debounce <= 0 {
		debounce = defaultReloadDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &ConfigWatcher{path: abs, debounce: debounce, watcher: w, logger: logger}, nil
}

// Run calls onChange once per burst of events on the file until ctx ends.
func (c *ConfigWatcher) Run(ctx context.Context, onChange func()) error {
	defer c.watcher.Close()

	timer := time.NewTimer(c.debounce)
	timer.Stop()
	defer timer.Stop()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != c.path || ev.Op&relevant == 0 {
				continue
			}
			c.logger.Debug("config file event", "op", ev.Op.String())
			timer.Reset(c.debounce)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("config watcher error", "error", err)
		case <-timer.C:
			onChange()
		}
	}
}
