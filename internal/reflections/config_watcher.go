package reflections

import (
	"context"
	"fmt"
	"path/filepath"

	"GopherRT/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher reloads a config file when it changes on disk and hands
// every valid result to apply. Invalid files are logged and ignored.
type ConfigWatcher struct {
	path    string
	apply   func(Config) error
	watcher *fsnotify.Watcher
}

// NewConfigWatcher watches the directory holding path so editors that
// replace the file on save are still seen.
func NewConfigWatcher(path string, apply func(Config) error) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config path %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &ConfigWatcher{path: abs, apply: apply, watcher: w}, nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (c *ConfigWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-c.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != c.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			c.Reload()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Warn("Config watcher error", zap.Error(err))
		}
	}
}

// Reload reads the file once and applies it.
func (c *ConfigWatcher) Reload() error {
	config, err := LoadConfig(c.path)
	if err != nil {
		logger.Log.Warn("Rejected config reload", zap.String("path", c.path), zap.Error(err))
		return err
	}
	if err := c.apply(config); err != nil {
		logger.Log.Warn("Rejected config reload", zap.String("path", c.path), zap.Error(err))
		return err
	}
	logger.Log.Info("Config reloaded",
		zap.String("path", c.path),
		zap.Int("downsampling", config.DownsamplingFactor),
		zap.Int("primary_rays", config.PrimaryRayCount),
		zap.Bool("temporal", config.UseTemporalAccumulation))
	return nil
}

func (c *ConfigWatcher) Close() error {
	return c.watcher.Close()
}
