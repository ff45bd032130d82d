package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mainbong/restaurant_finder/internal/filesystem"
)

// DefaultDebounce collapses the burst of events an editor emits on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	fs       filesystem.FileSystem
	dir      string
	file     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher watches file. The directory is watched rather than the file so
// atomic replace-by-rename saves are seen.
func NewWatcher(fs filesystem.FileSystem, dir, file string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to add config directory to watcher: %w", err)
	}
	return &Watcher{
		fs:       fs,
		dir:      dir,
		file:     file,
		debounce: DefaultDebounce,
		watcher:  watcher,
	}, nil
}

// SetDebounce changes the quiet period before a reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch blocks until ctx is done. Every settled change to the file is
// re-read; onChange receives configs that parse and validate, onError
// receives the rest. A bad edit never replaces the running config.
func (w *Watcher) Watch(ctx context.Context, onChange func(*Config), onError func(error)) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.file) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			cfg, err := Read(w.fs, w.dir, w.file)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if onChange != nil {
				onChange(cfg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// Close closes the watcher
func (w *Watcher) Close() error {
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// Read loads file over the defaults without writing anything back.
func Read(fs filesystem.FileSystem, dir, file string) (*Config, error) {
	data, err := fs.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default(dir)
	if err := Unmarshal(file, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.loadAPIKeysFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
