package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainbong/restaurant_finder/internal/filesystem"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	clearKeyEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	fs := filesystem.NewOSFileSystem()

	cfg := Default(dir)
	require.NoError(t, cfg.SaveWithFS(fs, file))

	watcher, err := NewWatcher(fs, dir, file)
	require.NoError(t, err)
	defer watcher.Close()
	watcher.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan *Config, 4)
	errs := make(chan error, 4)
	go watcher.Watch(ctx, func(c *Config) { changes <- c }, func(err error) { errs <- err })

	// give the watch loop a moment to start selecting
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, fs.WriteFile(file, []byte("{ broken"), 0600))
	select {
	case <-errs:
	case c := <-changes:
		t.Fatalf("expected a parse error, got config %+v", c.Search)
	case <-ctx.Done():
		t.Fatal("timed out waiting for the parse error")
	}

	cfg.Search.Query = "okonomiyaki"
	require.NoError(t, cfg.SaveWithFS(fs, file))
	select {
	case c := <-changes:
		assert.Equal(t, "okonomiyaki", c.Search.Query)
	case err := <-errs:
		t.Fatalf("unexpected reload error: %v", err)
	case <-ctx.Done():
		t.Fatal("timed out waiting for the reload")
	}
}

func TestWatcher_StopsOnContext(t *testing.T) {
	dir := t.TempDir()
	watcher, err := NewWatcher(filesystem.NewOSFileSystem(), dir, filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, watcher.Watch(ctx, nil, nil), context.Canceled)
}

func TestRead_DoesNotWrite(t *testing.T) {
	clearKeyEnv(t)
	mockFS := filesystem.NewMockFileSystem()
	mockFS.AddFile("/c/config.json", []byte(`{"search": {"query": "tempura"}}`), 0600)

	cfg, err := Read(mockFS, "/c", "/c/config.json")
	require.NoError(t, err)
	assert.Equal(t, "tempura", cfg.Search.Query)
	assert.Zero(t, mockFS.WriteCount(), "Read must not write")

	_, err = Read(mockFS, "/c", "/c/missing.json")
	assert.Error(t, err)
}
