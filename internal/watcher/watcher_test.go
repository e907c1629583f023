package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/scrollmem/internal/pubsub"
	"github.com/zjrosen/scrollmem/internal/watcher"
)

func startWatcher(t *testing.T, path string) (*watcher.Watcher, <-chan pubsub.Event[watcher.Event]) {
	t.Helper()
	w, err := watcher.New(watcher.Config{
		Path:        path,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	events := w.Broker().Subscribe(ctx)

	require.NoError(t, w.Start(), "failed to start watcher")
	return w, events
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poem.txt")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	_, events := startWatcher(t, path)

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("line %d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-events:
		require.Equal(t, pubsub.UpdatedEvent, ev.Type)
		require.Equal(t, watcher.FileChanged, ev.Payload.Kind)
		require.Equal(t, "line 9", ev.Payload.Content)
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected second notification: %+v", ev.Payload)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poem.txt")
	otherPath := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("poem"), 0o644))
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0o644))

	_, events := startWatcher(t, path)

	require.NoError(t, os.WriteFile(otherPath, []byte("other content"), 0o644))

	select {
	case <-events:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_RenameSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poem.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	_, events := startWatcher(t, path)

	tmp := filepath.Join(dir, ".poem.txt.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("saved by editor"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case ev := <-events:
		require.Equal(t, "saved by editor", ev.Payload.Content)
	case <-time.After(time.Second):
		t.Fatal("expected notification for rename-based save")
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poem.txt")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	w, err := watcher.New(watcher.DefaultConfig(path))
	require.NoError(t, err)
	require.NoError(t, w.Start())

	// Stop should not hang or panic
	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop(), "Stop returned error")
		assert.NoError(t, w.Stop(), "second Stop is a no-op")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestNew_ResolvesAbsolutePath(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig("poem.txt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	require.True(t, filepath.IsAbs(w.Path()))
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/test/poem.txt")

	assert.Equal(t, "/test/poem.txt", cfg.Path)
	assert.Equal(t, 200*time.Millisecond, cfg.DebounceDur)
}
