package indexer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func waitForEvent(t *testing.T, events <-chan WatchEvent) WatchEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return WatchEvent{}
	}
}

// writeAtomically writes content under a temp name the watcher ignores and
// renames it into place, so the watcher never reads a half-written file.
func writeAtomically(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestFileWatcher_ReextractsAndRemoves(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	index := NewDocumentIndex(DefaultDocumentIndexConfig(), nil)
	defer index.Close()

	events := make(chan WatchEvent, 8)
	opts := DefaultWatchOptions()
	opts.DebounceMs = 20
	opts.OnChange = func(ev WatchEvent) { events <- ev }

	watcher, err := NewFileWatcher(setupExtractor(t), index, opts, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start(root))
	defer watcher.Stop()
	assert.True(t, watcher.GetStats().IsRunning)

	path := filepath.Join(root, "Book.cs")
	writeAtomically(t, path, "namespace Shop { public class Book { } }")

	ev := waitForEvent(t, events)
	assert.Equal(t, WatchOpUpdate, ev.Op)
	assert.Equal(t, path, ev.FilePath)
	require.NoError(t, ev.Err)
	require.NotNil(t, ev.Result)

	_, _, found := index.GetArtifact("Type:Shop.Book")
	assert.True(t, found)

	require.NoError(t, os.Remove(path))
	ev = waitForEvent(t, events)
	assert.Equal(t, WatchOpRemove, ev.Op)

	_, _, found = index.GetArtifact("Type:Shop.Book")
	assert.False(t, found)

	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.GetStats().IsRunning)
}

func TestFileWatcher_ReportsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	events := make(chan WatchEvent, 8)
	opts := DefaultWatchOptions()
	opts.DebounceMs = 20
	opts.OnChange = func(ev WatchEvent) { events <- ev }

	watcher, err := NewFileWatcher(setupExtractor(t), nil, opts, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start(root))
	defer watcher.Stop()

	writeAtomically(t, filepath.Join(root, "Broken.cs"), "class {")

	ev := waitForEvent(t, events)
	assert.Equal(t, WatchOpUpdate, ev.Op)
	assert.Error(t, ev.Err)
	assert.Nil(t, ev.Result)
}

func TestFileWatcher_ShouldIgnore(t *testing.T) {
	watcher, err := NewFileWatcher(nil, nil, DefaultWatchOptions(), nil)
	require.NoError(t, err)
	defer watcher.Stop()
	watcher.root = "/project"

	tests := []struct {
		path string
		want bool
	}{
		{"/project/src/Book.cs", false},
		{"/project/src/Book.cs.swp", true},
		{"/project/.git/HEAD", true},
		{"/project/src/bin/Debug/App.cs", true},
		{"/project/src/obj", true},
		{"/project", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, watcher.shouldIgnore(tt.path))
		})
	}
}

func TestNewFileWatcher_InvalidPattern(t *testing.T) {
	_, err := NewFileWatcher(nil, nil, WatchOptions{IgnorePatterns: []string{"[oops"}}, nil)
	assert.Error(t, err)
}

func TestFileWatcher_StartTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	watcher, err := NewFileWatcher(nil, nil, DefaultWatchOptions(), nil)
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, watcher.Start(root))
	assert.Error(t, watcher.Start(root))
	require.NoError(t, watcher.Stop())
	assert.Error(t, watcher.Start(root))
}
