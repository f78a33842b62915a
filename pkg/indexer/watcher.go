package indexer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/syntaxdoc/pkg/extractor"
	"github.com/gnana997/syntaxdoc/pkg/parser"
)

// FileWatcher watches a directory tree and re-extracts changed C# files.
//
// **Features:**
//   - Debouncing - Groups rapid changes to avoid redundant extraction
//   - Selective - Only re-extracts changed files
//   - Content check - Skips writes that leave the source hash unchanged
//
// **Usage:**
//
//	watcher, err := NewFileWatcher(extractor, index, DefaultWatchOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := watcher.Start("/path/to/project"); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	index     *DocumentIndex
	extractor *extractor.Extractor
	logger    *slog.Logger
	options   WatchOptions
	root      string

	// Debouncing
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	loopDone chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(
	extractor *extractor.Extractor,
	index *DocumentIndex,
	options WatchOptions,
	logger *slog.Logger,
) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	if options.DebounceMs == 0 {
		options.DebounceMs = 200
	}
	for _, pattern := range options.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			_ = watcher.Close()
			return nil, fmt.Errorf("invalid ignore pattern: %s", pattern)
		}
	}

	return &FileWatcher{
		watcher:        watcher,
		index:          index,
		extractor:      extractor,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
		loopDone:       make(chan struct{}),
	}, nil
}

// Start begins watching rootPath and every directory below it that is not
// ignored. It may be called once.
func (fw *FileWatcher) Start(rootPath string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if fw.started {
		return fmt.Errorf("watcher already started")
	}

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", rootPath, err)
	}
	fw.root = root

	if err := fw.addTree(root); err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	fw.started = true
	fw.logger.Info("File watcher started", "root", root)

	go fw.eventLoop()
	return nil
}

// addTree watches dir and its subdirectories.
func (fw *FileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != fw.root && fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the file watcher and waits for its event loop to exit.
// Pending debounced re-extractions are dropped.
//
// **Thread Safety:** Safe to call multiple times (idempotent).
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	started := fw.started
	close(fw.stopChan)
	fw.mu.Unlock()

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	if started {
		<-fw.loopDone
	}
	fw.logger.Info("File watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	defer close(fw.loopDone)
	for {
		select {
		case <-fw.stopChan:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if fw.shouldIgnore(path) {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := fw.addTree(path); err != nil {
				fw.logger.Warn("Failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !parser.IsSourceFile(path) {
		return
	}

	fw.logger.Debug("File event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create):
		fw.debounceReextract(path)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		fw.cancelPending(path)
		fw.removeFile(path)
	}
}

// debounceReextract schedules a re-extraction after the debounce delay.
//
// If multiple events for the same file occur within the window, only the
// last one triggers extraction.
func (fw *FileWatcher) debounceReextract(path string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(
		time.Duration(fw.options.DebounceMs)*time.Millisecond,
		func() {
			fw.debounceMu.Lock()
			if fw.debounceTimers[path] != timer {
				fw.debounceMu.Unlock()
				return
			}
			delete(fw.debounceTimers, path)
			fw.debounceMu.Unlock()

			fw.reextract(path)
		},
	)
	fw.debounceTimers[path] = timer
}

func (fw *FileWatcher) cancelPending(path string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
		delete(fw.debounceTimers, path)
	}
}

// reextract extracts one file and replaces its indexed document.
func (fw *FileWatcher) reextract(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		fw.logger.Warn("Failed to read file for re-extraction", "file", path, "error", err)
		return
	}

	if fw.index != nil && fw.index.Unchanged(path, content) {
		fw.logger.Debug("File content unchanged", "file", path)
		return
	}
	if fw.index != nil {
		fw.index.InvalidateFile(path)
	}

	result, err := fw.extractor.ExtractFile(path, content)
	if err != nil {
		fw.logger.Warn("Failed to extract file", "file", path, "error", err)
		fw.notify(WatchEvent{FilePath: path, Op: WatchOpUpdate, Err: err})
		return
	}

	if fw.index != nil {
		fw.index.Add(result)
	}

	fw.logger.Debug("File re-extracted",
		"file", path,
		"artifacts", len(result.Artifacts),
		"diagnostics", len(result.Diagnostics))
	fw.notify(WatchEvent{FilePath: path, Op: WatchOpUpdate, Result: result})
}

func (fw *FileWatcher) removeFile(path string) {
	fw.logger.Debug("Removing file from index", "file", path)
	if fw.index != nil {
		fw.index.RemoveFile(path)
	}
	fw.notify(WatchEvent{FilePath: path, Op: WatchOpRemove})
}

func (fw *FileWatcher) notify(event WatchEvent) {
	if fw.options.OnChange == nil {
		return
	}
	event.Timestamp = time.Now()
	fw.options.OnChange(event)
}

// shouldIgnore matches a path, relative to the watched root, against the
// ignore patterns.
func (fw *FileWatcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(fw.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return false
	}
	return matchAny(fw.options.IgnorePatterns, rel)
}

// GetStats returns file watcher statistics.
func (fw *FileWatcher) GetStats() FileWatcherStats {
	fw.debounceMu.Lock()
	pending := len(fw.debounceTimers)
	fw.debounceMu.Unlock()

	fw.mu.Lock()
	running := fw.started && !fw.stopped
	fw.mu.Unlock()

	return FileWatcherStats{
		PendingReextractions: pending,
		IsRunning:            running,
	}
}

// FileWatcherStats contains file watcher statistics.
type FileWatcherStats struct {
	PendingReextractions int
	IsRunning            bool
}
