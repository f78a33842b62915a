// FileCache provides source access through memory-mapped files.
//
// **Use Cases:**
//  1. Batch extraction: workers read each C# file once without copying it
//     into the Go heap
//  2. MCP server: artifact snippets are sliced out of the mapped source by
//     their line/column span
//
// **Safety Features:**
//   - Optional MaxFiles limit (prevents file descriptor exhaustion)
//   - Optional MaxMemoryMB limit (bounds virtual memory)
//   - Falls back to os.ReadFile when mmap fails
//   - Thread-safe with sync.RWMutex (parallel reads, exclusive loads)
//
// Mapped data is read-only and stays valid until Close.
package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"

	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// ErrCacheFull is returned by Get when loading a file would exceed a limit.
var ErrCacheFull = errors.New("file cache limit reached")

// FileCache provides source access using memory-mapped files.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(filePath string) (*MappedFile, error)

	// FetchSpan returns the source text covered by a span, using 1-based
	// lines and columns as the document positions do.
	FetchSpan(filePath string, span syntax.Span) (string, error)

	// Size returns number of currently cached files.
	Size() int

	// Stats returns current cache metrics.
	Stats() FileCacheStats

	// Close unmaps all files and releases their descriptors.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles is the maximum number of files kept mapped. 0 = unlimited.
	MaxFiles int

	// MaxMemoryMB bounds the total mapped size in MB. 0 = unlimited.
	// This limits address space, not resident memory.
	MaxMemoryMB int

	// EnableMetrics turns on hit/miss counting.
	EnableMetrics bool

	// Logger for warnings. If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns defaults sized for solutions of up to ten
// thousand source files.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:      10000,
		MaxMemoryMB:   2048,
		EnableMetrics: true,
	}
}

// UnboundedFileCacheConfig returns config with no limits.
func UnboundedFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		EnableMetrics: true,
	}
}

// MappedFile represents a memory-mapped source file.
type MappedFile struct {
	Path string

	// Data is the mapped region. Nil for empty files.
	Data mmap.MMap

	// File is kept open until Close. Nil for fallback entries.
	File *os.File

	Size int64

	MappedAt time.Time

	lines     *syntax.LineIndex
	linesOnce sync.Once
}

// Lines returns the file's line index, built on first use.
func (mf *MappedFile) Lines() *syntax.LineIndex {
	mf.linesOnce.Do(func() {
		mf.lines = syntax.NewLineIndex(mf.Data)
	})
	return mf.lines
}

// FileCacheStats tracks cache performance metrics.
type FileCacheStats struct {
	// FilesLoaded is the total number of files loaded (cumulative)
	FilesLoaded int64

	// FilesCached is the current number of cached files
	FilesCached int

	CacheHits   int64
	CacheMisses int64

	// MmapFailures counts files served through the os.ReadFile fallback
	MmapFailures int64

	// TotalMappedMB is the total size currently mapped
	TotalMappedMB float64
}

// NewFileCache creates a new FileCache with the given config.
//
// If config is nil, uses DefaultFileCacheConfig().
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &fileCacheImpl{
		config: config,
		cache:  make(map[string]*MappedFile),
		logger: logger,
	}
}

type fileCacheImpl struct {
	config *FileCacheConfig
	logger *slog.Logger

	// cache holds mapped and fallback entries alike (protected by mu)
	cache map[string]*MappedFile
	bytes int64
	mu    sync.RWMutex

	stats   FileCacheStats
	statsMu sync.Mutex
}

// Get returns the mapped file or loads it on first access.
func (fc *fileCacheImpl) Get(filePath string) (*MappedFile, error) {
	fc.mu.RLock()
	if mf, ok := fc.cache[filePath]; ok {
		fc.mu.RUnlock()
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited for Lock
	if mf, ok := fc.cache[filePath]; ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}
	fc.record(func(s *FileCacheStats) { s.CacheMisses++ })

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}
	if err := fc.checkLimits(stat.Size()); err != nil {
		return nil, err
	}

	mf, err := fc.load(filePath)
	if err != nil {
		return nil, err
	}

	fc.cache[filePath] = mf
	fc.bytes += mf.Size
	fc.record(func(s *FileCacheStats) { s.FilesLoaded++ })
	return mf, nil
}

// checkLimits verifies that adding a file of the given size stays within the
// configured limits. Must be called while holding mu.Lock.
func (fc *fileCacheImpl) checkLimits(size int64) error {
	if fc.config.MaxFiles > 0 && len(fc.cache) >= fc.config.MaxFiles {
		return fmt.Errorf("%w: %d files", ErrCacheFull, fc.config.MaxFiles)
	}
	if fc.config.MaxMemoryMB > 0 {
		after := float64(fc.bytes+size) / (1024 * 1024)
		if after >= float64(fc.config.MaxMemoryMB) {
			return fmt.Errorf("%w: %.2f MB (limit %d MB)", ErrCacheFull, after, fc.config.MaxMemoryMB)
		}
	}
	return nil
}

// load opens and maps a file, falling back to os.ReadFile if mmap fails.
// Must be called while holding mu.Lock.
func (fc *fileCacheImpl) load(filePath string) (*MappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}

	// mmap rejects zero-length regions
	if stat.Size() == 0 {
		return &MappedFile{Path: filePath, File: file, MappedAt: time.Now()}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback", "file", filePath, "size", stat.Size(), "error", err)
		file.Close()

		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %q after mmap error %v: %w", filePath, err, readErr)
		}
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })
		return &MappedFile{
			Path:     filePath,
			Data:     mmap.MMap(raw),
			Size:     int64(len(raw)),
			MappedAt: time.Now(),
		}, nil
	}

	return &MappedFile{
		Path:     filePath,
		Data:     data,
		File:     file,
		Size:     stat.Size(),
		MappedAt: time.Now(),
	}, nil
}

// FetchSpan slices the source text of a span out of the mapped file.
func (fc *fileCacheImpl) FetchSpan(filePath string, span syntax.Span) (string, error) {
	if !span.Valid() {
		return "", fmt.Errorf("invalid span %v", span)
	}
	mf, err := fc.Get(filePath)
	if err != nil {
		return "", err
	}

	lines := mf.Lines()
	start, end := lines.Offset(span.Start), lines.Offset(span.End)
	if start < 0 || end > len(mf.Data) || end < start {
		return "", fmt.Errorf("span %v is outside %q (%d bytes)", span, filePath, len(mf.Data))
	}
	return string(mf.Data[start:end]), nil
}

// Size returns number of currently cached files.
func (fc *fileCacheImpl) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	return len(fc.cache)
}

// Stats returns current cache metrics.
func (fc *fileCacheImpl) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.cache)
	mapped := float64(fc.bytes) / (1024 * 1024)
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()

	stats := fc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = mapped
	return stats
}

// Close unmaps all files and releases resources.
func (fc *fileCacheImpl) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.cache {
		if mf.File == nil {
			continue // fallback entry, nothing mapped
		}
		if mf.Data != nil {
			if err := mf.Data.Unmap(); err != nil {
				errs = append(errs, fmt.Errorf("unmap %q: %w", path, err))
			}
		}
		if err := mf.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", path, err))
		}
	}

	fc.cache = make(map[string]*MappedFile)
	fc.bytes = 0

	fc.logger.Debug("FileCache closed",
		"files_loaded", fc.stats.FilesLoaded,
		"cache_hits", fc.stats.CacheHits,
		"cache_misses", fc.stats.CacheMisses,
		"mmap_failures", fc.stats.MmapFailures)

	return errors.Join(errs...)
}

func (fc *fileCacheImpl) record(update func(*FileCacheStats)) {
	if !fc.config.EnableMetrics {
		return
	}
	fc.statsMu.Lock()
	update(&fc.stats)
	fc.statsMu.Unlock()
}
