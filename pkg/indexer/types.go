package indexer

import (
	"errors"
	"fmt"
	"time"

	"github.com/gnana997/syntaxdoc/pkg/extractor"
)

// ErrArtifactCollision is reported when two units of one batch assign the
// same artifact identifier to different declarations.
var ErrArtifactCollision = errors.New("artifact collision")

// IndexedDocument contains the extraction result of a single unit.
//
// This is the unit of caching in the DocumentIndex. The document and its
// artifacts are stored together for retrieval and invalidation.
type IndexedDocument struct {
	// Path is the source file, or the qualified type name of a decompiled
	// unit.
	Path string

	Result *extractor.FileResult

	// Timestamp when the unit was indexed (Unix milliseconds)
	Timestamp int64

	// ContentHash is the xxhash of the unit's source, used to skip
	// re-extraction of unchanged files.
	ContentHash uint64
}

// DocumentIndexConfig configures the document index.
type DocumentIndexConfig struct {
	// MaxCachedDocuments is the maximum number of documents kept in the LRU
	// cache. When the cache is full, the least recently used document and its
	// artifacts are evicted.
	// Default: 1000 documents
	MaxCachedDocuments int

	// Debug enables verbose logging
	Debug bool
}

// DefaultDocumentIndexConfig returns the default configuration.
func DefaultDocumentIndexConfig() DocumentIndexConfig {
	return DocumentIndexConfig{
		MaxCachedDocuments: 1000,
		Debug:              false,
	}
}

// DocumentIndexStats provides statistics about the index state.
type DocumentIndexStats struct {
	// IndexedDocuments is the total number of documents indexed (including evicted)
	IndexedDocuments int

	// TotalArtifacts is the count of artifacts currently in the index
	TotalArtifacts int

	// CachedDocuments is the number of documents currently in the LRU cache
	CachedDocuments int

	// DirtyDocuments is the number of documents marked for re-extraction
	DirtyDocuments int

	CacheHits    int64
	CacheMisses  int64
	CacheHitRate float64

	// Evictions is the number of LRU evictions that have occurred
	Evictions int64

	// AverageIndexTimeMs is the average time to index a document
	AverageIndexTimeMs float64
}

// BatchOptions configures a batch extraction run.
type BatchOptions struct {
	// Include patterns (doublestar syntax, e.g. "**/*.cs"), relative to the
	// batch root.
	Include []string

	// Exclude patterns. A matching directory is skipped entirely.
	Exclude []string

	// Workers is the number of extraction goroutines.
	// 0 = util.GetOptimalPoolSize()
	Workers int

	// UseFileCache reads sources through memory-mapped files.
	UseFileCache bool
}

// DefaultBatchOptions returns recommended batch options.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Include: []string{
			"**/*.cs",
		},
		Exclude: []string{
			".git/**",
			".vs/**",
			"**/bin/**",
			"**/obj/**",
			"**/packages/**",
			"**/node_modules/**",
		},
		Workers:      0,
		UseFileCache: true,
	}
}

// BatchStats contains statistics about a batch run.
type BatchStats struct {
	// FilesDiscovered is the total number of files found
	FilesDiscovered int

	// FilesExtracted is the number of units that produced a document
	FilesExtracted int

	// FilesFailed is the number of units that failed
	FilesFailed int

	// FilesSkipped is the number of discovered files never submitted
	// because the run was cancelled
	FilesSkipped int

	// ArtifactsAssigned is the total number of artifact identifiers
	ArtifactsAssigned int

	// Diagnostics is the total number of degraded-node diagnostics
	Diagnostics int

	TotalTimeMs      int64
	DiscoveryTimeMs  int64
	ExtractionTimeMs int64

	// AverageFileTimeMs is average time per extracted file
	AverageFileTimeMs float64

	// FilesPerSecond is the throughput rate
	FilesPerSecond float64

	// WorkerCount is the number of workers used
	WorkerCount int

	// SuccessRate is the share of discovered files extracted (0.0 - 1.0)
	SuccessRate float64

	// Errors lists failed units and artifact collisions
	Errors []UnitError

	// Cancelled indicates the run's context was cancelled
	Cancelled bool

	StartTime time.Time
	EndTime   time.Time
}

// BatchResult is the outcome of a batch run. Results are sorted by path.
type BatchResult struct {
	Results []*extractor.FileResult
	Stats   BatchStats
}

// UnitError records why one unit of a batch failed.
type UnitError struct {
	Path string
	Err  error
}

func (e UnitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e UnitError) Unwrap() error {
	return e.Err
}

// ArtifactCollisionError names the identifier and the two units that
// produced it.
type ArtifactCollisionError struct {
	ID     string
	First  string
	Second string
}

func (e *ArtifactCollisionError) Error() string {
	return fmt.Sprintf("artifact %s assigned in both %s and %s", e.ID, e.First, e.Second)
}

// Is matches ErrArtifactCollision.
func (e *ArtifactCollisionError) Is(target error) bool {
	return target == ErrArtifactCollision
}

// ProgressCallback is called after each unit of a batch completes.
//
// Parameters:
//   - done: Number of units completed so far, failed ones included
//   - total: Total number of units to extract
//   - currentFile: Path of the unit that just completed
type ProgressCallback func(done, total int, currentFile string)

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs is the debounce delay in milliseconds
	// Multiple rapid changes are grouped into a single re-extraction
	// Default: 200ms
	DebounceMs int

	// IgnorePatterns are doublestar patterns matched against the path
	// relative to the watched root
	IgnorePatterns []string

	// OnChange is called after every re-extraction or removal.
	OnChange func(WatchEvent)
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"**/*.swp",
			"**/*.tmp",
			"**/*~",
			".git/**",
			"**/bin/**",
			"**/obj/**",
		},
	}
}

// WatchOp is the kind of change a WatchEvent reports.
type WatchOp string

const (
	WatchOpUpdate WatchOp = "update"
	WatchOpRemove WatchOp = "remove"
)

// WatchEvent reports the outcome of one debounced file change.
type WatchEvent struct {
	// FilePath is the absolute path to the changed file
	FilePath string

	Op WatchOp

	// Result is the new extraction, nil for removals and failures
	Result *extractor.FileResult

	// Err is the extraction failure, if any
	Err error

	Timestamp time.Time
}
