package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/syntaxdoc/pkg/extractor"
	"github.com/gnana997/syntaxdoc/pkg/util"
)

// BatchExtractor extracts every matching file under a root in parallel.
//
// **Three-Phase Pipeline:**
//  1. File Discovery - Walk directory tree and find matching files
//  2. Parallel Processing - Extract documents using the worker pool
//  3. Collection - Check artifact uniqueness and store results in the index
//
// A failing unit never stops the batch; it is recorded as a UnitError.
//
// **Usage:**
//
//	batch := NewBatchExtractor(extractor, index, logger)
//	result, err := batch.Run(ctx, "/path/to/project", DefaultBatchOptions(),
//	    func(done, total int, file string) {
//	        fmt.Printf("Progress: %d/%d - %s\n", done, total, file)
//	    },
//	)
type BatchExtractor struct {
	extractor *extractor.Extractor
	index     *DocumentIndex
	logger    *slog.Logger
}

// NewBatchExtractor creates a batch extractor. A nil index skips indexing.
func NewBatchExtractor(
	extractor *extractor.Extractor,
	index *DocumentIndex,
	logger *slog.Logger,
) *BatchExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchExtractor{
		extractor: extractor,
		index:     index,
		logger:    logger,
	}
}

// Run extracts every file under rootPath matching options.
//
// **Returns:**
//   - result: Documents of the successful units sorted by path, and stats
//   - error: Discovery failure, or the context error when cancelled. A
//     cancelled run still returns the units completed before cancellation.
func (b *BatchExtractor) Run(
	ctx context.Context,
	rootPath string,
	options BatchOptions,
	progressCallback ProgressCallback,
) (*BatchResult, error) {
	startTime := time.Now()
	result := &BatchResult{
		Stats: BatchStats{
			StartTime: startTime,
		},
	}
	stats := &result.Stats

	b.logger.Info("Starting batch extraction", "root", rootPath)

	// Phase 1: Discover files
	discoveryStart := time.Now()
	files, err := DiscoverFiles(rootPath, options.Include, options.Exclude, b.logger)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	b.logger.Info("File discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	if len(files) == 0 {
		b.logger.Warn("No files found matching criteria")
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return result, nil
	}

	// Phase 2: Extract in parallel
	extractionStart := time.Now()
	b.processFilesParallel(ctx, files, options, result, progressCallback)
	stats.ExtractionTimeMs = time.Since(extractionStart).Milliseconds()

	// Phase 3: Collect
	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Path < result.Results[j].Path
	})
	sort.Slice(stats.Errors, func(i, j int) bool {
		return stats.Errors[i].Path < stats.Errors[j].Path
	})
	stats.Errors = append(stats.Errors, CheckArtifacts(result.Results)...)

	for _, r := range result.Results {
		stats.ArtifactsAssigned += len(r.Artifacts)
		stats.Diagnostics += len(r.Diagnostics)
		if b.index != nil {
			b.index.Add(r)
		}
	}

	stats.FilesExtracted = len(result.Results)
	stats.FilesSkipped = stats.FilesDiscovered - stats.FilesExtracted - stats.FilesFailed
	stats.Cancelled = ctx.Err() != nil
	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	if stats.FilesExtracted > 0 {
		stats.AverageFileTimeMs = float64(stats.ExtractionTimeMs) / float64(stats.FilesExtracted)
		if stats.ExtractionTimeMs > 0 {
			stats.FilesPerSecond = float64(stats.FilesExtracted) / (float64(stats.ExtractionTimeMs) / 1000.0)
		}
	}
	stats.SuccessRate = float64(stats.FilesExtracted) / float64(stats.FilesDiscovered)

	b.logger.Info("Batch extraction complete",
		"files_extracted", stats.FilesExtracted,
		"files_failed", stats.FilesFailed,
		"files_skipped", stats.FilesSkipped,
		"artifacts", stats.ArtifactsAssigned,
		"duration_ms", stats.TotalTimeMs,
		"files_per_second", fmt.Sprintf("%.1f", stats.FilesPerSecond))

	if stats.Cancelled {
		return result, fmt.Errorf("batch cancelled: %w", ctx.Err())
	}
	return result, nil
}

// DiscoverFiles walks rootPath and returns the files matching include and
// not matching exclude, in lexical order. Patterns are matched against the
// slash-separated path relative to rootPath. An empty include matches every
// file.
func DiscoverFiles(rootPath string, include, exclude []string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var files []string

	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			logger.Warn("Walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if relPath != "." && matchAny(exclude, relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if len(include) > 0 && !matchAny(include, relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func matchAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if m, _ := doublestar.Match(pattern, relPath); m {
			return true
		}
		// "dir/**" should also exclude the directory itself
		if m, _ := doublestar.Match(pattern, relPath+"/"); m {
			return true
		}
	}
	return false
}

// processFilesParallel extracts files using a worker pool.
//
// **Architecture:**
//  1. Create worker pool (numWorkers matches the parser pool)
//  2. Submit jobs from a separate goroutine, stopping on cancellation
//  3. Collect outcomes on this goroutine until the pool closes the channel
func (b *BatchExtractor) processFilesParallel(
	ctx context.Context,
	files []string,
	options BatchOptions,
	result *BatchResult,
	progressCallback ProgressCallback,
) {
	stats := &result.Stats
	totalFiles := len(files)

	numWorkers := util.GetOptimalPoolSizeWithOverride(options.Workers)
	stats.WorkerCount = numWorkers

	var cache util.FileCache
	if options.UseFileCache {
		config := util.DefaultFileCacheConfig()
		config.Logger = b.logger
		cache = util.NewFileCache(config)
		defer func() {
			if err := cache.Close(); err != nil {
				b.logger.Warn("Failed to close file cache", "error", err)
			}
		}()
	}

	pool := NewWorkerPool(ctx, numWorkers, b.extractor, cache, b.logger)
	pool.Start()
	defer pool.Stop()

	// **CRITICAL:** Submission runs beside the collector. Submitting first
	// would block once the queue fills, before anything drains outcomes.
	go func() {
		defer pool.Stop()
		for i, file := range files {
			if err := pool.Submit(file); err != nil {
				b.logger.Debug("Stopped submitting", "submitted", i, "error", err)
				return
			}
		}
	}()

	done := 0
	for outcome := range pool.Outcomes() {
		done++
		if outcome.Err != nil {
			stats.Errors = append(stats.Errors, outcome.Failure())
			stats.FilesFailed++
			b.logger.Warn("File extraction failed",
				"file", outcome.Path,
				"error", outcome.Err)
		} else {
			result.Results = append(result.Results, outcome.Result)
		}
		if progressCallback != nil {
			progressCallback(done, totalFiles, outcome.Path)
		}
	}
}

// CheckArtifacts reports every artifact identifier assigned by more than
// one declaration across results, in result order. Parts of one partial
// type share their identifier and are not reported.
func CheckArtifacts(results []*extractor.FileResult) []UnitError {
	type owner struct {
		path    string
		partial bool
	}
	seen := make(map[string]owner)
	var collisions []UnitError
	for _, r := range results {
		for _, a := range r.Artifacts {
			prev, ok := seen[a.ID]
			if !ok {
				seen[a.ID] = owner{path: r.Path, partial: a.Partial}
				continue
			}
			if prev.partial && a.Partial {
				continue
			}
			collisions = append(collisions, UnitError{
				Path: r.Path,
				Err:  &ArtifactCollisionError{ID: a.ID, First: prev.path, Second: r.Path},
			})
		}
	}
	return collisions
}
