package indexer

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/extractor"
)

// DocumentIndex provides O(1) artifact lookups over extracted documents
// with lazy invalidation.
//
// **Architecture:**
//   - Hash map for O(1) artifact lookups by identifier
//   - LRU cache of documents for automatic memory management
//   - Lazy invalidation (dirty flags) for the file watcher
//   - Reverse index for efficient document removal
//
// **Thread Safety:**
//   - Uses sync.RWMutex for concurrent access
//   - Atomic counters for statistics
//
// **Usage:**
//
//	index := NewDocumentIndex(DefaultDocumentIndexConfig(), logger)
//	defer index.Close()
//
//	index.Add(result)
//	node, doc, found := index.GetArtifact("Type:Shop.Book")
type DocumentIndex struct {
	// Primary storage: artifact ID → owning unit
	artifacts map[string]indexedArtifact

	// LRU cache: Path → IndexedDocument
	documents *lru.Cache[string, *IndexedDocument]

	// Reverse index: Path → []artifact ID
	pathToArtifacts map[string][]string

	// Lazy invalidation tracking: Path → isDirty
	dirty map[string]bool

	mu sync.RWMutex

	indexedDocuments atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
	evictions        atomic.Int64
	totalIndexTime   atomic.Int64 // Microseconds

	config DocumentIndexConfig
	logger *slog.Logger
}

type indexedArtifact struct {
	path     string
	artifact docgen.Artifact
}

// NewDocumentIndex creates a new document index.
//
// The index is ready to use immediately. Call Close() when done.
func NewDocumentIndex(config DocumentIndexConfig, logger *slog.Logger) *DocumentIndex {
	if config.MaxCachedDocuments == 0 {
		config.MaxCachedDocuments = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	di := &DocumentIndex{
		artifacts:       make(map[string]indexedArtifact, 10000),
		pathToArtifacts: make(map[string][]string, 1000),
		dirty:           make(map[string]bool, 100),
		config:          config,
		logger:          logger,
	}

	// The eviction callback runs inside Add and Remove, with mu held.
	cache, err := lru.NewWithEvict(config.MaxCachedDocuments, func(path string, doc *IndexedDocument) {
		di.dropArtifactsUnsafe(path)
		if config.Debug {
			logger.Debug("LRU evicting document", "path", path, "artifacts", len(doc.Result.Artifacts))
		}
	})
	if err != nil {
		// This should never happen with a positive size
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	di.documents = cache

	logger.Debug("DocumentIndex initialized", "max_cached_documents", config.MaxCachedDocuments)
	return di
}

// Add stores the result of one unit, replacing any earlier result for the
// same path.
//
// **Thread Safety:** Safe for concurrent calls.
func (di *DocumentIndex) Add(result *extractor.FileResult) *IndexedDocument {
	start := time.Now()
	defer func() {
		di.totalIndexTime.Add(time.Since(start).Microseconds())
	}()

	di.mu.Lock()
	defer di.mu.Unlock()

	di.documents.Remove(result.Path)

	doc := &IndexedDocument{
		Path:        result.Path,
		Result:      result,
		Timestamp:   time.Now().UnixMilli(),
		ContentHash: result.Hash,
	}

	ids := make([]string, 0, len(result.Artifacts))
	for _, a := range result.Artifacts {
		if _, taken := di.artifacts[a.ID]; !taken {
			di.artifacts[a.ID] = indexedArtifact{path: result.Path, artifact: a}
		}
		ids = append(ids, a.ID)
	}
	di.pathToArtifacts[result.Path] = ids

	if di.documents.Add(result.Path, doc) {
		di.evictions.Add(1)
	}

	delete(di.dirty, result.Path)
	di.indexedDocuments.Add(1)

	if di.config.Debug {
		di.logger.Debug("Indexed document", "path", result.Path, "artifacts", len(ids))
	}
	return doc
}

// GetArtifact returns the document node carrying an artifact identifier and
// the document it belongs to.
//
// **Performance:** O(1) identifier lookup plus a walk of one document.
func (di *DocumentIndex) GetArtifact(id string) (*document.Node, *IndexedDocument, bool) {
	di.mu.RLock()
	defer di.mu.RUnlock()

	entry, ok := di.artifacts[id]
	if !ok {
		return nil, nil, false
	}
	doc, ok := di.documents.Get(entry.path)
	if !ok {
		return nil, nil, false
	}
	node := doc.Result.Document.FindArtifact(id)
	if node == nil {
		return nil, nil, false
	}
	return node, doc, true
}

// GetDocument retrieves the indexed document for a path.
func (di *DocumentIndex) GetDocument(path string) (*IndexedDocument, bool) {
	di.mu.RLock()
	defer di.mu.RUnlock()

	doc, found := di.documents.Get(path)
	if found {
		di.cacheHits.Add(1)
	} else {
		di.cacheMisses.Add(1)
	}
	return doc, found
}

// GetAllDocuments returns a snapshot of the cached documents, sorted by path.
func (di *DocumentIndex) GetAllDocuments() []*IndexedDocument {
	di.mu.RLock()
	defer di.mu.RUnlock()

	keys := di.documents.Keys()
	result := make([]*IndexedDocument, 0, len(keys))
	for _, key := range keys {
		if doc, ok := di.documents.Peek(key); ok {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// FindArtifacts returns the indexed artifacts matching a predicate, sorted
// by identifier.
//
// **Example:**
//
//	methods := index.FindArtifacts(func(a docgen.Artifact) bool {
//	    return a.Kind == docgen.ArtifactMethod
//	})
func (di *DocumentIndex) FindArtifacts(predicate func(docgen.Artifact) bool) []docgen.Artifact {
	di.mu.RLock()
	defer di.mu.RUnlock()

	result := make([]docgen.Artifact, 0, 100)
	for _, entry := range di.artifacts {
		if predicate == nil || predicate(entry.artifact) {
			result = append(result, entry.artifact)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ArtifactPath returns the path of the unit that assigned an identifier.
func (di *DocumentIndex) ArtifactPath(id string) (string, bool) {
	di.mu.RLock()
	defer di.mu.RUnlock()

	entry, ok := di.artifacts[id]
	return entry.path, ok
}

// Unchanged reports whether content hashes to the indexed document's hash.
// The watcher uses it to skip re-extraction after touch-only writes.
func (di *DocumentIndex) Unchanged(path string, content []byte) bool {
	di.mu.RLock()
	defer di.mu.RUnlock()

	doc, ok := di.documents.Peek(path)
	if !ok || di.dirty[path] {
		return false
	}
	return doc.ContentHash == xxhash.Sum64(content)
}

// InvalidateFile marks a document as dirty for lazy re-extraction.
//
// The document stays readable until it is replaced or removed.
func (di *DocumentIndex) InvalidateFile(path string) {
	di.mu.Lock()
	di.dirty[path] = true
	di.mu.Unlock()

	if di.config.Debug {
		di.logger.Debug("Invalidated document", "path", path)
	}
}

// IsDirty checks if a document is marked for re-extraction.
func (di *DocumentIndex) IsDirty(path string) bool {
	di.mu.RLock()
	defer di.mu.RUnlock()

	return di.dirty[path]
}

// RemoveFile removes a document and its artifacts from the index.
func (di *DocumentIndex) RemoveFile(path string) {
	di.mu.Lock()
	defer di.mu.Unlock()

	di.documents.Remove(path)
	di.dropArtifactsUnsafe(path)
	delete(di.dirty, path)

	if di.config.Debug {
		di.logger.Debug("Removed document", "path", path)
	}
}

// dropArtifactsUnsafe removes the artifacts a path owns.
//
// **IMPORTANT:** Must be called with write lock held.
func (di *DocumentIndex) dropArtifactsUnsafe(path string) {
	for _, id := range di.pathToArtifacts[path] {
		if entry, ok := di.artifacts[id]; ok && entry.path == path {
			delete(di.artifacts, id)
		}
	}
	delete(di.pathToArtifacts, path)
}

// GetStats returns current index statistics.
func (di *DocumentIndex) GetStats() DocumentIndexStats {
	di.mu.RLock()
	totalArtifacts := len(di.artifacts)
	cached := di.documents.Len()
	dirty := len(di.dirty)
	di.mu.RUnlock()

	hits := di.cacheHits.Load()
	misses := di.cacheMisses.Load()
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}

	indexed := di.indexedDocuments.Load()
	avgTime := 0.0
	if indexed > 0 {
		avgTime = float64(di.totalIndexTime.Load()) / float64(indexed) / 1000.0 // μs to ms
	}

	return DocumentIndexStats{
		IndexedDocuments:   int(indexed),
		TotalArtifacts:     totalArtifacts,
		CachedDocuments:    cached,
		DirtyDocuments:     dirty,
		CacheHits:          hits,
		CacheMisses:        misses,
		CacheHitRate:       hitRate,
		Evictions:          di.evictions.Load(),
		AverageIndexTimeMs: avgTime,
	}
}

// Close releases all resources held by the index.
//
// **IMPORTANT:** The index cannot be used after calling Close().
func (di *DocumentIndex) Close() {
	di.mu.Lock()
	defer di.mu.Unlock()

	di.documents.Purge()
	di.artifacts = nil
	di.pathToArtifacts = nil
	di.dirty = nil

	di.logger.Debug("DocumentIndex closed")
}
