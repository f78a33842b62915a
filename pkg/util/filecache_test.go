package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// setupTestFiles writes a handful of C# sources into a temp directory.
func setupTestFiles(t *testing.T) map[string]string {
	t.Helper()

	dir := t.TempDir()
	contents := map[string]string{
		"Calc.cs": "namespace Math\n{\n    public class Calculator\n    {\n        public int Add(int a, int b) => a + b;\n    }\n}\n",
		// Multi-byte runes before the identifier
		"Greet.cs": "// 👋 你好\nclass Greeter { }\n",
		"Empty.cs": "",
		"Large.cs": strings.Repeat("// generated line\n", 2000),
	}

	files := make(map[string]string, len(contents))
	for name, content := range contents {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		files[name] = path
	}
	return files
}

func span(sl, sc, el, ec int) syntax.Span {
	return syntax.Span{Start: syntax.Point{Line: sl, Col: sc}, End: syntax.Point{Line: el, Col: ec}}
}

func TestFileCache_BasicOperations(t *testing.T) {
	files := setupTestFiles(t)
	path := files["Calc.cs"]

	cache := NewFileCache(DefaultFileCacheConfig())
	defer cache.Close()
	assert.Equal(t, 0, cache.Size())

	mf, err := cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, path, mf.Path)
	assert.NotNil(t, mf.Data)
	assert.Positive(t, mf.Size)
	assert.Equal(t, 1, cache.Size())

	again, err := cache.Get(path)
	require.NoError(t, err)
	assert.Same(t, mf, again)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.FilesCached)
	assert.Equal(t, int64(1), stats.FilesLoaded)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Greater(t, stats.TotalMappedMB, float64(0))

	require.NoError(t, cache.Close())
	assert.Equal(t, 0, cache.Size())
}

func TestFileCache_FetchSpan(t *testing.T) {
	files := setupTestFiles(t)
	cache := NewFileCache(nil)
	defer cache.Close()

	tests := []struct {
		name    string
		file    string
		span    syntax.Span
		want    string
		wantErr bool
	}{
		{
			name: "single line",
			file: "Calc.cs",
			span: span(3, 18, 3, 28),
			want: "Calculator",
		},
		{
			name: "multi line",
			file: "Calc.cs",
			span: span(1, 1, 2, 2),
			want: "namespace Math\n{",
		},
		{
			name: "columns count runes",
			file: "Greet.cs",
			span: span(1, 4, 1, 5),
			want: "👋",
		},
		{
			name: "empty span",
			file: "Calc.cs",
			span: span(5, 9, 5, 9),
			want: "",
		},
		{
			name:    "end before start",
			file:    "Calc.cs",
			span:    span(3, 5, 2, 1),
			wantErr: true,
		},
		{
			name:    "zero span",
			file:    "Calc.cs",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cache.FetchSpan(files[tt.file], tt.span)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileCache_FetchSpanMissingFile(t *testing.T) {
	cache := NewFileCache(nil)
	defer cache.Close()

	_, err := cache.FetchSpan(filepath.Join(t.TempDir(), "Missing.cs"), span(1, 1, 1, 2))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileCache_Limits(t *testing.T) {
	files := setupTestFiles(t)

	t.Run("max files", func(t *testing.T) {
		cache := NewFileCache(&FileCacheConfig{MaxFiles: 2, EnableMetrics: true})
		defer cache.Close()

		_, err := cache.Get(files["Calc.cs"])
		require.NoError(t, err)
		_, err = cache.Get(files["Greet.cs"])
		require.NoError(t, err)

		_, err = cache.Get(files["Large.cs"])
		assert.ErrorIs(t, err, ErrCacheFull)
		assert.Equal(t, 2, cache.Size())

		// Cached files are still served at the limit
		_, err = cache.Get(files["Calc.cs"])
		assert.NoError(t, err)
	})

	t.Run("max memory", func(t *testing.T) {
		dir := t.TempDir()
		big := filepath.Join(dir, "Big.cs")
		require.NoError(t, os.WriteFile(big, make([]byte, 2*1024*1024), 0o644))

		cache := NewFileCache(&FileCacheConfig{MaxMemoryMB: 1})
		defer cache.Close()

		_, err := cache.Get(big)
		assert.ErrorIs(t, err, ErrCacheFull)
		assert.Equal(t, 0, cache.Size())
	})

	t.Run("unbounded", func(t *testing.T) {
		cache := NewFileCache(UnboundedFileCacheConfig())
		defer cache.Close()

		for _, path := range files {
			_, err := cache.Get(path)
			require.NoError(t, err)
		}
		assert.Equal(t, len(files), cache.Size())
	})
}

func TestFileCache_EmptyFile(t *testing.T) {
	files := setupTestFiles(t)
	cache := NewFileCache(nil)
	defer cache.Close()

	mf, err := cache.Get(files["Empty.cs"])
	require.NoError(t, err)
	assert.Zero(t, mf.Size)
	assert.Empty(t, mf.Data)

	got, err := cache.FetchSpan(files["Empty.cs"], span(1, 1, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileCache_MetricsDisabled(t *testing.T) {
	files := setupTestFiles(t)
	cache := NewFileCache(&FileCacheConfig{})
	defer cache.Close()

	_, err := cache.Get(files["Calc.cs"])
	require.NoError(t, err)
	_, err = cache.Get(files["Calc.cs"])
	require.NoError(t, err)

	stats := cache.Stats()
	assert.Zero(t, stats.CacheHits)
	assert.Zero(t, stats.FilesLoaded)
	assert.Equal(t, 1, stats.FilesCached)
}

func TestFileCache_ConcurrentAccess(t *testing.T) {
	files := setupTestFiles(t)
	cache := NewFileCache(DefaultFileCacheConfig())
	defer cache.Close()

	paths := []string{files["Calc.cs"], files["Greet.cs"], files["Large.cs"]}

	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := paths[i%len(paths)]
			if _, err := cache.Get(path); err != nil {
				errs <- fmt.Errorf("goroutine %d: %w", i, err)
				return
			}
			if _, err := cache.FetchSpan(path, span(1, 1, 1, 3)); err != nil {
				errs <- fmt.Errorf("goroutine %d: %w", i, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	var all []error
	for err := range errs {
		all = append(all, err)
	}
	require.NoError(t, errors.Join(all...))

	stats := cache.Stats()
	assert.Equal(t, len(paths), stats.FilesCached)
	assert.Equal(t, int64(len(paths)), stats.FilesLoaded)
}
