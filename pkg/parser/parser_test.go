package parser

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/syntaxdoc/pkg/util"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestParse(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	tree, err := manager.Parse(readTestFile(t, "Sample.cs"))
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "compilation_unit", root.Kind())
	assert.False(t, root.HasError(), "Sample should parse cleanly")
	assert.Contains(t, root.ToSexp(), "namespace_declaration")
	assert.Contains(t, root.ToSexp(), "struct_declaration")
}

func TestParseFile(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	tests := []struct {
		path    string
		wantErr bool
		scripts int
	}{
		{"src/Sample.cs", false, 0},
		{"tools/build.csx", false, 1},
		{"README.md", true, 1},
		{"Sample.ts", true, 1},
	}
	source := []byte("class C { }")
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			tree, err := manager.ParseFile(source, tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotCSharp)
				assert.Nil(t, tree)
			} else {
				require.NoError(t, err)
				tree.Close()
			}
			assert.Equal(t, tt.scripts, manager.GetStats().ScriptsParsed)
		})
	}
}

func TestParsersCreatedLazily(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	assert.Zero(t, manager.GetStats().ParsersCreated)

	for i := 1; i <= 2; i++ {
		tree, err := manager.Parse([]byte("class C { }"))
		require.NoError(t, err)
		tree.Close()

		stats := manager.GetStats()
		assert.Equal(t, 1, stats.ParsersCreated, "sequential parses reuse one parser")
		assert.Equal(t, i, stats.ParsesCalled)
	}
}

func TestParseInvalidSyntax(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	tree, err := manager.Parse([]byte("class { void ( }"))
	require.NoError(t, err, "syntax errors are reported in the tree, not as an error")
	require.NotNil(t, tree)
	defer tree.Close()

	assert.True(t, tree.RootNode().HasError())
	assert.Equal(t, 1, manager.GetStats().ParseErrors)
}

func TestParseContext_WaitsForFreeParser(t *testing.T) {
	manager := NewParserManagerWithPoolSize(testLogger(), 1)
	defer manager.Close()

	// Hold the only parser.
	held, err := manager.pool.get(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = manager.ParseContext(ctx, []byte("class C { }"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, manager.GetStats().PoolWaits)

	manager.pool.put(held)
	tree, err := manager.ParseContext(context.Background(), []byte("class C { }"))
	require.NoError(t, err)
	tree.Close()
	assert.Equal(t, 1, manager.GetStats().ParsersCreated)
}

func TestParseAfterClose(t *testing.T) {
	manager := NewParserManager(testLogger())

	tree, err := manager.Parse([]byte("class C { }"))
	require.NoError(t, err)
	tree.Close()

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close(), "Close is idempotent")

	_, err = manager.Parse([]byte("class C { }"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPutAfterClose(t *testing.T) {
	manager := NewParserManager(testLogger())

	held, err := manager.pool.get(context.Background())
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	assert.NotPanics(t, func() { manager.pool.put(held) })
}

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		path string
		want Dialect
	}{
		{"file.cs", DialectRegular},
		{"File.CS", DialectRegular},
		{"script.csx", DialectScript},
		{"BUILD.CSX", DialectScript},
		{"file.ts", DialectNone},
		{"file.txt", DialectNone},
		{"Makefile", DialectNone},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDialect(tt.path))
			assert.Equal(t, tt.want != DialectNone, IsSourceFile(tt.path))
		})
	}
}

func TestDialectString(t *testing.T) {
	assert.Equal(t, "cs", DialectRegular.String())
	assert.Equal(t, "csx", DialectScript.String())
	assert.Equal(t, "none", DialectNone.String())
}

func TestPoolSizeOverride(t *testing.T) {
	manager := NewParserManagerWithPoolSize(testLogger(), 2)
	defer manager.Close()
	assert.Equal(t, 2, manager.PoolSize())

	defaults := NewParserManager(testLogger())
	defer defaults.Close()
	assert.Equal(t, util.GetOptimalPoolSize(), defaults.PoolSize())
}

func readTestFile(t *testing.T, fileName string) []byte {
	data, err := os.ReadFile(filepath.Join("testdata", fileName))
	require.NoError(t, err, "Should be able to read test file %s", fileName)
	return data
}
