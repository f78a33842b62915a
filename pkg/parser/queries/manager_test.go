package queries

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/syntaxdoc/pkg/parser"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

type fixture struct {
	parsers *parser.ParserManager
	queries *QueryManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	f := &fixture{parsers: parser.NewParserManager(logger)}
	f.queries = NewQueryManager(f.parsers, logger)
	t.Cleanup(func() {
		f.queries.Close()
		f.parsers.Close()
	})
	return f
}

func (f *fixture) parse(t *testing.T, source []byte) *ts.Tree {
	t.Helper()
	tree, err := f.parsers.Parse(source)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func (f *fixture) outline(t *testing.T, source []byte) []OutlineEntry {
	t.Helper()
	entries, err := f.queries.Outline(f.parse(t, source), source)
	require.NoError(t, err)
	return entries
}

func loadTestFile(t *testing.T, filename string) []byte {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("..", "testdata", filename))
	require.NoError(t, err, "failed to read test file %s", filename)
	return content
}

func TestQueryCompilation(t *testing.T) {
	f := newFixture(t)

	for _, kind := range []QueryKind{QueryDeclarations, QueryUsings} {
		t.Run(kind.String(), func(t *testing.T) {
			q, err := f.queries.Query(kind)
			require.NoError(t, err)
			assert.NotNil(t, q)

			again, err := f.queries.Query(kind)
			require.NoError(t, err)
			assert.Same(t, q, again, "compiled query is reused")
		})
	}

	_, err := f.queries.Query(QueryKind(42))
	assert.ErrorIs(t, err, ErrUnknownQuery)
}

func TestQueryConcurrentAccess(t *testing.T) {
	f := newFixture(t)

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			kind := QueryDeclarations
			if i%2 == 1 {
				kind = QueryUsings
			}
			if _, err := f.queries.Query(kind); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, f.queries.compiled, 2)
}

func TestOutline_Sample(t *testing.T) {
	f := newFixture(t)
	entries := f.outline(t, loadTestFile(t, "Sample.cs"))

	found := make(map[string]string)
	for _, e := range entries {
		found[e.QualifiedName()] = e.Kind
	}

	assert.Equal(t, "namespace", found["Sample.Geometry"])
	assert.Equal(t, "struct", found["Sample.Geometry.Point"])
	assert.Equal(t, "constructor", found["Sample.Geometry.Point.Point"])
	assert.Equal(t, "property", found["Sample.Geometry.Point.X"])
	assert.Equal(t, "method", found["Sample.Geometry.Point.DistanceTo"])
	assert.Equal(t, "interface", found["Sample.Geometry.IShape"])
	assert.Equal(t, "method", found["Sample.Geometry.IShape.Area"])
	assert.Equal(t, "class", found["Sample.Geometry.Polygon"])
	assert.Equal(t, "field", found["Sample.Geometry.Polygon._points"])
	assert.Equal(t, "enum", found["Sample.Geometry.Orientation"])

	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Location.StartByte, entries[i].Location.StartByte, "entries are in source order")
	}
}

func TestOutline_FileScopedNamespace(t *testing.T) {
	f := newFixture(t)
	entries := f.outline(t, []byte("namespace Acme.Tools;\n\npublic class Runner\n{\n    public void Run() { }\n}\n"))

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.QualifiedName())
	}
	assert.Contains(t, names, "Acme.Tools")
	assert.Contains(t, names, "Acme.Tools.Runner")
	assert.Contains(t, names, "Acme.Tools.Runner.Run")
}

func TestOutline_Locations(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantKinds  []string
		wantLine   int
		wantColumn int
	}{
		{
			name:       "member indented",
			source:     "class A\n{\n    int B() => 1;\n}\n",
			wantKinds:  []string{"class", "method"},
			wantLine:   3,
			wantColumn: 5,
		},
		{
			name:       "columns count runes",
			source:     "/* 🎉 */ class A { }\n",
			wantKinds:  []string{"class"},
			wantLine:   1,
			wantColumn: 9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := newFixture(t).outline(t, []byte(tt.source))
			require.Len(t, entries, len(tt.wantKinds))
			for i, kind := range tt.wantKinds {
				assert.Equal(t, kind, entries[i].Kind)
			}

			last := entries[len(entries)-1].Location
			assert.Equal(t, tt.wantLine, last.StartLine)
			assert.Equal(t, tt.wantColumn, last.StartColumn)

			idx := syntax.NewLineIndex([]byte(tt.source))
			assert.Equal(t, tt.source[last.StartByte:last.EndByte], idx.Slice(last.Span()))
		})
	}
}

func TestUsings(t *testing.T) {
	f := newFixture(t)
	source := []byte("global using System;\nusing static System.Math;\nusing IO = System.IO;\nusing System.Collections.Generic;\nclass C { }\n")

	usings, err := f.queries.Usings(f.parse(t, source), source)
	require.NoError(t, err)
	require.Len(t, usings, 4)

	assert.Equal(t, "System", usings[0].Name)
	assert.True(t, usings[0].IsGlobal)

	assert.Equal(t, "System.Math", usings[1].Name)
	assert.True(t, usings[1].IsStatic)

	assert.Equal(t, "System.IO", usings[2].Name)
	assert.Equal(t, "IO", usings[2].Alias)

	assert.Equal(t, "System.Collections.Generic", usings[3].Name)
	assert.Equal(t, 4, usings[3].Location.StartLine)
}

func TestRun_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.queries.Run(QueryDeclarations, nil, nil)
	assert.Error(t, err)

	tree := f.parse(t, []byte("class C { }"))
	_, err = f.queries.Run(QueryKind(7), tree, nil)
	assert.ErrorIs(t, err, ErrUnknownQuery)
}

func TestParseCaptureName(t *testing.T) {
	tests := []struct {
		name     string
		category string
		field    string
	}{
		{"method.name", "method", "name"},
		{"using.definition", "using", "definition"},
		{"target", "target", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, field := parseCaptureName(tt.name)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestQueryKindString(t *testing.T) {
	assert.Equal(t, "declarations", QueryDeclarations.String())
	assert.Equal(t, "usings", QueryUsings.String())
	assert.Equal(t, "QueryKind(9)", QueryKind(9).String())
}
