package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/frontend"
	"github.com/gnana997/syntaxdoc/pkg/frontend/decompiled"
	"github.com/gnana997/syntaxdoc/pkg/parser"
	"github.com/gnana997/syntaxdoc/pkg/parser/queries"
)

// setupExtractor creates an extractor for testing
func setupExtractor(t *testing.T) *Extractor {
	pm := parser.NewParserManager(nil)
	qm := queries.NewQueryManager(pm, nil)
	t.Cleanup(func() {
		_ = qm.Close()
		_ = pm.Close()
	})
	return NewExtractor(pm, qm, nil)
}

func readTestdata(t *testing.T, name string) (string, []byte) {
	t.Helper()
	path := filepath.Join("testdata", name)
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	return path, src
}

func artifactIDs(artifacts []docgen.Artifact) []string {
	ids := make([]string, len(artifacts))
	for i, a := range artifacts {
		ids[i] = a.ID
	}
	return ids
}

func TestExtractFile_CSharp(t *testing.T) {
	ex := setupExtractor(t)
	path, src := readTestdata(t, "Inventory.cs")

	result, err := ex.ExtractFile(path, src)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, path, result.Path)
	assert.Equal(t, xxhash.Sum64(src), result.Hash)
	assert.Positive(t, result.Nodes)

	root := result.Document.Root()
	assert.Equal(t, "CompilationUnit", root.Label())
	assert.Equal(t, path, root.AttrOr("FilePath", ""))
	assert.Equal(t, string(src), root.Text())

	ids := artifactIDs(result.Artifacts)
	for _, want := range []string{
		"Type:Warehouse.IStock",
		"Type:Warehouse.Inventory",
		"Method:Warehouse.Inventory.Add(string)",
		"Method:Warehouse.Inventory.Count()",
		"Type:Warehouse.Zone",
	} {
		assert.Contains(t, ids, want)
	}

	inventory := result.Document.FindArtifact("Type:Warehouse.Inventory")
	require.NotNil(t, inventory)
	assert.Equal(t, "Warehouse.Inventory", inventory.AttrOr("FullName", ""))
	assert.Equal(t, "Public", inventory.AttrOr("DeclaredAccessibility", ""))

	count := result.Document.FindArtifact("Method:Warehouse.Inventory.Count()")
	require.NotNil(t, count)
	assert.Equal(t, "int", count.AttrOr("ReturnType", ""))
}

func TestExtractFile_Usings(t *testing.T) {
	ex := setupExtractor(t)
	path, src := readTestdata(t, "Inventory.cs")

	result, err := ex.ExtractFile(path, src)
	require.NoError(t, err)

	require.Len(t, result.Usings, 3)
	assert.Equal(t, "System", result.Usings[0].Name)
	assert.Equal(t, "System.Collections.Generic", result.Usings[1].Name)
	assert.Equal(t, "System.IO", result.Usings[2].Name)
	assert.Equal(t, "IO", result.Usings[2].Alias)
}

func TestExtractFile_Errors(t *testing.T) {
	ex := setupExtractor(t)
	_, broken := readTestdata(t, "Broken.cs")

	tests := []struct {
		name   string
		path   string
		source []byte
		target error
	}{
		{
			name:   "unsupported extension",
			path:   "notes.txt",
			source: []byte("hello"),
			target: parser.ErrNotCSharp,
		},
		{
			name:   "syntax error",
			path:   "Broken.cs",
			source: broken,
			target: frontend.ErrSyntax,
		},
		{
			name:   "unsupported construct",
			path:   "With.cs",
			source: []byte("namespace N { class C { object M(P p) { return p with { X = 1 }; } } }"),
			target: docgen.ErrUnsupportedConstruct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ex.ExtractFile(tt.path, tt.source)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestExtractFile_Expressions(t *testing.T) {
	ex := setupExtractor(t)

	tests := []struct {
		name  string
		body  string
		label string
		attr  string
		want  string
	}{
		{name: "interpolation", body: `$"a{t}b"`, label: "Interpolation"},
		{name: "interpolation alignment", body: `$"a{t,5}b"`, label: "Interpolation", attr: "Alignment", want: "5"},
		{name: "interpolation format", body: `$"a{t:X2}b"`, label: "Interpolation", attr: "Suffix", want: "X2"},
		{name: "verbatim interpolation", body: `@$"a{t}b"`, label: "InterpolatedStringExpression", attr: "IsVerbatim", want: "true"},
		{name: "raw interpolation", body: `$"""a{t}b"""`, label: "InterpolatedStringExpression", attr: "IsRaw", want: "true"},
		{name: "long literal", body: "5L", label: "PrimitiveExpression", attr: "Type", want: "long"},
		{name: "hex long literal", body: "0xFFL", label: "PrimitiveExpression", attr: "Type", want: "long"},
		{name: "unsigned literal", body: "1u", label: "PrimitiveExpression", attr: "Type", want: "uint"},
		{name: "float literal", body: "1.5f", label: "PrimitiveExpression", attr: "Type", want: "float"},
		{name: "decimal literal", body: "2m", label: "PrimitiveExpression", attr: "Type", want: "decimal"},
		{name: "group join", body: "from x in xs join y in xs on x equals y into g select g", label: "QueryJoinClause", attr: "IsGroupJoin", want: "true"},
		{name: "element binding", body: "xs?[0]", label: "ElementBindingExpression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "class C { object M(int t, int[] xs) => " + tt.body + "; }"
			result, err := ex.ExtractFile("E.cs", []byte(src))
			require.NoError(t, err)

			node := result.Document.Root().Find(tt.label)
			require.NotNil(t, node, "no %s", tt.label)
			assert.Positive(t, node.ChildCount()+len(node.Attrs()))
			if tt.attr != "" {
				assert.Equal(t, tt.want, node.AttrOr(tt.attr, ""))
			}
		})
	}
}

func TestExtractFile_NoQueryManager(t *testing.T) {
	pm := parser.NewParserManager(nil)
	defer pm.Close()
	ex := NewExtractor(pm, nil, nil)

	path, src := readTestdata(t, "Inventory.cs")
	result, err := ex.ExtractFile(path, src)
	require.NoError(t, err)
	assert.Empty(t, result.Usings)
	assert.NotEmpty(t, result.Artifacts)

	_, err = ex.Outline(path, src)
	assert.Error(t, err)
}

const dumpJSON = `{
  "assembly": "Acme.Store.dll",
  "types": [
    {
      "name": "Acme.Store.Cart",
      "namespace": "Acme.Store",
      "source": "public class Cart { }\n",
      "root": {
        "kind": "TypeDeclaration",
        "span": {"start": {"line": 1, "col": 1}, "end": {"line": 1, "col": 22}},
        "tokens": {"Name": "Cart", "ClassType": "class"},
        "modifiers": ["public"],
        "symbol": "T:Acme.Store.Cart"
      },
      "symbols": {
        "T:Acme.Store.Cart": {
          "kind": "NamedType",
          "name": "Cart",
          "qualifiedName": "Acme.Store.Cart",
          "accessibility": "Public",
          "baseType": "System.Object"
        }
      }
    },
    {
      "name": "Acme.Store.Matcher",
      "namespace": "Acme.Store",
      "source": "public class Matcher { }\n",
      "root": {
        "kind": "RecursivePattern",
        "span": {"start": {"line": 1, "col": 1}, "end": {"line": 1, "col": 25}}
      }
    }
  ]
}`

func TestExtractDecompiled_IsolatesFailures(t *testing.T) {
	ex := setupExtractor(t)
	dump, err := decompiled.DecodeBytes([]byte(dumpJSON))
	require.NoError(t, err)

	outcomes := ex.ExtractDecompiled(dump)
	require.Len(t, outcomes, 2)

	cart := outcomes[0]
	assert.Equal(t, "Acme.Store.Cart", cart.Name)
	require.NoError(t, cart.Err)
	require.NotNil(t, cart.Result)
	assert.Equal(t, "Acme.Store.Cart", cart.Result.Path)
	assert.Equal(t, "Acme.Store.dll", cart.Result.Source)
	assert.Empty(t, cart.Result.Usings)

	root := cart.Result.Document.Root()
	assert.Equal(t, "Type", root.Label())
	assert.Equal(t, "Acme.Store.dll", root.AttrOr("Assembly", ""))
	assert.Equal(t, "Type:Acme.Store.Cart", root.AttrOr(docgen.AttrArtifact, ""))

	matcher := outcomes[1]
	assert.Equal(t, "Acme.Store.Matcher", matcher.Name)
	assert.Nil(t, matcher.Result)
	require.Error(t, matcher.Err)
	assert.ErrorIs(t, matcher.Err, docgen.ErrUnsupportedConstruct)
	assert.Contains(t, matcher.Err.Error(), "Acme.Store.Matcher")
}

func TestOutline(t *testing.T) {
	ex := setupExtractor(t)
	path, src := readTestdata(t, "Inventory.cs")

	entries, err := ex.Outline(path, src)
	require.NoError(t, err)

	names := make(map[string]string)
	for _, e := range entries {
		names[e.QualifiedName()] = e.Kind
	}
	assert.Equal(t, "interface", names["Warehouse.IStock"])
	assert.Equal(t, "class", names["Warehouse.Inventory"])
	assert.Equal(t, "enum", names["Warehouse.Zone"])
	assert.Equal(t, "method", names["Warehouse.Inventory.Add"])
}
