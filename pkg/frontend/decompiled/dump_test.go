package decompiled

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/frontend"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

func loadDump(t *testing.T) *Dump {
	t.Helper()
	f, err := os.Open("testdata/Acme.Core.json")
	require.NoError(t, err)
	defer f.Close()

	d, err := Decode(f)
	require.NoError(t, err)
	return d
}

func TestDecode(t *testing.T) {
	d := loadDump(t)

	assert.Equal(t, "Acme.Core.dll", d.Assembly)
	require.Len(t, d.Types, 2)
	assert.Equal(t, "Acme.Core.Widget", d.Types[0].Name)
	assert.Equal(t, "Acme.Core", d.Types[0].Namespace)
	assert.Len(t, d.Types[0].Symbols, 3)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"no assembly", `{"types": []}`},
		{"unnamed type", `{"assembly": "a.dll", "types": [{"root": {"kind": "TypeDeclaration"}}]}`},
		{"no root", `{"assembly": "a.dll", "types": [{"name": "A"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, frontend.ErrMalformedInput))
		})
	}
}

func TestTree_WrapsTypeRoot(t *testing.T) {
	d := loadDump(t)

	root := d.Types[0].Tree()
	assert.Equal(t, syntax.KindCompilationUnit, root.Kind())

	members := root.Children(syntax.RoleMembers)
	require.Len(t, members, 1)
	class := members[0]
	assert.Equal(t, syntax.KindTypeDeclaration, class.Kind())
	assert.Equal(t, root.Span(), class.Span())
	assert.True(t, class.HasModifier("public"))

	ref, ok := class.Symbol()
	require.True(t, ok)
	assert.Equal(t, syntax.SymbolRef("T:Acme.Core.Widget"), ref)
	assert.Len(t, class.Children(syntax.RoleMembers), 2)
}

func TestExtract_DecompiledWidget(t *testing.T) {
	d := loadDump(t)
	ex := docgen.NewExtractor(docgen.DecompiledProfile, nil)

	res, err := ex.Extract(d.Types[0].Unit(d.Assembly))
	require.NoError(t, err)

	root := res.Document.Root()
	assert.Equal(t, "Type", root.Label())
	assert.Equal(t, "Acme.Core.dll", root.AttrOr("Assembly", ""))
	assert.Equal(t, "Type:Acme.Core.Widget", root.AttrOr(docgen.AttrArtifact, ""))
	assert.True(t, strings.HasPrefix(root.Text(), "public class Widget"))

	class := root.Find("TypeDeclaration")
	require.NotNil(t, class)
	assert.Equal(t, "Acme.Core.Widget", class.AttrOr("FullName", ""))
	assert.Equal(t, "Public", class.AttrOr("DeclaredAccessibility", ""))
	assert.Equal(t, "System.Object", class.AttrOr("BaseType", ""))
	assert.Equal(t, "System.IDisposable", class.AttrOr("Interfaces", ""))

	method := root.Find("MethodDeclaration")
	require.NotNil(t, method)
	assert.Equal(t, "true", method.AttrOr("IsVirtual", ""))
	assert.Equal(t, "void", method.AttrOr("ReturnType", ""))
	_, hasArtifact := method.Attr(docgen.AttrArtifact)
	assert.False(t, hasArtifact)

	param := root.Find("ParameterDeclaration")
	require.NotNil(t, param)
	assert.Equal(t, "int", param.AttrOr("Type", ""))

	variable := root.Find("VariableInitializer")
	require.NotNil(t, variable)
	assert.Equal(t, "int", variable.AttrOr("Type", ""))

	assert.Empty(t, res.Diagnostics)
}

func TestExtract_EveryDumpedType(t *testing.T) {
	d := loadDump(t)
	ex := docgen.NewExtractor(docgen.DecompiledProfile, nil)

	var artifacts []string
	for i := range d.Types {
		res, err := ex.Extract(d.Types[i].Unit(d.Assembly))
		require.NoError(t, err, d.Types[i].Name)
		artifacts = append(artifacts, res.Document.Root().AttrOr(docgen.AttrArtifact, ""))
	}
	assert.Equal(t, []string{"Type:Acme.Core.Widget", "Type:Acme.Core.Color"}, artifacts)
}

func TestExtract_UnknownKindFailsUnit(t *testing.T) {
	data := `{
	  "assembly": "a.dll",
	  "types": [{
	    "name": "N.A",
	    "namespace": "N",
	    "source": "class A { }",
	    "root": {
	      "kind": "TypeDeclaration",
	      "span": {"start": {"line": 1, "col": 1}, "end": {"line": 1, "col": 12}},
	      "tokens": {"Name": "A", "ClassType": "class"},
	      "slots": [{"role": "members", "nodes": [{
	        "kind": "RecursivePattern",
	        "span": {"start": {"line": 1, "col": 9}, "end": {"line": 1, "col": 12}}
	      }]}]
	    }
	  }]
	}`
	d, err := DecodeBytes([]byte(data))
	require.NoError(t, err)

	_, err = docgen.NewExtractor(docgen.DecompiledProfile, nil).Extract(d.Types[0].Unit(d.Assembly))
	require.Error(t, err)
	assert.True(t, errors.Is(err, docgen.ErrUnsupportedConstruct))

	var unsupported *docgen.UnsupportedConstructError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "RecursivePattern", unsupported.Construct)
}

func TestExtract_MissingSpanFailsUnit(t *testing.T) {
	data := `{
	  "assembly": "a.dll",
	  "types": [{
	    "name": "N.A",
	    "source": "class A { }",
	    "root": {
	      "kind": "TypeDeclaration",
	      "span": {"start": {"line": 1, "col": 1}, "end": {"line": 1, "col": 12}},
	      "tokens": {"Name": "A", "ClassType": "class"},
	      "slots": [{"role": "members", "nodes": [{"kind": "MethodDeclaration", "tokens": {"Name": "M"}}]}]
	    }
	  }]
	}`
	d, err := DecodeBytes([]byte(data))
	require.NoError(t, err)

	_, err = docgen.NewExtractor(docgen.DecompiledProfile, nil).Extract(d.Types[0].Unit(d.Assembly))
	require.Error(t, err)
	assert.True(t, errors.Is(err, docgen.ErrInvalidPosition))
}

func TestTable(t *testing.T) {
	table := NewTable(map[string]SymbolDump{
		"T:A": {Kind: "NamedType", Name: "A", QualifiedName: "N.A", Modifiers: []string{"abstract", "partial", "bogus"}},
		"F:x": {Kind: "Field", Name: "x", Type: "string", Accessibility: "Private"},
	}, map[string]string{"E:1": "int"})

	info, err := table.Symbol("T:A")
	require.NoError(t, err)
	assert.Equal(t, docgen.AccessNotApplicable, info.Accessibility)
	assert.True(t, info.Modifiers.Has(docgen.ModAbstract|docgen.ModPartial))
	assert.False(t, info.Modifiers.Has(docgen.ModSealed))

	typ, err := table.TypeOf("F:x")
	require.NoError(t, err)
	assert.Equal(t, "string", typ)

	typ, err = table.TypeOf("E:1")
	require.NoError(t, err)
	assert.Equal(t, "int", typ)

	_, err = table.Symbol("T:Missing")
	assert.True(t, errors.Is(err, ErrUnknownSymbol))
	_, err = table.TypeOf("T:A")
	assert.True(t, errors.Is(err, ErrUnknownSymbol))
	assert.Equal(t, 2, table.Len())
}
