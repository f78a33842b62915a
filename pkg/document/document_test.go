package document

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = "class Foo\n{\n\tvoid Bar() { }\n}\n"

func sampleDocument() *Document {
	method := NewNodeBuilder("MethodDeclaration").
		Set("Name", "Bar").
		Set("Artifact", "Method:Foo.Bar()").
		Build()
	typ := NewNodeBuilder("TypeDeclaration").
		Set("Name", "Foo").
		Set("Artifact", "Type:Foo").
		Append(method).
		Build()
	root := NewNodeBuilder("CompilationUnit").
		Set("Language", "C#").
		Set("FilePath", "src/Foo.cs").
		SetText(sampleSource).
		Append(typ).
		Build()
	return New(root, "C#", "src/Foo.cs")
}

func TestNodeBuilder(t *testing.T) {
	b := NewNodeBuilder("PrimitiveExpression")
	b.Set("Value", "1").Set("LiteralFormat", "Decimal").SetBool("Checked", true).SetInt("StartLine", 3)
	b.Set("Value", "2")
	b.Append(nil)

	assert.True(t, b.Has("Value"))
	assert.False(t, b.Has("Missing"))

	n := b.Build()
	assert.Equal(t, "PrimitiveExpression", n.Label())
	assert.Equal(t, []Attr{
		{"Value", "2"},
		{"LiteralFormat", "Decimal"},
		{"Checked", "true"},
		{"StartLine", "3"},
	}, n.Attrs(), "replacing a key keeps its position")
	assert.Equal(t, 0, n.ChildCount())
	assert.Nil(t, n.Child(0))
}

func TestNodeAccessorsReturnCopies(t *testing.T) {
	doc := sampleDocument()
	root := doc.Root()

	attrs := root.Attrs()
	attrs[0].Value = "changed"
	children := root.Children()
	children[0] = nil

	assert.Equal(t, "C#", root.AttrOr("Language", ""))
	require.NotNil(t, root.Child(0))
}

func TestFindAndArtifacts(t *testing.T) {
	doc := sampleDocument()

	assert.Equal(t, []string{"Type:Foo", "Method:Foo.Bar()"}, doc.Artifacts())

	method := doc.FindArtifact("Method:Foo.Bar()")
	require.NotNil(t, method)
	assert.Equal(t, "MethodDeclaration", method.Label())
	assert.Nil(t, doc.FindArtifact("Type:Missing"))

	assert.Len(t, doc.Root().FindAll("TypeDeclaration"), 1)
	assert.Nil(t, doc.Root().Find("ReturnStatement"))
}

func TestXMLRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	require.NoError(t, doc.WriteXML(&buf))
	out := buf.String()

	assert.Contains(t, out, `<CompilationUnit Language="C#" FilePath="src/Foo.cs" Source="class Foo&#xA;{`)
	assert.True(t, strings.Index(out, "<TypeDeclaration") < strings.Index(out, "<MethodDeclaration"))

	back, err := ReadXML(&buf)
	require.NoError(t, err)
	assert.True(t, doc.Equal(back), "XML round trip must preserve the tree")
	assert.Equal(t, sampleSource, back.Source())
	assert.Equal(t, "src/Foo.cs", back.Path())
	assert.Equal(t, "C#", back.Language())
}

func TestXMLFile(t *testing.T) {
	doc := sampleDocument()
	path := filepath.Join(t.TempDir(), "Foo.xml")

	require.NoError(t, doc.WriteXMLFile(path))
	back, err := ReadXMLFile(path)
	require.NoError(t, err)
	assert.True(t, doc.Equal(back))

	_, err = ReadXMLFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestMarshalJSONKeepsAttributeOrder(t *testing.T) {
	n := NewNodeBuilder("BinaryOperatorExpression").
		Set("Operator", "+").
		Set("Type", "int").
		Set("StartLine", "1").
		Build()

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `{"label":"BinaryOperatorExpression","attributes":{"Operator":"+","Type":"int","StartLine":"1"}}`, string(data))

	data, err = json.Marshal(sampleDocument())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "C#", decoded["language"])
	root := decoded["root"].(map[string]any)
	assert.Equal(t, sampleSource, root["text"])
	assert.Len(t, root["children"], 1)
}

func TestDiagnostics(t *testing.T) {
	assert.Nil(t, DiagnosticsXML(nil))

	doc := DiagnosticsXML([]Diagnostic{
		{Message: "unsupported construct StackAllocExpression", Filename: "a.cs", StartLine: 3, EndLine: 3},
		{Message: "artifact collision"},
	})
	require.NotNil(t, doc)
	diags := doc.FindElements("/Diagnostics/Diagnostic")
	require.Len(t, diags, 2)
	assert.Equal(t, "a.cs", diags[0].SelectAttrValue("Filename", ""))
	assert.Equal(t, "3", diags[0].SelectAttrValue("StartLine", ""))
	assert.Nil(t, diags[1].SelectAttr("Filename"))

	path := filepath.Join(t.TempDir(), DiagnosticsFileName)
	require.NoError(t, WriteDiagnostics(path, []Diagnostic{{Message: "boom"}}))
	_, err := os.Stat(path)
	require.NoError(t, err)

	check := etree.NewDocument()
	require.NoError(t, check.ReadFromFile(path))
	assert.Equal(t, "boom", check.FindElement("//Diagnostic").SelectAttrValue("Message", ""))

	require.NoError(t, WriteDiagnostics(path, nil), "clean run removes stale diagnostics")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, WriteDiagnostics(path, nil), "removing twice is fine")
}
