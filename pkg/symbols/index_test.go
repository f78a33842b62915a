package symbols

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/frontend/csharp"
	"github.com/gnana997/syntaxdoc/pkg/parser"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

const shopSource = `using System.Collections.Generic;

namespace Shop
{
    public interface IPriced
    {
        decimal Price { get; }
    }

    public abstract class Item : IPriced
    {
        public abstract decimal Price { get; }
        public virtual string Describe() { return "item"; }
    }

    public sealed class Book : Item, IPriced
    {
        private readonly List<string> authors = new List<string>();
        public override decimal Price { get { return 10; } }
        public override string Describe()
        {
            var count = authors.Count;
            var label = "by " + count;
            foreach (var a in authors)
            {
                label = label + a;
            }
            return label;
        }
        public int Length()
        {
            var d = Describe();
            var other = Book.Create(1);
            return d.Length;
        }
        public static Book Create(int pages) { return new Book(); }
    }

    internal static class Util
    {
        static int Twice(int x) => x * 2;
    }
}
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func parse(t *testing.T, src string) *syntax.Node {
	t.Helper()
	pm := parser.NewParserManager(testLogger())
	t.Cleanup(func() { _ = pm.Close() })

	tree, err := pm.Parse([]byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	root, err := csharp.NewAdapter(testLogger()).Adapt(tree, []byte(src), "Shop.cs")
	require.NoError(t, err)
	return root
}

// named returns the first node of kind whose token matches value.
func named(t *testing.T, root *syntax.Node, kind syntax.Kind, tok, value string) *syntax.Node {
	t.Helper()
	var found *syntax.Node
	root.Walk(func(n *syntax.Node) bool {
		if found == nil && n.Kind() == kind && n.TokenOr(tok, "") == value {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "no %s with %s=%s", kind, tok, value)
	return found
}

func first(t *testing.T, root *syntax.Node, kind syntax.Kind) *syntax.Node {
	t.Helper()
	var found *syntax.Node
	root.Walk(func(n *syntax.Node) bool {
		if found == nil && n.Kind() == kind {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "no %s", kind)
	return found
}

func refOf(t *testing.T, n *syntax.Node) syntax.SymbolRef {
	t.Helper()
	ref, ok := n.Symbol()
	require.True(t, ok, "%s has no symbol", n.Kind())
	return ref
}

func typeOf(t *testing.T, ix *Index, n *syntax.Node) string {
	t.Helper()
	typ, err := ix.TypeOf(refOf(t, n))
	require.NoError(t, err, n.Kind().String())
	return typ
}

func TestBuild_Types(t *testing.T) {
	ix := Build(parse(t, shopSource))

	assert.Equal(t, []string{"Shop.Book", "Shop.IPriced", "Shop.Item", "Shop.Util"}, ix.Types())

	tests := []struct {
		name       string
		access     docgen.Accessibility
		mods       docgen.Modifiers
		baseType   string
		interfaces []string
	}{
		{"Shop.IPriced", docgen.AccessPublic, docgen.ModAbstract, "", nil},
		{"Shop.Item", docgen.AccessPublic, docgen.ModAbstract, "object", []string{"Shop.IPriced"}},
		{"Shop.Book", docgen.AccessPublic, docgen.ModSealed, "Shop.Item", []string{"Shop.IPriced"}},
		{"Shop.Util", docgen.AccessInternal, docgen.ModStatic | docgen.ModAbstract | docgen.ModSealed, "object", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := ix.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, docgen.SymbolNamedType, info.Kind)
			assert.Equal(t, tt.access, info.Accessibility)
			assert.True(t, info.Modifiers.Has(tt.mods))
			assert.Equal(t, tt.baseType, info.BaseType)
			assert.Equal(t, tt.interfaces, info.Interfaces)
		})
	}
}

func TestBuild_Members(t *testing.T) {
	root := parse(t, shopSource)
	ix := Build(root)
	book := named(t, root, syntax.KindTypeDeclaration, "Name", "Book")

	describe := named(t, book, syntax.KindMethodDeclaration, "Name", "Describe")
	info, err := ix.Symbol(refOf(t, describe))
	require.NoError(t, err)
	assert.Equal(t, docgen.SymbolMethod, info.Kind)
	assert.Equal(t, "Shop.Book.Describe", info.QualifiedName)
	assert.Equal(t, "string", info.ReturnType)
	assert.True(t, info.Modifiers.Has(docgen.ModOverride))
	assert.Equal(t, "Shop.Item", info.Overrides)

	price := named(t, book, syntax.KindPropertyDeclaration, "Name", "Price")
	info, err = ix.Symbol(refOf(t, price))
	require.NoError(t, err)
	assert.Equal(t, "decimal", info.Type)
	assert.Equal(t, "Shop.Item", info.Overrides)

	authors := named(t, book, syntax.KindVariableInitializer, "Name", "authors")
	info, err = ix.Symbol(refOf(t, authors))
	require.NoError(t, err)
	assert.Equal(t, docgen.SymbolField, info.Kind)
	assert.Equal(t, docgen.AccessPrivate, info.Accessibility)
	assert.True(t, info.Modifiers.Has(docgen.ModReadonly))
	assert.Equal(t, "List<string>", typeOf(t, ix, authors))

	create := named(t, book, syntax.KindMethodDeclaration, "Name", "Create")
	info, err = ix.Symbol(refOf(t, create))
	require.NoError(t, err)
	assert.Equal(t, "Shop.Book", info.ReturnType)
	assert.True(t, info.Modifiers.Has(docgen.ModStatic))

	iface := named(t, root, syntax.KindTypeDeclaration, "Name", "IPriced")
	info, err = ix.Symbol(refOf(t, named(t, iface, syntax.KindPropertyDeclaration, "Name", "Price")))
	require.NoError(t, err)
	assert.Equal(t, docgen.AccessPublic, info.Accessibility)
	assert.True(t, info.Modifiers.Has(docgen.ModAbstract))
}

func TestBuild_LocalsAndExpressions(t *testing.T) {
	root := parse(t, shopSource)
	ix := Build(root)

	tests := []struct {
		name string
		node func(t *testing.T) *syntax.Node
		want string
	}{
		{"count from well-known member", func(t *testing.T) *syntax.Node { return named(t, root, syntax.KindVariableInitializer, "Name", "count") }, "int"},
		{"label from string concatenation", func(t *testing.T) *syntax.Node { return named(t, root, syntax.KindVariableInitializer, "Name", "label") }, "string"},
		{"foreach variable from element type", func(t *testing.T) *syntax.Node {
			return named(t, root, syntax.KindSingleVariableDesignation, "Identifier", "a")
		}, "string"},
		{"invocation of own method", func(t *testing.T) *syntax.Node { return named(t, root, syntax.KindVariableInitializer, "Name", "d") }, "string"},
		{"static call through type name", func(t *testing.T) *syntax.Node { return named(t, root, syntax.KindVariableInitializer, "Name", "other") }, "Shop.Book"},
		{"parameter", func(t *testing.T) *syntax.Node { return named(t, root, syntax.KindParameterDeclaration, "Name", "pages") }, "int"},
		{"object creation", func(t *testing.T) *syntax.Node {
			create := named(t, root, syntax.KindMethodDeclaration, "Name", "Create")
			return first(t, create, syntax.KindObjectCreateExpression)
		}, "Shop.Book"},
		{"arithmetic", func(t *testing.T) *syntax.Node {
			twice := named(t, root, syntax.KindMethodDeclaration, "Name", "Twice")
			return first(t, twice, syntax.KindBinaryOperatorExpression)
		}, "int"},
		{"literal", func(t *testing.T) *syntax.Node {
			return named(t, root, syntax.KindPrimitiveExpression, "Value", `"item"`)
		}, "string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, typeOf(t, ix, tt.node(t)))
		})
	}
}

func TestBuild_ReferencesResolveToDeclarations(t *testing.T) {
	root := parse(t, shopSource)
	ix := Build(root)
	length := named(t, root, syntax.KindMethodDeclaration, "Name", "Length")

	d := named(t, length, syntax.KindIdentifierExpression, "Identifier", "d")
	info, err := ix.Symbol(refOf(t, d))
	require.NoError(t, err)
	assert.Equal(t, docgen.SymbolLocal, info.Kind)
	assert.Equal(t, "string", info.Type)

	ret := first(t, length, syntax.KindReturnStatement)
	access := first(t, ret, syntax.KindMemberReferenceExpression)
	assert.Equal(t, "int", typeOf(t, ix, access))

	authors := named(t, named(t, root, syntax.KindTypeDeclaration, "Name", "Book"), syntax.KindIdentifierExpression, "Identifier", "authors")
	info, err = ix.Symbol(refOf(t, authors))
	require.NoError(t, err)
	assert.Equal(t, docgen.SymbolField, info.Kind)
	assert.Equal(t, "Shop.Book.authors", info.QualifiedName)
}

func TestBuild_UnknownReference(t *testing.T) {
	ix := Build(parse(t, shopSource))

	_, err := ix.Symbol("Nothing@1:1-1:2")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = ix.TypeOf("Nothing@1:1-1:2")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBuild_PartialTypesMerge(t *testing.T) {
	src := `namespace P
{
    public partial class Split : Base { public int A; }
    public partial class Split : IThing { public int B() { return A; } }
    public class Base { }
}
`
	root := parse(t, src)
	ix := Build(root)

	info, ok := ix.Lookup("P.Split")
	require.True(t, ok)
	assert.Equal(t, "P.Base", info.BaseType)
	assert.Equal(t, []string{"IThing"}, info.Interfaces)

	var parts []*syntax.Node
	root.Walk(func(n *syntax.Node) bool {
		if n.Kind() == syntax.KindTypeDeclaration && n.TokenOr("Name", "") == "Split" {
			parts = append(parts, n)
		}
		return true
	})
	require.Len(t, parts, 2)
	for _, p := range parts {
		got, err := ix.Symbol(refOf(t, p))
		require.NoError(t, err)
		assert.Equal(t, "P.Split", got.QualifiedName)
	}

	ret := first(t, named(t, root, syntax.KindMethodDeclaration, "Name", "B"), syntax.KindReturnStatement)
	assert.Equal(t, "int", typeOf(t, ix, first(t, ret, syntax.KindIdentifierExpression)))
}

func TestBuild_FeedsDocgen(t *testing.T) {
	root := parse(t, shopSource)

	res, err := docgen.NewExtractor(docgen.SourceProfile, testLogger()).Extract(docgen.Unit{
		Root:   root,
		Path:   "Shop.cs",
		Source: shopSource,
		Model:  Build(root),
	})
	require.NoError(t, err)

	doc := res.Document
	book := doc.FindArtifact("Type:Shop.Book")
	require.NotNil(t, book)
	assert.Equal(t, "Shop.Book", book.AttrOr("FullName", ""))
	assert.Equal(t, "Shop.Item", book.AttrOr("BaseType", ""))
	assert.Equal(t, "true", book.AttrOr("IsSealed", ""))

	describe := doc.FindArtifact("Method:Shop.Book.Describe()")
	require.NotNil(t, describe)
	assert.Equal(t, "Shop.Item", describe.AttrOr("OverridesMethodIn", ""))
	assert.Equal(t, "string", describe.AttrOr("ReturnType", ""))
	assert.Equal(t, "Public", describe.AttrOr("DeclaredAccessibility", ""))
}

func TestSplitType(t *testing.T) {
	tests := []struct {
		in   string
		name string
		args []string
	}{
		{"int", "int", nil},
		{"List<int>", "List", []string{"int"}},
		{"Dictionary<string,List<int>>", "Dictionary", []string{"string", "List<int>"}},
		{"Func<(int, string),bool>", "Func", []string{"(int, string)", "bool"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, args := splitType(tt.in)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestElementType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"int[]", "int"},
		{"int[,]", "int"},
		{"string", "char"},
		{"List<Shop.Book>", "Shop.Book"},
		{"IEnumerable<int>", "int"},
		{"Dictionary<string,int>", "KeyValuePair<string,int>"},
		{"System.Collections.Generic.List<int>", "int"},
		{"Shop.Book", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, elementType(tt.in), tt.in)
	}
	assert.Equal(t, "int", indexedType("Dictionary<string,int>"))
	assert.Equal(t, "char", indexedType("string"))
}

func TestBinaryType(t *testing.T) {
	tests := []struct {
		op, left, right, want string
	}{
		{"+", "int", "int", "int"},
		{"+", "byte", "byte", "int"},
		{"*", "int", "double", "double"},
		{"+", "string", "int", "string"},
		{"==", "Shop.Book", "Shop.Book", "bool"},
		{"&&", "bool", "bool", "bool"},
		{"??", "string?", "string", "string"},
		{"<<", "long", "int", "long"},
		{"+", "", "int", ""},
	}
	for _, tt := range tests {
		t.Run(tt.left+tt.op+tt.right, func(t *testing.T) {
			assert.Equal(t, tt.want, binaryType(tt.op, tt.left, tt.right))
		})
	}
}

func TestAwaitedType(t *testing.T) {
	assert.Equal(t, "int", awaitedType("Task<int>"))
	assert.Equal(t, "void", awaitedType("System.Threading.Tasks.Task"))
	assert.Equal(t, "string", awaitedType("ValueTask<string>"))
	assert.Equal(t, "", awaitedType("int"))
}

func TestBuild_DeclarationsInsideConditionalBlocks(t *testing.T) {
	src := `namespace N
{
#if DEBUG
    public abstract class Tracer
    {
#if TRACE
        protected void Dump() { }
#endif
    }
#endif
}
`
	root := parse(t, src)
	ix := Build(root)

	info, ok := ix.Lookup("N.Tracer")
	require.True(t, ok)
	assert.Equal(t, docgen.AccessPublic, info.Accessibility)
	assert.True(t, info.Modifiers.Has(docgen.ModAbstract))

	class := named(t, root, syntax.KindTypeDeclaration, "Name", "Tracer")
	info, err := ix.Symbol(refOf(t, class))
	require.NoError(t, err)
	assert.Equal(t, "N.Tracer", info.QualifiedName)

	dump := named(t, root, syntax.KindMethodDeclaration, "Name", "Dump")
	info, err = ix.Symbol(refOf(t, dump))
	require.NoError(t, err)
	assert.Equal(t, "N.Tracer.Dump", info.QualifiedName)
	assert.Equal(t, docgen.AccessProtected, info.Accessibility)
}
