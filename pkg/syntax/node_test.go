package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		name := k.String()
		require.NotEqual(t, "Invalid", name, "kind %d has no name", int(k))

		parsed, ok := ParseKind(name)
		require.True(t, ok, "ParseKind(%q)", name)
		assert.Equal(t, k, parsed)
	}

	_, ok := ParseKind("NoSuchKind")
	assert.False(t, ok)
	assert.Equal(t, "Invalid", Kind(-3).String())
}

func TestNodeSlots(t *testing.T) {
	cond := New(KindIdentifierExpression, Span{}).SetToken("Identifier", "x")
	then := New(KindBlockStatement, Span{})

	n := New(KindIfElseStatement, Span{}).
		Set(RoleCondition, cond).
		Set(RoleConsequence, then).
		Set(RoleAlternative, nil)

	assert.Same(t, cond, n.Child(RoleCondition))
	assert.Same(t, then, n.Child(RoleConsequence))
	assert.Nil(t, n.Child(RoleAlternative), "nil optional child must stay absent")
	assert.Equal(t, []Role{RoleCondition, RoleConsequence}, n.Roles())
}

func TestNodeAppendKeepsOrder(t *testing.T) {
	a := New(KindPrimitiveExpression, Span{}).SetToken("Value", "1")
	b := New(KindPrimitiveExpression, Span{}).SetToken("Value", "2")
	c := New(KindPrimitiveExpression, Span{}).SetToken("Value", "3")

	n := New(KindInvocationExpression, Span{})
	n.Append(RoleArguments, a, nil)
	n.Append(RoleArguments, b, c)

	args := n.Children(RoleArguments)
	require.Len(t, args, 3)
	for i, want := range []string{"1", "2", "3"} {
		v, _ := args[i].Token("Value")
		assert.Equal(t, want, v)
	}
}

func TestNodeTokensAndModifiers(t *testing.T) {
	n := New(KindMethodDeclaration, Span{}).
		SetToken("Name", "Run").
		SetFlag("IsAsync", true).
		SetFlag("HasBody", false).
		AddModifier("public").
		AddModifier("static").
		SetSymbol("12:40").
		SetComment("// runs")

	name, ok := n.Token("Name")
	assert.True(t, ok)
	assert.Equal(t, "Run", name)
	assert.Equal(t, "fallback", n.TokenOr("Missing", "fallback"))
	assert.True(t, n.Flag("IsAsync"))
	assert.False(t, n.Flag("HasBody"))
	assert.True(t, n.HasModifier("static"))
	assert.False(t, n.HasModifier("abstract"))

	ref, ok := n.Symbol()
	assert.True(t, ok)
	assert.Equal(t, SymbolRef("12:40"), ref)
	assert.Equal(t, "// runs", n.Comment())
}

func TestNodeWalk(t *testing.T) {
	ret := New(KindReturnStatement, Span{})
	block := New(KindBlockStatement, Span{}).Append(RoleStatements, ret)
	method := New(KindMethodDeclaration, Span{}).Set(RoleBody, block)
	root := New(KindTypeDeclaration, Span{}).Append(RoleMembers, method)

	var seen []Kind
	root.Walk(func(n *Node) bool {
		seen = append(seen, n.Kind())
		return n.Kind() != KindBlockStatement
	})

	assert.Equal(t, []Kind{KindTypeDeclaration, KindMethodDeclaration, KindBlockStatement}, seen)
}

func TestMakeRef(t *testing.T) {
	span := Span{Start: Point{Line: 3, Col: 5}, End: Point{Line: 3, Col: 12}}
	assert.Equal(t, SymbolRef("MethodDeclaration@3:5-3:12"), MakeRef(KindMethodDeclaration, span))
	assert.NotEqual(t, MakeRef(KindIdentifierExpression, span), MakeRef(KindMemberReferenceExpression, span))
}
