package csharp

import (
	"strconv"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// typeKinds lists the grammar nodes that denote types.
var typeKinds = map[string]bool{
	"predefined_type":       true,
	"implicit_type":         true,
	"generic_name":          true,
	"qualified_name":        true,
	"alias_qualified_name":  true,
	"nullable_type":         true,
	"pointer_type":          true,
	"array_type":            true,
	"tuple_type":            true,
	"ref_type":              true,
	"scoped_type":           true,
	"function_pointer_type": true,
}

func isType(n *ts.Node) bool {
	return typeKinds[n.Kind()]
}

// typ converts a type reference.
func (c *converter) typ(n *ts.Node) *syntax.Node {
	switch n.Kind() {
	case "identifier":
		return c.simpleType(n, c.text(n))
	case "implicit_type":
		return c.simpleType(n, "var")
	case "generic_name":
		return c.genericName(syntax.KindSimpleType, "Identifier", n)
	case "qualified_name":
		return c.qualifiedName(n)
	case "alias_qualified_name":
		return c.aliasQualifiedName(n)
	case "predefined_type":
		return c.make(syntax.KindPrimitiveType, n).SetToken("Keyword", c.text(n))
	case "nullable_type":
		out := c.make(syntax.KindComposedType, n).SetFlag("HasNullableSpecifier", true)
		if inner := field(n, "type"); inner != nil {
			out.Set(syntax.RoleBaseType, c.typ(inner))
		} else if inner := firstNamed(n); inner != nil {
			out.Set(syntax.RoleBaseType, c.typ(inner))
		}
		return out
	case "pointer_type":
		return c.pointerType(n)
	case "array_type":
		return c.arrayType(n)
	case "tuple_type":
		return c.tupleType(n)
	case "ref_type", "scoped_type":
		if inner := field(n, "type"); inner != nil {
			return c.typ(inner)
		}
		if inner := lastNamed(n); inner != nil {
			return c.typ(inner)
		}
	case "type", "type_argument":
		if inner := firstNamed(n); inner != nil {
			return c.typ(inner)
		}
	}
	return c.unsupported(n)
}

func (c *converter) simpleType(n *ts.Node, name string) *syntax.Node {
	return c.make(syntax.KindSimpleType, n).SetToken("Identifier", name)
}

// genericName maps `Name<T1, T2>` onto kind, storing the name under token.
func (c *converter) genericName(kind syntax.Kind, token string, n *ts.Node) *syntax.Node {
	out := c.make(kind, n)
	if name := firstNamed(n); name != nil && name.Kind() == "identifier" {
		out.SetToken(token, c.text(name))
	}
	if args := childOfKind(n, "type_argument_list"); args != nil {
		out.Append(syntax.RoleTypeArguments, c.typeArguments(args)...)
	}
	return out
}

func (c *converter) typeArguments(n *ts.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, arg := range named(n) {
		out = append(out, c.typ(arg))
	}
	return out
}

// qualifiedName maps `A.B.C` to nested MemberType nodes.
func (c *converter) qualifiedName(n *ts.Node) *syntax.Node {
	qualifier := field(n, "qualifier")
	name := field(n, "name")
	if qualifier == nil || name == nil {
		parts := named(n)
		if len(parts) < 2 {
			return c.unsupported(n)
		}
		qualifier, name = parts[0], parts[len(parts)-1]
	}
	out := c.make(syntax.KindMemberType, n).Set(syntax.RoleTarget, c.typ(qualifier))
	c.memberName(out, name)
	return out
}

// aliasQualifiedName maps `global::System.String` and `alias::Name`.
func (c *converter) aliasQualifiedName(n *ts.Node) *syntax.Node {
	parts := named(n)
	if len(parts) < 2 {
		return c.unsupported(n)
	}
	alias := parts[0]
	out := c.make(syntax.KindMemberType, n).
		SetFlag("IsDoubleColon", true).
		Set(syntax.RoleTarget, c.simpleType(alias, c.text(alias)))
	c.memberName(out, parts[len(parts)-1])
	return out
}

// memberName copies a simple or generic name onto a member node.
func (c *converter) memberName(out *syntax.Node, name *ts.Node) {
	if name.Kind() != "generic_name" {
		out.SetToken("MemberName", c.text(name))
		return
	}
	if id := firstNamed(name); id != nil {
		out.SetToken("MemberName", c.text(id))
	}
	if args := childOfKind(name, "type_argument_list"); args != nil {
		out.Append(syntax.RoleTypeArguments, c.typeArguments(args)...)
	}
}

func (c *converter) pointerType(n *ts.Node) *syntax.Node {
	rank := 0
	inner := n
	for inner != nil && inner.Kind() == "pointer_type" {
		rank++
		next := field(inner, "type")
		if next == nil {
			next = firstNamed(inner)
		}
		inner = next
	}
	out := c.make(syntax.KindComposedType, n).
		SetFlag("HasNullableSpecifier", false).
		SetToken("PointerRank", strconv.Itoa(rank))
	if inner != nil {
		out.Set(syntax.RoleBaseType, c.typ(inner))
	}
	return out
}

// arrayType flattens jagged arrays into one ComposedType whose specifiers
// appear in source order.
func (c *converter) arrayType(n *ts.Node) *syntax.Node {
	var ranks []*ts.Node
	element := n
	for element != nil && element.Kind() == "array_type" {
		if rank := field(element, "rank"); rank != nil {
			ranks = append(ranks, rank)
		} else if rank := childOfKind(element, "array_rank_specifier"); rank != nil {
			ranks = append(ranks, rank)
		}
		element = field(element, "type")
	}

	out := c.make(syntax.KindComposedType, n).SetFlag("HasNullableSpecifier", false)
	if element != nil {
		out.Set(syntax.RoleBaseType, c.typ(element))
	}
	for i := len(ranks) - 1; i >= 0; i-- {
		out.Append(syntax.RoleSpecifiers, c.arraySpecifier(ranks[i]))
	}
	return out
}

// arraySpecifier maps `[,]` or `[n]`.
func (c *converter) arraySpecifier(n *ts.Node) *syntax.Node {
	dims := 1
	for _, child := range children(n) {
		if child.Kind() == "," {
			dims++
		}
	}
	out := c.make(syntax.KindArraySpecifier, n).SetToken("Dimensions", strconv.Itoa(dims))
	for _, size := range named(n) {
		out.Append(syntax.RoleArguments, c.expr(size))
	}
	return out
}

func (c *converter) tupleType(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindTupleType, n)
	for _, el := range named(n) {
		if el.Kind() != "tuple_element" {
			continue
		}
		elem := c.make(syntax.KindTupleTypeElement, el)
		if name := field(el, "name"); name != nil {
			elem.SetToken("Name", c.text(name))
		}
		if t := field(el, "type"); t != nil {
			elem.Set(syntax.RoleType, c.typ(t))
		} else if t := firstNamed(el); t != nil {
			elem.Set(syntax.RoleType, c.typ(t))
		}
		out.Append(syntax.RoleElements, elem)
	}
	return out
}
