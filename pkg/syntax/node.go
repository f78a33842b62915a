// Package syntax defines the front-end independent syntax tree consumed by the
// document generator.
//
// Front-ends (tree-sitter C#, decompiler dumps) translate their concrete trees
// into Nodes: an abstract Kind, a source Span, named syntactic tokens, modifier
// keywords, an optional symbol reference and ordered child slots addressed by
// Role. A Node is built once by its front-end and treated as immutable after.
package syntax

import "fmt"

// Role names a child slot of a Node.
type Role string

const (
	RoleMembers           Role = "members"
	RoleAttributes        Role = "attributes"
	RoleTypeParameters    Role = "typeParameters"
	RoleBaseTypes         Role = "baseTypes"
	RoleConstraints       Role = "constraints"
	RoleParameters        Role = "parameters"
	RoleType              Role = "type"
	RoleReturnType        Role = "returnType"
	RoleInterface         Role = "privateImplementationType"
	RoleName              Role = "name"
	RoleBody              Role = "body"
	RoleInitializer       Role = "initializer"
	RoleAccessors         Role = "accessors"
	RoleVariables         Role = "variables"
	RoleCondition         Role = "condition"
	RoleConsequence       Role = "consequence"
	RoleAlternative       Role = "alternative"
	RoleTarget            Role = "target"
	RoleTypeArguments     Role = "typeArguments"
	RoleArguments         Role = "arguments"
	RoleLeft              Role = "left"
	RoleRight             Role = "right"
	RoleOperand           Role = "operand"
	RoleExpression        Role = "expression"
	RoleElements          Role = "elements"
	RoleStatements        Role = "statements"
	RoleLabels            Role = "labels"
	RoleSections          Role = "sections"
	RoleCatches           Role = "catches"
	RoleFinally           Role = "finally"
	RoleFilter            Role = "filter"
	RoleResource          Role = "resource"
	RoleInitializers      Role = "initializers"
	RoleIterators         Role = "iterators"
	RoleClauses           Role = "clauses"
	RoleContents          Role = "contents"
	RoleValue             Role = "value"
	RoleDesignation       Role = "designation"
	RolePattern           Role = "pattern"
	RoleWhen              Role = "when"
	RoleBaseType          Role = "baseType"
	RoleSpecifiers        Role = "specifiers"
	RoleDefault           Role = "default"
	RoleOrderings         Role = "orderings"
	RoleKey               Role = "key"
	RoleOn                Role = "on"
	RoleEquals            Role = "equals"
	RoleDeclaration       Role = "declaration"
	RoleStatement         Role = "statement"
)

// TokenSourceKind is set on KindInvalid nodes to name the front-end
// construct that has no abstract kind.
const TokenSourceKind = "SourceKind"

// SymbolRef is an opaque key a front-end attaches to a node so that a
// semantic model can resolve it later. The empty ref means "no symbol".
type SymbolRef string

// MakeRef derives the positional reference used by front-ends that have no
// native symbol handles: "Kind@line:col-line:col".
func MakeRef(kind Kind, span Span) SymbolRef {
	return SymbolRef(fmt.Sprintf("%s@%d:%d-%d:%d", kind, span.Start.Line, span.Start.Col, span.End.Line, span.End.Col))
}

// HasPosition is implemented by nodes that know where they came from.
type HasPosition interface {
	Position() (Span, bool)
}

// HasSymbol is implemented by nodes that can be resolved by a semantic model.
type HasSymbol interface {
	Symbol() (SymbolRef, bool)
}

// HasChildren is implemented by nodes with role-addressed child slots.
type HasChildren interface {
	Child(role Role) *Node
	Children(role Role) []*Node
}

var (
	_ HasPosition = (*Node)(nil)
	_ HasSymbol   = (*Node)(nil)
	_ HasChildren = (*Node)(nil)
)

type slot struct {
	role  Role
	nodes []*Node
}

// Node is one abstract syntax construct.
type Node struct {
	kind      Kind
	span      Span
	tokens    map[string]string
	modifiers []string
	symbol    SymbolRef
	comment   string
	slots     []slot
}

// New creates a node of the given kind covering span.
func New(kind Kind, span Span) *Node {
	return &Node{kind: kind, span: span}
}

// Kind returns the node's abstract kind.
func (n *Node) Kind() Kind { return n.kind }

// Span returns the node's source span (the zero Span when unknown).
func (n *Node) Span() Span { return n.span }

// Position returns the span and whether it is usable.
func (n *Node) Position() (Span, bool) {
	return n.span, !n.span.IsZero()
}

// Symbol returns the node's symbol reference, if any.
func (n *Node) Symbol() (SymbolRef, bool) {
	return n.symbol, n.symbol != ""
}

// Comment returns the leading comment text attached by the front-end.
func (n *Node) Comment() string { return n.comment }

// Token returns a named syntactic token such as "Name" or "Operator".
func (n *Node) Token(name string) (string, bool) {
	v, ok := n.tokens[name]
	return v, ok
}

// TokenOr returns the named token or def when it is absent.
func (n *Node) TokenOr(name, def string) string {
	if v, ok := n.tokens[name]; ok {
		return v
	}
	return def
}

// Flag reports whether a boolean token is set to "true".
func (n *Node) Flag(name string) bool {
	return n.tokens[name] == "true"
}

// Modifiers returns the modifier keywords in source order.
func (n *Node) Modifiers() []string { return n.modifiers }

// HasModifier reports whether keyword appears among the node's modifiers.
func (n *Node) HasModifier(keyword string) bool {
	for _, m := range n.modifiers {
		if m == keyword {
			return true
		}
	}
	return false
}

// Child returns the first node in the role's slot, or nil when the slot is
// empty. A nil child is an absent optional part.
func (n *Node) Child(role Role) *Node {
	for _, s := range n.slots {
		if s.role == role && len(s.nodes) > 0 {
			return s.nodes[0]
		}
	}
	return nil
}

// Children returns every node in the role's slot, in source order.
func (n *Node) Children(role Role) []*Node {
	for _, s := range n.slots {
		if s.role == role {
			return s.nodes
		}
	}
	return nil
}

// Roles returns the roles of all non-empty slots in insertion order.
func (n *Node) Roles() []Role {
	roles := make([]Role, 0, len(n.slots))
	for _, s := range n.slots {
		if len(s.nodes) > 0 {
			roles = append(roles, s.role)
		}
	}
	return roles
}

// Walk calls fn for n and every descendant in pre-order, following slots in
// insertion order. Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, s := range n.slots {
		for _, c := range s.nodes {
			c.Walk(fn)
		}
	}
}

// SetToken records a named syntactic token.
func (n *Node) SetToken(name, value string) *Node {
	if n.tokens == nil {
		n.tokens = make(map[string]string)
	}
	n.tokens[name] = value
	return n
}

// SetFlag records a boolean token.
func (n *Node) SetFlag(name string, value bool) *Node {
	if value {
		return n.SetToken(name, "true")
	}
	return n.SetToken(name, "false")
}

// AddModifier appends a modifier keyword.
func (n *Node) AddModifier(keyword string) *Node {
	n.modifiers = append(n.modifiers, keyword)
	return n
}

// SetSymbol attaches a symbol reference.
func (n *Node) SetSymbol(ref SymbolRef) *Node {
	n.symbol = ref
	return n
}

// SetComment attaches leading comment text.
func (n *Node) SetComment(text string) *Node {
	n.comment = text
	return n
}

// Append adds children to the role's slot. Nil children are skipped so that
// front-ends can pass optional parts straight through.
func (n *Node) Append(role Role, children ...*Node) *Node {
	idx := -1
	for i := range n.slots {
		if n.slots[i].role == role {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.slots = append(n.slots, slot{role: role})
		idx = len(n.slots) - 1
	}
	for _, c := range children {
		if c != nil {
			n.slots[idx].nodes = append(n.slots[idx].nodes, c)
		}
	}
	return n
}

// Set is Append for single-valued slots.
func (n *Node) Set(role Role, child *Node) *Node {
	if child == nil {
		return n
	}
	return n.Append(role, child)
}
