package docgen

import (
	"strings"

	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// tier decides which profile switch gates a descriptor's enrichment.
type tier int

const (
	tierNone tier = iota
	tierDeclaration
	tierExpression
)

// attrFunc copies syntactic facts from a syntax node onto an output node.
type attrFunc func(n *syntax.Node, b *document.NodeBuilder)

// scopeFunc derives the frame a node hands to its children.
type scopeFunc func(n *syntax.Node, f frame) frame

// step is one entry of a descriptor's child plan.
type step struct {
	role syntax.Role
	many bool
	// group wraps the step's children in a synthetic node with this label.
	group string
	// always emits the wrapper even when the slot is empty.
	always bool
	// ctx adjusts the frame for this step's children only.
	ctx func(frame) frame
}

// descriptor is the mapping of one syntax kind onto the output schema.
type descriptor struct {
	label     string
	attrs     []attrFunc
	modifiers bool
	comment   bool
	artifact  string
	enrich    enrichFunc
	tier      tier
	scope     scopeFunc
	children  []step
}

// stepFor returns the plan step consuming role.
func (d *descriptor) stepFor(role syntax.Role) (step, bool) {
	for _, s := range d.children {
		if s.role == role {
			return s, true
		}
	}
	return step{}, false
}

// Attribute extractors.

// tok copies a token into an attribute of the same name when present.
func tok(name string) attrFunc {
	return func(n *syntax.Node, b *document.NodeBuilder) {
		if v, ok := n.Token(name); ok {
			b.Set(name, v)
		}
	}
}

// flag writes a boolean token as "true"/"false", defaulting to false.
func flag(name string) attrFunc {
	return func(n *syntax.Node, b *document.NodeBuilder) {
		b.SetBool(name, n.Flag(name))
	}
}

// optFlag writes a boolean token only when it is set.
func optFlag(name string) attrFunc {
	return func(n *syntax.Node, b *document.NodeBuilder) {
		if n.Flag(name) {
			b.SetBool(name, true)
		}
	}
}

// frameworkType attaches the framework name of a predefined type.
func frameworkType(n *syntax.Node, b *document.NodeBuilder) {
	if name, ok := FrameworkTypeName(n.TokenOr("Keyword", "")); ok {
		b.Set("FullyQualifiedType", name)
	}
}

// modifierFlags turns modifier keywords into flag attributes: "static"
// becomes Static="true".
func modifierFlags(n *syntax.Node, b *document.NodeBuilder) {
	for _, m := range n.Modifiers() {
		if m == "" {
			continue
		}
		b.SetBool(strings.ToUpper(m[:1])+m[1:], true)
	}
}

// Child plan steps.

func one(role syntax.Role) step  { return step{role: role} }
func many(role syntax.Role) step { return step{role: role, many: true} }

// group always emits a wrapper around the slot.
func group(label string, role syntax.Role) step {
	return step{role: role, many: true, group: label, always: true}
}

// groupAny emits a wrapper only when the slot has children.
func groupAny(label string, role syntax.Role) step {
	return step{role: role, many: true, group: label}
}

func baseList(s step) step {
	s.ctx = func(f frame) frame {
		f.inBaseList = true
		return f
	}
	return s
}

// Scopes.

func namespaceScope(n *syntax.Node, f frame) frame {
	return f.withNamespace(n.TokenOr("Name", ""))
}

func typeScope(n *syntax.Node, f frame) frame {
	return f.withType(declarationName(n))
}

func bodyScope(_ *syntax.Node, f frame) frame {
	f.inBody = true
	return f
}

// declaredTypeScope hands a declaration's type to its declarators.
func declaredTypeScope(n *syntax.Node, f frame) frame {
	f.inBody = true
	f.declaredType = n.Child(syntax.RoleType)
	return f
}
