// Package symbols builds a declaration-based semantic model for one parsed
// source unit.
//
// The index answers the docgen.Model questions from the unit's own syntax:
// declared types and their members, parameters and locals in lexical scope,
// literal and operator types, invocation return types and constructed types.
// References to code outside the unit stay unresolved and surface as missing
// semantic info diagnostics downstream.
package symbols

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// ErrNotFound is returned for references the index did not resolve.
var ErrNotFound = errors.New("symbol not resolved")

// Index is a read-only docgen.Model for one unit. It is safe for concurrent
// use once Build returns.
type Index struct {
	symbols  map[syntax.SymbolRef]docgen.SymbolInfo
	types    map[syntax.SymbolRef]string
	declared map[string]*typeEntry
}

var _ docgen.Model = (*Index)(nil)

// typeEntry is one declared type and its members.
type typeEntry struct {
	ref syntax.SymbolRef
	// parts holds the references of the other declarations of a partial
	// type.
	parts      []syntax.SymbolRef
	info       docgen.SymbolInfo
	classType  string
	node       *syntax.Node
	returnType *syntax.Node
	// scope is the namespace and enclosing type chain the declaration sits
	// in, used to resolve its base list.
	scope   []string
	usings  []string
	bases   []*syntax.Node
	base    *typeEntry
	members []*member
}

// member is one declared member. Methods record their parameter count to
// tell overloads apart.
type member struct {
	ref        syntax.SymbolRef
	info       docgen.SymbolInfo
	params     int
	hasRef     bool
	typ        *syntax.Node
	returnType *syntax.Node
}

// Build indexes a CompilationUnit tree.
func Build(root *syntax.Node) *Index {
	ix := &Index{
		symbols:  make(map[syntax.SymbolRef]docgen.SymbolInfo),
		types:    make(map[syntax.SymbolRef]string),
		declared: make(map[string]*typeEntry),
	}
	if root == nil {
		return ix
	}

	d := &declarer{ix: ix}
	d.unit(root)
	ix.resolveBases()
	ix.resolveMemberTypes()
	ix.resolveOverrides()
	ix.flush()

	w := newWalker(ix, d.usings)
	w.walk(root)
	return ix
}

// Symbol implements docgen.Model.
func (ix *Index) Symbol(ref syntax.SymbolRef) (docgen.SymbolInfo, error) {
	info, ok := ix.symbols[ref]
	if !ok {
		return docgen.SymbolInfo{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return info, nil
}

// TypeOf implements docgen.Model.
func (ix *Index) TypeOf(ref syntax.SymbolRef) (string, error) {
	if t, ok := ix.types[ref]; ok && t != "" {
		return t, nil
	}
	if info, ok := ix.symbols[ref]; ok && info.Type != "" {
		return info.Type, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// Types returns the qualified names of the declared types, sorted.
func (ix *Index) Types() []string {
	names := make([]string, 0, len(ix.declared))
	for name := range ix.declared {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a declared type by qualified name.
func (ix *Index) Lookup(qualifiedName string) (docgen.SymbolInfo, bool) {
	t, ok := ix.declared[qualifiedName]
	if !ok {
		return docgen.SymbolInfo{}, false
	}
	return t.info, true
}

// Len returns the number of resolved symbols.
func (ix *Index) Len() int { return len(ix.symbols) }

// resolveType finds a declared type by the name written at a use site. The
// innermost enclosing scope wins, then the unit's using directives.
func (ix *Index) resolveType(name string, scope, usings []string) *typeEntry {
	name = strings.TrimPrefix(name, "global::")
	if name == "" {
		return nil
	}
	for i := len(scope); i >= 0; i-- {
		candidate := name
		if i > 0 {
			candidate = strings.Join(scope[:i], ".") + "." + name
		}
		if t, ok := ix.declared[candidate]; ok {
			return t
		}
	}
	for _, u := range usings {
		if t, ok := ix.declared[u+"."+name]; ok {
			return t
		}
	}
	return nil
}

// resolveBases splits every base list into the base class and the
// implemented interfaces.
func (ix *Index) resolveBases() {
	for _, t := range ix.declared {
		switch t.classType {
		case "struct", "record struct":
			t.info.BaseType = "System.ValueType"
		case "enum":
			t.info.BaseType = "System.Enum"
		case "class", "record":
			t.info.BaseType = "object"
		}

		for i, b := range t.bases {
			written := docgen.DisplayType(b)
			resolved := ix.resolveType(stripTypeArgs(written), t.scope, t.usings)
			display := written
			if resolved != nil {
				display = resolved.info.QualifiedName + typeArgsOf(written)
			}

			isClass := resolved != nil && (resolved.classType == "class" || resolved.classType == "record")
			if resolved == nil {
				isClass = !looksLikeInterface(stripTypeArgs(written))
			}
			if i == 0 && isClass && (t.classType == "class" || t.classType == "record") {
				t.info.BaseType = display
				t.base = resolved
				continue
			}
			if t.classType == "enum" {
				continue
			}
			t.info.Interfaces = append(t.info.Interfaces, display)
		}
	}
}

// resolveMemberTypes renders member and return types, qualifying the types
// declared in the unit.
func (ix *Index) resolveMemberTypes() {
	for _, t := range ix.declared {
		inner := extend(t.scope, t.info.Name)
		if t.returnType != nil {
			t.info.ReturnType = ix.qualify(t.returnType, inner, t.usings)
		}
		for _, m := range t.members {
			if m.typ != nil {
				m.info.Type = ix.qualify(m.typ, inner, t.usings)
			}
			if m.returnType != nil {
				m.info.ReturnType = ix.qualify(m.returnType, inner, t.usings)
			}
		}
	}
}

// qualify renders a type node, replacing the name of a type declared in the
// unit with its qualified name. Other types render as written.
func (ix *Index) qualify(n *syntax.Node, scope, usings []string) string {
	if n == nil {
		return ""
	}
	written := docgen.DisplayType(n)
	switch n.Kind() {
	case syntax.KindSimpleType, syntax.KindMemberType:
		if t := ix.resolveType(stripTypeArgs(written), scope, usings); t != nil {
			args := n.Children(syntax.RoleTypeArguments)
			if len(args) == 0 {
				return t.info.QualifiedName
			}
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = ix.qualify(a, scope, usings)
			}
			return t.info.QualifiedName + "<" + strings.Join(parts, ",") + ">"
		}
	case syntax.KindComposedType:
		base := n.Child(syntax.RoleBaseType)
		return ix.qualify(base, scope, usings) + strings.TrimPrefix(written, docgen.DisplayType(base))
	}
	return written
}

// resolveOverrides records the declaring type of each overridden method.
func (ix *Index) resolveOverrides() {
	for _, t := range ix.declared {
		for _, m := range t.members {
			if !m.info.Modifiers.Has(docgen.ModOverride) {
				continue
			}
			m.info.Overrides = ix.overridden(t, m)
		}
	}
}

// overridden walks the base chain for the nearest type declaring a matching
// member. A chain that leaves the unit ends at the external base's name.
func (ix *Index) overridden(t *typeEntry, m *member) string {
	seen := map[*typeEntry]bool{t: true}
	last := t
	for b := t.base; b != nil && !seen[b]; b = b.base {
		seen[b] = true
		for _, candidate := range b.members {
			if candidate.info.Name == m.info.Name && candidate.info.Kind == m.info.Kind && candidate.params == m.params {
				return b.info.QualifiedName
			}
		}
		last = b
	}
	return last.info.BaseType
}

// flush publishes type and member facts under their references.
func (ix *Index) flush() {
	for _, t := range ix.declared {
		if t.ref != "" {
			ix.symbols[t.ref] = t.info
		}
		for _, ref := range t.parts {
			ix.symbols[ref] = t.info
		}
		for _, m := range t.members {
			if m.hasRef {
				ix.symbols[m.ref] = m.info
			}
		}
	}
}

// lookup returns the members named name of t and its resolved bases.
func (t *typeEntry) lookup(name string) []*member {
	var out []*member
	seen := map[*typeEntry]bool{}
	for cur := t; cur != nil && !seen[cur]; cur = cur.base {
		seen[cur] = true
		for _, m := range cur.members {
			if m.info.Name == name {
				out = append(out, m)
			}
		}
	}
	return out
}

func looksLikeInterface(name string) bool {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return len(name) > 1 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}
