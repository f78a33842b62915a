package queries

import (
	"fmt"
	"sort"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// OutlineEntry is one declaration found by the symbol query.
type OutlineEntry struct {
	// Kind is the capture category: class, struct, interface, record, enum,
	// delegate, method, constructor, property, field, event or namespace.
	Kind string `json:"kind"`

	// Name is the declared name as written.
	Name string `json:"name"`

	// Container is the dotted path of enclosing namespaces and types.
	Container string `json:"container,omitempty"`

	Location Location `json:"location"`
}

// QualifiedName joins the container and the name.
func (e OutlineEntry) QualifiedName() string {
	if e.Container == "" {
		return e.Name
	}
	return e.Container + "." + e.Name
}

// Using is one using directive.
type Using struct {
	Name     string   `json:"name"`
	Alias    string   `json:"alias,omitempty"`
	IsStatic bool     `json:"isStatic,omitempty"`
	IsGlobal bool     `json:"isGlobal,omitempty"`
	Location Location `json:"location"`
}

// containerKinds are the declarations that contribute to a container path.
var containerKinds = map[string]bool{
	"class_declaration":                 true,
	"struct_declaration":                true,
	"interface_declaration":             true,
	"record_declaration":                true,
	"enum_declaration":                  true,
	"namespace_declaration":             true,
	"file_scoped_namespace_declaration": true,
}

// Outline runs the symbol query over a C# tree and returns its declarations
// in source order.
//
// Example:
//
//	entries, err := qm.Outline(tree, source)
//	for _, e := range entries {
//	    fmt.Printf("%s %s (line %d)\n", e.Kind, e.QualifiedName(), e.Location.StartLine)
//	}
func (qm *QueryManager) Outline(tree *ts.Tree, source []byte) ([]OutlineEntry, error) {
	matches, err := qm.Run(QueryDeclarations, tree, source)
	if err != nil {
		return nil, err
	}

	fileNamespace := fileScopedNamespace(tree.RootNode(), source)

	var entries []OutlineEntry
	for _, match := range matches {
		var entry OutlineEntry
		var definition *ts.Node
		for _, capture := range match.Captures {
			switch capture.Field {
			case "name":
				entry.Kind = capture.Category
				entry.Name = capture.Text
			case "definition":
				definition = capture.Node
				entry.Location = capture.Location
			}
		}
		if entry.Name == "" || definition == nil {
			continue
		}
		entry.Container = containerOf(definition, source, fileNamespace)
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Location.StartByte < entries[j].Location.StartByte
	})
	return entries, nil
}

// Usings returns the using directives of a C# tree in source order.
func (qm *QueryManager) Usings(tree *ts.Tree, source []byte) ([]Using, error) {
	matches, err := qm.Run(QueryUsings, tree, source)
	if err != nil {
		return nil, err
	}

	var usings []Using
	for _, match := range matches {
		for _, capture := range match.Captures {
			u, ok := parseUsing(capture.Node, source)
			if !ok {
				return nil, fmt.Errorf("malformed using directive at line %d", capture.Location.StartLine)
			}
			u.Location = capture.Location
			usings = append(usings, u)
		}
	}
	return usings, nil
}

func parseUsing(node *ts.Node, source []byte) (Using, bool) {
	var u Using
	var named []*ts.Node
	hasEquals := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch {
		case child.IsNamed():
			if child.Kind() != "comment" {
				named = append(named, child)
			}
		case child.Kind() == "global":
			u.IsGlobal = true
		case child.Kind() == "static":
			u.IsStatic = true
		case child.Kind() == "=":
			hasEquals = true
		}
	}
	if len(named) == 0 {
		return u, false
	}
	u.Name = named[len(named)-1].Utf8Text(source)
	if hasEquals && len(named) > 1 {
		u.Alias = named[0].Utf8Text(source)
	}
	return u, true
}

// containerOf walks up from a declaration and collects the names of its
// enclosing namespaces and types.
func containerOf(node *ts.Node, source []byte, fileNamespace string) string {
	var parts []string
	sawNamespace := false
	for p := node.Parent(); p != nil; p = p.Parent() {
		if !containerKinds[p.Kind()] {
			continue
		}
		name := p.ChildByFieldName("name")
		if name == nil {
			continue
		}
		parts = append(parts, name.Utf8Text(source))
		if strings.HasSuffix(p.Kind(), "namespace_declaration") {
			sawNamespace = true
		}
	}
	if !sawNamespace && fileNamespace != "" && node.Kind() != "file_scoped_namespace_declaration" {
		parts = append(parts, fileNamespace)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// fileScopedNamespace returns the name of the unit's file-scoped namespace.
// Depending on the grammar version its members are either children or
// following siblings of the declaration, so both shapes are handled.
func fileScopedNamespace(root *ts.Node, source []byte) string {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child != nil && child.Kind() == "file_scoped_namespace_declaration" {
			if name := child.ChildByFieldName("name"); name != nil {
				return name.Utf8Text(source)
			}
		}
	}
	return ""
}
