// Package decompiled reads decompiler dumps: the abstract syntax trees and
// symbol tables of types reconstructed from a compiled assembly.
//
// A dump is a JSON document produced by an external decompiler. Its nodes
// already use the abstract kind and role names of package syntax, so the
// adapter here only validates and rebuilds them; every construct the
// decompiler emits under a name this version does not know becomes a
// KindInvalid node and fails its unit as an unsupported construct.
//
// Dump layout:
//
//	{
//	  "assembly": "Acme.Core.dll",
//	  "types": [{
//	    "name": "Acme.Core.Widget",
//	    "namespace": "Acme.Core",
//	    "source": "public class Widget { ... }",
//	    "root": {"kind": "TypeDeclaration", "span": {...}, "tokens": {...},
//	             "flags": {...}, "modifiers": [...], "symbol": "T:Widget",
//	             "slots": [{"role": "members", "nodes": [...]}]},
//	    "symbols": {"T:Widget": {"kind": "NamedType", ...}},
//	    "types": {"E:12": "int"}
//	  }]
//	}
package decompiled

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/frontend"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// Dump is every type reconstructed from one assembly.
type Dump struct {
	Assembly string     `json:"assembly"`
	Types    []TypeDump `json:"types"`
}

// TypeDump is one reconstructed top-level type.
type TypeDump struct {
	// Name is the qualified type name. It names the output file.
	Name string `json:"name"`

	// Namespace seeds the artifact namespace when the tree starts below the
	// namespace declaration.
	Namespace string `json:"namespace,omitempty"`

	// Source is the reconstructed source text the spans point into.
	Source string `json:"source"`

	Root    *NodeDump             `json:"root"`
	Symbols map[string]SymbolDump `json:"symbols,omitempty"`
	Types   map[string]string     `json:"types,omitempty"`
}

// NodeDump is one serialized syntax node.
type NodeDump struct {
	Kind      string            `json:"kind"`
	Span      *syntax.Span      `json:"span,omitempty"`
	Tokens    map[string]string `json:"tokens,omitempty"`
	Flags     map[string]bool   `json:"flags,omitempty"`
	Modifiers []string          `json:"modifiers,omitempty"`
	Symbol    string            `json:"symbol,omitempty"`
	Comment   string            `json:"comment,omitempty"`
	Slots     []SlotDump        `json:"slots,omitempty"`
}

// SlotDump is one ordered child slot.
type SlotDump struct {
	Role  string      `json:"role"`
	Nodes []*NodeDump `json:"nodes"`
}

// Decode reads a dump.
func Decode(r io.Reader) (*Dump, error) {
	var d Dump
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: decode dump: %v", frontend.ErrMalformedInput, err)
	}
	if d.Assembly == "" {
		return nil, fmt.Errorf("%w: dump has no assembly name", frontend.ErrMalformedInput)
	}
	for i, t := range d.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: type %d has no name", frontend.ErrMalformedInput, i)
		}
		if t.Root == nil {
			return nil, fmt.Errorf("%w: type %s has no syntax tree", frontend.ErrMalformedInput, t.Name)
		}
	}
	return &d, nil
}

// DecodeBytes reads a dump held in memory.
func DecodeBytes(data []byte) (*Dump, error) {
	return Decode(bytes.NewReader(data))
}

// Tree rebuilds the type's syntax tree. A tree whose root is not a
// compilation unit is wrapped in one spanning the root.
func (t *TypeDump) Tree() *syntax.Node {
	root := convert(t.Root)
	if root.Kind() == syntax.KindCompilationUnit {
		return root
	}
	unit := syntax.New(syntax.KindCompilationUnit, root.Span())
	return unit.Append(syntax.RoleMembers, root)
}

// Unit prepares the type for extraction with the decompiled profile.
func (t *TypeDump) Unit(assembly string) docgen.Unit {
	return docgen.Unit{
		Root:      t.Tree(),
		Path:      assembly,
		Source:    t.Source,
		Namespace: t.Namespace,
		Model:     NewTable(t.Symbols, t.Types),
	}
}

func convert(d *NodeDump) *syntax.Node {
	var span syntax.Span
	if d.Span != nil {
		span = *d.Span
	}

	kind, ok := syntax.ParseKind(d.Kind)
	if !ok {
		return syntax.New(syntax.KindInvalid, span).SetToken(syntax.TokenSourceKind, d.Kind)
	}

	n := syntax.New(kind, span)
	for name, value := range d.Tokens {
		n.SetToken(name, value)
	}
	for name, value := range d.Flags {
		n.SetFlag(name, value)
	}
	for _, m := range d.Modifiers {
		n.AddModifier(m)
	}
	if d.Symbol != "" {
		n.SetSymbol(syntax.SymbolRef(d.Symbol))
	}
	if d.Comment != "" {
		n.SetComment(d.Comment)
	}
	for _, slot := range d.Slots {
		children := make([]*syntax.Node, 0, len(slot.Nodes))
		for _, c := range slot.Nodes {
			if c != nil {
				children = append(children, convert(c))
			}
		}
		n.Append(syntax.Role(slot.Role), children...)
	}
	return n
}
