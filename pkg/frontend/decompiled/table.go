package decompiled

import (
	"errors"
	"fmt"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// ErrUnknownSymbol is returned for references the dump does not resolve.
var ErrUnknownSymbol = errors.New("symbol not in dump")

// SymbolDump is a serialized docgen.SymbolInfo.
type SymbolDump struct {
	Kind          string   `json:"kind"`
	Name          string   `json:"name"`
	QualifiedName string   `json:"qualifiedName"`
	Accessibility string   `json:"accessibility,omitempty"`
	Modifiers     []string `json:"modifiers,omitempty"`
	Type          string   `json:"type,omitempty"`
	ReturnType    string   `json:"returnType,omitempty"`
	BaseType      string   `json:"baseType,omitempty"`
	Interfaces    []string `json:"interfaces,omitempty"`
	IsGeneric     bool     `json:"isGeneric,omitempty"`
	Overrides     string   `json:"overrides,omitempty"`
}

// Info converts the dump entry.
func (s SymbolDump) Info() docgen.SymbolInfo {
	access := docgen.Accessibility(s.Accessibility)
	if access == "" {
		access = docgen.AccessNotApplicable
	}
	return docgen.SymbolInfo{
		Kind:          docgen.SymbolKind(s.Kind),
		Name:          s.Name,
		QualifiedName: s.QualifiedName,
		Accessibility: access,
		Modifiers:     docgen.ModifiersOf(s.Modifiers),
		Type:          s.Type,
		ReturnType:    s.ReturnType,
		BaseType:      s.BaseType,
		Interfaces:    s.Interfaces,
		IsGeneric:     s.IsGeneric,
		Overrides:     s.Overrides,
	}
}

// Table is the symbol table embedded in a dump. It is read-only after
// construction and safe for concurrent use.
type Table struct {
	symbols map[syntax.SymbolRef]docgen.SymbolInfo
	types   map[syntax.SymbolRef]string
}

var _ docgen.Model = (*Table)(nil)

// NewTable builds a table from a type's symbol and type maps.
func NewTable(symbols map[string]SymbolDump, types map[string]string) *Table {
	t := &Table{
		symbols: make(map[syntax.SymbolRef]docgen.SymbolInfo, len(symbols)),
		types:   make(map[syntax.SymbolRef]string, len(types)),
	}
	for ref, s := range symbols {
		t.symbols[syntax.SymbolRef(ref)] = s.Info()
	}
	for ref, typ := range types {
		t.types[syntax.SymbolRef(ref)] = typ
	}
	return t
}

// Symbol implements docgen.Model.
func (t *Table) Symbol(ref syntax.SymbolRef) (docgen.SymbolInfo, error) {
	info, ok := t.symbols[ref]
	if !ok {
		return docgen.SymbolInfo{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, ref)
	}
	return info, nil
}

// TypeOf implements docgen.Model. A declared symbol with a type answers for
// its own reference.
func (t *Table) TypeOf(ref syntax.SymbolRef) (string, error) {
	if typ, ok := t.types[ref]; ok {
		return typ, nil
	}
	if info, ok := t.symbols[ref]; ok && info.Type != "" {
		return info.Type, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSymbol, ref)
}

// Len returns the number of symbols.
func (t *Table) Len() int { return len(t.symbols) }
