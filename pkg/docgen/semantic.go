package docgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// SymbolKind classifies a resolved symbol.
type SymbolKind string

const (
	SymbolNamedType     SymbolKind = "NamedType"
	SymbolMethod        SymbolKind = "Method"
	SymbolField         SymbolKind = "Field"
	SymbolProperty      SymbolKind = "Property"
	SymbolEvent         SymbolKind = "Event"
	SymbolParameter     SymbolKind = "Parameter"
	SymbolLocal         SymbolKind = "Local"
	SymbolNamespace     SymbolKind = "Namespace"
	SymbolTypeParameter SymbolKind = "TypeParameter"
)

// Accessibility is a declared accessibility level.
type Accessibility string

const (
	AccessNotApplicable     Accessibility = "NotApplicable"
	AccessPublic            Accessibility = "Public"
	AccessPrivate           Accessibility = "Private"
	AccessProtected         Accessibility = "Protected"
	AccessInternal          Accessibility = "Internal"
	AccessProtectedInternal Accessibility = "ProtectedInternal"
	AccessPrivateProtected  Accessibility = "PrivateProtected"
)

// Modifiers is a set of resolved modifier flags.
type Modifiers uint32

const (
	ModAbstract Modifiers = 1 << iota
	ModSealed
	ModStatic
	ModOverride
	ModVirtual
	ModAsync
	ModReadonly
	ModConst
	ModExtern
	ModParams
	ModNew
	ModPartial
)

// Has reports whether every flag in f is set.
func (m Modifiers) Has(f Modifiers) bool { return m&f == f }

var modifierKeywords = map[string]Modifiers{
	"abstract": ModAbstract,
	"sealed":   ModSealed,
	"static":   ModStatic,
	"override": ModOverride,
	"virtual":  ModVirtual,
	"async":    ModAsync,
	"readonly": ModReadonly,
	"const":    ModConst,
	"extern":   ModExtern,
	"params":   ModParams,
	"new":      ModNew,
	"partial":  ModPartial,
}

// ModifiersOf collects the flags named by modifier keywords. Keywords with no
// flag, such as accessibility keywords, are ignored.
func ModifiersOf(keywords []string) Modifiers {
	var m Modifiers
	for _, k := range keywords {
		m |= modifierKeywords[k]
	}
	return m
}

// SymbolInfo is what a semantic model knows about one symbol.
type SymbolInfo struct {
	Kind          SymbolKind
	Name          string
	QualifiedName string
	Accessibility Accessibility
	Modifiers     Modifiers
	// Type is the declared or resolved type display string.
	Type       string
	ReturnType string
	BaseType   string
	Interfaces []string
	IsGeneric  bool
	// Overrides is the type declaring the member this one overrides.
	Overrides string
}

// Model resolves the symbol references front-ends attach to nodes. It must be
// safe for concurrent read-only use when units are extracted in parallel.
type Model interface {
	// Symbol returns the symbol declared or referenced at ref.
	Symbol(ref syntax.SymbolRef) (SymbolInfo, error)

	// TypeOf returns the static type display string of the expression or
	// declaration at ref.
	TypeOf(ref syntax.SymbolRef) (string, error)
}

// enricher attaches resolved attributes. Every failure is reported as a
// ErrMissingSemanticInfo diagnostic and the node keeps its best available
// display string.
type enricher struct {
	model  Model
	report func(Diagnostic)
}

func (e *enricher) missing(n *syntax.Node, format string, args ...any) {
	e.report(Diagnostic{
		Err:     ErrMissingSemanticInfo,
		Kind:    n.Kind(),
		Span:    n.Span(),
		Message: fmt.Sprintf(format, args...),
	})
}

func (e *enricher) symbol(n *syntax.Node) (SymbolInfo, bool) {
	ref, ok := n.Symbol()
	if !ok {
		e.missing(n, "no symbol reference")
		return SymbolInfo{}, false
	}
	info, err := e.model.Symbol(ref)
	if err != nil {
		e.missing(n, "symbol %s: %v", ref, err)
		return SymbolInfo{}, false
	}
	return info, true
}

func (e *enricher) typeOf(n *syntax.Node) (string, bool) {
	ref, ok := n.Symbol()
	if !ok {
		e.missing(n, "no symbol reference")
		return "", false
	}
	t, err := e.model.TypeOf(ref)
	if err != nil || t == "" {
		e.missing(n, "type of %s: %v", ref, err)
		return "", false
	}
	return t, true
}

// enrichFunc is a descriptor hook attaching resolved attributes.
type enrichFunc func(e *enricher, n *syntax.Node, b *document.NodeBuilder, f frame)

func enrichTypeDeclaration(e *enricher, n *syntax.Node, b *document.NodeBuilder, f frame) {
	info, ok := e.symbol(n)
	if !ok {
		b.Set("FullName", f.qualify(n.TokenOr("Name", "")))
		return
	}
	b.Set("FullName", info.QualifiedName)
	b.Set("DeclaredAccessibility", string(info.Accessibility))
	b.SetBool("IsAbstract", info.Modifiers.Has(ModAbstract))
	b.SetBool("IsSealed", info.Modifiers.Has(ModSealed))
	b.SetBool("IsStatic", info.Modifiers.Has(ModStatic))
	b.SetBool("IsGenericType", info.IsGeneric)
	if info.BaseType != "" {
		b.Set("BaseType", info.BaseType)
	}
	if len(info.Interfaces) > 0 {
		b.Set("Interfaces", strings.Join(info.Interfaces, ","))
	}
}

func enrichMethod(e *enricher, n *syntax.Node, b *document.NodeBuilder, _ frame) {
	info, ok := e.symbol(n)
	if !ok {
		if ret := n.Child(syntax.RoleReturnType); ret != nil {
			b.Set("ReturnType", DisplayType(ret))
		}
		return
	}
	b.Set("DeclaredAccessibility", string(info.Accessibility))
	b.SetBool("IsAbstract", info.Modifiers.Has(ModAbstract))
	b.SetBool("IsSealed", info.Modifiers.Has(ModSealed))
	b.SetBool("IsStatic", info.Modifiers.Has(ModStatic))
	b.SetBool("IsAsync", info.Modifiers.Has(ModAsync))
	b.SetBool("IsOverride", info.Modifiers.Has(ModOverride))
	b.SetBool("IsVirtual", info.Modifiers.Has(ModVirtual))
	if info.ReturnType != "" {
		b.Set("ReturnType", info.ReturnType)
	}
	if info.Overrides != "" {
		b.Set("OverridesMethodIn", info.Overrides)
	}
}

// enrichMember covers fields, properties, events and indexers.
func enrichMember(e *enricher, n *syntax.Node, b *document.NodeBuilder, _ frame) {
	info, ok := e.symbol(n)
	if !ok {
		if t := n.Child(syntax.RoleType); t != nil {
			b.Set("Type", DisplayType(t))
		}
		return
	}
	b.Set("DeclaredAccessibility", string(info.Accessibility))
	b.SetBool("IsStatic", info.Modifiers.Has(ModStatic))
	if info.Type != "" {
		b.Set("Type", info.Type)
	}
}

func enrichParameter(e *enricher, n *syntax.Node, b *document.NodeBuilder, f frame) {
	enrichVariable(e, n, b, f)
	b.SetBool("IsParams", n.HasModifier("params"))
}

// enrichVariable covers parameters and variable declarators. An
// unresolvable type falls back to the declared type syntax.
func enrichVariable(e *enricher, n *syntax.Node, b *document.NodeBuilder, f frame) {
	if t, ok := e.typeOf(n); ok {
		b.Set("Type", t)
		return
	}
	declared := n.Child(syntax.RoleType)
	if declared == nil {
		declared = f.declaredType
	}
	if declared != nil {
		if t := DisplayType(declared); t != "var" {
			b.Set("Type", t)
		}
	}
}

// enrichReference covers identifiers and member accesses.
func enrichReference(e *enricher, n *syntax.Node, b *document.NodeBuilder, _ frame) {
	info, ok := e.symbol(n)
	if !ok {
		return
	}
	b.Set("SymbolKind", string(info.Kind))
	if info.QualifiedName != "" {
		b.Set("FullName", info.QualifiedName)
	}
	if info.Type != "" {
		b.Set("Type", info.Type)
	}
}

// enrichExpressionType covers expressions whose only resolved fact is their
// static type.
func enrichExpressionType(e *enricher, n *syntax.Node, b *document.NodeBuilder, _ frame) {
	if t, ok := e.typeOf(n); ok {
		b.Set("Type", t)
		return
	}
	if n.Kind() == syntax.KindPrimitiveExpression {
		if t := LiteralType(n.TokenOr("LiteralFormat", ""), n.TokenOr("Value", "")); t != "" {
			b.Set("Type", t)
		}
	}
}

// enrichBaseType resolves entries of a type's base list.
func enrichBaseType(e *enricher, n *syntax.Node, b *document.NodeBuilder, f frame) {
	if !f.inBaseList {
		return
	}
	if info, ok := e.symbol(n); ok && info.QualifiedName != "" {
		b.Set("FullyQualifiedBaseType", info.QualifiedName)
		return
	}
	b.Set("FullyQualifiedBaseType", DisplayType(n))
}

// LiteralType returns the C# type of a literal from its format and source
// text. Numeric suffixes are honored, and an unsuffixed integer takes the
// first of int, uint, long and ulong that holds its value.
func LiteralType(format, value string) string {
	switch format {
	case "Decimal", "Hexadecimal", "Binary":
		return numericLiteralType(format, value)
	case "Real":
		return realLiteralType(value)
	case "String", "VerbatimString", "RawString":
		return "string"
	case "Char":
		return "char"
	case "Boolean":
		return "bool"
	}
	return ""
}

func numericLiteralType(format, value string) string {
	lower := strings.ToLower(value)
	if lower == "" {
		return "int"
	}
	// In hexadecimal, d and f are digits.
	if format == "Decimal" && strings.ContainsRune("dfm", rune(lower[len(lower)-1])) {
		return realLiteralType(value)
	}

	digits := strings.TrimRight(lower, "ul")
	switch suffix := lower[len(digits):]; suffix {
	case "l":
		return "long"
	case "u":
		return "uint"
	case "ul", "lu":
		return "ulong"
	}

	base := 10
	switch format {
	case "Hexadecimal":
		base, digits = 16, strings.TrimPrefix(digits, "0x")
	case "Binary":
		base, digits = 2, strings.TrimPrefix(digits, "0b")
	}
	v, err := strconv.ParseUint(strings.ReplaceAll(digits, "_", ""), base, 64)
	switch {
	case err != nil || v <= math.MaxInt32:
		return "int"
	case v <= math.MaxUint32:
		return "uint"
	case v <= math.MaxInt64:
		return "long"
	}
	return "ulong"
}

func realLiteralType(value string) string {
	if value == "" {
		return "double"
	}
	switch value[len(value)-1] {
	case 'f', 'F':
		return "float"
	case 'm', 'M':
		return "decimal"
	}
	return "double"
}

// predefinedTypes maps C# keyword types to their framework names.
var predefinedTypes = map[string]string{
	"bool":    "System.Boolean",
	"byte":    "System.Byte",
	"sbyte":   "System.SByte",
	"char":    "System.Char",
	"decimal": "System.Decimal",
	"double":  "System.Double",
	"float":   "System.Single",
	"int":     "System.Int32",
	"uint":    "System.UInt32",
	"nint":    "System.IntPtr",
	"nuint":   "System.UIntPtr",
	"long":    "System.Int64",
	"ulong":   "System.UInt64",
	"short":   "System.Int16",
	"ushort":  "System.UInt16",
	"object":  "System.Object",
	"string":  "System.String",
	"void":    "System.Void",
	"dynamic": "dynamic",
}

// FrameworkTypeName returns the framework name of a predefined C# type.
func FrameworkTypeName(keyword string) (string, bool) {
	name, ok := predefinedTypes[keyword]
	return name, ok
}

// DisplayType renders a type syntax node as C# source.
func DisplayType(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case syntax.KindPrimitiveType:
		return n.TokenOr("Keyword", "")
	case syntax.KindSimpleType:
		return n.TokenOr("Identifier", "") + typeArgs(n)
	case syntax.KindMemberType:
		sep := "."
		if n.Flag("IsDoubleColon") {
			sep = "::"
		}
		return DisplayType(n.Child(syntax.RoleTarget)) + sep + n.TokenOr("MemberName", "") + typeArgs(n)
	case syntax.KindComposedType:
		var sb strings.Builder
		sb.WriteString(DisplayType(n.Child(syntax.RoleBaseType)))
		if n.Flag("HasNullableSpecifier") {
			sb.WriteByte('?')
		}
		sb.WriteString(strings.Repeat("*", intToken(n, "PointerRank", 0)))
		for _, spec := range n.Children(syntax.RoleSpecifiers) {
			sb.WriteByte('[')
			sb.WriteString(strings.Repeat(",", intToken(spec, "Dimensions", 1)-1))
			sb.WriteByte(']')
		}
		return sb.String()
	case syntax.KindTupleType:
		parts := make([]string, 0)
		for _, el := range n.Children(syntax.RoleElements) {
			s := DisplayType(el.Child(syntax.RoleType))
			if name, ok := el.Token("Name"); ok {
				s += " " + name
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}

func typeArgs(n *syntax.Node) string {
	args := n.Children(syntax.RoleTypeArguments)
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = DisplayType(a)
	}
	return "<" + strings.Join(parts, ",") + ">"
}

func intToken(n *syntax.Node, name string, def int) int {
	v, ok := n.Token(name)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return def
	}
	return i
}
