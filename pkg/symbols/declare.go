package symbols

import (
	"strings"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// declarer is the first pass. It records every type and member declaration
// with its qualified name, accessibility and modifiers.
type declarer struct {
	ix     *Index
	usings []string
}

func (d *declarer) unit(root *syntax.Node) {
	root.Walk(func(n *syntax.Node) bool {
		if n.Kind() == syntax.KindUsingDeclaration && !n.Flag("IsStatic") {
			if name := n.TokenOr("Name", ""); name != "" {
				d.usings = append(d.usings, strings.TrimPrefix(name, "global::"))
			}
		}
		switch n.Kind() {
		case syntax.KindCompilationUnit, syntax.KindNamespaceDeclaration, syntax.KindPreProcessorDirective:
			return true
		}
		return false
	})
	d.namespace(root.Children(syntax.RoleMembers), nil)
}

// namespace declares the types found among a namespace's members. scope is
// the dotted namespace chain.
func (d *declarer) namespace(nodes []*syntax.Node, scope []string) {
	for _, n := range nodes {
		switch n.Kind() {
		case syntax.KindNamespaceDeclaration:
			d.namespace(n.Children(syntax.RoleMembers), extend(scope, strings.Split(n.TokenOr("Name", ""), ".")...))
		case syntax.KindTypeDeclaration, syntax.KindDelegateDeclaration:
			d.typeDeclaration(n, scope, nil)
		case syntax.KindPreProcessorDirective:
			// #if and #region blocks hold the declarations they enclose.
			d.namespace(n.Children(syntax.RoleMembers), scope)
		}
	}
}

func (d *declarer) typeDeclaration(n *syntax.Node, scope []string, outer *typeEntry) {
	name := n.TokenOr("Name", "")
	qualified := strings.Join(extend(scope, name), ".")

	classType := n.TokenOr("ClassType", "class")
	if n.Kind() == syntax.KindDelegateDeclaration {
		classType = "delegate"
	}

	mods := docgen.ModifiersOf(n.Modifiers())
	switch {
	case classType == "interface":
		mods |= docgen.ModAbstract
	case classType == "struct" || classType == "record struct" || classType == "enum" || classType == "delegate":
		mods |= docgen.ModSealed
	case mods.Has(docgen.ModStatic):
		mods |= docgen.ModAbstract | docgen.ModSealed
	}

	defaultAccess := docgen.AccessInternal
	if outer != nil {
		defaultAccess = docgen.AccessPrivate
		if outer.classType == "interface" {
			defaultAccess = docgen.AccessPublic
		}
	}

	t := &typeEntry{
		info: docgen.SymbolInfo{
			Kind:          docgen.SymbolNamedType,
			Name:          name,
			QualifiedName: qualified,
			Accessibility: accessibility(n.Modifiers(), defaultAccess),
			Modifiers:     mods,
			IsGeneric:     len(n.Children(syntax.RoleTypeParameters)) > 0,
		},
		classType: classType,
		node:      n,
		scope:     scope,
		usings:    d.usings,
		bases:     n.Children(syntax.RoleBaseTypes),
	}
	if ref, ok := n.Symbol(); ok {
		t.ref = ref
	}
	if classType == "delegate" {
		t.returnType = n.Child(syntax.RoleReturnType)
	}

	if existing, ok := d.ix.declared[qualified]; ok && existing.info.Modifiers.Has(docgen.ModPartial) {
		// Later parts of a partial type merge into the first part.
		existing.bases = append(existing.bases, t.bases...)
		if t.ref != "" {
			existing.parts = append(existing.parts, t.ref)
		}
		t = existing
	} else {
		d.ix.declared[qualified] = t
	}

	d.members(n.Children(syntax.RoleMembers), extend(scope, name), t)
}

func (d *declarer) members(nodes []*syntax.Node, scope []string, t *typeEntry) {
	for _, m := range nodes {
		switch m.Kind() {
		case syntax.KindTypeDeclaration, syntax.KindDelegateDeclaration:
			d.typeDeclaration(m, scope, t)
		case syntax.KindPreProcessorDirective:
			d.members(m.Children(syntax.RoleMembers), scope, t)
		default:
			d.member(m, t)
		}
	}
}

// member declares one member of t.
func (d *declarer) member(n *syntax.Node, t *typeEntry) {
	defaultAccess := docgen.AccessPrivate
	if t.classType == "interface" || n.Kind() == syntax.KindEnumMemberDeclaration {
		defaultAccess = docgen.AccessPublic
	}
	if n.Child(syntax.RoleInterface) != nil {
		defaultAccess = docgen.AccessPrivate
	}

	mods := docgen.ModifiersOf(n.Modifiers())
	info := docgen.SymbolInfo{
		Name:          n.TokenOr("Name", ""),
		Accessibility: accessibility(n.Modifiers(), defaultAccess),
		Modifiers:     mods,
	}
	info.QualifiedName = t.info.QualifiedName + "." + info.Name

	switch n.Kind() {
	case syntax.KindMethodDeclaration, syntax.KindOperatorDeclaration:
		if t.classType == "interface" && n.Child(syntax.RoleBody) == nil && !mods.Has(docgen.ModStatic) {
			info.Modifiers |= docgen.ModAbstract
		}
		if n.Kind() == syntax.KindOperatorDeclaration {
			info.Name = "op_" + n.TokenOr("OperatorType", "")
			info.QualifiedName = t.info.QualifiedName + "." + info.Name
		}
		info.Kind = docgen.SymbolMethod
		info.IsGeneric = len(n.Children(syntax.RoleTypeParameters)) > 0
		t.add(n, info, len(n.Children(syntax.RoleParameters))).returnType = n.Child(syntax.RoleReturnType)

	case syntax.KindConstructorDeclaration:
		info.Kind = docgen.SymbolMethod
		info.Name = ".ctor"
		if mods.Has(docgen.ModStatic) {
			info.Name = ".cctor"
		}
		info.QualifiedName = t.info.QualifiedName + "." + info.Name
		t.add(n, info, len(n.Children(syntax.RoleParameters)))

	case syntax.KindPropertyDeclaration, syntax.KindIndexerDeclaration:
		if t.classType == "interface" && n.Child(syntax.RoleBody) == nil && !mods.Has(docgen.ModStatic) {
			info.Modifiers |= docgen.ModAbstract
		}
		info.Kind = docgen.SymbolProperty
		t.add(n, info, len(n.Children(syntax.RoleParameters))).typ = n.Child(syntax.RoleType)

	case syntax.KindCustomEventDeclaration:
		info.Kind = docgen.SymbolEvent
		t.add(n, info, 0).typ = n.Child(syntax.RoleType)

	case syntax.KindFieldDeclaration, syntax.KindEventDeclaration:
		kind := docgen.SymbolField
		if n.Kind() == syntax.KindEventDeclaration {
			kind = docgen.SymbolEvent
		}
		if mods.Has(docgen.ModConst) {
			info.Modifiers |= docgen.ModStatic
		}
		typ := n.Child(syntax.RoleType)
		for _, v := range n.Children(syntax.RoleVariables) {
			vi := info
			vi.Kind = kind
			vi.Name = v.TokenOr("Name", "")
			vi.QualifiedName = t.info.QualifiedName + "." + vi.Name
			t.add(v, vi, 0).typ = typ
		}

	case syntax.KindEnumMemberDeclaration:
		info.Kind = docgen.SymbolField
		info.Modifiers |= docgen.ModStatic | docgen.ModConst
		info.Type = t.info.QualifiedName
		t.add(n, info, 0)
	}
}

func (t *typeEntry) add(n *syntax.Node, info docgen.SymbolInfo, params int) *member {
	m := &member{info: info, params: params}
	if ref, ok := n.Symbol(); ok {
		m.ref = ref
		m.hasRef = true
	}
	t.members = append(t.members, m)
	return m
}

// accessibility resolves accessibility keywords, falling back to def.
func accessibility(mods []string, def docgen.Accessibility) docgen.Accessibility {
	var public, private, protected, internal bool
	for _, m := range mods {
		switch m {
		case "public":
			public = true
		case "private":
			private = true
		case "protected":
			protected = true
		case "internal":
			internal = true
		}
	}
	switch {
	case public:
		return docgen.AccessPublic
	case protected && internal:
		return docgen.AccessProtectedInternal
	case private && protected:
		return docgen.AccessPrivateProtected
	case protected:
		return docgen.AccessProtected
	case internal:
		return docgen.AccessInternal
	case private:
		return docgen.AccessPrivate
	}
	return def
}

func extend(scope []string, names ...string) []string {
	out := make([]string, 0, len(scope)+len(names))
	out = append(out, scope...)
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
