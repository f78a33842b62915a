package symbols

import (
	"strconv"
	"strings"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// walker is the second pass. It follows lexical scope through member bodies,
// binds parameters and locals, and types expressions bottom-up.
type walker struct {
	ix     *Index
	usings []string
	// scope is the dotted chain of enclosing namespaces and types.
	scope  []string
	types  []*typeEntry
	locals []map[string]docgen.SymbolInfo
	exprs  map[*syntax.Node]string
}

func newWalker(ix *Index, usings []string) *walker {
	return &walker{ix: ix, usings: usings, exprs: make(map[*syntax.Node]string)}
}

func (w *walker) push() { w.locals = append(w.locals, make(map[string]docgen.SymbolInfo)) }
func (w *walker) pop()  { w.locals = w.locals[:len(w.locals)-1] }

// bind declares a parameter or local in the innermost scope and publishes
// it under the declaring node's reference.
func (w *walker) bind(n *syntax.Node, name string, info docgen.SymbolInfo) {
	if name == "" {
		return
	}
	if len(w.locals) == 0 {
		w.push()
	}
	info.Name = name
	if info.QualifiedName == "" {
		info.QualifiedName = name
	}
	if info.Accessibility == "" {
		info.Accessibility = docgen.AccessNotApplicable
	}
	w.locals[len(w.locals)-1][name] = info
	if ref, ok := n.Symbol(); ok {
		w.ix.symbols[ref] = info
		if info.Type != "" {
			w.ix.types[ref] = info.Type
		}
	}
}

func (w *walker) enclosing() *typeEntry {
	if len(w.types) == 0 {
		return nil
	}
	return w.types[len(w.types)-1]
}

func (w *walker) qualify(n *syntax.Node) string {
	return w.ix.qualify(n, w.scope, w.usings)
}

func (w *walker) children(n *syntax.Node) {
	for _, role := range n.Roles() {
		for _, c := range n.Children(role) {
			w.walk(c)
		}
	}
}

func (w *walker) walk(n *syntax.Node) {
	switch n.Kind() {
	case syntax.KindNamespaceDeclaration:
		saved := w.scope
		w.scope = extend(w.scope, strings.Split(n.TokenOr("Name", ""), ".")...)
		w.children(n)
		w.scope = saved

	case syntax.KindTypeDeclaration, syntax.KindDelegateDeclaration:
		name := n.TokenOr("Name", "")
		saved := w.scope
		w.scope = extend(w.scope, name)
		t := w.ix.declared[strings.Join(w.scope, ".")]
		w.types = append(w.types, t)
		w.push()
		w.children(n)
		w.pop()
		w.types = w.types[:len(w.types)-1]
		w.scope = saved

	case syntax.KindMethodDeclaration, syntax.KindConstructorDeclaration, syntax.KindDestructorDeclaration,
		syntax.KindOperatorDeclaration, syntax.KindPropertyDeclaration, syntax.KindIndexerDeclaration,
		syntax.KindCustomEventDeclaration, syntax.KindAccessor, syntax.KindLambdaExpression,
		syntax.KindAnonymousMethodExpression, syntax.KindBlockStatement, syntax.KindForStatement,
		syntax.KindUsingStatement, syntax.KindSwitchSection, syntax.KindQueryExpression,
		syntax.KindFixedStatement:
		w.push()
		w.children(n)
		w.pop()

	case syntax.KindLocalFunctionDeclarationStatement:
		w.localFunction(n)

	case syntax.KindParameterDeclaration:
		w.children(n)
		w.parameter(n)

	case syntax.KindVariableDeclarationStatement:
		w.variables(n)

	case syntax.KindForeachStatement:
		w.foreach(n)

	case syntax.KindCatchClause:
		w.push()
		if name := n.TokenOr("VariableName", ""); name != "" {
			w.bind(n, name, docgen.SymbolInfo{Kind: docgen.SymbolLocal, Type: w.qualify(n.Child(syntax.RoleType))})
		}
		w.children(n)
		w.pop()

	case syntax.KindDeclarationExpression, syntax.KindDeclarationPattern:
		w.children(n)
		w.designate(n.Child(syntax.RoleDesignation), w.qualify(n.Child(syntax.RoleType)))

	case syntax.KindQueryFromClause, syntax.KindQueryJoinClause:
		w.children(n)
		typ := w.qualify(n.Child(syntax.RoleType))
		if typ == "" {
			typ = elementType(w.exprs[n.Child(syntax.RoleExpression)])
		}
		name := n.TokenOr("Identifier", n.TokenOr("JoinIdentifier", ""))
		w.bind(n, name, docgen.SymbolInfo{Kind: docgen.SymbolLocal, Type: typ})

	case syntax.KindQueryLetClause:
		w.children(n)
		w.bind(n, n.TokenOr("Identifier", ""), docgen.SymbolInfo{Kind: docgen.SymbolLocal, Type: w.exprs[n.Child(syntax.RoleExpression)]})

	default:
		w.children(n)
		if t := w.expression(n); t != "" {
			w.exprs[n] = t
			if ref, ok := n.Symbol(); ok {
				w.ix.types[ref] = t
			}
		}
	}
}

func (w *walker) parameter(n *syntax.Node) {
	info := docgen.SymbolInfo{
		Kind:      docgen.SymbolParameter,
		Type:      w.qualify(n.Child(syntax.RoleType)),
		Modifiers: docgen.ModifiersOf(n.Modifiers()),
	}
	w.bind(n, n.TokenOr("Name", ""), info)
}

// localFunction binds the function's name in the enclosing scope before
// walking its body, so that it can call itself.
func (w *walker) localFunction(n *syntax.Node) {
	decl := n.Child(syntax.RoleDeclaration)
	if decl == nil {
		w.children(n)
		return
	}
	info := docgen.SymbolInfo{
		Kind:          docgen.SymbolMethod,
		Accessibility: docgen.AccessPrivate,
		Modifiers:     docgen.ModifiersOf(decl.Modifiers()),
		ReturnType:    w.qualify(decl.Child(syntax.RoleReturnType)),
		IsGeneric:     len(decl.Children(syntax.RoleTypeParameters)) > 0,
	}
	w.bind(decl, decl.TokenOr("Name", ""), info)
	w.walk(decl)
}

// variables binds each declarator after typing its initializer. An
// implicitly typed declarator takes its initializer's type.
func (w *walker) variables(n *syntax.Node) {
	declared := n.Child(syntax.RoleType)
	if declared != nil {
		w.walk(declared)
	}
	typ := w.qualify(declared)
	implicit := typ == "var" || typ == ""

	for _, v := range n.Children(syntax.RoleVariables) {
		w.children(v)
		t := typ
		if implicit {
			t = ""
			if init := v.Child(syntax.RoleInitializer); init != nil {
				t = w.exprs[init]
			}
		}
		w.bind(v, v.TokenOr("Name", ""), docgen.SymbolInfo{
			Kind:      docgen.SymbolLocal,
			Type:      t,
			Modifiers: docgen.ModifiersOf(n.Modifiers()),
		})
	}
}

func (w *walker) foreach(n *syntax.Node) {
	if e := n.Child(syntax.RoleExpression); e != nil {
		w.walk(e)
	}
	w.push()
	typ := w.qualify(n.Child(syntax.RoleType))
	if typ == "" || typ == "var" {
		typ = elementType(w.exprs[n.Child(syntax.RoleExpression)])
	}
	w.designate(n.Child(syntax.RoleDesignation), typ)
	if body := n.Child(syntax.RoleBody); body != nil {
		w.walk(body)
	}
	w.pop()
}

// designate binds the variables a designation introduces. Elements of a
// parenthesized designation stay untyped.
func (w *walker) designate(d *syntax.Node, typ string) {
	if d == nil {
		return
	}
	switch d.Kind() {
	case syntax.KindSingleVariableDesignation:
		if typ == "var" {
			typ = ""
		}
		w.bind(d, d.TokenOr("Identifier", ""), docgen.SymbolInfo{Kind: docgen.SymbolLocal, Type: typ})
	case syntax.KindParenthesizedVariableDesignation:
		for _, el := range d.Children(syntax.RoleElements) {
			w.designate(el, "")
		}
	}
}

// resolve finds what a simple name refers to: a local or parameter, then a
// member of an enclosing type or its bases, then a type.
func (w *walker) resolve(name string) (docgen.SymbolInfo, []*member, bool) {
	for i := len(w.locals) - 1; i >= 0; i-- {
		if info, ok := w.locals[i][name]; ok {
			return info, nil, true
		}
	}
	for i := len(w.types) - 1; i >= 0; i-- {
		if w.types[i] == nil {
			continue
		}
		if ms := w.types[i].lookup(name); len(ms) > 0 {
			return ms[0].info, ms, true
		}
	}
	if t := w.ix.resolveType(name, w.scope, w.usings); t != nil {
		info := t.info
		info.Type = t.info.QualifiedName
		return info, nil, true
	}
	return docgen.SymbolInfo{}, nil, false
}

// typeEntryOf finds the declared type of a rendered type.
func (w *walker) typeEntryOf(display string) *typeEntry {
	display = stripTypeArgs(strings.TrimSuffix(display, "?"))
	if t, ok := w.ix.declared[display]; ok {
		return t
	}
	return w.ix.resolveType(display, w.scope, w.usings)
}

// memberOf resolves name on the target of a member access. The second
// result lists the method overloads when name is a method group.
func (w *walker) memberOf(target *syntax.Node, name string) (docgen.SymbolInfo, []*member, bool) {
	var owner *typeEntry
	switch target.Kind() {
	case syntax.KindThisReferenceExpression:
		owner = w.enclosing()
	case syntax.KindBaseReferenceExpression:
		if t := w.enclosing(); t != nil {
			owner = t.base
		}
	default:
		owner = w.typeEntryOf(w.exprs[target])
	}
	if owner == nil {
		return docgen.SymbolInfo{}, nil, false
	}
	ms := owner.lookup(name)
	if len(ms) == 0 {
		return docgen.SymbolInfo{}, nil, false
	}
	return ms[0].info, ms, true
}

// overload picks the method whose parameter count matches the call.
func overload(ms []*member, args int) (docgen.SymbolInfo, bool) {
	var fallback *member
	for _, m := range ms {
		if m.info.Kind != docgen.SymbolMethod {
			continue
		}
		if m.params == args {
			return m.info, true
		}
		if fallback == nil {
			fallback = m
		}
	}
	if fallback == nil {
		return docgen.SymbolInfo{}, false
	}
	return fallback.info, true
}

func (w *walker) record(n *syntax.Node, info docgen.SymbolInfo) {
	if ref, ok := n.Symbol(); ok {
		w.ix.symbols[ref] = info
	}
}

// expression returns the static type of an expression whose operands have
// already been typed.
func (w *walker) expression(n *syntax.Node) string {
	child := func(role syntax.Role) string { return w.exprs[n.Child(role)] }

	switch n.Kind() {
	case syntax.KindPrimitiveExpression:
		return docgen.LiteralType(n.TokenOr("LiteralFormat", ""), n.TokenOr("Value", ""))

	case syntax.KindInterpolatedStringExpression:
		return "string"

	case syntax.KindIdentifierExpression:
		info, _, ok := w.resolve(n.TokenOr("Identifier", ""))
		if !ok {
			return ""
		}
		w.record(n, info)
		return info.Type

	case syntax.KindMemberReferenceExpression:
		target := n.Child(syntax.RoleTarget)
		if target == nil {
			return ""
		}
		name := n.TokenOr("MemberName", "")
		if info, _, ok := w.memberOf(target, name); ok {
			w.record(n, info)
			return info.Type
		}
		return wellKnown(w.exprs[target], name)

	case syntax.KindInvocationExpression:
		return w.invocation(n)

	case syntax.KindObjectCreateExpression, syntax.KindCastExpression, syntax.KindAsExpression:
		return w.qualify(n.Child(syntax.RoleType))

	case syntax.KindDefaultValueExpression:
		return w.qualify(n.Child(syntax.RoleType))

	case syntax.KindArrayCreateExpression:
		elem := w.qualify(n.Child(syntax.RoleType))
		if elem == "" {
			if init := n.Child(syntax.RoleInitializer); init != nil {
				for _, el := range init.Children(syntax.RoleElements) {
					if t := w.exprs[el]; t != "" {
						elem = t
						break
					}
				}
			}
		}
		if elem == "" {
			return ""
		}
		specs := n.Children(syntax.RoleSpecifiers)
		if len(specs) == 0 {
			return elem + "[]"
		}
		var sb strings.Builder
		sb.WriteString(elem)
		for _, s := range specs {
			sb.WriteByte('[')
			sb.WriteString(strings.Repeat(",", intToken(s, "Dimensions", 1)-1))
			sb.WriteByte(']')
		}
		return sb.String()

	case syntax.KindBinaryOperatorExpression:
		return binaryType(n.TokenOr("Operator", ""), child(syntax.RoleLeft), child(syntax.RoleRight))

	case syntax.KindUnaryOperatorExpression:
		return unaryType(n.TokenOr("Operator", ""), child(syntax.RoleOperand))

	case syntax.KindAssignmentExpression:
		return child(syntax.RoleLeft)

	case syntax.KindConditionalExpression:
		if t := child(syntax.RoleConsequence); t != "" {
			return t
		}
		return child(syntax.RoleAlternative)

	case syntax.KindParenthesizedExpression, syntax.KindCheckedExpression, syntax.KindUncheckedExpression:
		return child(syntax.RoleExpression)

	case syntax.KindAwaitExpression:
		return awaitedType(child(syntax.RoleExpression))

	case syntax.KindIndexerExpression:
		return indexedType(child(syntax.RoleTarget))

	case syntax.KindIsExpression:
		return "bool"

	case syntax.KindTypeOfExpression:
		return "System.Type"

	case syntax.KindSizeOfExpression:
		return "int"

	case syntax.KindThisReferenceExpression:
		if t := w.enclosing(); t != nil {
			return t.info.QualifiedName
		}

	case syntax.KindBaseReferenceExpression:
		if t := w.enclosing(); t != nil {
			return t.info.BaseType
		}
	}
	return ""
}

// invocation returns the return type of a call, resolving the callee among
// local functions, members of the enclosing types and members of the
// target's type.
func (w *walker) invocation(n *syntax.Node) string {
	target := n.Child(syntax.RoleTarget)
	if target == nil {
		return ""
	}
	args := len(n.Children(syntax.RoleArguments))

	var (
		name string
		ms   []*member
		info docgen.SymbolInfo
		ok   bool
	)
	switch target.Kind() {
	case syntax.KindIdentifierExpression:
		name = target.TokenOr("Identifier", "")
		if name == "nameof" {
			return "string"
		}
		info, ms, ok = w.resolve(name)
	case syntax.KindMemberReferenceExpression:
		name = target.TokenOr("MemberName", "")
		if owner := target.Child(syntax.RoleTarget); owner != nil {
			info, ms, ok = w.memberOf(owner, name)
			if !ok {
				return wellKnown(w.exprs[owner], name+"()")
			}
		}
	default:
		return ""
	}
	if !ok {
		return wellKnown("", name+"()")
	}

	if len(ms) > 0 {
		if method, found := overload(ms, args); found {
			info = method
		}
	}
	if info.Kind != docgen.SymbolMethod {
		return ""
	}
	w.record(target, info)
	return info.ReturnType
}

func intToken(n *syntax.Node, name string, def int) int {
	v, err := strconv.Atoi(n.TokenOr(name, ""))
	if err != nil {
		return def
	}
	return v
}
