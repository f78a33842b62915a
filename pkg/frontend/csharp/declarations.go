package csharp

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// typeDeclarationKinds maps grammar type declarations to their ClassType.
var typeDeclarationKinds = map[string]string{
	"class_declaration":         "class",
	"struct_declaration":        "struct",
	"interface_declaration":     "interface",
	"enum_declaration":          "enum",
	"record_declaration":        "record",
	"record_struct_declaration": "record struct",
}

// modifierKeywords are the anonymous keyword tokens treated as modifiers
// when a grammar version does not wrap them in a modifier node.
var modifierKeywords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "abstract": true, "sealed": true, "virtual": true,
	"override": true, "readonly": true, "const": true, "extern": true,
	"new": true, "partial": true, "async": true, "unsafe": true,
	"volatile": true, "required": true, "file": true, "fixed": true,
}

// member converts a type member or a namespace member.
func (c *converter) member(n *ts.Node) *syntax.Node {
	if classType, ok := typeDeclarationKinds[n.Kind()]; ok {
		return c.typeDeclaration(n, classType)
	}
	switch n.Kind() {
	case "namespace_declaration":
		return c.namespace(n)
	case "file_scoped_namespace_declaration":
		return c.fileScopedNamespace(n, nil)
	case "delegate_declaration":
		return c.delegate(n)
	case "method_declaration":
		return c.method(n)
	case "constructor_declaration":
		return c.constructor(n)
	case "destructor_declaration":
		return c.destructor(n)
	case "operator_declaration", "conversion_operator_declaration":
		return c.operator(n)
	case "field_declaration":
		return c.fieldDeclaration(syntax.KindFieldDeclaration, n)
	case "event_field_declaration":
		return c.fieldDeclaration(syntax.KindEventDeclaration, n)
	case "event_declaration":
		return c.customEvent(n)
	case "property_declaration":
		return c.property(n)
	case "indexer_declaration":
		return c.indexer(n)
	case "enum_member_declaration":
		return c.enumMember(n)
	case "global_statement":
		return c.topLevel(n)
	}
	return c.unsupported(n)
}

// modifiers adds the declaration's modifier keywords to out in source order.
func (c *converter) modifiers(n *ts.Node, out *syntax.Node) {
	for _, child := range children(n) {
		switch {
		case child.Kind() == "modifier":
			out.AddModifier(strings.TrimSpace(c.text(child)))
		case !child.IsNamed() && modifierKeywords[child.Kind()]:
			out.AddModifier(child.Kind())
		}
	}
}

// declaration creates a declaration node with its attributes and modifiers.
func (c *converter) declaration(kind syntax.Kind, n *ts.Node) *syntax.Node {
	out := c.make(kind, n)
	c.modifiers(n, out)
	return out.Append(syntax.RoleAttributes, c.attributeLists(n)...)
}

// Attributes.

func (c *converter) attributeLists(n *ts.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, child := range children(n) {
		if child.Kind() == "attribute_list" {
			out = append(out, c.attributeSection(child))
		}
	}
	return out
}

func (c *converter) attributeSection(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindAttributeSection, n)
	for _, child := range named(n) {
		switch child.Kind() {
		case "attribute_target_specifier":
			out.SetToken("AttributeTarget", strings.TrimSuffix(strings.TrimSpace(c.text(child)), ":"))
		case "attribute":
			out.Append(syntax.RoleAttributes, c.attribute(child))
		}
	}
	return out
}

func (c *converter) attribute(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindAttribute, n)
	if name := field(n, "name"); name != nil {
		out.Set(syntax.RoleType, c.typ(name))
	}
	if args := childOfKind(n, "attribute_argument_list"); args != nil {
		for _, arg := range named(args) {
			out.Append(syntax.RoleArguments, c.attributeArgument(arg))
		}
	}
	return out
}

// attributeArgument maps `Name = value` to a NamedExpression and `name: value`
// to a NamedArgumentExpression.
func (c *converter) attributeArgument(n *ts.Node) *syntax.Node {
	parts := named(n)
	if len(parts) == 0 {
		return c.unsupported(n)
	}
	value := c.expr(parts[len(parts)-1])
	if len(parts) == 1 {
		return value
	}
	kind := syntax.KindNamedArgumentExpression
	if hasToken(n, "=") {
		kind = syntax.KindNamedExpression
	}
	return c.make(kind, n).
		SetToken("Name", c.text(parts[0])).
		Set(syntax.RoleExpression, value)
}

// globalAttributes maps `[assembly: ...]`.
func (c *converter) globalAttributes(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindAttributeSection, n)
	for _, child := range children(n) {
		switch {
		case child.Kind() == "attribute":
			out.Append(syntax.RoleAttributes, c.attribute(child))
		case child.Kind() == "attribute_target_specifier":
			out.SetToken("AttributeTarget", strings.TrimSuffix(strings.TrimSpace(c.text(child)), ":"))
		case !child.IsNamed() && (child.Kind() == "assembly" || child.Kind() == "module"):
			out.SetToken("AttributeTarget", child.Kind())
		}
	}
	return out
}

// Type declarations.

func (c *converter) typeDeclaration(n *ts.Node, classType string) *syntax.Node {
	if classType == "record" && hasToken(n, "struct") {
		classType = "record struct"
	}
	out := c.declaration(syntax.KindTypeDeclaration, n).
		SetToken("ClassType", classType)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}

	for _, child := range named(n) {
		switch child.Kind() {
		case "type_parameter_list":
			out.Append(syntax.RoleTypeParameters, c.typeParameters(child)...)
		case "parameter_list":
			out.Append(syntax.RoleParameters, c.parameters(child)...)
		case "base_list":
			out.Append(syntax.RoleBaseTypes, c.baseTypes(child)...)
		case "type_parameter_constraints_clause":
			out.Append(syntax.RoleConstraints, c.constraint(child))
		case "declaration_list":
			out.Append(syntax.RoleMembers, c.list(children(child), c.member)...)
		case "enum_member_declaration_list":
			out.Append(syntax.RoleMembers, c.list(children(child), c.enumMember)...)
		}
	}
	return out
}

func (c *converter) baseTypes(n *ts.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, child := range named(n) {
		switch child.Kind() {
		case "argument_list":
			// Arguments passed to a primary constructor's base.
			continue
		case "primary_constructor_base_type":
			if t := field(child, "type"); t != nil {
				out = append(out, c.typ(t))
			} else if first := firstNamed(child); first != nil {
				out = append(out, c.typ(first))
			}
		default:
			out = append(out, c.typ(child))
		}
	}
	return out
}

func (c *converter) typeParameters(n *ts.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, tp := range named(n) {
		if tp.Kind() != "type_parameter" {
			continue
		}
		p := c.make(syntax.KindTypeParameterDeclaration, tp).
			Append(syntax.RoleAttributes, c.attributeLists(tp)...)
		if name := field(tp, "name"); name != nil {
			p.SetToken("Name", c.text(name))
		} else if id := childOfKind(tp, "identifier"); id != nil {
			p.SetToken("Name", c.text(id))
		}
		switch {
		case hasToken(tp, "in"):
			p.SetToken("Variance", "Contravariant")
		case hasToken(tp, "out"):
			p.SetToken("Variance", "Covariant")
		default:
			p.SetToken("Variance", "Invariant")
		}
		out = append(out, p)
	}
	return out
}

func (c *converter) constraint(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindConstraint, n)
	parts := named(n)
	if len(parts) == 0 {
		return out
	}
	target := field(n, "target")
	if target == nil {
		target = parts[0]
	}
	out.Set(syntax.RoleTarget, c.simpleType(target, c.text(target)))

	for _, part := range parts {
		if part.StartByte() == target.StartByte() {
			continue
		}
		out.Append(syntax.RoleBaseTypes, c.constraintType(part))
	}
	return out
}

// constraintType maps one `where` constraint. Keyword constraints become
// PrimitiveType nodes carrying the keyword.
func (c *converter) constraintType(n *ts.Node) *syntax.Node {
	switch n.Kind() {
	case "constructor_constraint":
		return c.make(syntax.KindPrimitiveType, n).SetToken("Keyword", "new()")
	case "type_parameter_constraint":
		if t := field(n, "type"); t != nil {
			return c.typ(t)
		}
		if inner := firstNamed(n); inner != nil {
			return c.constraintType(inner)
		}
		return c.make(syntax.KindPrimitiveType, n).SetToken("Keyword", c.compact(n))
	}
	return c.typ(n)
}

func (c *converter) delegate(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindDelegateDeclaration, n)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}
	if ret := field(n, "type", "returns"); ret != nil {
		out.Set(syntax.RoleReturnType, c.typ(ret))
	}
	for _, child := range named(n) {
		switch child.Kind() {
		case "type_parameter_list":
			out.Append(syntax.RoleTypeParameters, c.typeParameters(child)...)
		case "parameter_list":
			out.Append(syntax.RoleParameters, c.parameters(child)...)
		case "type_parameter_constraints_clause":
			out.Append(syntax.RoleConstraints, c.constraint(child))
		}
	}
	return out
}

// Members.

// signature fills the parts shared by methods, local functions and
// operators: interface qualifier, type parameters, parameters, constraints
// and body.
func (c *converter) signature(n *ts.Node, out *syntax.Node) {
	for _, child := range named(n) {
		switch child.Kind() {
		case "explicit_interface_specifier":
			out.Set(syntax.RoleInterface, c.interfaceSpecifier(child))
		case "type_parameter_list":
			out.Append(syntax.RoleTypeParameters, c.typeParameters(child)...)
		case "parameter_list", "bracketed_parameter_list":
			out.Append(syntax.RoleParameters, c.parameters(child)...)
		case "type_parameter_constraints_clause":
			out.Append(syntax.RoleConstraints, c.constraint(child))
		case "block", "arrow_expression_clause":
			out.Set(syntax.RoleBody, c.body(child))
		}
	}
}

func (c *converter) interfaceSpecifier(n *ts.Node) *syntax.Node {
	if t := firstNamed(n); t != nil {
		return c.typ(t)
	}
	return c.unsupported(n)
}

// body maps a block or an expression body.
func (c *converter) body(n *ts.Node) *syntax.Node {
	if n.Kind() == "arrow_expression_clause" {
		out := c.make(syntax.KindArrowExpressionClause, n)
		if e := firstNamed(n); e != nil {
			out.Set(syntax.RoleExpression, c.expr(e))
		}
		return out
	}
	return c.statement(n)
}

func (c *converter) method(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindMethodDeclaration, n)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}
	if ret := field(n, "returns", "type"); ret != nil {
		out.Set(syntax.RoleReturnType, c.typ(ret))
	}
	c.signature(n, out)
	return out
}

func (c *converter) constructor(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindConstructorDeclaration, n)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}
	for _, child := range named(n) {
		switch child.Kind() {
		case "parameter_list":
			out.Append(syntax.RoleParameters, c.parameters(child)...)
		case "constructor_initializer":
			out.Set(syntax.RoleInitializer, c.constructorInitializer(child))
		case "block", "arrow_expression_clause":
			out.Set(syntax.RoleBody, c.body(child))
		}
	}
	return out
}

func (c *converter) constructorInitializer(n *ts.Node) *syntax.Node {
	initType := "This"
	if hasToken(n, "base") {
		initType = "Base"
	}
	out := c.make(syntax.KindConstructorInitializer, n).
		SetToken("ConstructorInitializerType", initType)
	if args := childOfKind(n, "argument_list"); args != nil {
		out.Append(syntax.RoleArguments, c.arguments(args)...)
	}
	return out
}

func (c *converter) destructor(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindDestructorDeclaration, n)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}
	if b := childOfKind(n, "block", "arrow_expression_clause"); b != nil {
		out.Set(syntax.RoleBody, c.body(b))
	}
	return out
}

// operatorNames maps overloadable operator tokens to their operator type.
var operatorNames = map[string]string{
	"+": "Addition", "-": "Subtraction", "*": "Multiply", "/": "Division",
	"%": "Modulus", "&": "BitwiseAnd", "|": "BitwiseOr", "^": "ExclusiveOr",
	"<<": "LeftShift", ">>": "RightShift", ">>>": "UnsignedRightShift",
	"==": "Equality", "!=": "Inequality", "<": "LessThan", ">": "GreaterThan",
	"<=": "LessThanOrEqual", ">=": "GreaterThanOrEqual", "!": "LogicalNot",
	"~": "OnesComplement", "++": "Increment", "--": "Decrement",
	"true": "True", "false": "False",
}

// operator maps operator and conversion operator declarations. Unary plus
// and minus are told apart from the binary forms by parameter count.
func (c *converter) operator(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindOperatorDeclaration, n).
		SetFlag("IsChecked", hasToken(n, "checked"))

	if n.Kind() == "conversion_operator_declaration" {
		opType := "Implicit"
		if hasToken(n, "explicit") {
			opType = "Explicit"
		}
		out.SetToken("OperatorType", opType)
	} else if op := field(n, "operator"); op != nil {
		out.SetToken("OperatorType", operatorNames[c.text(op)])
	}
	if ret := field(n, "type", "returns"); ret != nil {
		out.Set(syntax.RoleReturnType, c.typ(ret))
	}
	c.signature(n, out)

	if params := out.Children(syntax.RoleParameters); len(params) == 1 {
		switch out.TokenOr("OperatorType", "") {
		case "Addition":
			out.SetToken("OperatorType", "UnaryPlus")
		case "Subtraction":
			out.SetToken("OperatorType", "UnaryNegation")
		}
	}
	return out
}

// fieldDeclaration maps field and event field declarations.
func (c *converter) fieldDeclaration(kind syntax.Kind, n *ts.Node) *syntax.Node {
	out := c.declaration(kind, n)
	if decl := childOfKind(n, "variable_declaration"); decl != nil {
		c.variableDeclaration(decl, out)
	}
	return out
}

// variableDeclaration fills the type and declarators of a declaration.
func (c *converter) variableDeclaration(n *ts.Node, out *syntax.Node) {
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	for _, child := range named(n) {
		if child.Kind() == "variable_declarator" {
			out.Append(syntax.RoleVariables, c.declarator(child))
		}
	}
}

func (c *converter) declarator(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindVariableInitializer, n)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	} else if id := childOfKind(n, "identifier"); id != nil {
		out.SetToken("Name", c.text(id))
	}
	if args := childOfKind(n, "bracketed_argument_list"); args != nil {
		out.Append(syntax.RoleArguments, c.arguments(args)...)
	}
	if value := afterToken(n, "="); value != nil {
		out.Set(syntax.RoleInitializer, c.expr(value))
	} else if eq := childOfKind(n, "equals_value_clause"); eq != nil {
		if value := firstNamed(eq); value != nil {
			out.Set(syntax.RoleInitializer, c.expr(value))
		}
	}
	return out
}

func (c *converter) customEvent(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindCustomEventDeclaration, n)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	if spec := childOfKind(n, "explicit_interface_specifier"); spec != nil {
		out.Set(syntax.RoleInterface, c.interfaceSpecifier(spec))
	}
	if accessors := childOfKind(n, "accessor_list"); accessors != nil {
		out.Append(syntax.RoleAccessors, c.accessors(accessors)...)
	}
	return out
}

func (c *converter) property(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindPropertyDeclaration, n)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	c.propertyParts(n, out)
	if value := afterToken(n, "="); value != nil {
		out.Set(syntax.RoleInitializer, c.expr(value))
	}
	return out
}

func (c *converter) indexer(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindIndexerDeclaration, n).SetToken("Name", "Item")
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	if params := childOfKind(n, "bracketed_parameter_list"); params != nil {
		out.Append(syntax.RoleParameters, c.parameters(params)...)
	}
	c.propertyParts(n, out)
	return out
}

// propertyParts fills the interface qualifier, accessors and expression
// body shared by properties and indexers.
func (c *converter) propertyParts(n *ts.Node, out *syntax.Node) {
	for _, child := range named(n) {
		switch child.Kind() {
		case "explicit_interface_specifier":
			out.Set(syntax.RoleInterface, c.interfaceSpecifier(child))
		case "accessor_list":
			out.Append(syntax.RoleAccessors, c.accessors(child)...)
		case "arrow_expression_clause":
			out.Set(syntax.RoleBody, c.body(child))
		}
	}
}

func (c *converter) accessors(n *ts.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, a := range named(n) {
		if a.Kind() != "accessor_declaration" {
			continue
		}
		acc := c.declaration(syntax.KindAccessor, a)
		if name := field(a, "name"); name != nil {
			acc.SetToken("Kind", c.text(name))
		} else {
			for _, tok := range []string{"get", "set", "init", "add", "remove"} {
				if hasToken(a, tok) {
					acc.SetToken("Kind", tok)
					break
				}
			}
		}
		if b := childOfKind(a, "block", "arrow_expression_clause"); b != nil {
			acc.Set(syntax.RoleBody, c.body(b))
		}
		out = append(out, acc)
	}
	return out
}

func (c *converter) enumMember(n *ts.Node) *syntax.Node {
	if n.Kind() != "enum_member_declaration" {
		return c.unsupported(n)
	}
	out := c.make(syntax.KindEnumMemberDeclaration, n).
		Append(syntax.RoleAttributes, c.attributeLists(n)...)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}
	if value := field(n, "value"); value != nil {
		out.Set(syntax.RoleInitializer, c.expr(value))
	} else if value := afterToken(n, "="); value != nil {
		out.Set(syntax.RoleInitializer, c.expr(value))
	}
	return out
}

// Parameters.

// parameterModifiers are the keywords recorded both as modifiers and as the
// parameter's Modifier token.
var parameterModifiers = []string{"this", "ref", "out", "in", "params", "scoped", "readonly"}

// parameters maps a parameter list. Parameter arrays are written inline in
// the list by some grammar versions, so the children are grouped by comma.
func (c *converter) parameters(n *ts.Node) []*syntax.Node {
	var out []*syntax.Node
	var group []*ts.Node
	flush := func() {
		if len(group) == 0 {
			return
		}
		if len(group) == 1 && group[0].Kind() == "parameter" {
			out = append(out, c.parameter(group[0]))
		} else {
			out = append(out, c.inlineParameter(group))
		}
		group = nil
	}
	for _, child := range children(n) {
		switch {
		case child.Kind() == "," || child.Kind() == ")" || child.Kind() == "]":
			flush()
		case child.Kind() == "(" || child.Kind() == "[" || isTrivia(child):
		default:
			group = append(group, child)
		}
	}
	flush()
	return out
}

func (c *converter) parameter(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindParameterDeclaration, n).
		Append(syntax.RoleAttributes, c.attributeLists(n)...)
	for _, child := range children(n) {
		if child.Kind() == "modifier" || (!child.IsNamed() && isParameterModifier(child.Kind())) {
			c.parameterModifier(out, strings.TrimSpace(c.text(child)))
		}
	}
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.text(name))
	}
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	if value := afterToken(n, "="); value != nil {
		out.Set(syntax.RoleDefault, c.expr(value))
	} else if eq := childOfKind(n, "equals_value_clause"); eq != nil {
		if value := firstNamed(eq); value != nil {
			out.Set(syntax.RoleDefault, c.expr(value))
		}
	}
	return out
}

// inlineParameter maps a parameter array written as loose list children:
// attributes, `params`, type and name.
func (c *converter) inlineParameter(group []*ts.Node) *syntax.Node {
	out := c.newSpan(syntax.KindParameterDeclaration, c.spanRange(group[0], group[len(group)-1]))
	var rest []*ts.Node
	for _, child := range group {
		switch {
		case child.Kind() == "attribute_list":
			out.Append(syntax.RoleAttributes, c.attributeSection(child))
		case !child.IsNamed() && isParameterModifier(child.Kind()):
			c.parameterModifier(out, child.Kind())
		case child.IsNamed():
			rest = append(rest, child)
		}
	}
	if len(rest) > 0 {
		out.SetToken("Name", c.text(rest[len(rest)-1]))
	}
	if len(rest) > 1 {
		out.Set(syntax.RoleType, c.typ(rest[0]))
	}
	return out
}

func isParameterModifier(tok string) bool {
	for _, m := range parameterModifiers {
		if tok == m {
			return true
		}
	}
	return false
}

func (c *converter) parameterModifier(out *syntax.Node, keyword string) {
	out.AddModifier(keyword)
	if keyword == "this" {
		out.SetFlag("HasThisModifier", true)
		return
	}
	switch keyword {
	case "ref", "out", "in", "params":
		out.SetToken("Modifier", strings.ToUpper(keyword[:1])+keyword[1:])
	}
}

// Local functions.

func (c *converter) localFunction(n *ts.Node) *syntax.Node {
	decl := c.declaration(syntax.KindMethodDeclaration, n)
	if name := field(n, "name"); name != nil {
		decl.SetToken("Name", c.text(name))
	}
	if ret := field(n, "type", "returns"); ret != nil {
		decl.Set(syntax.RoleReturnType, c.typ(ret))
	}
	c.signature(n, decl)
	return c.make(syntax.KindLocalFunctionDeclarationStatement, n).Set(syntax.RoleDeclaration, decl)
}
