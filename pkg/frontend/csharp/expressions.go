package csharp

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// expr converts an expression.
func (c *converter) expr(n *ts.Node) *syntax.Node {
	switch n.Kind() {
	case "integer_literal", "real_literal", "character_literal", "boolean_literal",
		"string_literal", "verbatim_string_literal", "raw_string_literal":
		return c.literal(n)
	case "null_literal":
		return c.make(syntax.KindNullReferenceExpression, n)
	case "identifier":
		return c.make(syntax.KindIdentifierExpression, n).SetToken("Identifier", c.text(n))
	case "generic_name":
		return c.genericName(syntax.KindIdentifierExpression, "Identifier", n)
	case "this", "this_expression":
		return c.make(syntax.KindThisReferenceExpression, n)
	case "base", "base_expression":
		return c.make(syntax.KindBaseReferenceExpression, n)
	case "member_access_expression":
		return c.memberAccess(n)
	case "invocation_expression":
		return c.invocation(n)
	case "binary_expression":
		return c.binary(syntax.KindBinaryOperatorExpression, n)
	case "assignment_expression":
		return c.binary(syntax.KindAssignmentExpression, n)
	case "prefix_unary_expression":
		return c.unary(n, false)
	case "postfix_unary_expression":
		return c.unary(n, true)
	case "conditional_expression":
		return c.make(syntax.KindConditionalExpression, n).
			Set(syntax.RoleCondition, c.exprField(n, "condition")).
			Set(syntax.RoleConsequence, c.exprField(n, "consequence")).
			Set(syntax.RoleAlternative, c.exprField(n, "alternative"))
	case "cast_expression":
		out := c.make(syntax.KindCastExpression, n)
		if t := field(n, "type"); t != nil {
			out.Set(syntax.RoleType, c.typ(t))
		}
		return out.Set(syntax.RoleExpression, c.exprField(n, "value"))
	case "as_expression":
		return c.typeTest(syntax.KindAsExpression, n)
	case "is_expression":
		return c.typeTest(syntax.KindIsExpression, n)
	case "is_pattern_expression":
		out := c.make(syntax.KindIsExpression, n).
			Set(syntax.RoleExpression, c.exprField(n, "expression"))
		if p := field(n, "pattern"); p != nil {
			out.Set(syntax.RolePattern, c.pattern(p))
		}
		return out
	case "typeof_expression":
		return c.typeOperand(syntax.KindTypeOfExpression, n)
	case "sizeof_expression":
		return c.typeOperand(syntax.KindSizeOfExpression, n)
	case "default_expression":
		return c.typeOperand(syntax.KindDefaultValueExpression, n)
	case "object_creation_expression", "implicit_object_creation_expression":
		return c.objectCreation(n)
	case "anonymous_object_creation_expression":
		return c.anonymousObject(n)
	case "array_creation_expression", "implicit_array_creation_expression",
		"stackalloc_expression", "implicit_stackalloc_expression":
		return c.arrayCreation(n)
	case "initializer_expression":
		return c.initializer(n)
	case "lambda_expression":
		return c.lambda(n)
	case "anonymous_method_expression":
		return c.anonymousMethod(n)
	case "element_access_expression":
		out := c.make(syntax.KindIndexerExpression, n).
			Set(syntax.RoleTarget, c.exprField(n, "expression"))
		if args := childOfKind(n, "bracketed_argument_list"); args != nil {
			out.Append(syntax.RoleArguments, c.arguments(args)...)
		}
		return out
	case "parenthesized_expression":
		return c.wrap(syntax.KindParenthesizedExpression, n)
	case "interpolated_string_expression":
		return c.interpolatedString(n)
	case "query_expression":
		return c.query(n)
	case "await_expression":
		return c.wrap(syntax.KindAwaitExpression, n)
	case "throw_expression":
		return c.wrap(syntax.KindThrowExpression, n)
	case "tuple_expression":
		out := c.make(syntax.KindTupleExpression, n)
		for _, arg := range named(n) {
			out.Append(syntax.RoleElements, c.argument(arg))
		}
		return out
	case "checked_expression":
		kind := syntax.KindCheckedExpression
		if hasToken(n, "unchecked") {
			kind = syntax.KindUncheckedExpression
		}
		return c.wrap(kind, n)
	case "conditional_access_expression":
		return c.conditionalAccess(n)
	case "member_binding_expression":
		out := c.make(syntax.KindMemberBindingExpression, n)
		if name := field(n, "name"); name != nil {
			c.memberName(out, name)
		} else if name := lastNamed(n); name != nil {
			c.memberName(out, name)
		}
		return out
	case "element_binding_expression":
		out := c.make(syntax.KindElementBindingExpression, n)
		args := childOfKind(n, "bracketed_argument_list")
		if args == nil {
			args = n
		}
		out.Append(syntax.RoleArguments, c.arguments(args)...)
		return out
	case "switch_expression":
		return c.switchExpression(n)
	case "declaration_expression":
		return c.declarationExpression(n)
	case "range_expression":
		return c.rangeExpression(n)
	case "ref_expression":
		if inner := firstNamed(n); inner != nil {
			return c.expr(inner)
		}
	case "qualified_name", "alias_qualified_name", "predefined_type":
		// Type names in expression position, such as `int.Parse` targets.
		return c.typ(n)
	}
	if isType(n) {
		return c.typ(n)
	}
	return c.unsupported(n)
}

// exprField converts the expression under a field, or returns nil.
func (c *converter) exprField(n *ts.Node, name string) *syntax.Node {
	if child := n.ChildByFieldName(name); child != nil {
		return c.expr(child)
	}
	return nil
}

// wrap maps a node whose only meaningful child is one expression.
func (c *converter) wrap(kind syntax.Kind, n *ts.Node) *syntax.Node {
	out := c.make(kind, n)
	if inner := firstNamed(n); inner != nil {
		out.Set(syntax.RoleExpression, c.expr(inner))
	}
	return out
}

// Literals.

func (c *converter) literal(n *ts.Node) *syntax.Node {
	value := c.text(n)
	return c.make(syntax.KindPrimitiveExpression, n).
		SetToken("Value", value).
		SetToken("LiteralFormat", literalFormat(n.Kind(), value))
}

func literalFormat(kind, value string) string {
	switch kind {
	case "integer_literal":
		lower := strings.ToLower(value)
		switch {
		case strings.HasPrefix(lower, "0x"):
			return "Hexadecimal"
		case strings.HasPrefix(lower, "0b"):
			return "Binary"
		}
		return "Decimal"
	case "real_literal":
		return "Real"
	case "character_literal":
		return "Char"
	case "boolean_literal":
		return "Boolean"
	case "verbatim_string_literal":
		return "VerbatimString"
	case "raw_string_literal":
		return "RawString"
	}
	return "String"
}

// Access and invocation.

func (c *converter) memberAccess(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindMemberReferenceExpression, n).
		SetFlag("IsPointerAccess", hasToken(n, "->"))
	if target := field(n, "expression"); target != nil {
		out.Set(syntax.RoleTarget, c.expr(target))
	}
	if name := field(n, "name"); name != nil {
		c.memberName(out, name)
	}
	return out
}

func (c *converter) invocation(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindInvocationExpression, n).
		Set(syntax.RoleTarget, c.exprField(n, "function"))
	if args := field(n, "arguments"); args != nil {
		out.Append(syntax.RoleArguments, c.arguments(args)...)
	}
	return out
}

// arguments maps an argument list in source order.
func (c *converter) arguments(n *ts.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, arg := range named(n) {
		out = append(out, c.argument(arg))
	}
	return out
}

// argument maps `name: value` to a NamedArgumentExpression and ref, out or
// in arguments to a DirectionExpression. A plain argument is its expression.
func (c *converter) argument(n *ts.Node) *syntax.Node {
	if n.Kind() != "argument" {
		return c.expr(n)
	}
	parts := named(n)
	if len(parts) == 0 {
		return c.unsupported(n)
	}
	valueNode := parts[len(parts)-1]
	value := c.expr(valueNode)

	for _, dir := range []string{"ref", "out", "in"} {
		if hasToken(n, dir) {
			span := c.direction(n).Cover(c.span(valueNode))
			value = c.newSpan(syntax.KindDirectionExpression, span).
				SetToken("FieldDirection", strings.ToUpper(dir[:1])+dir[1:]).
				Set(syntax.RoleExpression, value)
			break
		}
	}

	if name := field(n, "name"); name != nil {
		return c.make(syntax.KindNamedArgumentExpression, n).
			SetToken("Name", c.text(name)).
			Set(syntax.RoleExpression, value)
	}
	return value
}

// direction returns the span of an argument's ref, out or in keyword.
func (c *converter) direction(n *ts.Node) syntax.Span {
	for _, child := range children(n) {
		switch child.Kind() {
		case "ref", "out", "in":
			if !child.IsNamed() {
				return c.span(child)
			}
		}
	}
	return syntax.Span{}
}

// Operators.

func (c *converter) binary(kind syntax.Kind, n *ts.Node) *syntax.Node {
	out := c.make(kind, n).
		Set(syntax.RoleLeft, c.exprField(n, "left")).
		Set(syntax.RoleRight, c.exprField(n, "right"))
	if op := field(n, "operator"); op != nil {
		out.SetToken("Operator", c.text(op))
	} else {
		for _, child := range children(n) {
			if !child.IsNamed() {
				out.SetToken("Operator", child.Kind())
				break
			}
		}
	}
	return out
}

func (c *converter) unary(n *ts.Node, postfix bool) *syntax.Node {
	out := c.make(syntax.KindUnaryOperatorExpression, n).SetFlag("IsPostfix", postfix)
	for _, child := range children(n) {
		if child.IsNamed() {
			out.Set(syntax.RoleOperand, c.expr(child))
		} else if _, set := out.Token("Operator"); !set {
			out.SetToken("Operator", child.Kind())
		}
	}
	return out
}

// typeTest maps `x as T` and `x is T`.
func (c *converter) typeTest(kind syntax.Kind, n *ts.Node) *syntax.Node {
	out := c.make(kind, n).Set(syntax.RoleExpression, c.exprField(n, "left"))
	if t := field(n, "right"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	return out
}

// typeOperand maps typeof, sizeof and default, whose operand is a type.
func (c *converter) typeOperand(kind syntax.Kind, n *ts.Node) *syntax.Node {
	out := c.make(kind, n)
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	} else if t := firstNamed(n); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	return out
}

// Creation.

func (c *converter) objectCreation(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindObjectCreateExpression, n)
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	if args := childOfKind(n, "argument_list"); args != nil {
		out.Append(syntax.RoleArguments, c.arguments(args)...)
	}
	if init := childOfKind(n, "initializer_expression"); init != nil {
		out.Set(syntax.RoleInitializer, c.initializer(init))
	}
	return out
}

func (c *converter) anonymousObject(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindAnonymousTypeCreateExpression, n)
	var pending *ts.Node
	for _, child := range children(n) {
		switch {
		case child.Kind() == "=":
			// The preceding identifier names the member.
		case child.Kind() == "," || child.Kind() == "}":
			if pending != nil {
				out.Append(syntax.RoleElements, c.expr(pending))
				pending = nil
			}
		case child.IsNamed() && !isTrivia(child):
			if pending != nil && hasAssignmentBetween(n, pending, child) {
				out.Append(syntax.RoleElements, c.newSpan(syntax.KindNamedExpression, c.spanRange(pending, child)).
					SetToken("Name", c.text(pending)).
					Set(syntax.RoleExpression, c.expr(child)))
				pending = nil
				continue
			}
			pending = child
		}
	}
	return out
}

// hasAssignmentBetween reports an `=` token between two children of n.
func hasAssignmentBetween(n, left, right *ts.Node) bool {
	for _, child := range children(n) {
		if child.Kind() == "=" && child.StartByte() >= left.EndByte() && child.EndByte() <= right.StartByte() {
			return true
		}
	}
	return false
}

func (c *converter) arrayCreation(n *ts.Node) *syntax.Node {
	implicit := n.Kind() == "implicit_array_creation_expression" || n.Kind() == "implicit_stackalloc_expression"
	out := c.make(syntax.KindArrayCreateExpression, n).SetFlag("IsImplicit", implicit)
	if t := field(n, "type"); t != nil {
		if t.Kind() == "array_type" {
			composed := c.arrayType(t)
			out.Set(syntax.RoleType, composed.Child(syntax.RoleBaseType))
			out.Append(syntax.RoleSpecifiers, composed.Children(syntax.RoleSpecifiers)...)
		} else {
			out.Set(syntax.RoleType, c.typ(t))
		}
	}
	if init := childOfKind(n, "initializer_expression"); init != nil {
		out.Set(syntax.RoleInitializer, c.initializer(init))
	}
	return out
}

func (c *converter) initializer(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindArrayInitializerExpression, n)
	for _, el := range named(n) {
		out.Append(syntax.RoleElements, c.expr(el))
	}
	return out
}

// Functions.

func (c *converter) lambda(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindLambdaExpression, n)
	out.SetFlag("IsAsync", out.HasModifier("async"))
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleReturnType, c.typ(t))
	}
	if params := field(n, "parameters"); params != nil {
		if params.Kind() == "identifier" {
			out.Append(syntax.RoleParameters, c.make(syntax.KindParameterDeclaration, params).
				SetToken("Name", c.text(params)))
		} else {
			out.Append(syntax.RoleParameters, c.parameters(params)...)
		}
	}
	if body := field(n, "body"); body != nil {
		if body.Kind() == "block" {
			out.Set(syntax.RoleBody, c.statement(body))
		} else {
			out.Set(syntax.RoleBody, c.expr(body))
		}
	}
	return out
}

func (c *converter) anonymousMethod(n *ts.Node) *syntax.Node {
	out := c.declaration(syntax.KindAnonymousMethodExpression, n)
	out.SetFlag("IsAsync", out.HasModifier("async"))
	params := childOfKind(n, "parameter_list")
	out.SetFlag("HasParameterList", params != nil)
	if params != nil {
		out.Append(syntax.RoleParameters, c.parameters(params)...)
	}
	if body := childOfKind(n, "block"); body != nil {
		out.Set(syntax.RoleBody, c.statement(body))
	}
	return out
}

// Interpolated strings.

func (c *converter) interpolatedString(n *ts.Node) *syntax.Node {
	text := c.text(n)
	out := c.make(syntax.KindInterpolatedStringExpression, n).
		SetFlag("IsVerbatim", strings.HasPrefix(text, "$@") || strings.HasPrefix(text, "@$")).
		SetFlag("IsRaw", strings.Contains(text[:min(len(text), 4)], `"""`))

	// Adjacent text pieces and escapes merge into one text node.
	var textStart, textEnd *ts.Node
	flush := func() {
		if textStart == nil {
			return
		}
		span := c.spanRange(textStart, textEnd)
		out.Append(syntax.RoleContents, c.newSpan(syntax.KindInterpolatedStringText, span).
			SetToken("Text", string(c.src[textStart.StartByte():textEnd.EndByte()])))
		textStart, textEnd = nil, nil
	}
	for _, child := range named(n) {
		if child.Kind() == "interpolation" {
			flush()
			out.Append(syntax.RoleContents, c.interpolation(child))
			continue
		}
		if strings.HasPrefix(child.Kind(), "interpolation_") && child.Kind() != "interpolation_alignment_clause" {
			// Raw string delimiters.
			continue
		}
		if textStart == nil {
			textStart = child
		}
		textEnd = child
	}
	flush()
	return out
}

func (c *converter) interpolation(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindInterpolation, n)
	for _, child := range named(n) {
		switch child.Kind() {
		case "interpolation_alignment_clause":
			if e := firstNamed(child); e != nil {
				out.SetToken("Alignment", c.text(e))
			}
		case "interpolation_format_clause":
			out.SetToken("Suffix", strings.TrimPrefix(c.text(child), ":"))
		case "interpolation_brace":
		default:
			if out.Child(syntax.RoleExpression) == nil {
				out.Set(syntax.RoleExpression, c.expr(child))
			}
		}
	}
	return out
}

// Queries.

// query flattens a query expression into its clauses. A continuation
// (`into x ...`) nests the clauses that follow it.
func (c *converter) query(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindQueryExpression, n)
	out.Append(syntax.RoleClauses, c.queryClauses(children(n))...)
	return out
}

func (c *converter) queryClauses(nodes []*ts.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, child := range nodes {
		if !child.IsNamed() || isTrivia(child) {
			continue
		}
		if clause := c.queryClause(child); clause != nil {
			out = append(out, clause)
		}
	}
	return out
}

func (c *converter) queryClause(n *ts.Node) *syntax.Node {
	switch n.Kind() {
	case "from_clause":
		out := c.make(syntax.KindQueryFromClause, n)
		exprNode := afterToken(n, "in")
		var head []*ts.Node
		for _, p := range named(n) {
			if exprNode != nil && p.StartByte() >= exprNode.StartByte() {
				break
			}
			head = append(head, p)
		}
		if len(head) > 0 {
			out.SetToken("Identifier", c.text(head[len(head)-1]))
		}
		if len(head) > 1 {
			out.Set(syntax.RoleType, c.typ(head[0]))
		}
		if exprNode != nil {
			out.Set(syntax.RoleExpression, c.expr(exprNode))
		}
		return out
	case "let_clause":
		out := c.make(syntax.KindQueryLetClause, n)
		if id := childOfKind(n, "identifier"); id != nil {
			out.SetToken("Identifier", c.text(id))
		}
		if e := afterToken(n, "="); e != nil {
			out.Set(syntax.RoleExpression, c.expr(e))
		}
		return out
	case "where_clause":
		out := c.make(syntax.KindQueryWhereClause, n)
		if e := firstNamed(n); e != nil {
			out.Set(syntax.RoleCondition, c.expr(e))
		}
		return out
	case "join_clause":
		return c.joinClause(n)
	case "order_by_clause":
		return c.orderBy(n)
	case "select_clause":
		out := c.make(syntax.KindQuerySelectClause, n)
		if e := firstNamed(n); e != nil {
			out.Set(syntax.RoleExpression, c.expr(e))
		}
		return out
	case "group_clause":
		out := c.make(syntax.KindQueryGroupClause, n)
		if e := firstNamed(n); e != nil {
			out.Set(syntax.RoleExpression, c.expr(e))
		}
		if key := afterToken(n, "by"); key != nil {
			out.Set(syntax.RoleKey, c.expr(key))
		}
		return out
	case "query_continuation":
		out := c.make(syntax.KindQueryContinuationClause, n)
		rest := children(n)
		if id := childOfKind(n, "identifier"); id != nil {
			out.SetToken("Identifier", c.text(id))
			rest = after(rest, id)
		}
		return out.Append(syntax.RoleClauses, c.queryClauses(rest)...)
	}
	return c.unsupported(n)
}

// after returns the nodes following mark.
func after(nodes []*ts.Node, mark *ts.Node) []*ts.Node {
	for i, n := range nodes {
		if n.StartByte() == mark.StartByte() && n.EndByte() == mark.EndByte() {
			return nodes[i+1:]
		}
	}
	return nil
}

// joinClause scans `join T x in e on a equals b into g` by its keywords.
func (c *converter) joinClause(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindQueryJoinClause, n)
	section := "join"
	var head []*ts.Node
	for _, child := range children(n) {
		if !child.IsNamed() {
			switch child.Kind() {
			case "in", "on", "equals", "into":
				section = child.Kind()
			}
			continue
		}
		if isTrivia(child) {
			continue
		}
		if child.Kind() == "join_into_clause" {
			out.SetToken("IntoIdentifier", c.intoName(child))
			continue
		}
		switch section {
		case "join":
			head = append(head, child)
		case "in":
			out.Set(syntax.RoleExpression, c.expr(child))
		case "on":
			out.Set(syntax.RoleOn, c.expr(child))
		case "equals":
			out.Set(syntax.RoleEquals, c.expr(child))
		case "into":
			out.SetToken("IntoIdentifier", c.intoName(child))
		}
	}
	if len(head) > 0 {
		out.SetToken("JoinIdentifier", c.text(head[len(head)-1]))
	}
	if len(head) > 1 {
		out.Set(syntax.RoleType, c.typ(head[0]))
	}
	_, into := out.Token("IntoIdentifier")
	return out.SetFlag("IsGroupJoin", into)
}

// intoName reads the identifier of an into clause, which some grammar
// versions wrap in a join_into_clause node.
func (c *converter) intoName(n *ts.Node) string {
	if n.Kind() == "identifier" {
		return c.text(n)
	}
	if id := childOfKind(n, "identifier"); id != nil {
		return c.text(id)
	}
	return strings.TrimSpace(strings.TrimPrefix(c.text(n), "into"))
}

// orderBy groups the orderings of an orderby clause. Each ordering is an
// expression optionally followed by ascending or descending.
func (c *converter) orderBy(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindQueryOrderClause, n)
	var current *syntax.Node
	for _, child := range children(n) {
		switch {
		case child.Kind() == "ascending" || child.Kind() == "descending":
			if current != nil {
				current.SetToken("Direction", strings.ToUpper(child.Kind()[:1])+child.Kind()[1:])
			}
		case child.Kind() == "ordering":
			out.Append(syntax.RoleOrderings, c.ordering(child))
		case child.IsNamed() && !isTrivia(child):
			current = c.make(syntax.KindQueryOrdering, child).
				SetToken("Direction", "None").
				Set(syntax.RoleExpression, c.expr(child))
			out.Append(syntax.RoleOrderings, current)
		}
	}
	return out
}

func (c *converter) ordering(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindQueryOrdering, n).SetToken("Direction", "None")
	switch {
	case hasToken(n, "ascending"):
		out.SetToken("Direction", "Ascending")
	case hasToken(n, "descending"):
		out.SetToken("Direction", "Descending")
	}
	if e := firstNamed(n); e != nil {
		out.Set(syntax.RoleExpression, c.expr(e))
	}
	return out
}

// Conditional access, switch expressions and declarations.

func (c *converter) conditionalAccess(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindConditionalAccessExpression, n)
	parts := named(n)
	if cond := field(n, "condition"); cond != nil {
		out.Set(syntax.RoleTarget, c.expr(cond))
	} else if len(parts) > 0 {
		out.Set(syntax.RoleTarget, c.expr(parts[0]))
	}
	if len(parts) > 1 {
		out.Set(syntax.RoleExpression, c.expr(parts[len(parts)-1]))
	}
	return out
}

func (c *converter) switchExpression(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindSwitchExpression, n)
	for _, child := range named(n) {
		if child.Kind() != "switch_expression_arm" {
			out.Set(syntax.RoleExpression, c.expr(child))
			continue
		}
		arm := c.make(syntax.KindSwitchExpressionArm, child)
		for _, part := range named(child) {
			switch {
			case part.Kind() == "when_clause":
				arm.Set(syntax.RoleWhen, c.whenClause(part))
			case arm.Child(syntax.RolePattern) == nil:
				arm.Set(syntax.RolePattern, c.pattern(part))
			default:
				arm.Set(syntax.RoleExpression, c.expr(part))
			}
		}
		out.Append(syntax.RoleSections, arm)
	}
	return out
}

func (c *converter) whenClause(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindWhenClause, n)
	if e := firstNamed(n); e != nil {
		out.Set(syntax.RoleCondition, c.expr(e))
	}
	return out
}

func (c *converter) declarationExpression(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindDeclarationExpression, n)
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	if name := field(n, "name"); name != nil {
		out.Set(syntax.RoleDesignation, c.designation(name))
	} else if last := lastNamed(n); last != nil {
		out.Set(syntax.RoleDesignation, c.designation(last))
	}
	return out
}

// designation maps a variable designation.
func (c *converter) designation(n *ts.Node) *syntax.Node {
	switch n.Kind() {
	case "identifier":
		return c.make(syntax.KindSingleVariableDesignation, n).SetToken("Identifier", c.text(n))
	case "discard":
		return c.make(syntax.KindDiscardDesignation, n)
	case "parenthesized_variable_designation", "tuple_pattern":
		out := c.make(syntax.KindParenthesizedVariableDesignation, n)
		for _, el := range named(n) {
			out.Append(syntax.RoleElements, c.designation(el))
		}
		return out
	}
	return c.unsupported(n)
}

func (c *converter) rangeExpression(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindRangeExpression, n)
	seenDots := false
	for _, child := range children(n) {
		switch {
		case child.Kind() == "..":
			seenDots = true
		case child.IsNamed() && !seenDots:
			out.Set(syntax.RoleLeft, c.expr(child))
		case child.IsNamed():
			out.Set(syntax.RoleRight, c.expr(child))
		}
	}
	return out
}
