package csharp

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// statement converts a statement.
func (c *converter) statement(n *ts.Node) *syntax.Node {
	switch n.Kind() {
	case "block":
		out := c.make(syntax.KindBlockStatement, n)
		return out.Append(syntax.RoleStatements, c.list(children(n), c.statement)...)
	case "expression_statement":
		return c.wrap(syntax.KindExpressionStatement, n)
	case "local_declaration_statement":
		return c.localDeclaration(n)
	case "local_function_statement":
		return c.localFunction(n)
	case "if_statement":
		return c.make(syntax.KindIfElseStatement, n).
			Set(syntax.RoleCondition, c.exprField(n, "condition")).
			Set(syntax.RoleConsequence, c.statementField(n, "consequence")).
			Set(syntax.RoleAlternative, c.statementField(n, "alternative"))
	case "while_statement":
		return c.make(syntax.KindWhileStatement, n).
			Set(syntax.RoleCondition, c.exprField(n, "condition")).
			Set(syntax.RoleBody, c.statementField(n, "body"))
	case "do_statement":
		return c.make(syntax.KindDoWhileStatement, n).
			Set(syntax.RoleBody, c.statementField(n, "body")).
			Set(syntax.RoleCondition, c.exprField(n, "condition"))
	case "for_statement":
		return c.forStatement(n)
	case "foreach_statement":
		return c.foreach(n)
	case "switch_statement":
		return c.switchStatement(n)
	case "try_statement":
		return c.try(n)
	case "using_statement":
		return c.usingStatement(n)
	case "lock_statement":
		out := c.make(syntax.KindLockStatement, n)
		for _, child := range named(n) {
			if out.Child(syntax.RoleExpression) == nil {
				out.Set(syntax.RoleExpression, c.expr(child))
			} else {
				out.Set(syntax.RoleBody, c.statement(child))
			}
		}
		return out
	case "fixed_statement":
		out := c.make(syntax.KindFixedStatement, n)
		for _, child := range named(n) {
			if child.Kind() == "variable_declaration" {
				c.variableDeclaration(child, out)
			} else {
				out.Set(syntax.RoleBody, c.statement(child))
			}
		}
		return out
	case "checked_statement":
		kind := syntax.KindCheckedStatement
		if hasToken(n, "unchecked") {
			kind = syntax.KindUncheckedStatement
		}
		return c.blockOwner(kind, n)
	case "unsafe_statement":
		return c.blockOwner(syntax.KindUnsafeStatement, n)
	case "return_statement":
		return c.wrap(syntax.KindReturnStatement, n)
	case "throw_statement":
		return c.wrap(syntax.KindThrowStatement, n)
	case "break_statement":
		return c.make(syntax.KindBreakStatement, n)
	case "continue_statement":
		return c.make(syntax.KindContinueStatement, n)
	case "empty_statement":
		return c.make(syntax.KindEmptyStatement, n)
	case "labeled_statement":
		out := c.make(syntax.KindLabelStatement, n)
		for _, child := range named(n) {
			if child.Kind() == "identifier" && out.TokenOr("Label", "") == "" {
				out.SetToken("Label", c.text(child))
				continue
			}
			out.Set(syntax.RoleStatement, c.statement(child))
		}
		return out
	case "goto_statement":
		return c.gotoStatement(n)
	case "yield_statement":
		if hasToken(n, "break") {
			return c.make(syntax.KindYieldBreakStatement, n)
		}
		return c.wrap(syntax.KindYieldReturnStatement, n)
	}
	return c.unsupported(n)
}

func (c *converter) statementField(n *ts.Node, name string) *syntax.Node {
	if child := n.ChildByFieldName(name); child != nil {
		return c.statement(child)
	}
	return nil
}

func (c *converter) blockOwner(kind syntax.Kind, n *ts.Node) *syntax.Node {
	out := c.make(kind, n)
	if b := childOfKind(n, "block"); b != nil {
		out.Set(syntax.RoleBody, c.statement(b))
	}
	return out
}

// localDeclaration maps `var x = 1;` and the enhanced `using var x = ...;`,
// which becomes a using statement without a body.
func (c *converter) localDeclaration(n *ts.Node) *syntax.Node {
	decl := childOfKind(n, "variable_declaration")
	if hasToken(n, "using") {
		out := c.make(syntax.KindUsingStatement, n).
			SetFlag("IsAsync", hasToken(n, "await")).
			SetFlag("IsEnhanced", true)
		if decl != nil {
			out.Set(syntax.RoleResource, c.variableStatement(decl, n))
		}
		return out
	}
	out := c.make(syntax.KindVariableDeclarationStatement, n)
	c.modifiers(n, out)
	if decl != nil {
		c.variableDeclaration(decl, out)
	}
	return out
}

// variableStatement wraps a bare variable declaration, as found in using,
// for and fixed headers, in a VariableDeclarationStatement.
func (c *converter) variableStatement(decl, owner *ts.Node) *syntax.Node {
	out := c.make(syntax.KindVariableDeclarationStatement, decl)
	if owner != nil {
		c.modifiers(owner, out)
	}
	c.variableDeclaration(decl, out)
	return out
}

// forStatement splits the header by its two semicolons.
func (c *converter) forStatement(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindForStatement, n)
	section := 0
	closed := false
	for _, child := range children(n) {
		if !child.IsNamed() {
			switch child.Kind() {
			case ";":
				section++
			case ")":
				closed = true
			}
			continue
		}
		if isTrivia(child) {
			continue
		}
		switch {
		case closed:
			out.Set(syntax.RoleBody, c.statement(child))
		case section == 0 && child.Kind() == "variable_declaration":
			out.Append(syntax.RoleInitializers, c.variableStatement(child, nil))
		case section == 0:
			out.Append(syntax.RoleInitializers, c.expr(child))
		case section == 1:
			out.Set(syntax.RoleCondition, c.expr(child))
		default:
			out.Append(syntax.RoleIterators, c.expr(child))
		}
	}
	return out
}

func (c *converter) foreach(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindForeachStatement, n).SetFlag("IsAsync", hasToken(n, "await"))
	if t := field(n, "type"); t != nil {
		out.Set(syntax.RoleType, c.typ(t))
	}
	if left := field(n, "left"); left != nil {
		if out.Child(syntax.RoleType) != nil {
			out.Set(syntax.RoleDesignation, c.designation(left))
		} else {
			out.Set(syntax.RoleDesignation, c.expr(left))
		}
	}
	out.Set(syntax.RoleExpression, c.exprField(n, "right"))
	return out.Set(syntax.RoleBody, c.statementField(n, "body"))
}

func (c *converter) switchStatement(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindSwitchStatement, n)
	if value := field(n, "value"); value != nil {
		out.Set(syntax.RoleExpression, c.expr(value))
	}
	body := field(n, "body")
	if body == nil {
		body = childOfKind(n, "switch_body")
	}
	if body == nil {
		return out
	}
	// The grammar gives each statement-less label its own section; those
	// labels belong to the next section that has statements.
	var pending []*syntax.Node
	for _, child := range named(body) {
		if child.Kind() != "switch_section" {
			continue
		}
		section := c.switchSection(child)
		if len(section.Children(syntax.RoleStatements)) == 0 {
			pending = append(pending, section)
			continue
		}
		if len(pending) > 0 {
			section = c.mergeSections(append(pending, section))
			pending = nil
		}
		out.Append(syntax.RoleSections, section)
	}
	if len(pending) > 0 {
		out.Append(syntax.RoleSections, c.mergeSections(pending))
	}
	return out
}

func (c *converter) mergeSections(sections []*syntax.Node) *syntax.Node {
	if len(sections) == 1 {
		return sections[0]
	}
	last := sections[len(sections)-1]
	out := c.newSpan(syntax.KindSwitchSection, sections[0].Span().Cover(last.Span()))
	for _, s := range sections {
		out.Append(syntax.RoleLabels, s.Children(syntax.RoleLabels)...)
	}
	return out.Append(syntax.RoleStatements, last.Children(syntax.RoleStatements)...)
}

// switchSection reads `case x when y:` and `default:` labels from the
// section's token stream, followed by its statements.
func (c *converter) switchSection(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindSwitchSection, n)

	var labelStart *ts.Node
	var isDefault bool
	var value, when *syntax.Node
	for _, child := range children(n) {
		if !child.IsNamed() {
			switch child.Kind() {
			case "case", "default":
				labelStart, isDefault = child, child.Kind() == "default"
				value, when = nil, nil
			case ":":
				if labelStart != nil {
					label := c.newSpan(syntax.KindCaseLabel, c.spanRange(labelStart, child)).
						SetFlag("IsDefault", isDefault).
						Set(syntax.RoleExpression, value).
						Set(syntax.RoleWhen, when)
					out.Append(syntax.RoleLabels, label)
					labelStart = nil
				}
			}
			continue
		}
		switch {
		case labelStart != nil && child.Kind() == "when_clause":
			when = c.whenClause(child)
		case labelStart != nil:
			value = c.pattern(child)
		case child.Kind() == "case_switch_label", child.Kind() == "case_pattern_switch_label",
			child.Kind() == "default_switch_label":
			out.Append(syntax.RoleLabels, c.switchLabel(child))
		default:
			if item := c.listItem(child, c.statement); item != nil {
				out.Append(syntax.RoleStatements, item)
			}
		}
	}
	return out
}

// switchLabel maps a label that the grammar wraps in its own node.
func (c *converter) switchLabel(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindCaseLabel, n).SetFlag("IsDefault", n.Kind() == "default_switch_label")
	for _, child := range named(n) {
		if child.Kind() == "when_clause" {
			out.Set(syntax.RoleWhen, c.whenClause(child))
		} else {
			out.Set(syntax.RoleExpression, c.pattern(child))
		}
	}
	return out
}

func (c *converter) try(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindTryCatchStatement, n)
	for _, child := range named(n) {
		switch child.Kind() {
		case "block":
			out.Set(syntax.RoleBody, c.statement(child))
		case "catch_clause":
			out.Append(syntax.RoleCatches, c.catch(child))
		case "finally_clause":
			if b := childOfKind(child, "block"); b != nil {
				out.Set(syntax.RoleFinally, c.statement(b))
			}
		}
	}
	return out
}

func (c *converter) catch(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindCatchClause, n)
	for _, child := range named(n) {
		switch child.Kind() {
		case "catch_declaration":
			if t := field(child, "type"); t != nil {
				out.Set(syntax.RoleType, c.typ(t))
			} else if t := firstNamed(child); t != nil {
				out.Set(syntax.RoleType, c.typ(t))
			}
			if name := field(child, "name"); name != nil {
				out.SetToken("VariableName", c.text(name))
			} else if parts := named(child); len(parts) > 1 {
				out.SetToken("VariableName", c.text(parts[len(parts)-1]))
			}
		case "catch_filter_clause":
			if e := firstNamed(child); e != nil {
				out.Set(syntax.RoleFilter, c.expr(e))
			}
		case "block":
			out.Set(syntax.RoleBody, c.statement(child))
		}
	}
	return out
}

func (c *converter) usingStatement(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindUsingStatement, n).
		SetFlag("IsAsync", hasToken(n, "await")).
		SetFlag("IsEnhanced", false)
	body := field(n, "body")
	for _, child := range named(n) {
		switch {
		case body != nil && child.StartByte() == body.StartByte():
			out.Set(syntax.RoleBody, c.statement(child))
		case child.Kind() == "variable_declaration":
			out.Set(syntax.RoleResource, c.variableStatement(child, nil))
		case out.Child(syntax.RoleResource) == nil:
			out.Set(syntax.RoleResource, c.expr(child))
		default:
			out.Set(syntax.RoleBody, c.statement(child))
		}
	}
	return out
}

func (c *converter) gotoStatement(n *ts.Node) *syntax.Node {
	switch {
	case hasToken(n, "case"):
		return c.wrap(syntax.KindGotoCaseStatement, n)
	case hasToken(n, "default"):
		return c.make(syntax.KindGotoDefaultStatement, n)
	}
	out := c.make(syntax.KindGotoStatement, n)
	if label := firstNamed(n); label != nil {
		out.SetToken("Label", c.text(label))
	}
	return out
}

// Patterns.

// pattern converts a pattern. An expression in pattern position is a
// constant pattern.
func (c *converter) pattern(n *ts.Node) *syntax.Node {
	switch n.Kind() {
	case "constant_pattern":
		out := c.make(syntax.KindConstantPattern, n)
		if e := firstNamed(n); e != nil {
			out.Set(syntax.RoleExpression, c.expr(e))
		}
		return out
	case "declaration_pattern":
		out := c.make(syntax.KindDeclarationPattern, n)
		if t := field(n, "type"); t != nil {
			out.Set(syntax.RoleType, c.typ(t))
		}
		if name := field(n, "name"); name != nil {
			out.Set(syntax.RoleDesignation, c.designation(name))
		} else if last := lastNamed(n); last != nil {
			out.Set(syntax.RoleDesignation, c.designation(last))
		}
		return out
	case "discard":
		return c.make(syntax.KindDiscardPattern, n)
	case "var_pattern":
		out := c.make(syntax.KindVarPattern, n)
		if d := lastNamed(n); d != nil {
			out.Set(syntax.RoleDesignation, c.designation(d))
		}
		return out
	case "type_pattern":
		out := c.make(syntax.KindTypePattern, n)
		if t := field(n, "type"); t != nil {
			out.Set(syntax.RoleType, c.typ(t))
		} else if t := firstNamed(n); t != nil {
			out.Set(syntax.RoleType, c.typ(t))
		}
		return out
	case "relational_pattern":
		out := c.make(syntax.KindRelationalPattern, n)
		for _, child := range children(n) {
			if child.IsNamed() {
				out.Set(syntax.RoleExpression, c.expr(child))
			} else if _, set := out.Token("Operator"); !set {
				out.SetToken("Operator", child.Kind())
			}
		}
		return out
	case "negated_pattern", "not_pattern":
		out := c.make(syntax.KindNotPattern, n)
		if p := firstNamed(n); p != nil {
			out.Set(syntax.RolePattern, c.pattern(p))
		}
		return out
	case "and_pattern", "or_pattern", "binary_pattern":
		out := c.make(syntax.KindBinaryPattern, n)
		if op := field(n, "operator"); op != nil {
			out.SetToken("Operator", c.text(op))
		} else if n.Kind() == "and_pattern" {
			out.SetToken("Operator", "and")
		} else {
			out.SetToken("Operator", "or")
		}
		parts := named(n)
		if left := field(n, "left"); left != nil {
			out.Set(syntax.RoleLeft, c.pattern(left))
		} else if len(parts) > 0 {
			out.Set(syntax.RoleLeft, c.pattern(parts[0]))
		}
		if right := field(n, "right"); right != nil {
			out.Set(syntax.RoleRight, c.pattern(right))
		} else if len(parts) > 1 {
			out.Set(syntax.RoleRight, c.pattern(parts[len(parts)-1]))
		}
		return out
	case "parenthesized_pattern":
		out := c.make(syntax.KindParenthesizedPattern, n)
		if p := firstNamed(n); p != nil {
			out.Set(syntax.RolePattern, c.pattern(p))
		}
		return out
	case "recursive_pattern", "list_pattern", "positional_pattern_clause", "property_pattern_clause":
		return c.unsupported(n)
	}
	if isType(n) && n.Kind() != "identifier" {
		out := c.make(syntax.KindTypePattern, n)
		return out.Set(syntax.RoleType, c.typ(n))
	}
	return c.make(syntax.KindConstantPattern, n).Set(syntax.RoleExpression, c.expr(n))
}
