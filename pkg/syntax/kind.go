package syntax

// Kind is the abstract syntax category of a Node. Front-ends translate their
// concrete node types into these kinds; the document generator only ever sees
// Kind values.
type Kind int

const (
	KindInvalid Kind = iota

	// Structure and declarations
	KindCompilationUnit
	KindUsingDeclaration
	KindUsingAliasDeclaration
	KindExternAliasDeclaration
	KindNamespaceDeclaration
	KindAttributeSection
	KindAttribute
	KindTypeDeclaration
	KindDelegateDeclaration
	KindEnumMemberDeclaration
	KindMethodDeclaration
	KindConstructorDeclaration
	KindDestructorDeclaration
	KindConstructorInitializer
	KindOperatorDeclaration
	KindFieldDeclaration
	KindEventDeclaration
	KindCustomEventDeclaration
	KindPropertyDeclaration
	KindIndexerDeclaration
	KindAccessor
	KindParameterDeclaration
	KindTypeParameterDeclaration
	KindConstraint
	KindVariableInitializer
	KindArrowExpressionClause
	KindGlobalStatement

	// Types
	KindSimpleType
	KindMemberType
	KindPrimitiveType
	KindComposedType
	KindArraySpecifier
	KindTupleType
	KindTupleTypeElement

	// Expressions
	KindPrimitiveExpression
	KindNullReferenceExpression
	KindIdentifierExpression
	KindMemberReferenceExpression
	KindInvocationExpression
	KindNamedArgumentExpression
	KindDirectionExpression
	KindNamedExpression
	KindBinaryOperatorExpression
	KindUnaryOperatorExpression
	KindAssignmentExpression
	KindConditionalExpression
	KindCastExpression
	KindAsExpression
	KindIsExpression
	KindTypeOfExpression
	KindSizeOfExpression
	KindDefaultValueExpression
	KindThisReferenceExpression
	KindBaseReferenceExpression
	KindObjectCreateExpression
	KindAnonymousTypeCreateExpression
	KindArrayCreateExpression
	KindArrayInitializerExpression
	KindLambdaExpression
	KindAnonymousMethodExpression
	KindIndexerExpression
	KindParenthesizedExpression
	KindInterpolatedStringExpression
	KindInterpolation
	KindInterpolatedStringText
	KindQueryExpression
	KindQueryFromClause
	KindQueryLetClause
	KindQueryWhereClause
	KindQueryJoinClause
	KindQueryOrderClause
	KindQueryOrdering
	KindQuerySelectClause
	KindQueryGroupClause
	KindQueryContinuationClause
	KindAwaitExpression
	KindThrowExpression
	KindTupleExpression
	KindCheckedExpression
	KindUncheckedExpression
	KindConditionalAccessExpression
	KindMemberBindingExpression
	KindElementBindingExpression
	KindSwitchExpression
	KindSwitchExpressionArm
	KindDeclarationExpression
	KindSingleVariableDesignation
	KindParenthesizedVariableDesignation
	KindDiscardDesignation
	KindRangeExpression

	// Patterns
	KindDeclarationPattern
	KindConstantPattern
	KindDiscardPattern
	KindVarPattern
	KindTypePattern
	KindRelationalPattern
	KindNotPattern
	KindBinaryPattern
	KindParenthesizedPattern

	// Statements
	KindBlockStatement
	KindExpressionStatement
	KindVariableDeclarationStatement
	KindLocalFunctionDeclarationStatement
	KindIfElseStatement
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindForeachStatement
	KindSwitchStatement
	KindSwitchSection
	KindCaseLabel
	KindWhenClause
	KindTryCatchStatement
	KindCatchClause
	KindUsingStatement
	KindLockStatement
	KindFixedStatement
	KindCheckedStatement
	KindUncheckedStatement
	KindUnsafeStatement
	KindReturnStatement
	KindThrowStatement
	KindBreakStatement
	KindContinueStatement
	KindLabelStatement
	KindGotoStatement
	KindGotoCaseStatement
	KindGotoDefaultStatement
	KindYieldReturnStatement
	KindYieldBreakStatement
	KindEmptyStatement

	// Trivia
	KindComment
	KindPreProcessorDirective

	kindCount
)

var kindNames = [...]string{
	KindInvalid: "Invalid",

	KindCompilationUnit:          "CompilationUnit",
	KindUsingDeclaration:         "UsingDeclaration",
	KindUsingAliasDeclaration:    "UsingAliasDeclaration",
	KindExternAliasDeclaration:   "ExternAliasDeclaration",
	KindNamespaceDeclaration:     "NamespaceDeclaration",
	KindAttributeSection:         "AttributeSection",
	KindAttribute:                "Attribute",
	KindTypeDeclaration:          "TypeDeclaration",
	KindDelegateDeclaration:      "DelegateDeclaration",
	KindEnumMemberDeclaration:    "EnumMemberDeclaration",
	KindMethodDeclaration:        "MethodDeclaration",
	KindConstructorDeclaration:   "ConstructorDeclaration",
	KindDestructorDeclaration:    "DestructorDeclaration",
	KindConstructorInitializer:   "ConstructorInitializer",
	KindOperatorDeclaration:      "OperatorDeclaration",
	KindFieldDeclaration:         "FieldDeclaration",
	KindEventDeclaration:         "EventDeclaration",
	KindCustomEventDeclaration:   "CustomEventDeclaration",
	KindPropertyDeclaration:      "PropertyDeclaration",
	KindIndexerDeclaration:       "IndexerDeclaration",
	KindAccessor:                 "Accessor",
	KindParameterDeclaration:     "ParameterDeclaration",
	KindTypeParameterDeclaration: "TypeParameterDeclaration",
	KindConstraint:               "Constraint",
	KindVariableInitializer:      "VariableInitializer",
	KindArrowExpressionClause:    "ArrowExpressionClause",
	KindGlobalStatement:          "GlobalStatement",

	KindSimpleType:       "SimpleType",
	KindMemberType:       "MemberType",
	KindPrimitiveType:    "PrimitiveType",
	KindComposedType:     "ComposedType",
	KindArraySpecifier:   "ArraySpecifier",
	KindTupleType:        "TupleType",
	KindTupleTypeElement: "TupleTypeElement",

	KindPrimitiveExpression:              "PrimitiveExpression",
	KindNullReferenceExpression:          "NullReferenceExpression",
	KindIdentifierExpression:             "IdentifierExpression",
	KindMemberReferenceExpression:        "MemberReferenceExpression",
	KindInvocationExpression:             "InvocationExpression",
	KindNamedArgumentExpression:          "NamedArgumentExpression",
	KindDirectionExpression:              "DirectionExpression",
	KindNamedExpression:                  "NamedExpression",
	KindBinaryOperatorExpression:         "BinaryOperatorExpression",
	KindUnaryOperatorExpression:          "UnaryOperatorExpression",
	KindAssignmentExpression:             "AssignmentExpression",
	KindConditionalExpression:            "ConditionalExpression",
	KindCastExpression:                   "CastExpression",
	KindAsExpression:                     "AsExpression",
	KindIsExpression:                     "IsExpression",
	KindTypeOfExpression:                 "TypeOfExpression",
	KindSizeOfExpression:                 "SizeOfExpression",
	KindDefaultValueExpression:           "DefaultValueExpression",
	KindThisReferenceExpression:          "ThisReferenceExpression",
	KindBaseReferenceExpression:          "BaseReferenceExpression",
	KindObjectCreateExpression:           "ObjectCreateExpression",
	KindAnonymousTypeCreateExpression:    "AnonymousTypeCreateExpression",
	KindArrayCreateExpression:            "ArrayCreateExpression",
	KindArrayInitializerExpression:       "ArrayInitializerExpression",
	KindLambdaExpression:                 "LambdaExpression",
	KindAnonymousMethodExpression:        "AnonymousMethodExpression",
	KindIndexerExpression:                "IndexerExpression",
	KindParenthesizedExpression:          "ParenthesizedExpression",
	KindInterpolatedStringExpression:     "InterpolatedStringExpression",
	KindInterpolation:                    "Interpolation",
	KindInterpolatedStringText:           "InterpolatedStringText",
	KindQueryExpression:                  "QueryExpression",
	KindQueryFromClause:                  "QueryFromClause",
	KindQueryLetClause:                   "QueryLetClause",
	KindQueryWhereClause:                 "QueryWhereClause",
	KindQueryJoinClause:                  "QueryJoinClause",
	KindQueryOrderClause:                 "QueryOrderClause",
	KindQueryOrdering:                    "QueryOrdering",
	KindQuerySelectClause:                "QuerySelectClause",
	KindQueryGroupClause:                 "QueryGroupClause",
	KindQueryContinuationClause:          "QueryContinuationClause",
	KindAwaitExpression:                  "AwaitExpression",
	KindThrowExpression:                  "ThrowExpression",
	KindTupleExpression:                  "TupleExpression",
	KindCheckedExpression:                "CheckedExpression",
	KindUncheckedExpression:              "UncheckedExpression",
	KindConditionalAccessExpression:      "ConditionalAccessExpression",
	KindMemberBindingExpression:          "MemberBindingExpression",
	KindElementBindingExpression:         "ElementBindingExpression",
	KindSwitchExpression:                 "SwitchExpression",
	KindSwitchExpressionArm:              "SwitchExpressionArm",
	KindDeclarationExpression:            "DeclarationExpression",
	KindSingleVariableDesignation:        "SingleVariableDesignation",
	KindParenthesizedVariableDesignation: "ParenthesizedVariableDesignation",
	KindDiscardDesignation:               "DiscardDesignation",
	KindRangeExpression:                  "RangeExpression",

	KindDeclarationPattern:   "DeclarationPattern",
	KindConstantPattern:      "ConstantPattern",
	KindDiscardPattern:       "DiscardPattern",
	KindVarPattern:           "VarPattern",
	KindTypePattern:          "TypePattern",
	KindRelationalPattern:    "RelationalPattern",
	KindNotPattern:           "NotPattern",
	KindBinaryPattern:        "BinaryPattern",
	KindParenthesizedPattern: "ParenthesizedPattern",

	KindBlockStatement:                    "BlockStatement",
	KindExpressionStatement:               "ExpressionStatement",
	KindVariableDeclarationStatement:      "VariableDeclarationStatement",
	KindLocalFunctionDeclarationStatement: "LocalFunctionDeclarationStatement",
	KindIfElseStatement:                   "IfElseStatement",
	KindWhileStatement:                    "WhileStatement",
	KindDoWhileStatement:                  "DoWhileStatement",
	KindForStatement:                      "ForStatement",
	KindForeachStatement:                  "ForeachStatement",
	KindSwitchStatement:                   "SwitchStatement",
	KindSwitchSection:                     "SwitchSection",
	KindCaseLabel:                         "CaseLabel",
	KindWhenClause:                        "WhenClause",
	KindTryCatchStatement:                 "TryCatchStatement",
	KindCatchClause:                       "CatchClause",
	KindUsingStatement:                    "UsingStatement",
	KindLockStatement:                     "LockStatement",
	KindFixedStatement:                    "FixedStatement",
	KindCheckedStatement:                  "CheckedStatement",
	KindUncheckedStatement:                "UncheckedStatement",
	KindUnsafeStatement:                   "UnsafeStatement",
	KindReturnStatement:                   "ReturnStatement",
	KindThrowStatement:                    "ThrowStatement",
	KindBreakStatement:                    "BreakStatement",
	KindContinueStatement:                 "ContinueStatement",
	KindLabelStatement:                    "LabelStatement",
	KindGotoStatement:                     "GotoStatement",
	KindGotoCaseStatement:                 "GotoCaseStatement",
	KindGotoDefaultStatement:              "GotoDefaultStatement",
	KindYieldReturnStatement:              "YieldReturnStatement",
	KindYieldBreakStatement:               "YieldBreakStatement",
	KindEmptyStatement:                    "EmptyStatement",

	KindComment:               "Comment",
	KindPreProcessorDirective: "PreProcessorDirective",
}

// String returns the kind's name, which is also its default output label.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Invalid"
	}
	return kindNames[k]
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindInvalid + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// ParseKind converts a kind name (as produced by Kind.String) back to a Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// IsTypeDeclaration reports whether k declares a named type.
func (k Kind) IsTypeDeclaration() bool {
	return k == KindTypeDeclaration || k == KindDelegateDeclaration
}

// IsStatement reports whether k is a statement kind.
func (k Kind) IsStatement() bool {
	return k >= KindBlockStatement && k <= KindEmptyStatement
}
