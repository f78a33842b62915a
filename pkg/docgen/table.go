package docgen

import (
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// Wrapper labels.
const (
	GroupParameters                = "Parameters"
	GroupBaseTypes                 = "BaseTypes"
	GroupConstraints               = "Constraints"
	GroupTypeParameters            = "TypeParameters"
	GroupTypeArguments             = "TypeArguments"
	GroupPrivateImplementationType = "PrivateImplementationType"
)

// Roles shorthand for the table below.
const (
	rMembers     = syntax.RoleMembers
	rAttributes  = syntax.RoleAttributes
	rTypeParams  = syntax.RoleTypeParameters
	rBaseTypes   = syntax.RoleBaseTypes
	rConstraints = syntax.RoleConstraints
	rParams      = syntax.RoleParameters
	rType        = syntax.RoleType
	rReturnType  = syntax.RoleReturnType
	rInterface   = syntax.RoleInterface
	rBody        = syntax.RoleBody
	rInit        = syntax.RoleInitializer
	rAccessors   = syntax.RoleAccessors
	rVariables   = syntax.RoleVariables
	rCond        = syntax.RoleCondition
	rThen        = syntax.RoleConsequence
	rElse        = syntax.RoleAlternative
	rTarget      = syntax.RoleTarget
	rTypeArgs    = syntax.RoleTypeArguments
	rArgs        = syntax.RoleArguments
	rLeft        = syntax.RoleLeft
	rRight       = syntax.RoleRight
	rOperand     = syntax.RoleOperand
	rExpr        = syntax.RoleExpression
	rElements    = syntax.RoleElements
	rStatements  = syntax.RoleStatements
	rLabels      = syntax.RoleLabels
	rSections    = syntax.RoleSections
	rCatches     = syntax.RoleCatches
	rFinally     = syntax.RoleFinally
	rFilter      = syntax.RoleFilter
	rResource    = syntax.RoleResource
	rInits       = syntax.RoleInitializers
	rIterators   = syntax.RoleIterators
	rClauses     = syntax.RoleClauses
	rContents    = syntax.RoleContents
	rDesignation = syntax.RoleDesignation
	rPattern     = syntax.RolePattern
	rWhen        = syntax.RoleWhen
	rBaseType    = syntax.RoleBaseType
	rSpecifiers  = syntax.RoleSpecifiers
	rDefault     = syntax.RoleDefault
	rOrderings   = syntax.RoleOrderings
	rKey         = syntax.RoleKey
	rOn          = syntax.RoleOn
	rEquals      = syntax.RoleEquals
	rDeclaration = syntax.RoleDeclaration
	rStatement   = syntax.RoleStatement
)

// descriptors is the Node Mapper's dispatch table. A kind missing from this
// table is an unsupported construct.
var descriptors = map[syntax.Kind]*descriptor{
	// Structure and declarations

	syntax.KindCompilationUnit: {
		children: []step{many(rMembers)},
	},
	syntax.KindUsingDeclaration: {
		attrs: []attrFunc{tok("Name"), optFlag("IsStatic"), optFlag("IsGlobal")},
	},
	syntax.KindUsingAliasDeclaration: {
		attrs:    []attrFunc{tok("Alias"), optFlag("IsGlobal")},
		children: []step{one(rType)},
	},
	syntax.KindExternAliasDeclaration: {
		attrs: []attrFunc{tok("Name")},
	},
	syntax.KindNamespaceDeclaration: {
		attrs:    []attrFunc{tok("Name"), optFlag("IsFileScoped")},
		scope:    namespaceScope,
		children: []step{many(rMembers)},
	},
	syntax.KindAttributeSection: {
		attrs:    []attrFunc{tok("AttributeTarget")},
		children: []step{many(rAttributes)},
	},
	syntax.KindAttribute: {
		children: []step{one(rType), many(rArgs)},
	},
	syntax.KindTypeDeclaration: {
		attrs:     []attrFunc{tok("Name"), tok("ClassType")},
		modifiers: true,
		comment:   true,
		artifact:  ArtifactType,
		enrich:    enrichTypeDeclaration,
		tier:      tierDeclaration,
		scope:     typeScope,
		children: []step{
			many(rAttributes),
			groupAny(GroupTypeParameters, rTypeParams),
			groupAny(GroupParameters, rParams),
			baseList(group(GroupBaseTypes, rBaseTypes)),
			groupAny(GroupConstraints, rConstraints),
			many(rMembers),
		},
	},
	syntax.KindDelegateDeclaration: {
		attrs:     []attrFunc{tok("Name")},
		modifiers: true,
		comment:   true,
		artifact:  ArtifactType,
		enrich:    enrichTypeDeclaration,
		tier:      tierDeclaration,
		scope:     typeScope,
		children: []step{
			many(rAttributes),
			one(rReturnType),
			groupAny(GroupTypeParameters, rTypeParams),
			group(GroupParameters, rParams),
			groupAny(GroupConstraints, rConstraints),
		},
	},
	syntax.KindEnumMemberDeclaration: {
		attrs:    []attrFunc{tok("Name")},
		comment:  true,
		enrich:   enrichMember,
		tier:     tierDeclaration,
		scope:    bodyScope,
		children: []step{many(rAttributes), one(rInit)},
	},
	syntax.KindMethodDeclaration: {
		attrs:     []attrFunc{tok("Name")},
		modifiers: true,
		comment:   true,
		artifact:  ArtifactMethod,
		enrich:    enrichMethod,
		tier:      tierDeclaration,
		scope:     bodyScope,
		children: []step{
			many(rAttributes),
			one(rReturnType),
			groupAny(GroupPrivateImplementationType, rInterface),
			groupAny(GroupTypeParameters, rTypeParams),
			group(GroupParameters, rParams),
			groupAny(GroupConstraints, rConstraints),
			one(rBody),
		},
	},
	syntax.KindConstructorDeclaration: {
		attrs:     []attrFunc{tok("Name")},
		modifiers: true,
		comment:   true,
		enrich:    enrichMethod,
		tier:      tierDeclaration,
		scope:     bodyScope,
		children: []step{
			many(rAttributes),
			group(GroupParameters, rParams),
			one(rInit),
			one(rBody),
		},
	},
	syntax.KindDestructorDeclaration: {
		attrs:     []attrFunc{tok("Name")},
		modifiers: true,
		comment:   true,
		scope:     bodyScope,
		children:  []step{many(rAttributes), one(rBody)},
	},
	syntax.KindConstructorInitializer: {
		attrs:    []attrFunc{tok("ConstructorInitializerType")},
		children: []step{many(rArgs)},
	},
	syntax.KindOperatorDeclaration: {
		attrs:     []attrFunc{tok("OperatorType"), optFlag("IsChecked")},
		modifiers: true,
		comment:   true,
		enrich:    enrichMethod,
		tier:      tierDeclaration,
		scope:     bodyScope,
		children: []step{
			many(rAttributes),
			one(rReturnType),
			groupAny(GroupPrivateImplementationType, rInterface),
			group(GroupParameters, rParams),
			one(rBody),
		},
	},
	syntax.KindFieldDeclaration: {
		modifiers: true,
		comment:   true,
		scope:     declaredTypeScope,
		children:  []step{many(rAttributes), one(rType), many(rVariables)},
	},
	syntax.KindEventDeclaration: {
		modifiers: true,
		comment:   true,
		scope:     declaredTypeScope,
		children:  []step{many(rAttributes), one(rType), many(rVariables)},
	},
	syntax.KindCustomEventDeclaration: {
		attrs:     []attrFunc{tok("Name")},
		modifiers: true,
		comment:   true,
		enrich:    enrichMember,
		tier:      tierDeclaration,
		scope:     bodyScope,
		children: []step{
			many(rAttributes),
			one(rType),
			groupAny(GroupPrivateImplementationType, rInterface),
			many(rAccessors),
		},
	},
	syntax.KindPropertyDeclaration: {
		attrs:     []attrFunc{tok("Name")},
		modifiers: true,
		comment:   true,
		enrich:    enrichMember,
		tier:      tierDeclaration,
		scope:     bodyScope,
		children: []step{
			many(rAttributes),
			one(rType),
			groupAny(GroupPrivateImplementationType, rInterface),
			many(rAccessors),
			one(rBody),
			one(rInit),
		},
	},
	syntax.KindIndexerDeclaration: {
		attrs:     []attrFunc{tok("Name")},
		modifiers: true,
		comment:   true,
		enrich:    enrichMember,
		tier:      tierDeclaration,
		scope:     bodyScope,
		children: []step{
			many(rAttributes),
			one(rType),
			groupAny(GroupPrivateImplementationType, rInterface),
			group(GroupParameters, rParams),
			many(rAccessors),
			one(rBody),
		},
	},
	syntax.KindAccessor: {
		attrs:     []attrFunc{tok("Kind")},
		modifiers: true,
		scope:     bodyScope,
		children:  []step{many(rAttributes), one(rBody)},
	},
	syntax.KindParameterDeclaration: {
		attrs:     []attrFunc{tok("Name"), flag("HasThisModifier"), tok("Modifier")},
		modifiers: true,
		enrich:    enrichParameter,
		tier:      tierDeclaration,
		children:  []step{many(rAttributes), one(rType), one(rDefault)},
	},
	syntax.KindTypeParameterDeclaration: {
		attrs:    []attrFunc{tok("Name"), tok("Variance")},
		children: []step{many(rAttributes)},
	},
	syntax.KindConstraint: {
		children: []step{one(rTarget), many(rBaseTypes)},
	},
	syntax.KindVariableInitializer: {
		attrs:    []attrFunc{tok("Name")},
		enrich:   enrichVariable,
		tier:     tierDeclaration,
		children: []step{many(rArgs), one(rInit)},
	},
	syntax.KindArrowExpressionClause: {
		children: []step{one(rExpr)},
	},
	syntax.KindGlobalStatement: {
		children: []step{one(rStatement)},
	},

	// Types

	syntax.KindSimpleType: {
		attrs:    []attrFunc{tok("Identifier")},
		enrich:   enrichBaseType,
		tier:     tierDeclaration,
		children: []step{groupAny(GroupTypeArguments, rTypeArgs)},
	},
	syntax.KindMemberType: {
		attrs:    []attrFunc{tok("MemberName"), optFlag("IsDoubleColon")},
		enrich:   enrichBaseType,
		tier:     tierDeclaration,
		children: []step{one(rTarget), groupAny(GroupTypeArguments, rTypeArgs)},
	},
	syntax.KindPrimitiveType: {
		attrs: []attrFunc{tok("Keyword"), frameworkType},
	},
	syntax.KindComposedType: {
		attrs:    []attrFunc{flag("HasNullableSpecifier"), tok("PointerRank")},
		children: []step{one(rBaseType), many(rSpecifiers)},
	},
	syntax.KindArraySpecifier: {
		attrs:    []attrFunc{tok("Dimensions")},
		children: []step{many(rArgs)},
	},
	syntax.KindTupleType: {
		children: []step{many(rElements)},
	},
	syntax.KindTupleTypeElement: {
		attrs:    []attrFunc{tok("Name")},
		children: []step{one(rType)},
	},

	// Expressions

	syntax.KindPrimitiveExpression: {
		attrs:  []attrFunc{tok("Value"), tok("LiteralFormat")},
		enrich: enrichExpressionType,
		tier:   tierExpression,
	},
	syntax.KindNullReferenceExpression: {},
	syntax.KindIdentifierExpression: {
		attrs:    []attrFunc{tok("Identifier")},
		enrich:   enrichReference,
		tier:     tierExpression,
		children: []step{groupAny(GroupTypeArguments, rTypeArgs)},
	},
	syntax.KindMemberReferenceExpression: {
		attrs:    []attrFunc{tok("MemberName"), optFlag("IsPointerAccess")},
		enrich:   enrichReference,
		tier:     tierExpression,
		children: []step{one(rTarget), groupAny(GroupTypeArguments, rTypeArgs)},
	},
	syntax.KindInvocationExpression: {
		enrich:   enrichExpressionType,
		tier:     tierExpression,
		children: []step{one(rTarget), many(rArgs)},
	},
	syntax.KindNamedArgumentExpression: {
		attrs:    []attrFunc{tok("Name")},
		children: []step{one(rExpr)},
	},
	syntax.KindDirectionExpression: {
		attrs:    []attrFunc{tok("FieldDirection")},
		children: []step{one(rExpr)},
	},
	syntax.KindNamedExpression: {
		attrs:    []attrFunc{tok("Name")},
		children: []step{one(rExpr)},
	},
	syntax.KindBinaryOperatorExpression: {
		attrs:    []attrFunc{tok("Operator")},
		enrich:   enrichExpressionType,
		tier:     tierExpression,
		children: []step{one(rLeft), one(rRight)},
	},
	syntax.KindUnaryOperatorExpression: {
		attrs:    []attrFunc{tok("Operator"), flag("IsPostfix")},
		enrich:   enrichExpressionType,
		tier:     tierExpression,
		children: []step{one(rOperand)},
	},
	syntax.KindAssignmentExpression: {
		attrs:    []attrFunc{tok("Operator")},
		children: []step{one(rLeft), one(rRight)},
	},
	syntax.KindConditionalExpression: {
		children: []step{one(rCond), one(rThen), one(rElse)},
	},
	syntax.KindCastExpression: {
		children: []step{one(rType), one(rExpr)},
	},
	syntax.KindAsExpression: {
		children: []step{one(rExpr), one(rType)},
	},
	syntax.KindIsExpression: {
		children: []step{one(rExpr), one(rType), one(rPattern)},
	},
	syntax.KindTypeOfExpression: {
		children: []step{one(rType)},
	},
	syntax.KindSizeOfExpression: {
		children: []step{one(rType)},
	},
	syntax.KindDefaultValueExpression: {
		children: []step{one(rType)},
	},
	syntax.KindThisReferenceExpression: {},
	syntax.KindBaseReferenceExpression: {},
	syntax.KindObjectCreateExpression: {
		enrich:   enrichExpressionType,
		tier:     tierExpression,
		children: []step{one(rType), many(rArgs), one(rInit)},
	},
	syntax.KindAnonymousTypeCreateExpression: {
		children: []step{many(rElements)},
	},
	syntax.KindArrayCreateExpression: {
		attrs:    []attrFunc{optFlag("IsImplicit")},
		children: []step{one(rType), many(rSpecifiers), one(rInit)},
	},
	syntax.KindArrayInitializerExpression: {
		children: []step{many(rElements)},
	},
	syntax.KindLambdaExpression: {
		attrs:     []attrFunc{flag("IsAsync")},
		modifiers: true,
		children: []step{
			many(rAttributes),
			one(rReturnType),
			group(GroupParameters, rParams),
			one(rBody),
		},
	},
	syntax.KindAnonymousMethodExpression: {
		attrs:     []attrFunc{flag("IsAsync"), flag("HasParameterList")},
		modifiers: true,
		children:  []step{groupAny(GroupParameters, rParams), one(rBody)},
	},
	syntax.KindIndexerExpression: {
		children: []step{one(rTarget), many(rArgs)},
	},
	syntax.KindParenthesizedExpression: {
		children: []step{one(rExpr)},
	},
	syntax.KindInterpolatedStringExpression: {
		attrs:    []attrFunc{optFlag("IsVerbatim"), optFlag("IsRaw")},
		children: []step{many(rContents)},
	},
	syntax.KindInterpolation: {
		attrs:    []attrFunc{tok("Alignment"), tok("Suffix")},
		children: []step{one(rExpr)},
	},
	syntax.KindInterpolatedStringText: {
		attrs: []attrFunc{tok("Text")},
	},
	syntax.KindQueryExpression: {
		children: []step{many(rClauses)},
	},
	syntax.KindQueryFromClause: {
		attrs:    []attrFunc{tok("Identifier")},
		children: []step{one(rType), one(rExpr)},
	},
	syntax.KindQueryLetClause: {
		attrs:    []attrFunc{tok("Identifier")},
		children: []step{one(rExpr)},
	},
	syntax.KindQueryWhereClause: {
		children: []step{one(rCond)},
	},
	syntax.KindQueryJoinClause: {
		attrs:    []attrFunc{tok("JoinIdentifier"), tok("IntoIdentifier"), flag("IsGroupJoin")},
		children: []step{one(rType), one(rExpr), one(rOn), one(rEquals)},
	},
	syntax.KindQueryOrderClause: {
		children: []step{many(rOrderings)},
	},
	syntax.KindQueryOrdering: {
		attrs:    []attrFunc{tok("Direction")},
		children: []step{one(rExpr)},
	},
	syntax.KindQuerySelectClause: {
		children: []step{one(rExpr)},
	},
	syntax.KindQueryGroupClause: {
		children: []step{one(rExpr), one(rKey)},
	},
	syntax.KindQueryContinuationClause: {
		attrs:    []attrFunc{tok("Identifier")},
		children: []step{many(rClauses)},
	},
	syntax.KindAwaitExpression: {
		enrich:   enrichExpressionType,
		tier:     tierExpression,
		children: []step{one(rExpr)},
	},
	syntax.KindThrowExpression: {
		children: []step{one(rExpr)},
	},
	syntax.KindTupleExpression: {
		children: []step{many(rElements)},
	},
	syntax.KindCheckedExpression: {
		children: []step{one(rExpr)},
	},
	syntax.KindUncheckedExpression: {
		children: []step{one(rExpr)},
	},
	syntax.KindConditionalAccessExpression: {
		children: []step{one(rTarget), one(rExpr)},
	},
	syntax.KindMemberBindingExpression: {
		attrs:    []attrFunc{tok("MemberName")},
		children: []step{groupAny(GroupTypeArguments, rTypeArgs)},
	},
	syntax.KindElementBindingExpression: {
		children: []step{many(rArgs)},
	},
	syntax.KindSwitchExpression: {
		children: []step{one(rExpr), many(rSections)},
	},
	syntax.KindSwitchExpressionArm: {
		children: []step{one(rPattern), one(rWhen), one(rExpr)},
	},
	syntax.KindDeclarationExpression: {
		children: []step{one(rType), one(rDesignation)},
	},
	syntax.KindSingleVariableDesignation: {
		attrs: []attrFunc{tok("Identifier")},
	},
	syntax.KindParenthesizedVariableDesignation: {
		children: []step{many(rElements)},
	},
	syntax.KindDiscardDesignation: {},
	syntax.KindRangeExpression: {
		children: []step{one(rLeft), one(rRight)},
	},

	// Patterns

	syntax.KindDeclarationPattern: {
		children: []step{one(rType), one(rDesignation)},
	},
	syntax.KindConstantPattern: {
		children: []step{one(rExpr)},
	},
	syntax.KindDiscardPattern: {},
	syntax.KindVarPattern: {
		children: []step{one(rDesignation)},
	},
	syntax.KindTypePattern: {
		children: []step{one(rType)},
	},
	syntax.KindRelationalPattern: {
		attrs:    []attrFunc{tok("Operator")},
		children: []step{one(rExpr)},
	},
	syntax.KindNotPattern: {
		children: []step{one(rPattern)},
	},
	syntax.KindBinaryPattern: {
		attrs:    []attrFunc{tok("Operator")},
		children: []step{one(rLeft), one(rRight)},
	},
	syntax.KindParenthesizedPattern: {
		children: []step{one(rPattern)},
	},

	// Statements

	syntax.KindBlockStatement: {
		children: []step{many(rStatements)},
	},
	syntax.KindExpressionStatement: {
		children: []step{one(rExpr)},
	},
	syntax.KindVariableDeclarationStatement: {
		modifiers: true,
		scope:     declaredTypeScope,
		children:  []step{one(rType), many(rVariables)},
	},
	syntax.KindLocalFunctionDeclarationStatement: {
		scope:    bodyScope,
		children: []step{one(rDeclaration)},
	},
	syntax.KindIfElseStatement: {
		children: []step{one(rCond), one(rThen), one(rElse)},
	},
	syntax.KindWhileStatement: {
		children: []step{one(rCond), one(rBody)},
	},
	syntax.KindDoWhileStatement: {
		children: []step{one(rBody), one(rCond)},
	},
	syntax.KindForStatement: {
		children: []step{many(rInits), one(rCond), many(rIterators), one(rBody)},
	},
	syntax.KindForeachStatement: {
		attrs:    []attrFunc{flag("IsAsync")},
		children: []step{one(rType), one(rDesignation), one(rExpr), one(rBody)},
	},
	syntax.KindSwitchStatement: {
		children: []step{one(rExpr), many(rSections)},
	},
	syntax.KindSwitchSection: {
		children: []step{many(rLabels), many(rStatements)},
	},
	syntax.KindCaseLabel: {
		attrs:    []attrFunc{flag("IsDefault")},
		children: []step{one(rExpr), one(rWhen)},
	},
	syntax.KindWhenClause: {
		children: []step{one(rCond)},
	},
	syntax.KindTryCatchStatement: {
		children: []step{one(rBody), many(rCatches), one(rFinally)},
	},
	syntax.KindCatchClause: {
		attrs:    []attrFunc{tok("VariableName")},
		children: []step{one(rType), one(rFilter), one(rBody)},
	},
	syntax.KindUsingStatement: {
		attrs:    []attrFunc{flag("IsAsync"), flag("IsEnhanced")},
		children: []step{one(rResource), one(rBody)},
	},
	syntax.KindLockStatement: {
		children: []step{one(rExpr), one(rBody)},
	},
	syntax.KindFixedStatement: {
		scope:    declaredTypeScope,
		children: []step{one(rType), many(rVariables), one(rBody)},
	},
	syntax.KindCheckedStatement: {
		children: []step{one(rBody)},
	},
	syntax.KindUncheckedStatement: {
		children: []step{one(rBody)},
	},
	syntax.KindUnsafeStatement: {
		children: []step{one(rBody)},
	},
	syntax.KindReturnStatement: {
		children: []step{one(rExpr)},
	},
	syntax.KindThrowStatement: {
		children: []step{one(rExpr)},
	},
	syntax.KindBreakStatement:    {},
	syntax.KindContinueStatement: {},
	syntax.KindLabelStatement: {
		attrs:    []attrFunc{tok("Label")},
		children: []step{one(rStatement)},
	},
	syntax.KindGotoStatement: {
		attrs: []attrFunc{tok("Label")},
	},
	syntax.KindGotoCaseStatement: {
		children: []step{one(rExpr)},
	},
	syntax.KindGotoDefaultStatement: {},
	syntax.KindYieldReturnStatement: {
		children: []step{one(rExpr)},
	},
	syntax.KindYieldBreakStatement: {},
	syntax.KindEmptyStatement:      {},

	// Trivia

	syntax.KindComment: {
		attrs: []attrFunc{tok("CommentType"), tok("Content")},
	},
	syntax.KindPreProcessorDirective: {
		attrs:    []attrFunc{tok("Type"), tok("Argument")},
		children: []step{many(rMembers)},
	},
}

func init() {
	for kind, d := range descriptors {
		if d.label == "" {
			d.label = kind.String()
		}
	}
}

// lookup returns the descriptor for kind.
func lookup(kind syntax.Kind) (*descriptor, bool) {
	d, ok := descriptors[kind]
	return d, ok
}

// Label returns the output label of a kind, or false when the kind has no
// descriptor.
func Label(kind syntax.Kind) (string, bool) {
	d, ok := lookup(kind)
	if !ok {
		return "", false
	}
	return d.label, true
}
