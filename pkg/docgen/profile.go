package docgen

// Profile selects the attribute set an extraction produces. Both profiles
// share one output schema; they differ in which resolved attributes are
// attached and how the root is labeled.
type Profile struct {
	// Name identifies the profile in logs.
	Name string

	// RootLabel is the label of the document root.
	RootLabel string

	// PathAttr names the root attribute carrying the unit's path.
	PathAttr string

	// RootArtifact repeats the first type's artifact on the root.
	RootArtifact bool

	// DeclarationSymbols attaches resolved facts to type, member, parameter
	// and variable declarations.
	DeclarationSymbols bool

	// ExpressionTypes attaches resolved types to identifiers, member
	// accesses, invocations, literals and operators.
	ExpressionTypes bool

	// MethodArtifacts assigns artifact identifiers to methods as well as
	// types.
	MethodArtifacts bool

	// Comments attaches leading comment text to declarations.
	Comments bool

	// CommentNodes emits comments as standalone Comment nodes. Without it
	// they are dropped from the child lists.
	CommentNodes bool
}

// SourceProfile is used for C# parsed directly from source text.
var SourceProfile = Profile{
	Name:               "source",
	RootLabel:          "CompilationUnit",
	PathAttr:           "FilePath",
	DeclarationSymbols: true,
	ExpressionTypes:    true,
	MethodArtifacts:    true,
	Comments:           true,
}

// DecompiledProfile is used for types reconstructed from compiled assemblies.
// It attaches no expression types and no method artifacts.
var DecompiledProfile = Profile{
	Name:               "decompiled",
	RootLabel:          "Type",
	PathAttr:           "Assembly",
	RootArtifact:       true,
	DeclarationSymbols: true,
	CommentNodes:       true,
}
