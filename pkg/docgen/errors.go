package docgen

import (
	"errors"
	"fmt"

	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// Sentinel errors for the extraction error taxonomy.
var (
	// ErrUnsupportedConstruct marks a syntax kind with no descriptor. It aborts
	// the whole unit.
	ErrUnsupportedConstruct = errors.New("unsupported construct")

	// ErrMissingSemanticInfo marks a node the semantic model could not
	// resolve. The node keeps its syntactic attributes and traversal continues.
	ErrMissingSemanticInfo = errors.New("missing semantic info")

	// ErrMissingNamespaceContext marks a declaration with no enclosing
	// namespace. Its artifact identifier falls back to the unqualified name.
	ErrMissingNamespaceContext = errors.New("missing namespace context")

	// ErrInvalidPosition marks a node whose span is unusable (zero or
	// negative coordinates, or start after end). It aborts the whole unit.
	ErrInvalidPosition = errors.New("invalid position")
)

// UnsupportedConstructError reports the kind that stopped a unit. Role is
// set when the kind is mapped but one of its child slots is not.
type UnsupportedConstructError struct {
	Kind syntax.Kind
	Role syntax.Role
	// Construct is the front-end's own name for an unmapped node, when the
	// front-end supplied one.
	Construct string
	Path      string
	Span      syntax.Span
}

// Error implements the error interface.
func (e *UnsupportedConstructError) Error() string {
	what := fmt.Sprintf("%s has no descriptor", e.Kind)
	if e.Construct != "" {
		what = fmt.Sprintf("%s has no abstract kind", e.Construct)
	}
	if e.Role != "" {
		what = fmt.Sprintf("%s has no mapping for child slot %q", e.Kind, e.Role)
	}
	if e.Span.IsZero() {
		return fmt.Sprintf("%s: %s", e.Path, what)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Span.Start.Line, e.Span.Start.Col, what)
}

// Is matches ErrUnsupportedConstruct.
func (e *UnsupportedConstructError) Is(target error) bool {
	return target == ErrUnsupportedConstruct
}

// InvalidPositionError reports a node whose span breaks the position
// invariant.
type InvalidPositionError struct {
	Kind syntax.Kind
	Path string
	Span syntax.Span
}

// Error implements the error interface.
func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("%s: %s has invalid span %d:%d-%d:%d", e.Path, e.Kind,
		e.Span.Start.Line, e.Span.Start.Col, e.Span.End.Line, e.Span.End.Col)
}

// Is matches ErrInvalidPosition.
func (e *InvalidPositionError) Is(target error) bool {
	return target == ErrInvalidPosition
}

// Diagnostic is a recoverable condition absorbed during a walk.
type Diagnostic struct {
	// Err is ErrMissingSemanticInfo or ErrMissingNamespaceContext.
	Err     error
	Kind    syntax.Kind
	Span    syntax.Span
	Message string
}

// Error implements the error interface so diagnostics can be logged and
// matched with errors.Is.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s at %d:%d (%s): %s", d.Err, d.Span.Start.Line, d.Span.Start.Col, d.Kind, d.Message)
}

// Unwrap returns the sentinel.
func (d Diagnostic) Unwrap() error { return d.Err }
