package docgen

import (
	"strings"

	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// Artifact kinds.
const (
	ArtifactType   = "Type"
	ArtifactMethod = "Method"
)

// AttrArtifact is the attribute carrying an artifact identifier.
const AttrArtifact = "Artifact"

// Artifact is one identifier assigned during a walk.
type Artifact struct {
	// ID is "<Kind>:<QualifiedName>".
	ID            string
	Kind          string
	QualifiedName string
	Label         string
	Span          syntax.Span
	// Partial is set for partial type declarations, which legitimately share
	// an identifier across units.
	Partial bool
}

// frame is the traversal context handed from a node to its children. It is
// passed by value; each level extends a copy.
type frame struct {
	// namespace is the enclosing namespace, one element per dotted part.
	namespace []string
	// types is the chain of enclosing type names.
	types []string
	// inBody is set below member bodies and initializers, where no
	// declaration gets an artifact.
	inBody bool
	// inBaseList is set only for the direct entries of a base type list.
	inBaseList bool
	// declaredType is the type shared by the declarators of a variable
	// declaration.
	declaredType *syntax.Node
}

func newFrame(namespace string) frame {
	var f frame
	if namespace != "" {
		f.namespace = strings.Split(namespace, ".")
	}
	return f
}

func (f frame) withNamespace(name string) frame {
	parts := strings.Split(name, ".")
	ns := make([]string, 0, len(f.namespace)+len(parts))
	ns = append(ns, f.namespace...)
	ns = append(ns, parts...)
	f.namespace = ns
	return f
}

func (f frame) withType(name string) frame {
	types := make([]string, 0, len(f.types)+1)
	types = append(types, f.types...)
	types = append(types, name)
	f.types = types
	return f
}

// qualify joins the namespace, the enclosing types and name.
func (f frame) qualify(name string) string {
	parts := make([]string, 0, len(f.namespace)+len(f.types)+1)
	parts = append(parts, f.namespace...)
	parts = append(parts, f.types...)
	parts = append(parts, name)
	return strings.Join(parts, ".")
}

// declarationName returns a type's name with its type parameter list, so that
// Foo and Foo<T> stay distinct.
func declarationName(n *syntax.Node) string {
	name := n.TokenOr("Name", "")
	params := n.Children(syntax.RoleTypeParameters)
	if len(params) == 0 {
		return name
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.TokenOr("Name", "")
	}
	return name + "<" + strings.Join(names, ",") + ">"
}

// methodSignature returns a method's name, type parameters and parameter
// types, so that overloads stay distinct. An explicit interface
// implementation is prefixed with its interface.
func methodSignature(n *syntax.Node) string {
	params := n.Children(syntax.RoleParameters)
	types := make([]string, len(params))
	for i, p := range params {
		t := DisplayType(p.Child(syntax.RoleType))
		for _, m := range p.Modifiers() {
			if m == "ref" || m == "out" || m == "in" || m == "params" || m == "this" {
				t = m + " " + t
			}
		}
		types[i] = t
	}
	name := declarationName(n)
	if iface := n.Child(syntax.RoleInterface); iface != nil {
		name = DisplayType(iface) + "." + name
	}
	return name + "(" + strings.Join(types, ",") + ")"
}

// assignArtifact computes and attaches the artifact identifier of a
// declaration. A declaration outside any namespace keeps its unqualified
// name and reports ErrMissingNamespaceContext.
func (w *walker) assignArtifact(kind string, n *syntax.Node, b *document.NodeBuilder, f frame) {
	if f.inBody {
		return
	}
	if kind == ArtifactMethod && !w.profile.MethodArtifacts {
		return
	}

	local := declarationName(n)
	if kind == ArtifactMethod {
		local = methodSignature(n)
	}
	if len(f.namespace) == 0 {
		w.report(Diagnostic{
			Err:     ErrMissingNamespaceContext,
			Kind:    n.Kind(),
			Span:    n.Span(),
			Message: "no enclosing namespace for " + local,
		})
	}

	qualified := f.qualify(local)
	id := kind + ":" + qualified
	b.Set(AttrArtifact, id)
	w.artifacts = append(w.artifacts, Artifact{
		ID:            id,
		Kind:          kind,
		QualifiedName: qualified,
		Label:         n.Kind().String(),
		Span:          n.Span(),
		Partial:       n.HasModifier("partial"),
	})
}
