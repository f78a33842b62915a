// Package document holds the structured, position-annotated output of the
// document generator and its XML and JSON serializations.
package document

import "strconv"

// Attr is one attribute of a Node.
type Attr struct {
	Key   string
	Value string
}

// Node is one labeled element of a Document. Nodes are immutable once built;
// use NodeBuilder to construct them.
type Node struct {
	label    string
	attrs    []Attr
	children []*Node
	text     string
}

// Label returns the node's kind label.
func (n *Node) Label() string { return n.label }

// Attr returns the value of the attribute with the given key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when it is absent.
func (n *Node) AttrOr(key, def string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return def
}

// Attrs returns a copy of the attributes in insertion order.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Text returns the embedded text (only the root of a document carries it).
func (n *Node) Text() string { return n.text }

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// FindAll returns every descendant (including n) with the given label, in
// pre-order.
func (n *Node) FindAll(label string) []*Node {
	var out []*Node
	n.Walk(func(c *Node, _ int) bool {
		if c.label == label {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Find returns the first node with the given label, or nil.
func (n *Node) Find(label string) *Node {
	if all := n.FindAll(label); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Equal reports whether two trees have the same labels, attributes, order and
// text.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.label != o.label || n.text != o.text ||
		len(n.attrs) != len(o.attrs) || len(n.children) != len(o.children) {
		return false
	}
	for i := range n.attrs {
		if n.attrs[i] != o.attrs[i] {
			return false
		}
	}
	for i := range n.children {
		if !n.children[i].Equal(o.children[i]) {
			return false
		}
	}
	return true
}

// NodeBuilder assembles a single Node. Attribute keys are unique: setting an
// existing key replaces its value in place.
type NodeBuilder struct {
	node *Node
}

// NewNodeBuilder starts a node with the given label.
func NewNodeBuilder(label string) *NodeBuilder {
	return &NodeBuilder{node: &Node{label: label}}
}

// Label returns the label of the node under construction.
func (b *NodeBuilder) Label() string { return b.node.label }

// Has reports whether key has already been set.
func (b *NodeBuilder) Has(key string) bool {
	_, ok := b.node.Attr(key)
	return ok
}

// Set sets a string attribute.
func (b *NodeBuilder) Set(key, value string) *NodeBuilder {
	for i := range b.node.attrs {
		if b.node.attrs[i].Key == key {
			b.node.attrs[i].Value = value
			return b
		}
	}
	b.node.attrs = append(b.node.attrs, Attr{Key: key, Value: value})
	return b
}

// SetBool sets a boolean attribute as "true"/"false".
func (b *NodeBuilder) SetBool(key string, value bool) *NodeBuilder {
	return b.Set(key, strconv.FormatBool(value))
}

// SetInt sets an integer attribute.
func (b *NodeBuilder) SetInt(key string, value int) *NodeBuilder {
	return b.Set(key, strconv.Itoa(value))
}

// SetText sets the embedded text.
func (b *NodeBuilder) SetText(text string) *NodeBuilder {
	b.node.text = text
	return b
}

// Append adds children in order. Nil children are ignored.
func (b *NodeBuilder) Append(children ...*Node) *NodeBuilder {
	for _, c := range children {
		if c != nil {
			b.node.children = append(b.node.children, c)
		}
	}
	return b
}

// Build returns the finished node. The builder must not be used afterwards.
func (b *NodeBuilder) Build() *Node {
	n := b.node
	b.node = nil
	return n
}
