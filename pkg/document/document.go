package document

import (
	"bytes"
	"encoding/json"
)

// Document is the rooted output tree for one compilation unit or one
// decompiled type. The root carries the language tag, the originating path and
// the full reconstructed source as embedded text.
type Document struct {
	root     *Node
	language string
	path     string
}

// New wraps a finished root node.
func New(root *Node, language, path string) *Document {
	return &Document{root: root, language: language, path: path}
}

// Root returns the root node.
func (d *Document) Root() *Node { return d.root }

// Language returns the language tag.
func (d *Document) Language() string { return d.language }

// Path returns the originating file or assembly path.
func (d *Document) Path() string { return d.path }

// Source returns the embedded source text.
func (d *Document) Source() string { return d.root.Text() }

// Artifacts returns every Artifact attribute value in document order.
func (d *Document) Artifacts() []string {
	var out []string
	seen := make(map[string]bool)
	d.root.Walk(func(n *Node, _ int) bool {
		if v, ok := n.Attr("Artifact"); ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
		return true
	})
	return out
}

// FindArtifact returns the declaration node carrying the given Artifact
// attribute. The document root is skipped when it only repeats the artifact
// of its first type.
func (d *Document) FindArtifact(artifact string) *Node {
	var found *Node
	d.root.Walk(func(n *Node, depth int) bool {
		if found != nil {
			return false
		}
		if depth > 0 && n.AttrOr("Artifact", "") == artifact {
			found = n
			return false
		}
		return true
	})
	if found == nil && d.root.AttrOr("Artifact", "") == artifact {
		found = d.root
	}
	return found
}

// Equal reports whether two documents are structurally identical.
func (d *Document) Equal(o *Document) bool {
	return d.language == o.language && d.path == o.path && d.root.Equal(o.root)
}

// MarshalJSON encodes the document with attributes in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"language":`)
	writeJSONString(&buf, d.language)
	buf.WriteString(`,"path":`)
	writeJSONString(&buf, d.path)
	buf.WriteString(`,"root":`)
	root, err := d.root.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(root)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the node as {"label","attributes","children","text"}.
// encoding/json sorts map keys, so attributes are written by hand to keep
// their order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	buf.WriteString(`{"label":`)
	writeJSONString(buf, n.label)
	if len(n.attrs) > 0 {
		buf.WriteString(`,"attributes":{`)
		for i, a := range n.attrs {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, a.Key)
			buf.WriteByte(':')
			writeJSONString(buf, a.Value)
		}
		buf.WriteByte('}')
	}
	if len(n.children) > 0 {
		buf.WriteString(`,"children":[`)
		for i, c := range n.children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := c.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	if n.text != "" {
		buf.WriteString(`,"text":`)
		writeJSONString(buf, n.text)
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
