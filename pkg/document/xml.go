package document

import (
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
)

// SourceAttr is the attribute that carries the root's embedded text in XML.
const SourceAttr = "Source"

// ToXML converts the document into an etree document. The root's embedded
// text is written as the Source attribute; canonical attribute escaping keeps
// its newlines and tabs intact.
func (d *Document) ToXML() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.WriteSettings.CanonicalAttrVal = true
	appendElement(&doc.Element, d.root, true)
	doc.Indent(2)
	return doc
}

func appendElement(parent *etree.Element, n *Node, root bool) {
	el := parent.CreateElement(n.label)
	for _, a := range n.attrs {
		el.CreateAttr(a.Key, a.Value)
	}
	if root && n.text != "" {
		el.CreateAttr(SourceAttr, n.text)
	}
	for _, c := range n.children {
		appendElement(el, c, false)
	}
}

// WriteXML serializes the document as indented XML.
func (d *Document) WriteXML(w io.Writer) error {
	if _, err := d.ToXML().WriteTo(w); err != nil {
		return fmt.Errorf("failed to write XML for %s: %w", d.path, err)
	}
	return nil
}

// WriteXMLFile serializes the document to a file.
func (d *Document) WriteXMLFile(path string) error {
	if err := d.ToXML().WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadXML parses a document previously written by WriteXML. The language and
// path are recovered from the root's Language and FilePath/Assembly
// attributes.
func ReadXML(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	el := doc.Root()
	if el == nil {
		return nil, fmt.Errorf("XML document has no root element")
	}

	root := fromElement(el, true)
	path := root.AttrOr("FilePath", root.AttrOr("Assembly", ""))
	return New(root, root.AttrOr("Language", ""), path), nil
}

// ReadXMLFile parses a document from a file.
func ReadXMLFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadXML(f)
}

func fromElement(el *etree.Element, root bool) *Node {
	b := NewNodeBuilder(el.Tag)
	for _, a := range el.Attr {
		if root && a.Key == SourceAttr {
			b.SetText(a.Value)
			continue
		}
		b.Set(a.Key, a.Value)
	}
	for _, c := range el.ChildElements() {
		b.Append(fromElement(c, false))
	}
	return b.Build()
}
