package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/beevik/etree"
)

// DiagnosticsFileName is the name of the batch diagnostics document.
const DiagnosticsFileName = "errors.xml"

// Diagnostic is one entry of the diagnostics document.
type Diagnostic struct {
	Message   string
	Filename  string
	StartLine int
	EndLine   int
}

// DiagnosticsXML builds the diagnostics document. It returns nil when there
// is nothing to report.
func DiagnosticsXML(diags []Diagnostic) *etree.Document {
	if len(diags) == 0 {
		return nil
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Diagnostics")
	for _, d := range diags {
		el := root.CreateElement("Diagnostic")
		el.CreateAttr("Message", d.Message)
		if d.Filename != "" {
			el.CreateAttr("Filename", d.Filename)
		}
		if d.StartLine > 0 {
			el.CreateAttr("StartLine", strconv.Itoa(d.StartLine))
			el.CreateAttr("EndLine", strconv.Itoa(d.EndLine))
		}
	}
	doc.Indent(2)
	return doc
}

// WriteDiagnostics writes the diagnostics document to path, or removes a stale
// one when diags is empty.
func WriteDiagnostics(path string, diags []Diagnostic) error {
	doc := DiagnosticsXML(diags)
	if doc == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale diagnostics %s: %w", path, err)
		}
		return nil
	}
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write diagnostics %s: %w", path, err)
	}
	return nil
}
