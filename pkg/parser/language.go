package parser

import (
	"path/filepath"
	"strings"
)

// Dialect tells regular C# files from scripts. Both parse with the same
// grammar; scripts may hold top-level statements and #r/#load directives.
type Dialect int

const (
	// DialectNone marks a file that is not C#.
	DialectNone Dialect = iota
	// DialectRegular is a .cs file.
	DialectRegular
	// DialectScript is a .csx file.
	DialectScript
)

func (d Dialect) String() string {
	switch d {
	case DialectRegular:
		return "cs"
	case DialectScript:
		return "csx"
	default:
		return "none"
	}
}

// DetectDialect classifies a file by its extension, ignoring case.
func DetectDialect(filePath string) Dialect {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".cs":
		return DialectRegular
	case ".csx":
		return DialectScript
	default:
		return DialectNone
	}
}

// IsSourceFile reports whether filePath names a C# file or script.
func IsSourceFile(filePath string) bool {
	return DetectDialect(filePath) != DialectNone
}
