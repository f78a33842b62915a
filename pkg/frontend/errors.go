// Package frontend holds what the concrete front-ends share: the errors they
// report before a tree ever reaches the document generator.
package frontend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax marks a unit whose source did not parse cleanly. Such a unit is
// never half-mapped.
var ErrSyntax = errors.New("syntax error")

// ErrMalformedInput marks front-end input that cannot be decoded at all.
var ErrMalformedInput = errors.New("malformed input")

// SyntaxIssue is one error or missing-token location reported by a parser.
type SyntaxIssue struct {
	Line    int
	Col     int
	EndLine int
	Message string
}

// SyntaxError lists the problems found in one unit.
type SyntaxError struct {
	Path   string
	Issues []SyntaxIssue
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("%s: syntax error", e.Path)
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%d:%d %s", issue.Line, issue.Col, issue.Message))
	}
	return fmt.Sprintf("%s: syntax error: %s", e.Path, strings.Join(parts, "; "))
}

// Is matches ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
