package syntax

import (
	"sort"
	"unicode/utf8"
)

// Point is a 1-based line/column location. Columns count runes.
type Point struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Before reports whether p is strictly before q.
func (p Point) Before(q Point) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

// Span is a half-open source region [Start, End). End is the position just
// past the last character.
type Span struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// IsZero reports whether the span carries no position.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Valid reports whether every coordinate is positive and Start does not follow
// End.
func (s Span) Valid() bool {
	if s.Start.Line < 1 || s.Start.Col < 1 || s.End.Line < 1 || s.End.Col < 1 {
		return false
	}
	return !s.End.Before(s.Start)
}

// Cover returns the smallest span containing both s and o. Zero spans are
// ignored.
func (s Span) Cover(o Span) Span {
	if s.IsZero() {
		return o
	}
	if o.IsZero() {
		return s
	}
	out := s
	if o.Start.Before(out.Start) {
		out.Start = o.Start
	}
	if out.End.Before(o.End) {
		out.End = o.End
	}
	return out
}

// LineIndex converts between byte offsets and 1-based line/rune-column
// positions for one source text.
type LineIndex struct {
	src        []byte
	lineStarts []int
}

// NewLineIndex indexes the line starts of src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, lineStarts: starts}
}

// Point converts a byte offset to a Point.
func (x *LineIndex) Point(offset int) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.src) {
		offset = len(x.src)
	}
	line := sort.Search(len(x.lineStarts), func(i int) bool {
		return x.lineStarts[i] > offset
	}) - 1
	col := utf8.RuneCount(x.src[x.lineStarts[line]:offset]) + 1
	return Point{Line: line + 1, Col: col}
}

// Span converts a byte range to a Span.
func (x *LineIndex) Span(startByte, endByte int) Span {
	return Span{Start: x.Point(startByte), End: x.Point(endByte)}
}

// Offset converts a Point back to a byte offset. Columns past the end of the
// line clamp to the line end.
func (x *LineIndex) Offset(p Point) int {
	if p.Line < 1 {
		return 0
	}
	if p.Line > len(x.lineStarts) {
		return len(x.src)
	}
	off := x.lineStarts[p.Line-1]
	for col := 1; col < p.Col && off < len(x.src); col++ {
		if x.src[off] == '\n' {
			break
		}
		_, size := utf8.DecodeRune(x.src[off:])
		off += size
	}
	return off
}

// Slice returns the source text covered by span.
func (x *LineIndex) Slice(span Span) string {
	start, end := x.Offset(span.Start), x.Offset(span.End)
	if end < start {
		return ""
	}
	return string(x.src[start:end])
}
