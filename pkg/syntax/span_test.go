package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIndexPoint(t *testing.T) {
	src := []byte("class A\n{\n  int é = 1;\n}\n")
	idx := NewLineIndex(src)

	tests := []struct {
		name   string
		offset int
		want   Point
	}{
		{"start of file", 0, Point{1, 1}},
		{"end of first line", 7, Point{1, 8}},
		{"start of second line", 8, Point{2, 1}},
		{"after multibyte rune", 18, Point{3, 8}},
		{"past the end", 1000, Point{5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.Point(tt.offset))
		})
	}
}

func TestLineIndexRoundTrip(t *testing.T) {
	src := []byte("namespace N {\n    class Ünï { }\n}\n")
	idx := NewLineIndex(src)

	start := 18
	end := start + len("class Ünï { }")
	span := idx.Span(start, end)

	assert.Equal(t, Point{2, 5}, span.Start)
	assert.Equal(t, Point{2, 18}, span.End)
	assert.Equal(t, "class Ünï { }", idx.Slice(span))
	assert.Equal(t, start, idx.Offset(span.Start))
	assert.Equal(t, end, idx.Offset(span.End))
}

func TestSpanValid(t *testing.T) {
	assert.True(t, Span{Point{1, 1}, Point{1, 1}}.Valid())
	assert.True(t, Span{Point{1, 5}, Point{2, 1}}.Valid())
	assert.False(t, Span{Point{2, 1}, Point{1, 5}}.Valid(), "start after end")
	assert.False(t, Span{Point{0, 1}, Point{1, 1}}.Valid(), "zero line")
	assert.False(t, Span{}.Valid())
	assert.True(t, Span{}.IsZero())
}

func TestSpanCover(t *testing.T) {
	a := Span{Point{1, 5}, Point{1, 9}}
	b := Span{Point{1, 2}, Point{1, 6}}

	assert.Equal(t, Span{Point{1, 2}, Point{1, 9}}, a.Cover(b))
	assert.Equal(t, a, a.Cover(Span{}))
	assert.Equal(t, a, Span{}.Cover(a))
}
