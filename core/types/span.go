package types

import "fmt"

// Span is a half-open byte range [Start, End) into the command source.
type Span struct {
	Start int `json:"start" cbor:"1,keyasint"`
	End   int `json:"end" cbor:"2,keyasint"`
}

// NewSpan creates a span, swapping the bounds if needed
func NewSpan(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Until returns the smallest span covering both s and other
func (s Span) Until(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Slice returns the text of source covered by the span.
// Out-of-range spans are clamped rather than panicking so diagnostics can
// always be rendered.
func (s Span) Slice(source string) string {
	start := max(0, min(s.Start, len(source)))
	end := max(start, min(s.End, len(source)))
	return source[start:end]
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Position is a 1-based line/column location used for diagnostics
type Position struct {
	Line   int
	Column int
	Offset int
}

// PositionOf converts a byte offset into a line/column position
func PositionOf(source string, offset int) Position {
	offset = max(0, min(offset, len(source)))
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return Position{Line: line, Column: col, Offset: offset}
}
