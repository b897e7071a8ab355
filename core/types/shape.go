package types

import "fmt"

// SyntaxShape is the coercion hint attached to a declared argument. It tells
// the expression parser how a matched token should be interpreted.
type SyntaxShape int

const (
	ShapeAny SyntaxShape = iota
	ShapeString
	ShapePath
	ShapeInt
	ShapeNumber
	ShapeBlock
	ShapePattern
)

var shapeNames = [...]string{
	ShapeAny:     "any",
	ShapeString:  "string",
	ShapePath:    "path",
	ShapeInt:     "int",
	ShapeNumber:  "number",
	ShapeBlock:   "block",
	ShapePattern: "pattern",
}

func (s SyntaxShape) String() string {
	if int(s) >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("SyntaxShape(%d)", int(s))
}

// ParseSyntaxShape converts a shape name from a signature file
func ParseSyntaxShape(name string) (SyntaxShape, error) {
	for i, n := range shapeNames {
		if n == name {
			return SyntaxShape(i), nil
		}
	}
	switch name {
	case "", "anything":
		return ShapeAny, nil
	case "integer":
		return ShapeInt, nil
	case "float":
		return ShapeNumber, nil
	}
	return ShapeAny, fmt.Errorf("unknown syntax shape %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (s SyntaxShape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *SyntaxShape) UnmarshalText(text []byte) error {
	shape, err := ParseSyntaxShape(string(text))
	if err != nil {
		return err
	}
	*s = shape
	return nil
}
