package ast

import "github.com/aledsdavies/callbind/core/types"

// NewCall assembles a call. An empty positional list and a named map with
// no entries are stored as nil.
func NewCall(loc types.Span, head Expression, positional []Expression, named *NamedArguments) *Call {
	if len(positional) == 0 {
		positional = nil
	}
	if named.Len() == 0 {
		named = nil
	}
	return &Call{
		Loc:        loc,
		Head:       head,
		Positional: positional,
		Named:      named,
	}
}

// Bare creates a bare literal covering [start, end)
func Bare(start, end int) *BareLiteral {
	return &BareLiteral{Loc: types.NewSpan(start, end)}
}

// Str creates a quoted string literal covering [start, end); the inner span
// excludes the quotes.
func Str(start, end int) *StringLiteral {
	return &StringLiteral{
		Loc:   types.NewSpan(start, end),
		Inner: types.NewSpan(start+1, end-1),
	}
}

// Int creates an integer literal
func Int(start, end int, value int64) *IntLiteral {
	return &IntLiteral{Loc: types.NewSpan(start, end), Value: value}
}

// Path creates a path literal
func Path(start, end int, path string) *PathLiteral {
	return &PathLiteral{Loc: types.NewSpan(start, end), Path: path}
}

// Named creates named arguments from alternating name/value pairs. A nil
// value records a present switch.
func Named(pairs ...interface{}) *NamedArguments {
	n := NewNamedArguments()
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case nil:
			n.InsertSwitch(name, true)
		case bool:
			n.InsertSwitch(name, v)
		case Expression:
			n.InsertMandatory(name, v)
		}
	}
	return n
}
