// Package ast defines the typed call representation produced by the binder.
//
// A bound command is a *Call: the head expression, the positional arguments
// in binding order and the named arguments keyed by declared flag name.
// Expressions keep the source span they were parsed from; rendering helpers
// take the original source so literal text is never copied out of it.
package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aledsdavies/callbind/core/types"
)

// ExprKind identifies the concrete expression node
type ExprKind int

const (
	KindBare ExprKind = iota
	KindString
	KindInt
	KindNumber
	KindPath
	KindPattern
	KindFlag
	KindVariable
	KindBlock
	KindList
	KindCall
)

var exprKindNames = [...]string{
	KindBare:     "bare",
	KindString:   "string",
	KindInt:      "int",
	KindNumber:   "number",
	KindPath:     "path",
	KindPattern:  "pattern",
	KindFlag:     "flag",
	KindVariable: "variable",
	KindBlock:    "block",
	KindList:     "list",
	KindCall:     "call",
}

func (k ExprKind) String() string {
	if int(k) >= 0 && int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return fmt.Sprintf("ExprKind(%d)", int(k))
}

// Expression is any parsed argument value
type Expression interface {
	Span() types.Span
	Kind() ExprKind
	// Render returns a stable textual form using source for literal text
	Render(source string) string
}

// BareLiteral is an unquoted word kept as written
type BareLiteral struct {
	Loc types.Span
}

func (b *BareLiteral) Span() types.Span            { return b.Loc }
func (b *BareLiteral) Kind() ExprKind              { return KindBare }
func (b *BareLiteral) Render(source string) string { return b.Loc.Slice(source) }

// StringLiteral is a string value. Inner is the content span; Loc is the
// span of the whole token including any quotes.
type StringLiteral struct {
	Loc   types.Span
	Inner types.Span
}

func (s *StringLiteral) Span() types.Span { return s.Loc }
func (s *StringLiteral) Kind() ExprKind   { return KindString }

// Value returns the string content with escapes resolved
func (s *StringLiteral) Value(source string) string {
	raw := s.Inner.Slice(source)
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(raw[i])
			}
			continue
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

func (s *StringLiteral) Render(source string) string {
	return strconv.Quote(s.Value(source))
}

// IntLiteral is an integer coerced from a number, bare word or string
type IntLiteral struct {
	Loc   types.Span
	Value int64
}

func (i *IntLiteral) Span() types.Span       { return i.Loc }
func (i *IntLiteral) Kind() ExprKind         { return KindInt }
func (i *IntLiteral) Render(_ string) string { return strconv.FormatInt(i.Value, 10) }

// NumberLiteral is a floating point number
type NumberLiteral struct {
	Loc   types.Span
	Value float64
}

func (n *NumberLiteral) Span() types.Span { return n.Loc }
func (n *NumberLiteral) Kind() ExprKind   { return KindNumber }
func (n *NumberLiteral) Render(_ string) string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// PathLiteral is a file system path; expansion (~, globs) is left to the
// evaluator.
type PathLiteral struct {
	Loc  types.Span
	Path string
}

func (p *PathLiteral) Span() types.Span       { return p.Loc }
func (p *PathLiteral) Kind() ExprKind         { return KindPath }
func (p *PathLiteral) Render(_ string) string { return p.Path }

// PatternLiteral is a glob pattern
type PatternLiteral struct {
	Loc     types.Span
	Pattern string
}

func (p *PatternLiteral) Span() types.Span       { return p.Loc }
func (p *PatternLiteral) Kind() ExprKind         { return KindPattern }
func (p *PatternLiteral) Render(_ string) string { return p.Pattern }

// FlagLiteral is a flag token that no named declaration claimed, for example
// the second occurrence of a duplicated flag.
type FlagLiteral struct {
	Loc  types.Span
	Name string
	Flag types.FlagKind
}

func (f *FlagLiteral) Span() types.Span       { return f.Loc }
func (f *FlagLiteral) Kind() ExprKind         { return KindFlag }
func (f *FlagLiteral) Render(_ string) string { return f.Flag.Prefix() + f.Name }

// Variable is a $name reference
type Variable struct {
	Loc  types.Span
	Name types.Span
}

func (v *Variable) Span() types.Span            { return v.Loc }
func (v *Variable) Kind() ExprKind              { return KindVariable }
func (v *Variable) Render(source string) string { return "$" + v.Name.Slice(source) }

// Block is a { ... } group whose body is evaluated later
type Block struct {
	Loc  types.Span
	Body []Expression
}

func (b *Block) Span() types.Span { return b.Loc }
func (b *Block) Kind() ExprKind   { return KindBlock }
func (b *Block) Render(source string) string {
	if len(b.Body) == 0 {
		return "{}"
	}
	return "{ " + renderAll(b.Body, source, " ") + " }"
}

// List is a [ ... ] literal
type List struct {
	Loc   types.Span
	Items []Expression
}

func (l *List) Span() types.Span { return l.Loc }
func (l *List) Kind() ExprKind   { return KindList }
func (l *List) Render(source string) string {
	return "[" + renderAll(l.Items, source, ", ") + "]"
}

func renderAll(exprs []Expression, source, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.Render(source)
	}
	return strings.Join(parts, sep)
}

// NamedValueKind is the binding outcome of one declared named argument
type NamedValueKind int

const (
	AbsentSwitch  NamedValueKind = iota // switch not given
	PresentSwitch                       // switch given
	AbsentValue                         // optional value flag not given
	Value                               // value flag given; Expr holds the value
)

var namedValueKindNames = [...]string{
	AbsentSwitch:  "absent-switch",
	PresentSwitch: "present-switch",
	AbsentValue:   "absent-value",
	Value:         "value",
}

func (k NamedValueKind) String() string {
	if int(k) >= 0 && int(k) < len(namedValueKindNames) {
		return namedValueKindNames[k]
	}
	return fmt.Sprintf("NamedValueKind(%d)", int(k))
}

// NamedValue is one entry of NamedArguments
type NamedValue struct {
	Kind NamedValueKind
	Expr Expression // set only when Kind == Value
}

// IsPresent reports whether the flag appeared on the command line
func (v NamedValue) IsPresent() bool {
	return v.Kind == PresentSwitch || v.Kind == Value
}

// NamedArguments maps declared flag names to their binding outcome
type NamedArguments struct {
	Entries map[string]NamedValue
}

// NewNamedArguments creates an empty map
func NewNamedArguments() *NamedArguments {
	return &NamedArguments{Entries: make(map[string]NamedValue)}
}

// InsertSwitch records whether a switch was present
func (n *NamedArguments) InsertSwitch(name string, present bool) {
	if present {
		n.Entries[name] = NamedValue{Kind: PresentSwitch}
		return
	}
	n.Entries[name] = NamedValue{Kind: AbsentSwitch}
}

// InsertMandatory records the value of a mandatory flag
func (n *NamedArguments) InsertMandatory(name string, expr Expression) {
	n.Entries[name] = NamedValue{Kind: Value, Expr: expr}
}

// InsertOptional records the value of an optional flag; nil means absent
func (n *NamedArguments) InsertOptional(name string, expr Expression) {
	if expr == nil {
		n.Entries[name] = NamedValue{Kind: AbsentValue}
		return
	}
	n.Entries[name] = NamedValue{Kind: Value, Expr: expr}
}

// Get returns the entry for name
func (n *NamedArguments) Get(name string) (NamedValue, bool) {
	if n == nil {
		return NamedValue{}, false
	}
	v, ok := n.Entries[name]
	return v, ok
}

// Len returns the number of entries
func (n *NamedArguments) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Entries)
}

// Names returns the entry names sorted
func (n *NamedArguments) Names() []string {
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.Entries))
	for name := range n.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call is a bound command invocation. It is also an expression so
// sub-pipelines can appear as arguments of other calls.
type Call struct {
	Loc        types.Span
	Head       Expression
	Positional []Expression    // nil when no positional arguments were bound
	Named      *NamedArguments // nil when the map has no entries
}

func (c *Call) Span() types.Span { return c.Loc }
func (c *Call) Kind() ExprKind   { return KindCall }

// HeadName returns the command name as written (string heads unquoted)
func (c *Call) HeadName(source string) string {
	switch h := c.Head.(type) {
	case *StringLiteral:
		return h.Value(source)
	case nil:
		return ""
	default:
		return h.Span().Slice(source)
	}
}

// Render produces `head pos... --switch --flag value` with present flags in
// name order. Sub-calls render in parentheses.
func (c *Call) Render(source string) string {
	return "(" + c.renderFlat(source) + ")"
}

func (c *Call) renderFlat(source string) string {
	parts := []string{c.Head.Render(source)}
	for _, p := range c.Positional {
		parts = append(parts, p.Render(source))
	}
	for _, name := range c.Named.Names() {
		v := c.Named.Entries[name]
		switch v.Kind {
		case PresentSwitch:
			parts = append(parts, "--"+name)
		case Value:
			parts = append(parts, "--"+name, v.Expr.Render(source))
		}
	}
	return strings.Join(parts, " ")
}

// String renders a top-level call without the enclosing parentheses
func (c *Call) String(source string) string {
	return c.renderFlat(source)
}
