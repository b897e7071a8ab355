package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NamedKind says how a named argument is written on the command line
type NamedKind int

const (
	Switch    NamedKind = iota // --verbose
	Mandatory                  // --name value, must be present
	Optional                   // --name value, may be omitted
)

var namedKindNames = [...]string{
	Switch:    "switch",
	Mandatory: "mandatory",
	Optional:  "optional",
}

func (k NamedKind) String() string {
	if int(k) >= 0 && int(k) < len(namedKindNames) {
		return namedKindNames[k]
	}
	return fmt.Sprintf("NamedKind(%d)", int(k))
}

// ParseNamedKind converts a kind name from a signature file
func ParseNamedKind(name string) (NamedKind, error) {
	for i, n := range namedKindNames {
		if n == name {
			return NamedKind(i), nil
		}
	}
	return Switch, fmt.Errorf("unknown named argument kind %q", name)
}

// NamedArg declares one flag of a command
type NamedArg struct {
	Name        string      // long name without dashes: "verbose"
	Short       string      // optional single-letter alias without dash: "v"
	Kind        NamedKind   // Switch, Mandatory or Optional
	Shape       SyntaxShape // coercion hint for the value (ignored for switches)
	Description string
}

// Matches reports whether tok is a flag naming this argument.
// Names are compared in Unicode NFC so precomposed and decomposed spellings
// of the same flag are equal.
func (a NamedArg) Matches(tok TokenNode, source string) bool {
	name, kind, ok := tok.FlagName(source)
	if !ok {
		return false
	}
	name = norm.NFC.String(name)
	switch kind {
	case Longhand:
		return name == norm.NFC.String(a.Name)
	case Shorthand:
		return a.Short != "" && name == norm.NFC.String(a.Short)
	}
	return false
}

// Usage renders the flag the way it appears in a usage line
func (a NamedArg) Usage() string {
	var b strings.Builder
	b.WriteString("--")
	b.WriteString(a.Name)
	if a.Short != "" {
		b.WriteString("(-")
		b.WriteString(a.Short)
		b.WriteString(")")
	}
	if a.Kind != Switch {
		fmt.Fprintf(&b, " <%s>", a.Shape)
	}
	if a.Kind != Mandatory {
		return "[" + b.String() + "]"
	}
	return b.String()
}

// PositionalArg declares one positional slot of a command
type PositionalArg struct {
	Name        string
	Shape       SyntaxShape
	Description string
}

// Signature is the declared argument shape of one command. It is read-only
// for the duration of a binding.
type Signature struct {
	Name        string
	Description string
	Named       []NamedArg      // in declaration order
	Mandatory   []PositionalArg // in declaration order
	Optional    []PositionalArg // in declaration order
	Rest        *PositionalArg  // coercion hint for the variadic tail; nil means any
}

// NewSignature creates an empty signature for name
func NewSignature(name string) *Signature {
	return &Signature{Name: name}
}

// Switch declares a --name switch
func (s *Signature) Switch(name, short, description string) *Signature {
	s.Named = append(s.Named, NamedArg{Name: name, Short: short, Kind: Switch, Description: description})
	return s
}

// RequiredNamed declares a --name flag that must be present with a value
func (s *Signature) RequiredNamed(name, short string, shape SyntaxShape, description string) *Signature {
	s.Named = append(s.Named, NamedArg{Name: name, Short: short, Kind: Mandatory, Shape: shape, Description: description})
	return s
}

// OptionalNamed declares a --name flag that may be present with a value
func (s *Signature) OptionalNamed(name, short string, shape SyntaxShape, description string) *Signature {
	s.Named = append(s.Named, NamedArg{Name: name, Short: short, Kind: Optional, Shape: shape, Description: description})
	return s
}

// Required declares a mandatory positional slot
func (s *Signature) Required(name string, shape SyntaxShape, description string) *Signature {
	s.Mandatory = append(s.Mandatory, PositionalArg{Name: name, Shape: shape, Description: description})
	return s
}

// OptionalPositional declares an optional positional slot
func (s *Signature) OptionalPositional(name string, shape SyntaxShape, description string) *Signature {
	s.Optional = append(s.Optional, PositionalArg{Name: name, Shape: shape, Description: description})
	return s
}

// RestPositional sets the coercion hint of the variadic tail
func (s *Signature) RestPositional(name string, shape SyntaxShape, description string) *Signature {
	s.Rest = &PositionalArg{Name: name, Shape: shape, Description: description}
	return s
}

// FindNamed returns the named declaration called name
func (s *Signature) FindNamed(name string) (NamedArg, bool) {
	for _, arg := range s.Named {
		if arg.Name == name {
			return arg, true
		}
	}
	return NamedArg{}, false
}

// NamedNames returns the declared flag names in declaration order
func (s *Signature) NamedNames() []string {
	names := make([]string, len(s.Named))
	for i, arg := range s.Named {
		names[i] = arg.Name
	}
	return names
}

// Usage renders a one-line usage summary: ls [--all(-a)] [path]
func (s *Signature) Usage() string {
	parts := []string{s.Name}
	for _, arg := range s.Named {
		parts = append(parts, arg.Usage())
	}
	for _, arg := range s.Mandatory {
		parts = append(parts, "<"+arg.Name+">")
	}
	for _, arg := range s.Optional {
		parts = append(parts, "["+arg.Name+"]")
	}
	if s.Rest != nil {
		parts = append(parts, "..."+s.Rest.Name)
	}
	return strings.Join(parts, " ")
}

// Validate checks the signature for declarations the binder cannot honour
func (s *Signature) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("signature has no name")
	}

	seen := make(map[string]bool)
	shorts := make(map[string]bool)
	for _, arg := range s.Named {
		if arg.Name == "" {
			return fmt.Errorf("%s: named argument without a name", s.Name)
		}
		if seen[arg.Name] {
			return fmt.Errorf("%s: duplicate named argument --%s", s.Name, arg.Name)
		}
		seen[arg.Name] = true

		if arg.Short != "" {
			if shorts[arg.Short] {
				return fmt.Errorf("%s: duplicate shorthand -%s", s.Name, arg.Short)
			}
			shorts[arg.Short] = true
		}
	}

	positional := make(map[string]bool)
	for _, arg := range append(append([]PositionalArg{}, s.Mandatory...), s.Optional...) {
		if positional[arg.Name] {
			return fmt.Errorf("%s: duplicate positional argument %s", s.Name, arg.Name)
		}
		positional[arg.Name] = true
	}

	return nil
}

// ExternalSignature is the shape used for commands the registry does not
// know: no declarations, so every token lands in the variadic tail.
func ExternalSignature(name string) *Signature {
	return &Signature{Name: name, Description: "external command"}
}
