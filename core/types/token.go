package types

import (
	"fmt"
	"strings"
)

// TokenKind identifies the lexical unit carried by a TokenNode
type TokenKind int

const (
	TokenBare       TokenKind = iota // ls, foo.txt, ~/src
	TokenString                      // "hello", 'world'
	TokenNumber                      // 42, -3, 1.5
	TokenVariable                    // $it, $nu
	TokenFlag                        // --all, -a
	TokenPipe                        // |
	TokenDelimited                   // (...), {...}, [...]
	TokenWhitespace                  // runs of spaces, tabs and newlines
)

var tokenKindNames = [...]string{
	TokenBare:       "BARE",
	TokenString:     "STRING",
	TokenNumber:     "NUMBER",
	TokenVariable:   "VARIABLE",
	TokenFlag:       "FLAG",
	TokenPipe:       "PIPE",
	TokenDelimited:  "DELIMITED",
	TokenWhitespace: "WHITESPACE",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// FlagKind distinguishes --long flags from -s shorthands
type FlagKind int

const (
	Longhand FlagKind = iota
	Shorthand
)

// Prefix returns the dashes that introduce the flag
func (k FlagKind) Prefix() string {
	if k == Shorthand {
		return "-"
	}
	return "--"
}

// Delimiter is the bracket pair enclosing a delimited token group
type Delimiter int

const (
	Paren  Delimiter = iota // ( ... ) sub-pipeline
	Brace                   // { ... } block
	Square                  // [ ... ] list
)

// Open returns the opening bracket
func (d Delimiter) Open() byte {
	switch d {
	case Brace:
		return '{'
	case Square:
		return '['
	default:
		return '('
	}
}

// Close returns the closing bracket
func (d Delimiter) Close() byte {
	switch d {
	case Brace:
		return '}'
	case Square:
		return ']'
	default:
		return ')'
	}
}

func (d Delimiter) String() string {
	return string([]byte{d.Open(), d.Close()})
}

// TokenNode is one lexical unit of a command invocation.
//
// Span always covers the full token as written. Inner is kind specific:
// the content between the quotes of a string, the name of a flag without
// dashes, the name of a variable without '$', or the content between the
// brackets of a delimited group.
type TokenNode struct {
	Kind      TokenKind
	Span      Span
	Inner     Span
	Flag      FlagKind    // TokenFlag only
	Delimiter Delimiter   // TokenDelimited only
	Children  []TokenNode // TokenDelimited only, whitespace included
}

// Text returns the source text of the whole token
func (t TokenNode) Text(source string) string {
	return t.Span.Slice(source)
}

// InnerText returns the kind specific inner text (see TokenNode)
func (t TokenNode) InnerText(source string) string {
	return t.Inner.Slice(source)
}

// IsWhitespace reports whether the token carries no semantic weight
func (t TokenNode) IsWhitespace() bool {
	return t.Kind == TokenWhitespace
}

// FlagName returns the flag name and kind when the token is a flag
func (t TokenNode) FlagName(source string) (string, FlagKind, bool) {
	if t.Kind != TokenFlag {
		return "", Longhand, false
	}
	return t.Inner.Slice(source), t.Flag, true
}

// Debug returns a short description of the token for diagnostics and traces
func (t TokenNode) Debug(source string) string {
	switch t.Kind {
	case TokenString:
		return fmt.Sprintf("string %s", t.Text(source))
	case TokenFlag:
		return fmt.Sprintf("flag %s%s", t.Flag.Prefix(), t.InnerText(source))
	case TokenVariable:
		return fmt.Sprintf("variable $%s", t.InnerText(source))
	case TokenNumber:
		return fmt.Sprintf("number %s", t.Text(source))
	case TokenPipe:
		return "pipe"
	case TokenWhitespace:
		return "whitespace"
	case TokenDelimited:
		parts := make([]string, 0, len(t.Children))
		for _, child := range t.Children {
			if child.IsWhitespace() {
				continue
			}
			parts = append(parts, child.Debug(source))
		}
		return fmt.Sprintf("%c%s%c", t.Delimiter.Open(), strings.Join(parts, " "), t.Delimiter.Close())
	default:
		return fmt.Sprintf("bare %q", t.Text(source))
	}
}

// WithoutWhitespace returns a copy of tokens with whitespace nodes removed
func WithoutWhitespace(tokens []TokenNode) []TokenNode {
	out := make([]TokenNode, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsWhitespace() {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// CallNode is one command of a pipeline as produced by the lexer: the head
// token plus everything up to the next top-level pipe.
type CallNode struct {
	Head     TokenNode
	Children []TokenNode
	Span     Span
}
