package parser

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/callbind/core/types"
)

// ErrorKind categorises binding failures
type ErrorKind int

const (
	ErrorUnexpectedHead    ErrorKind = iota // head is neither a bare word nor a string
	ErrorMissingFlag                        // mandatory flag not found anywhere
	ErrorFlagMissingValue                   // value flag is the last token
	ErrorMissingPositional                  // fewer tokens than mandatory slots
	ErrorUnknownCommand                     // head not in the registry
	ErrorSyntax                             // sub-parse: malformed token sequence
	ErrorTypeMismatch                       // sub-parse: token cannot be coerced to the shape
	ErrorUnexpectedEnd                      // sub-parse: expected an expression, found nothing
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorUnexpectedHead:
		return "unexpected token"
	case ErrorMissingFlag:
		return "missing flag"
	case ErrorFlagMissingValue:
		return "missing flag value"
	case ErrorMissingPositional:
		return "missing argument"
	case ErrorUnknownCommand:
		return "unknown command"
	case ErrorSyntax:
		return "syntax error"
	case ErrorTypeMismatch:
		return "type mismatch"
	case ErrorUnexpectedEnd:
		return "unexpected end of input"
	default:
		return "error"
	}
}

// ParseError is the single error type returned by binding. It names the
// argument or flag involved and points at the offending source span.
type ParseError struct {
	Kind        ErrorKind
	Message     string
	Command     string     // command being bound, if known
	Argument    string     // declared argument or flag name, if any
	Token       string     // debug description of the offending token
	Span        types.Span // location in Input
	Input       string
	Suggestions []string // "did you mean" candidates
}

// Error returns the formatted message with a code snippet
func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind.String(), e.Message)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	if snippet := e.Snippet(); snippet != "" {
		b.WriteString("\n")
		b.WriteString(snippet)
	}
	return b.String()
}

// Snippet points at the error span in Rust/Clang style. It is empty when
// the error carries no input.
func (e *ParseError) Snippet() string {
	if e.Input == "" {
		return ""
	}

	pos := types.PositionOf(e.Input, e.Span.Start)
	lines := strings.Split(e.Input, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	lineContent := lines[pos.Line-1]

	width := max(1, min(e.Span.Len(), len(lineContent)-pos.Column+1))

	var snippet strings.Builder
	fmt.Fprintf(&snippet, "  --> %d:%d\n", pos.Line, pos.Column)
	snippet.WriteString("   |\n")
	fmt.Fprintf(&snippet, "%2d | %s\n", pos.Line, lineContent)
	snippet.WriteString("   | ")
	snippet.WriteString(strings.Repeat(" ", pos.Column-1) + strings.Repeat("^", width))
	return snippet.String()
}

// Is matches errors of the same kind, so callers can test with
// errors.Is(err, &ParseError{Kind: ErrorMissingFlag}).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func unexpectedHead(tok types.TokenNode, source string) *ParseError {
	return &ParseError{
		Kind:    ErrorUnexpectedHead,
		Message: fmt.Sprintf("command head -> %s", tok.Debug(source)),
		Token:   tok.Debug(source),
		Span:    tok.Span,
		Input:   source,
	}
}

func missingFlag(command string, arg types.NamedArg, at types.Span, source string, suggestions []string) *ParseError {
	return &ParseError{
		Kind:        ErrorMissingFlag,
		Message:     fmt.Sprintf("%s requires flag --%s <%s>", command, arg.Name, arg.Shape),
		Command:     command,
		Argument:    arg.Name,
		Span:        at,
		Input:       source,
		Suggestions: suggestions,
	}
}

func flagMissingValue(command string, arg types.NamedArg, flag types.TokenNode, source string) *ParseError {
	return &ParseError{
		Kind:     ErrorFlagMissingValue,
		Message:  fmt.Sprintf("flag --%s of %s must be followed by a %s value", arg.Name, command, arg.Shape),
		Command:  command,
		Argument: arg.Name,
		Token:    flag.Debug(source),
		Span:     flag.Span,
		Input:    source,
	}
}

func missingPositional(command string, arg types.PositionalArg, at types.Span, source string) *ParseError {
	return &ParseError{
		Kind:     ErrorMissingPositional,
		Message:  fmt.Sprintf("%s is missing mandatory argument <%s> (%s)", command, arg.Name, arg.Shape),
		Command:  command,
		Argument: arg.Name,
		Span:     at,
		Input:    source,
	}
}

func typeMismatch(shape types.SyntaxShape, tok types.TokenNode, source string) *ParseError {
	return &ParseError{
		Kind:    ErrorTypeMismatch,
		Message: fmt.Sprintf("expected %s, got %s", shape, tok.Debug(source)),
		Token:   tok.Debug(source),
		Span:    tok.Span,
		Input:   source,
	}
}

func syntaxError(tok types.TokenNode, source string, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:    ErrorSyntax,
		Message: fmt.Sprintf(format, args...),
		Token:   tok.Debug(source),
		Span:    tok.Span,
		Input:   source,
	}
}
