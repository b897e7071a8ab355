package lexer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aledsdavies/callbind/core/types"
)

// LexError reports malformed input: unterminated strings, unbalanced
// brackets, empty pipeline elements.
type LexError struct {
	Message    string
	Offset     int
	Input      string
	Incomplete bool // more input could complete it (unclosed bracket or string)
}

func (e *LexError) Error() string {
	pos := types.PositionOf(e.Input, e.Offset)
	lines := strings.Split(e.Input, "\n")
	if pos.Line > len(lines) {
		return fmt.Sprintf("lex error: %s at %d:%d", e.Message, pos.Line, pos.Column)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "lex error: %s\n", e.Message)
	fmt.Fprintf(&b, "  --> %d:%d\n", pos.Line, pos.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", pos.Line, lines[pos.Line-1])
	b.WriteString("   | ")
	b.WriteString(strings.Repeat(" ", pos.Column-1) + "^")
	return b.String()
}

func (l *Lexer) errorAt(offset int, format string, args ...interface{}) *LexError {
	return &LexError{
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Input:   l.input,
	}
}

// IsIncomplete reports whether err is a LexError that more input could fix
func IsIncomplete(err error) bool {
	var le *LexError
	return errors.As(err, &le) && le.Incomplete
}
