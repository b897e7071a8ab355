// Package lexer turns a command line into TokenNodes for the binder.
//
// The lexer is shallow: it knows words, quoted strings, flags,
// variables, numbers, pipes and bracketed groups, and keeps whitespace as
// explicit tokens. Deciding what a token means for a particular command is
// the binder's job.
package lexer

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/aledsdavies/callbind/core/types"
)

// Lexer scans one command source
type Lexer struct {
	input  string
	pos    int
	logger *slog.Logger
}

// LexerOpt configures a Lexer
type LexerOpt func(*Lexer)

// WithLogger sets the debug logger
func WithLogger(logger *slog.Logger) LexerOpt {
	return func(l *Lexer) {
		l.logger = logger
	}
}

// New creates a lexer over source. Debug output goes to stderr when
// CALLBIND_DEBUG_LEXER is set.
func New(source string, opts ...LexerOpt) *Lexer {
	l := &Lexer{input: source}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = defaultLogger()
	}
	return l
}

func defaultLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("CALLBIND_DEBUG_LEXER") != "" {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove timestamp and level for cleaner lexer output
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Lex tokenizes source in one call
func Lex(source string, opts ...LexerOpt) ([]types.TokenNode, error) {
	return New(source, opts...).Tokenize()
}

// Tokenize scans the whole input
func (l *Lexer) Tokenize() ([]types.TokenNode, error) {
	tokens, err := l.scanUntil(-1, -1)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("tokenized", "count", len(tokens), "input", l.input)
	return tokens, nil
}

// scanUntil scans tokens until closer (or end of input when closer < 0).
// openAt is the offset of the opening bracket, used for diagnostics.
func (l *Lexer) scanUntil(closer int, openAt int) ([]types.TokenNode, error) {
	var tokens []types.TokenNode

	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if isCloser(ch) {
			if closer >= 0 && int(ch) == closer {
				return tokens, nil
			}
			if closer < 0 {
				return nil, l.errorAt(l.pos, "unexpected '%c' without matching opening bracket", ch)
			}
			return nil, l.errorAt(l.pos, "mismatched brackets: '%c' opened at offset %d but '%c' found",
				l.input[openAt], openAt, ch)
		}

		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.logger.Debug("token", "kind", tok.Kind.String(), "span", tok.Span.String(), "text", tok.Text(l.input))
		tokens = append(tokens, tok)
	}

	if closer >= 0 {
		err := l.errorAt(openAt, "unclosed '%c'", l.input[openAt])
		err.Incomplete = true
		return nil, err
	}
	return tokens, nil
}

// next scans a single token starting at l.pos
func (l *Lexer) next() (types.TokenNode, error) {
	start := l.pos
	ch := l.input[start]

	switch {
	case whitespace(ch):
		for l.pos < len(l.input) && whitespace(l.input[l.pos]) {
			l.pos++
		}
		return l.token(types.TokenWhitespace, start), nil

	case ch == '|':
		l.pos++
		return l.token(types.TokenPipe, start), nil

	case ch == '"' || ch == '\'':
		return l.scanString(ch)

	case closerFor(ch) != 0:
		return l.scanDelimited(ch)

	case ch == '$':
		if l.pos+1 < len(l.input) && varChar(l.input[l.pos+1]) {
			l.pos++
			nameStart := l.pos
			for l.pos < len(l.input) && varChar(l.input[l.pos]) {
				l.pos++
			}
			tok := l.token(types.TokenVariable, start)
			tok.Inner = types.NewSpan(nameStart, l.pos)
			return tok, nil
		}

	case ch == '-':
		if tok, ok := l.scanFlag(); ok {
			return tok, nil
		}
	}

	return l.scanWord(), nil
}

// scanString scans a quoted string. Double quotes honour backslash escapes;
// single quotes are taken literally.
func (l *Lexer) scanString(quote byte) (types.TokenNode, error) {
	start := l.pos
	l.pos++ // opening quote

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && quote == '"' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		if ch == quote {
			l.pos++
			tok := l.token(types.TokenString, start)
			tok.Inner = types.NewSpan(start+1, l.pos-1)
			return tok, nil
		}
		l.pos++
	}

	err := l.errorAt(start, "unterminated string starting with %c", quote)
	err.Incomplete = true
	return types.TokenNode{}, err
}

// scanDelimited scans a bracketed group and its children
func (l *Lexer) scanDelimited(open byte) (types.TokenNode, error) {
	start := l.pos
	l.pos++

	children, err := l.scanUntil(int(closerFor(open)), start)
	if err != nil {
		return types.TokenNode{}, err
	}
	l.pos++ // closing bracket

	tok := l.token(types.TokenDelimited, start)
	tok.Inner = types.NewSpan(start+1, l.pos-1)
	tok.Children = children
	switch open {
	case '{':
		tok.Delimiter = types.Brace
	case '[':
		tok.Delimiter = types.Square
	default:
		tok.Delimiter = types.Paren
	}
	return tok, nil
}

// scanFlag scans --name or -n. Negative numbers and a lone "-" or "--" are
// left to scanWord.
func (l *Lexer) scanFlag() (types.TokenNode, bool) {
	start := l.pos
	kind := types.Shorthand
	nameStart := start + 1
	if nameStart < len(l.input) && l.input[nameStart] == '-' {
		kind = types.Longhand
		nameStart++
	}
	if nameStart >= len(l.input) {
		return types.TokenNode{}, false
	}

	first := l.input[nameStart]
	if !letter(first) && first < 128 {
		return types.TokenNode{}, false
	}

	end := nameStart
	for end < len(l.input) && !wordStop(l.input[end]) {
		if !flagChar(l.input[end]) {
			return types.TokenNode{}, false
		}
		end++
	}

	l.pos = end
	tok := l.token(types.TokenFlag, start)
	tok.Flag = kind
	tok.Inner = types.NewSpan(nameStart, end)
	return tok, true
}

// scanWord scans a bare word, classifying it as a number when the whole word
// parses as one.
func (l *Lexer) scanWord() types.TokenNode {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if wordStop(ch) {
			break
		}
		// A quote inside a word starts a new token: foo"bar" is two tokens
		if (ch == '"' || ch == '\'') && l.pos > start {
			break
		}
		l.pos++
	}
	if l.pos == start {
		// Unreachable for well-formed dispatch, but never loop forever
		l.pos++
	}

	if looksNumeric(l.input[start:l.pos]) {
		return l.token(types.TokenNumber, start)
	}
	return l.token(types.TokenBare, start)
}

func looksNumeric(word string) bool {
	if word == "" {
		return false
	}
	first := word[0]
	if first == '-' || first == '+' {
		if len(word) == 1 {
			return false
		}
		first = word[1]
	}
	if !digit(first) {
		return false
	}
	_, err := strconv.ParseFloat(word, 64)
	return err == nil
}

func (l *Lexer) token(kind types.TokenKind, start int) types.TokenNode {
	span := types.NewSpan(start, l.pos)
	return types.TokenNode{Kind: kind, Span: span, Inner: span}
}
