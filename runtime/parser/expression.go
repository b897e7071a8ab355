package parser

import (
	"fmt"
	"strconv"

	"github.com/aledsdavies/callbind/core/ast"
	"github.com/aledsdavies/callbind/core/types"
	"github.com/aledsdavies/callbind/runtime/lexer"
)

// ParseNextExpr is the baseline expression parser. It consumes exactly one
// token at the read index and coerces it according to shape; bracketed
// groups are parsed recursively.
func (b *binder) ParseNextExpr(it *TokensIterator, shape types.SyntaxShape) (ast.Expression, error) {
	tok, ok := it.Next()
	for ok && tok.IsWhitespace() {
		tok, ok = it.Next()
	}
	if !ok {
		return nil, &ParseError{
			Kind:    ErrorUnexpectedEnd,
			Message: fmt.Sprintf("expected %s, found end of input", shape),
			Span:    types.Span{Start: len(b.source), End: len(b.source)},
			Input:   b.source,
		}
	}

	switch tok.Kind {
	case types.TokenBare:
		return coerceWord(tok, tok.Text(b.source), types.Span{}, shape, b.source)

	case types.TokenString:
		return coerceWord(tok, stringValue(tok, b.source), tok.Inner, shape, b.source)

	case types.TokenNumber:
		return coerceNumber(tok, shape, b.source)

	case types.TokenVariable:
		// Variables are typed at evaluation time; any shape accepts them
		return &ast.Variable{Loc: tok.Span, Name: tok.Inner}, nil

	case types.TokenFlag:
		if shape != types.ShapeAny {
			return nil, typeMismatch(shape, tok, b.source)
		}
		name, kind, _ := tok.FlagName(b.source)
		return &ast.FlagLiteral{Loc: tok.Span, Name: name, Flag: kind}, nil

	case types.TokenDelimited:
		return b.parseDelimited(tok, shape)

	case types.TokenPipe:
		return nil, syntaxError(tok, b.source, "unexpected pipe; pipelines are split before binding")
	}

	return nil, syntaxError(tok, b.source, "unexpected %s", tok.Debug(b.source))
}

// coerceWord interprets the text of a bare word or string. inner is the
// content span for strings and empty for bare words.
func coerceWord(tok types.TokenNode, text string, inner types.Span, shape types.SyntaxShape, source string) (ast.Expression, error) {
	isString := tok.Kind == types.TokenString

	switch shape {
	case types.ShapeAny:
		if isString {
			return &ast.StringLiteral{Loc: tok.Span, Inner: inner}, nil
		}
		return &ast.BareLiteral{Loc: tok.Span}, nil
	case types.ShapeString:
		if isString {
			return &ast.StringLiteral{Loc: tok.Span, Inner: inner}, nil
		}
		return &ast.StringLiteral{Loc: tok.Span, Inner: tok.Span}, nil
	case types.ShapePath:
		return &ast.PathLiteral{Loc: tok.Span, Path: text}, nil
	case types.ShapePattern:
		return &ast.PatternLiteral{Loc: tok.Span, Pattern: text}, nil
	case types.ShapeInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, typeMismatch(shape, tok, source)
		}
		return &ast.IntLiteral{Loc: tok.Span, Value: n}, nil
	case types.ShapeNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, typeMismatch(shape, tok, source)
		}
		return &ast.NumberLiteral{Loc: tok.Span, Value: f}, nil
	}
	return nil, typeMismatch(shape, tok, source)
}

func coerceNumber(tok types.TokenNode, shape types.SyntaxShape, source string) (ast.Expression, error) {
	text := tok.Text(source)

	switch shape {
	case types.ShapeAny:
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return &ast.IntLiteral{Loc: tok.Span, Value: n}, nil
		}
		return coerceWord(tok, text, types.Span{}, types.ShapeNumber, source)
	case types.ShapeBlock:
		return nil, typeMismatch(shape, tok, source)
	default:
		return coerceWord(tok, text, types.Span{}, shape, source)
	}
}

// stringValue returns the unescaped content of a string token
func stringValue(tok types.TokenNode, source string) string {
	lit := ast.StringLiteral{Loc: tok.Span, Inner: tok.Inner}
	return lit.Value(source)
}

func (b *binder) parseDelimited(tok types.TokenNode, shape types.SyntaxShape) (ast.Expression, error) {
	switch tok.Delimiter {
	case types.Paren:
		return b.parseSubPipeline(tok)

	case types.Brace:
		if shape != types.ShapeAny && shape != types.ShapeBlock {
			return nil, typeMismatch(shape, tok, b.source)
		}
		body, err := b.parseTokens(NewTokensIterator(types.WithoutWhitespace(tok.Children)), types.ShapeAny)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Loc: tok.Span, Body: body}, nil

	case types.Square:
		if shape != types.ShapeAny {
			return nil, typeMismatch(shape, tok, b.source)
		}
		items, err := b.parseTokens(NewTokensIterator(types.WithoutWhitespace(tok.Children)), types.ShapeAny)
		if err != nil {
			return nil, err
		}
		return &ast.List{Loc: tok.Span, Items: items}, nil
	}

	return nil, syntaxError(tok, b.source, "unknown delimiter %s", tok.Delimiter)
}

// parseSubPipeline binds the single command inside ( ... )
func (b *binder) parseSubPipeline(tok types.TokenNode) (ast.Expression, error) {
	calls, err := lexer.SplitPipeline(b.source, tok.Children)
	if err != nil {
		return nil, syntaxError(tok, b.source, "invalid sub-expression: %v", err)
	}
	switch len(calls) {
	case 0:
		return nil, syntaxError(tok, b.source, "empty sub-expression")
	case 1:
	default:
		return nil, syntaxError(tok, b.source, "pipelines inside a sub-expression are not supported")
	}

	sig, err := b.resolve(calls[0].Head)
	if err != nil {
		return nil, err
	}
	call, err := b.parseCommand(sig, calls[0])
	if err != nil {
		return nil, err
	}
	// The sub-call covers its parentheses
	call.Loc = tok.Span
	return call, nil
}

// resolve finds the signature for a head token
func (b *binder) resolve(head types.TokenNode) (*types.Signature, error) {
	var name string
	switch head.Kind {
	case types.TokenBare:
		name = head.Text(b.source)
	case types.TokenString:
		name = stringValue(head, b.source)
	default:
		return nil, unexpectedHead(head, b.source)
	}

	if b.registry != nil {
		if sig, ok := b.registry.Get(name); ok {
			return sig, nil
		}
	}
	if b.registry == nil || b.config.external {
		return types.ExternalSignature(name), nil
	}

	var suggestions []string
	if s, ok := b.registry.(Suggester); ok {
		suggestions = s.Suggest(name)
	}
	return nil, &ParseError{
		Kind:        ErrorUnknownCommand,
		Message:     fmt.Sprintf("command %q not found", name),
		Command:     name,
		Token:       head.Debug(b.source),
		Span:        head.Span,
		Input:       b.source,
		Suggestions: suggestions,
	}
}

// ParseNextExpr parses one expression at the cursor with the baseline parser
func ParseNextExpr(it *TokensIterator, shape types.SyntaxShape, registry CommandRegistry, source string, opts ...ParserOpt) (ast.Expression, error) {
	b := newBinder(source, registry, newConfig(opts))
	return b.ParseNextExpr(it, shape)
}

// ParseTokens parses expressions until the cursor reaches the end
func ParseTokens(it *TokensIterator, shape types.SyntaxShape, registry CommandRegistry, source string, opts ...ParserOpt) ([]ast.Expression, error) {
	b := newBinder(source, registry, newConfig(opts))
	return b.parseTokens(it, shape)
}
