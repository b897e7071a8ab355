// Package parser binds tokenized command invocations to typed calls.
//
// Binding runs in three passes over a TokensIterator. The head token becomes
// a literal expression. Each declared named argument, in declaration order,
// then claims its flag (and value) wherever it appears, with the cursor
// restarted after every lookup. Finally the remaining tokens fill the
// mandatory slots, the optional slots and the variadic tail, left to right.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/aledsdavies/callbind/core/ast"
	"github.com/aledsdavies/callbind/core/invariant"
	"github.com/aledsdavies/callbind/core/types"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CommandRegistry resolves command names to their declared signatures
type CommandRegistry interface {
	Get(name string) (*types.Signature, bool)
}

// Suggester is implemented by registries that can propose names close to an
// unknown one
type Suggester interface {
	Suggest(name string) []string
}

// ExpressionParser parses one expression starting at the cursor's read
// index, advancing the cursor past everything it consumed.
type ExpressionParser interface {
	ParseNextExpr(it *TokensIterator, shape types.SyntaxShape) (ast.Expression, error)
}

// ExpressionParserFunc adapts a function to ExpressionParser
type ExpressionParserFunc func(it *TokensIterator, shape types.SyntaxShape) (ast.Expression, error)

// ParseNextExpr calls f
func (f ExpressionParserFunc) ParseNextExpr(it *TokensIterator, shape types.SyntaxShape) (ast.Expression, error) {
	return f(it, shape)
}

// binder holds the per-invocation state shared by the passes and by
// recursive sub-pipeline binding.
type binder struct {
	source   string
	registry CommandRegistry
	config   *ParserConfig
	logger   *slog.Logger
	exprs    ExpressionParser
	calls    int
}

func newBinder(source string, registry CommandRegistry, config *ParserConfig) *binder {
	b := &binder{
		source:   source,
		registry: registry,
		config:   config,
		logger:   config.logger,
	}
	b.exprs = b
	if config.exprs != nil {
		b.exprs = config.exprs
	}
	return b
}

// ParseCommand binds one command invocation against sig. registry resolves
// commands of nested sub-pipelines and may be nil, in which case they are
// bound as external commands.
func ParseCommand(sig *types.Signature, registry CommandRegistry, call types.CallNode, source string, opts ...ParserOpt) (*ast.Call, error) {
	b := newBinder(source, registry, newConfig(opts))
	return b.parseCommand(sig, call)
}

func (b *binder) parseCommand(sig *types.Signature, call types.CallNode) (*ast.Call, error) {
	invariant.NotNil(sig, "signature")
	b.calls++

	b.logger.Debug("processing", "command", sig.Name, "usage", sig.Usage())

	head, err := parseCommandHead(call.Head, b.source)
	if err != nil {
		return nil, err
	}

	children := types.WithoutWhitespace(call.Children)
	loc := call.Head.Span
	if len(children) > 0 {
		loc = loc.Until(children[len(children)-1].Span)
	}

	positional, named, err := b.parseCommandTail(sig, children, loc)
	if err != nil {
		return nil, err
	}

	result := ast.NewCall(loc, head, positional, named)
	invariant.Postcondition(result.Head != nil, "call must have a head")
	return result, nil
}

// parseCommandHead turns the head token into a literal expression
func parseCommandHead(head types.TokenNode, source string) (ast.Expression, error) {
	switch head.Kind {
	case types.TokenBare:
		return &ast.BareLiteral{Loc: head.Span}, nil
	case types.TokenString:
		// The expression covers the quotes; the literal references the content
		return &ast.StringLiteral{Loc: head.Span, Inner: head.Inner}, nil
	default:
		return nil, unexpectedHead(head, source)
	}
}

func (b *binder) parseCommandTail(sig *types.Signature, children []types.TokenNode, loc types.Span) ([]ast.Expression, *ast.NamedArguments, error) {
	tail := NewTokensIterator(expandShorthandClusters(sig, children, b.source))
	end := types.Span{Start: loc.End, End: loc.End}

	b.traceRemaining("nodes", tail)

	named := ast.NewNamedArguments()
	for _, arg := range sig.Named {
		b.logger.Debug("looking for", "name", arg.Name, "kind", arg.Kind.String())

		switch arg.Kind {
		case types.Switch:
			named.InsertSwitch(arg.Name, extractSwitch(arg, tail, b.source))

		case types.Mandatory:
			pos, flag := locateFlag(arg, tail, b.source)
			if pos < 0 {
				return nil, nil, b.missingFlag(sig, arg, tail, end)
			}
			expr, err := b.extractValue(sig, arg, tail, pos, flag)
			if err != nil {
				return nil, nil, err
			}
			named.InsertMandatory(arg.Name, expr)

		case types.Optional:
			pos, flag := locateFlag(arg, tail, b.source)
			if pos < 0 {
				tail.Restart()
				named.InsertOptional(arg.Name, nil)
				continue
			}
			expr, err := b.extractValue(sig, arg, tail, pos, flag)
			if err != nil {
				return nil, nil, err
			}
			named.InsertOptional(arg.Name, expr)
		}
	}

	b.traceRemaining("after named", tail)

	var positional []ast.Expression

	for _, arg := range sig.Mandatory {
		b.logger.Debug("processing mandatory", "name", arg.Name, "shape", arg.Shape.String())

		if tail.AtEnd() {
			return nil, nil, missingPositional(sig.Name, arg, end, b.source)
		}
		expr, err := b.next(tail, arg.Shape)
		if err != nil {
			return nil, nil, err
		}
		positional = append(positional, expr)
	}

	b.traceRemaining("after mandatory", tail)

	for _, arg := range sig.Optional {
		if tail.AtEnd() {
			break
		}
		expr, err := b.next(tail, arg.Shape)
		if err != nil {
			return nil, nil, err
		}
		positional = append(positional, expr)
	}

	b.traceRemaining("after optional", tail)

	restShape := types.ShapeAny
	if sig.Rest != nil {
		restShape = sig.Rest.Shape
	}
	remainder, err := b.parseTokens(tail, restShape)
	if err != nil {
		return nil, nil, err
	}
	positional = append(positional, remainder...)

	b.traceRemaining("after rest", tail)
	b.logger.Debug("constructed", "positional", len(positional), "named", named.Len())

	return positional, named, nil
}

// expandShorthandClusters splits clustered shorthands such as -la into one
// flag token per letter when every letter names a declared shorthand and no
// declaration matches the cluster as a whole. Only the last letter may name a
// value flag.
func expandShorthandClusters(sig *types.Signature, tokens []types.TokenNode, source string) []types.TokenNode {
	var out []types.TokenNode
	for i, tok := range tokens {
		parts, ok := splitCluster(sig, tok, source)
		if !ok {
			if out != nil {
				out = append(out, tok)
			}
			continue
		}
		if out == nil {
			out = append(make([]types.TokenNode, 0, len(tokens)+len(parts)), tokens[:i]...)
		}
		out = append(out, parts...)
	}
	if out == nil {
		return tokens
	}
	return out
}

func splitCluster(sig *types.Signature, tok types.TokenNode, source string) ([]types.TokenNode, bool) {
	name, kind, ok := tok.FlagName(source)
	if !ok || kind != types.Shorthand || utf8.RuneCountInString(name) < 2 {
		return nil, false
	}
	for _, arg := range sig.Named {
		if arg.Matches(tok, source) {
			return nil, false
		}
	}

	var parts []types.TokenNode
	for offset, r := range name {
		start := tok.Inner.Start + offset
		letter := types.TokenNode{
			Kind:  types.TokenFlag,
			Span:  types.NewSpan(start, start+utf8.RuneLen(r)),
			Inner: types.NewSpan(start, start+utf8.RuneLen(r)),
			Flag:  types.Shorthand,
		}
		if offset == 0 {
			letter.Span.Start = tok.Span.Start // keep the dash
		}
		parts = append(parts, letter)
	}

	for i, part := range parts {
		var found *types.NamedArg
		for j := range sig.Named {
			if sig.Named[j].Matches(part, source) {
				found = &sig.Named[j]
				break
			}
		}
		if found == nil {
			return nil, false
		}
		if found.Kind != types.Switch && i != len(parts)-1 {
			return nil, false
		}
	}
	return parts, true
}

// locateFlag finds the first flag token naming arg
func locateFlag(arg types.NamedArg, tokens *TokensIterator, source string) (int, types.TokenNode) {
	return tokens.Locate(func(tok types.TokenNode) bool {
		return arg.Matches(tok, source)
	})
}

// extractSwitch removes the first matching switch and reports whether it was
// present
func extractSwitch(arg types.NamedArg, tokens *TokensIterator, source string) bool {
	pos, _ := locateFlag(arg, tokens, source)
	if pos < 0 {
		return false
	}
	tokens.Remove(pos)
	return true
}

// extractValue removes the flag at pos, parses the value that followed it
// and removes the value tokens too, leaving the cursor restarted.
func (b *binder) extractValue(sig *types.Signature, arg types.NamedArg, tokens *TokensIterator, pos int, flag types.TokenNode) (ast.Expression, error) {
	if pos >= tokens.Len()-1 {
		return nil, flagMissingValue(sig.Name, arg, flag, b.source)
	}

	tokens.Remove(pos)
	tokens.MoveTo(pos)

	expr, err := b.next(tokens, arg.Shape)
	if err != nil {
		return nil, err
	}

	tokens.RemoveRange(pos, tokens.Position())
	tokens.Restart()
	return expr, nil
}

// next delegates to the expression parser and checks that it made progress
func (b *binder) next(tokens *TokensIterator, shape types.SyntaxShape) (ast.Expression, error) {
	before := tokens.Position()
	expr, err := b.exprs.ParseNextExpr(tokens, shape)
	if err != nil {
		return nil, err
	}
	invariant.Invariant(tokens.Position() > before, "expression parser must consume at least one token")
	return expr, nil
}

// parseTokens parses expressions until the cursor reaches the end
func (b *binder) parseTokens(tokens *TokensIterator, shape types.SyntaxShape) ([]ast.Expression, error) {
	var exprs []ast.Expression
	for !tokens.AtEnd() {
		expr, err := b.next(tokens, shape)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// missingFlag builds the error for an absent mandatory flag, mentioning
// flags present in the stream that look like misspellings of it
func (b *binder) missingFlag(sig *types.Signature, arg types.NamedArg, tokens *TokensIterator, at types.Span) error {
	err := missingFlag(sig.Name, arg, at, b.source, nil)

	for _, tok := range tokens.Tokens() {
		name, kind, ok := tok.FlagName(b.source)
		if !ok || kind != types.Longhand {
			continue
		}
		if fuzzy.LevenshteinDistance(name, arg.Name) <= 2 || fuzzy.MatchFold(name, arg.Name) {
			err.Message += fmt.Sprintf(" (found similar flag --%s)", name)
			err.Span = tok.Span
			err.Token = tok.Debug(b.source)
			break
		}
	}
	return err
}

func (b *binder) traceRemaining(desc string, tokens *TokensIterator) {
	if !b.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	b.logger.Debug(desc, "remaining", tokens.DebugRemaining(b.source))
}
