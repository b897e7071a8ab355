package lexer

import "github.com/aledsdavies/callbind/core/types"

// SplitPipeline splits top-level tokens on pipes into one CallNode per
// command. Leading whitespace of each element is dropped so the head is the
// first meaningful token; the remaining whitespace stays in Children.
func SplitPipeline(source string, tokens []types.TokenNode) ([]types.CallNode, error) {
	var calls []types.CallNode
	var current []types.TokenNode
	pipeAt := -1

	flush := func(end int) error {
		trimmed := trimLeadingWhitespace(current)
		if len(trimmed) == 0 {
			offset := end
			if pipeAt >= 0 {
				offset = pipeAt
			}
			return &LexError{Message: "empty command in pipeline", Offset: offset, Input: source}
		}
		head := trimmed[0]
		last := head
		for _, tok := range trimmed {
			if !tok.IsWhitespace() {
				last = tok
			}
		}
		calls = append(calls, types.CallNode{
			Head:     head,
			Children: trimmed[1:],
			Span:     head.Span.Until(last.Span),
		})
		current = nil
		return nil
	}

	for _, tok := range tokens {
		if tok.Kind == types.TokenPipe {
			if err := flush(tok.Span.Start); err != nil {
				return nil, err
			}
			pipeAt = tok.Span.Start
			continue
		}
		current = append(current, tok)
	}

	if len(calls) == 0 && len(trimLeadingWhitespace(current)) == 0 {
		// Blank input is not an error; there is simply nothing to bind
		return nil, nil
	}
	if err := flush(len(source)); err != nil {
		return nil, err
	}
	return calls, nil
}

// LexPipeline tokenizes source and splits it into commands
func LexPipeline(source string, opts ...LexerOpt) ([]types.CallNode, error) {
	tokens, err := Lex(source, opts...)
	if err != nil {
		return nil, err
	}
	return SplitPipeline(source, tokens)
}

func trimLeadingWhitespace(tokens []types.TokenNode) []types.TokenNode {
	for len(tokens) > 0 && tokens[0].IsWhitespace() {
		tokens = tokens[1:]
	}
	return tokens
}
