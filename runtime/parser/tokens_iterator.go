package parser

import (
	"strings"

	"github.com/aledsdavies/callbind/core/invariant"
	"github.com/aledsdavies/callbind/core/types"
)

// TokensIterator is the binder's cursor over the tokens of one invocation.
//
// It owns its token slice: flags and flag values are spliced out as they are
// bound, and the read index is repositioned for every value parse. Lookups
// with Locate always scan from the start of the slice, independent of the
// read index.
type TokensIterator struct {
	tokens []types.TokenNode
	index  int
}

// NewTokensIterator copies tokens into a fresh cursor positioned at 0
func NewTokensIterator(tokens []types.TokenNode) *TokensIterator {
	owned := make([]types.TokenNode, len(tokens))
	copy(owned, tokens)
	return &TokensIterator{tokens: owned}
}

// Len returns the number of tokens left in the underlying sequence
func (it *TokensIterator) Len() int {
	return len(it.tokens)
}

// Position returns the read index
func (it *TokensIterator) Position() int {
	return it.index
}

// Remaining returns the number of tokens at or after the read index
func (it *TokensIterator) Remaining() int {
	return len(it.tokens) - it.index
}

// AtEnd reports whether the read index is past the last token
func (it *TokensIterator) AtEnd() bool {
	return it.index >= len(it.tokens)
}

// Locate returns the index and a copy of the first token satisfying pred,
// scanning from the start of the sequence. It returns -1 when nothing
// matches. The read index is not changed.
func (it *TokensIterator) Locate(pred func(types.TokenNode) bool) (int, types.TokenNode) {
	for i, tok := range it.tokens {
		if pred(tok) {
			return i, tok
		}
	}
	return -1, types.TokenNode{}
}

// Remove deletes the token at index, shifting later tokens down by one.
// A read index past the removed token moves back with them.
func (it *TokensIterator) Remove(index int) {
	invariant.Precondition(index >= 0 && index < len(it.tokens),
		"remove index %d out of range [0, %d)", index, len(it.tokens))

	it.tokens = append(it.tokens[:index], it.tokens[index+1:]...)
	if it.index > index {
		it.index--
	}
	it.index = min(it.index, len(it.tokens))
}

// RemoveRange deletes tokens in [start, end)
func (it *TokensIterator) RemoveRange(start, end int) {
	invariant.Precondition(start >= 0 && start <= end && end <= len(it.tokens),
		"remove range [%d, %d) out of range [0, %d]", start, end, len(it.tokens))

	it.tokens = append(it.tokens[:start], it.tokens[end:]...)
	switch {
	case it.index >= end:
		it.index -= end - start
	case it.index > start:
		it.index = start
	}
}

// MoveTo sets the read index. index may equal Len() (the end sentinel).
func (it *TokensIterator) MoveTo(index int) {
	invariant.InRange(index, 0, len(it.tokens), "cursor index")
	it.index = index
}

// Restart moves the read index back to the first token
func (it *TokensIterator) Restart() {
	it.index = 0
}

// Peek returns the token at the read index without consuming it
func (it *TokensIterator) Peek() (types.TokenNode, bool) {
	if it.AtEnd() {
		return types.TokenNode{}, false
	}
	return it.tokens[it.index], true
}

// Next returns the token at the read index and advances past it
func (it *TokensIterator) Next() (types.TokenNode, bool) {
	tok, ok := it.Peek()
	if ok {
		it.index++
	}
	return tok, ok
}

// Tokens returns a copy of the remaining underlying sequence
func (it *TokensIterator) Tokens() []types.TokenNode {
	out := make([]types.TokenNode, len(it.tokens))
	copy(out, it.tokens)
	return out
}

// DebugRemaining renders the tokens from the read index, each wrapped in %
// so empty or whitespace-looking tokens stay visible in traces.
func (it *TokensIterator) DebugRemaining(source string) string {
	parts := make([]string, 0, it.Remaining())
	for _, tok := range it.tokens[it.index:] {
		parts = append(parts, "%"+tok.Debug(source)+"%")
	}
	return strings.Join(parts, " ")
}
