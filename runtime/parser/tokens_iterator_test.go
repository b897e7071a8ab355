package parser

import (
	"testing"

	"github.com/aledsdavies/callbind/core/types"
	"github.com/aledsdavies/callbind/runtime/lexer"
	"github.com/google/go-cmp/cmp"
)

func iteratorFor(t *testing.T, source string) *TokensIterator {
	t.Helper()
	tokens, err := lexer.Lex(source, lexer.WithLogger(discard))
	if err != nil {
		t.Fatalf("lex %q: %v", source, err)
	}
	return NewTokensIterator(types.WithoutWhitespace(tokens))
}

func texts(it *TokensIterator, source string) []string {
	var out []string
	for _, tok := range it.Tokens() {
		out = append(out, tok.Text(source))
	}
	return out
}

func TestLocateScansFromStartAndIsIdempotent(t *testing.T) {
	source := "a --name x b --name y"
	it := iteratorFor(t, source)
	arg := types.NamedArg{Name: "name", Kind: types.Mandatory}
	match := func(tok types.TokenNode) bool { return arg.Matches(tok, source) }

	it.MoveTo(3)
	first, tok1 := it.Locate(match)
	second, tok2 := it.Locate(match)

	if first != 1 || second != 1 {
		t.Errorf("locate: want index 1 both times, got %d and %d", first, second)
	}
	if diff := cmp.Diff(tok1, tok2); diff != "" {
		t.Errorf("located tokens differ (-first +second):\n%s", diff)
	}
	if it.Position() != 3 {
		t.Errorf("locate moved the cursor to %d", it.Position())
	}

	missing, _ := it.Locate(func(types.TokenNode) bool { return false })
	if missing != -1 {
		t.Errorf("locate without match: want -1, got %d", missing)
	}
}

func TestRemoveShiftsTokensAndCursor(t *testing.T) {
	source := "a b c d"
	it := iteratorFor(t, source)

	it.MoveTo(2)
	it.Remove(0)

	if diff := cmp.Diff([]string{"b", "c", "d"}, texts(it, source)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if it.Position() != 1 {
		t.Errorf("cursor: want 1, got %d", it.Position())
	}
	if it.Len() != 3 || it.Remaining() != 2 {
		t.Errorf("len/remaining: got %d/%d", it.Len(), it.Remaining())
	}
}

func TestRemoveRange(t *testing.T) {
	source := "a b c d e"
	it := iteratorFor(t, source)

	it.MoveTo(3)
	it.RemoveRange(1, 3)

	if diff := cmp.Diff([]string{"a", "d", "e"}, texts(it, source)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if it.Position() != 1 {
		t.Errorf("cursor: want 1, got %d", it.Position())
	}
}

func TestNextAndRestart(t *testing.T) {
	source := "a b"
	it := iteratorFor(t, source)

	var seen []string
	for {
		tok, ok := it.Next()
		if !ok {
			break
		}
		seen = append(seen, tok.Text(source))
	}
	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Errorf("next mismatch (-want +got):\n%s", diff)
	}
	if !it.AtEnd() {
		t.Error("expected cursor at end")
	}

	it.Restart()
	if tok, ok := it.Peek(); !ok || tok.Text(source) != "a" {
		t.Errorf("peek after restart: got %q, %v", tok.Text(source), ok)
	}
}

func TestIteratorOwnsItsTokens(t *testing.T) {
	source := "a b"
	tokens, err := lexer.Lex(source, lexer.WithLogger(discard))
	if err != nil {
		t.Fatal(err)
	}
	input := types.WithoutWhitespace(tokens)
	it := NewTokensIterator(input)

	it.Remove(0)

	if input[0].Text(source) != "a" {
		t.Error("removing from the iterator modified the caller's slice")
	}
}

func TestMoveToOutOfRangePanics(t *testing.T) {
	it := iteratorFor(t, "a")

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range MoveTo")
		}
	}()
	it.MoveTo(2)
}

func TestDebugRemaining(t *testing.T) {
	source := `ls --all "x"`
	it := iteratorFor(t, source)
	it.MoveTo(1)

	want := `%flag --all% %string "x"%`
	if got := it.DebugRemaining(source); got != want {
		t.Errorf("debug: want %q, got %q", want, got)
	}
}
