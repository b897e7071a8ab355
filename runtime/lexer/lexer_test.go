package lexer

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aledsdavies/callbind/core/types"
	"github.com/google/go-cmp/cmp"
)

type tokenView struct {
	Kind  types.TokenKind
	Text  string
	Inner string
}

func view(source string, tokens []types.TokenNode) []tokenView {
	out := make([]tokenView, len(tokens))
	for i, tok := range tokens {
		out[i] = tokenView{Kind: tok.Kind, Text: tok.Text(source), Inner: tok.InnerText(source)}
	}
	return out
}

func quietLexer() LexerOpt {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLexTokenKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokenView
	}{
		{
			name:  "bare words",
			input: "ls src",
			want: []tokenView{
				{types.TokenBare, "ls", "ls"},
				{types.TokenWhitespace, " ", " "},
				{types.TokenBare, "src", "src"},
			},
		},
		{
			name:  "double quoted string keeps escapes in inner span",
			input: `echo "a \"b\""`,
			want: []tokenView{
				{types.TokenBare, "echo", "echo"},
				{types.TokenWhitespace, " ", " "},
				{types.TokenString, `"a \"b\""`, `a \"b\"`},
			},
		},
		{
			name:  "single quoted string",
			input: `'hello world'`,
			want: []tokenView{
				{types.TokenString, `'hello world'`, "hello world"},
			},
		},
		{
			name:  "longhand and shorthand flags",
			input: "--all -l",
			want: []tokenView{
				{types.TokenFlag, "--all", "all"},
				{types.TokenWhitespace, " ", " "},
				{types.TokenFlag, "-l", "l"},
			},
		},
		{
			name:  "negative number is not a flag",
			input: "-3 4.5",
			want: []tokenView{
				{types.TokenNumber, "-3", "-3"},
				{types.TokenWhitespace, " ", " "},
				{types.TokenNumber, "4.5", "4.5"},
			},
		},
		{
			name:  "lone dashes are bare words",
			input: "- --",
			want: []tokenView{
				{types.TokenBare, "-", "-"},
				{types.TokenWhitespace, " ", " "},
				{types.TokenBare, "--", "--"},
			},
		},
		{
			name:  "number prefix in a word stays bare",
			input: "1.txt",
			want: []tokenView{
				{types.TokenBare, "1.txt", "1.txt"},
			},
		},
		{
			name:  "variables",
			input: "$it $nu-env",
			want: []tokenView{
				{types.TokenVariable, "$it", "it"},
				{types.TokenWhitespace, " ", " "},
				{types.TokenVariable, "$nu-env", "nu-env"},
			},
		},
		{
			name:  "pipe",
			input: "ls|first",
			want: []tokenView{
				{types.TokenBare, "ls", "ls"},
				{types.TokenPipe, "|", "|"},
				{types.TokenBare, "first", "first"},
			},
		},
		{
			name:  "unicode words",
			input: "café",
			want: []tokenView{
				{types.TokenBare, "café", "café"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input, quietLexer())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, view(tt.input, tokens)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexTopLevelInput(t *testing.T) {
	tests := []struct {
		input string
		count int
	}{
		{"", 0},
		{"ls", 1},
		{"a (b)", 3},
		{"ls | first", 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Lex(tt.input, quietLexer())
			if err != nil {
				t.Fatalf("Lex(%q): unexpected error: %v", tt.input, err)
			}
			if len(tokens) != tt.count {
				t.Errorf("Lex(%q): got %d tokens, want %d", tt.input, len(tokens), tt.count)
			}
		})
	}
}

func TestLexDelimitedGroups(t *testing.T) {
	input := "each { echo $it } [1 2] (ls)"
	tokens, err := Lex(input, quietLexer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens = types.WithoutWhitespace(tokens)
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %v", len(tokens), view(input, tokens))
	}

	block := tokens[1]
	if block.Kind != types.TokenDelimited || block.Delimiter != types.Brace {
		t.Fatalf("expected brace group, got %v %v", block.Kind, block.Delimiter)
	}
	if diff := cmp.Diff(" echo $it ", block.InnerText(input)); diff != "" {
		t.Errorf("block inner mismatch (-want +got):\n%s", diff)
	}

	want := []tokenView{
		{types.TokenBare, "echo", "echo"},
		{types.TokenVariable, "$it", "it"},
	}
	if diff := cmp.Diff(want, view(input, types.WithoutWhitespace(block.Children))); diff != "" {
		t.Errorf("block children mismatch (-want +got):\n%s", diff)
	}

	if tokens[2].Delimiter != types.Square {
		t.Errorf("expected square group, got %v", tokens[2].Delimiter)
	}
	if tokens[3].Delimiter != types.Paren {
		t.Errorf("expected paren group, got %v", tokens[3].Delimiter)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		message    string
		offset     int
		incomplete bool
	}{
		{"unterminated string", `echo "abc`, "unterminated string", 5, true},
		{"unclosed bracket", "each { echo", "unclosed '{'", 5, true},
		{"stray closer", "ls )", "unexpected ')'", 3, false},
		{"mismatched brackets", "(ls }", "mismatched brackets", 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input, quietLexer())
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected LexError, got %v", err)
			}
			if !strings.Contains(lexErr.Message, tt.message) {
				t.Errorf("expected message containing %q, got %q", tt.message, lexErr.Message)
			}
			if lexErr.Offset != tt.offset {
				t.Errorf("expected offset %d, got %d", tt.offset, lexErr.Offset)
			}
			if IsIncomplete(err) != tt.incomplete {
				t.Errorf("expected IsIncomplete %v", tt.incomplete)
			}
			if !strings.Contains(err.Error(), "^") {
				t.Errorf("expected caret snippet in error, got:\n%s", err.Error())
			}
		})
	}
}

func TestLexPipeline(t *testing.T) {
	input := "  ls --all | where size > 10 | first 3  "
	calls, err := LexPipeline(input, quietLexer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var heads []string
	for _, call := range calls {
		heads = append(heads, call.Head.Text(input))
	}
	if diff := cmp.Diff([]string{"ls", "where", "first"}, heads); diff != "" {
		t.Errorf("heads mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff("first 3", calls[2].Span.Slice(input)); diff != "" {
		t.Errorf("last call span mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, len(types.WithoutWhitespace(calls[0].Children))); diff != "" {
		t.Errorf("ls children mismatch (-want +got):\n%s", diff)
	}
}

func TestLexPipelineEmptyElement(t *testing.T) {
	_, err := LexPipeline("ls | | first", quietLexer())
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected LexError, got %v", err)
	}
	if lexErr.Message != "empty command in pipeline" {
		t.Errorf("unexpected message %q", lexErr.Message)
	}
}

func TestLexPipelineBlank(t *testing.T) {
	calls, err := LexPipeline("   ", quietLexer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("expected no calls, got %d", len(calls))
	}
}
