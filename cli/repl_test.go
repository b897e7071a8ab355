package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aledsdavies/callbind/core/types"
	"github.com/aledsdavies/callbind/runtime/registry"
	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script replays canned input; nil entries in errs are ignored
type script struct {
	lines   []string
	errs    map[int]error
	prompts []string
}

func (s *script) Prompt(prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if err := s.errs[i]; err != nil {
		return "", err
	}
	if i >= len(s.lines) {
		return "", io.EOF
	}
	return s.lines[i], nil
}

func TestReadStatement(t *testing.T) {
	in := &script{lines: []string{`echo "a`, `b"`}}
	got, ok := readStatement(in, promptMain, promptCont)
	require.True(t, ok)
	assert.Equal(t, "echo \"a\nb\"", got)
	assert.Equal(t, []string{promptMain, promptCont}, in.prompts)

	_, ok = readStatement(in, promptMain, promptCont)
	assert.False(t, ok, "end of input")
}

func TestReadStatementAbortDropsPartialInput(t *testing.T) {
	in := &script{
		lines: []string{"ls (", "", "first"},
		errs:  map[int]error{1: liner.ErrPromptAborted},
	}

	got, ok := readStatement(in, promptMain, promptCont)
	require.True(t, ok)
	assert.Empty(t, got)

	got, ok = readStatement(in, promptMain, promptCont)
	require.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestReadStatementOpenAtEOF(t *testing.T) {
	in := &script{lines: []string{"echo [1"}}
	got, ok := readStatement(in, promptMain, promptCont)
	require.True(t, ok)
	assert.Equal(t, "echo [1", got)
}

func TestSession(t *testing.T) {
	in := &script{lines: []string{
		`echo "a`,
		`b"`,
		"",
		":sig first",
		":sig frist",
		":bogus",
		"cp a",
		":quit",
		"first 1",
	}}
	var out, errOut bytes.Buffer
	var history []string

	s := &session{
		in:       in,
		out:      &out,
		errOut:   &errOut,
		registry: registry.NewWithBuiltins(),
		display:  displayOptions{format: formatText},
		history:  func(line string) { history = append(history, line) },
	}
	require.NoError(t, s.run(context.Background()))

	assert.Contains(t, out.String(), "echo\n└─ [0] string \"a\\nb\"\n")
	assert.Contains(t, out.String(), "first [rows]\n")
	assert.NotContains(t, out.String(), "└─ [0] int 1")

	assert.Contains(t, errOut.String(), `unknown command "frist"`)
	assert.Contains(t, errOut.String(), "unknown command. Type :help or :quit.")
	assert.Contains(t, errOut.String(), "Error: missing argument")

	assert.Equal(t, []string{`echo "a b"`, "cp a"}, history)
}

func TestSessionStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := &script{lines: []string{"ls"}}
	s := &session{in: in, out: io.Discard, errOut: io.Discard, registry: registry.NewWithBuiltins()}
	require.NoError(t, s.run(ctx))
	assert.Empty(t, in.prompts)
}

func TestCompleteLine(t *testing.T) {
	names := []string{"echo", "first", "ls"}

	tests := []struct {
		line string
		want []string
	}{
		{"", []string{"echo", "first", "ls"}},
		{"f", []string{"first"}},
		{"ls | f", []string{"ls | first"}},
		{"echo (l", []string{"echo (ls"}},
		{"ls -a", nil},
		{"zz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, completeLine(names, tt.line))
		})
	}
}

func TestReloadRegistry(t *testing.T) {
	reg := registry.NewWithBuiltins()
	var buf bytes.Buffer

	reloadRegistry(&buf, reg, []*types.Signature{types.NewSignature("deploy")}, nil, false)
	assert.Equal(t, "reloaded 1 signatures\n", buf.String())
	_, ok := reg.Get("deploy")
	assert.True(t, ok)
	_, ok = reg.Get("ls")
	assert.True(t, ok)

	buf.Reset()
	reloadRegistry(&buf, reg, nil, errors.New("broken file"), false)
	assert.Equal(t, "Error: broken file\n", buf.String())
	_, ok = reg.Get("deploy")
	assert.True(t, ok, "failed reload keeps the previous registry")
}
