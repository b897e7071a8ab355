package main

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInputReaderExplicitStdin(t *testing.T) {
	stdin := strings.NewReader("ls\n")
	reader, closeFunc, err := getInputReader("-", stdin)
	require.NoError(t, err)
	defer func() { _ = closeFunc() }()

	assert.Same(t, stdin, reader)
}

func TestGetInputReaderPipedInput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = w.WriteString("first 3\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader, closeFunc, err := getInputReader("", r)
	require.NoError(t, err)
	defer func() { _ = closeFunc() }()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "first 3\n", string(data))
}

func TestGetInputReaderNoInput(t *testing.T) {
	_, _, err := getInputReader("", nil)
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, "no command line given", cliErr.Message)
}

func TestGetInputReaderFile(t *testing.T) {
	path := writeFile(t, "lines.cb", "ls\n")
	reader, closeFunc, err := getInputReader(path, nil)
	require.NoError(t, err)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "ls\n", string(data))
	assert.NoError(t, closeFunc())

	_, _, err = getInputReader("/nonexistent/lines.cb", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error opening file /nonexistent/lines.cb")
}

func TestReadStatements(t *testing.T) {
	input := "# header\n" +
		"ls -a\n" +
		"\n" +
		"each {\n" +
		"  echo $it\n" +
		"}\n" +
		"echo 'open\n"

	got, err := readStatements(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ls -a",
		"each {\n  echo $it\n}",
		"echo 'open",
	}, got)
}
