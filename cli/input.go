package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aledsdavies/callbind/runtime/lexer"
)

// getInputReader handles the 3 modes of input:
// 1. Explicit stdin with -f -
// 2. Piped input (auto-detected when no file is given)
// 3. File input
func getInputReader(file string, stdin io.Reader) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	if file == "-" {
		return stdin, noop, nil
	}

	if file == "" {
		if hasPipedInput(stdin) {
			return stdin, noop, nil
		}
		return nil, nil, &CLIError{
			Type:    "input",
			Message: "no command line given",
			Hint:    "Pass a line as arguments, pipe lines on stdin, or use -f <file>",
		}
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file %s: %w", file, err)
	}
	return f, f.Close, nil
}

// hasPipedInput detects if there's data piped to stdin. Readers that are
// not files (test buffers) count as piped.
func hasPipedInput(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return stdin != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStatements splits r into command lines. A line that leaves a string
// or bracket open is joined with the following lines until it closes.
// Blank lines and lines starting with # are skipped.
func readStatements(r io.Reader) ([]string, error) {
	var statements []string
	var pending strings.Builder

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if pending.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
		} else {
			pending.WriteString("\n")
		}
		pending.WriteString(line)

		if needsMore(pending.String()) {
			continue
		}
		statements = append(statements, pending.String())
		pending.Reset()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	// Left open at EOF: bind it anyway so the lex error is reported
	if pending.Len() > 0 {
		statements = append(statements, pending.String())
	}
	return statements, nil
}

// needsMore reports whether source ends inside a string or bracket
func needsMore(source string) bool {
	_, err := lexer.Lex(source)
	return lexer.IsIncomplete(err)
}
