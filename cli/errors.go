package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/callbind/runtime/lexer"
	"github.com/aledsdavies/callbind/runtime/parser"
	"github.com/aledsdavies/callbind/runtime/registry"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "input", "bind", "signatures"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var parseErr *parser.ParseError
	var lexErr *lexer.LexError
	var loadErr *registry.LoadError
	var cliErr *CLIError

	switch {
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &parseErr):
		formatParseError(w, parseErr, useColor)
	case errors.As(err, &lexErr):
		formatCLIError(w, &CLIError{Type: "input", Message: lexErr.Message, Details: lexErr.Error()}, useColor)
	case errors.As(err, &loadErr):
		formatLoadError(w, loadErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatParseError prints the message, the source snippet and any suggestions
func formatParseError(w io.Writer, err *parser.ParseError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", Colorize("Error: ", ColorRed, useColor), err.Kind, err.Message)

	if snippet := err.Snippet(); snippet != "" {
		_, _ = fmt.Fprintf(w, "%s\n", snippet)
	}

	if len(err.Suggestions) > 0 {
		hint := "did you mean " + strings.Join(err.Suggestions, ", ") + "?"
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), hint)
	}
}

func formatLoadError(w io.Writer, err *registry.LoadError, useColor bool) {
	msg := err.Err.Error()
	if err.Path != "" {
		msg = err.Path + ": " + msg
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), msg)
	for _, d := range err.Details {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("  - ", ColorGray, useColor), d)
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
