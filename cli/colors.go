package main

import (
	"os"

	"github.com/aledsdavies/callbind/core/callfmt"
)

// Re-export color constants from callfmt for convenience
const (
	ColorReset  = callfmt.ColorReset
	ColorRed    = callfmt.ColorRed
	ColorGreen  = callfmt.ColorGreen
	ColorYellow = callfmt.ColorYellow
	ColorGray   = callfmt.ColorGray
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	return callfmt.Colorize(text, color, useColor)
}

// ShouldUseColor determines if color output should be used
// Respects --no-color flag and NO_COLOR environment variable
func ShouldUseColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
