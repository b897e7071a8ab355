package callfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/callbind/core/ast"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// Text renders one call as a tree:
//
//	ls
//	├─ [0] path src
//	├─ --all present
//	└─ --long absent
func Text(call *ast.Call, source string, useColor bool) string {
	var b strings.Builder
	b.WriteString(Colorize(call.HeadName(source), ColorGreen, useColor))
	b.WriteString("\n")
	writeChildren(&b, call, source, "", useColor)
	return b.String()
}

// WriteText renders every call of a pipeline, separated by a pipe marker
func WriteText(w io.Writer, calls []*ast.Call, source string, useColor bool) {
	if len(calls) == 0 {
		_, _ = fmt.Fprintln(w, "(no commands)")
		return
	}
	for i, call := range calls {
		if i > 0 {
			_, _ = fmt.Fprintln(w, Colorize("|", ColorGray, useColor))
		}
		_, _ = io.WriteString(w, Text(call, source, useColor))
	}
}

type line struct {
	text string
	sub  *ast.Call // nested call rendered below the line
}

func writeChildren(b *strings.Builder, call *ast.Call, source, indent string, useColor bool) {
	var lines []line

	for i, expr := range call.Positional {
		label := Colorize(fmt.Sprintf("[%d]", i), ColorGray, useColor)
		lines = append(lines, exprLine(label, expr, source, useColor))
	}

	for _, name := range call.Named.Names() {
		v := call.Named.Entries[name]
		flag := Colorize("--"+name, ColorCyan, useColor)
		switch v.Kind {
		case ast.PresentSwitch:
			lines = append(lines, line{text: flag + " present"})
		case ast.AbsentSwitch, ast.AbsentValue:
			lines = append(lines, line{text: flag + " " + Colorize("absent", ColorGray, useColor)})
		case ast.Value:
			lines = append(lines, exprLine(flag, v.Expr, source, useColor))
		}
	}

	for i, l := range lines {
		prefix, childIndent := "├─ ", indent+"│  "
		if i == len(lines)-1 {
			prefix, childIndent = "└─ ", indent+"   "
		}
		b.WriteString(indent + prefix + l.text + "\n")
		if l.sub != nil {
			writeChildren(b, l.sub, source, childIndent, useColor)
		}
	}
}

func exprLine(label string, expr ast.Expression, source string, useColor bool) line {
	kind := Colorize(expr.Kind().String(), ColorYellow, useColor)
	if call, ok := expr.(*ast.Call); ok {
		return line{text: label + " " + kind + " " + call.HeadName(source), sub: call}
	}
	return line{text: label + " " + kind + " " + expr.Render(source)}
}
