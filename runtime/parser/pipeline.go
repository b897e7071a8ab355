package parser

import (
	"time"

	"github.com/aledsdavies/callbind/core/ast"
	"github.com/aledsdavies/callbind/runtime/lexer"
)

// Pipeline is the result of binding a whole command line
type Pipeline struct {
	Source    string
	Calls     []*ast.Call
	Telemetry *ParseTelemetry // nil unless telemetry was requested
}

// ParsePipeline lexes source, splits it on | and binds every command against
// the signature registry provides for its head.
func ParsePipeline(source string, registry CommandRegistry, opts ...ParserOpt) (*Pipeline, error) {
	config := newConfig(opts)

	var telemetry *ParseTelemetry
	var start time.Time
	if config.telemetry != TelemetryOff {
		telemetry = &ParseTelemetry{}
	}
	if config.telemetry == TelemetryTiming {
		start = time.Now()
	}

	tokens, err := lexer.Lex(source, lexer.WithLogger(config.logger))
	if err != nil {
		return nil, err
	}
	if config.telemetry == TelemetryTiming {
		telemetry.LexTime = time.Since(start)
	}

	nodes, err := lexer.SplitPipeline(source, tokens)
	if err != nil {
		return nil, err
	}

	var bindStart time.Time
	if config.telemetry == TelemetryTiming {
		bindStart = time.Now()
	}

	b := newBinder(source, registry, config)
	calls := make([]*ast.Call, 0, len(nodes))
	for _, node := range nodes {
		sig, err := b.resolve(node.Head)
		if err != nil {
			return nil, err
		}
		call, err := b.parseCommand(sig, node)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}

	if telemetry != nil {
		telemetry.TokenCount = len(tokens)
		telemetry.CallCount = b.calls
	}
	if config.telemetry == TelemetryTiming {
		telemetry.BindTime = time.Since(bindStart)
		telemetry.TotalTime = time.Since(start)
	}

	return &Pipeline{Source: source, Calls: calls, Telemetry: telemetry}, nil
}
