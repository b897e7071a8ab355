package parser

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Counts only
	TelemetryTiming                      // Counts + timing
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	logger    *slog.Logger
	telemetry TelemetryMode
	external  bool // bind unknown commands with ExternalSignature instead of failing
	exprs     ExpressionParser
}

// WithLogger routes binding traces to logger. Traces are emitted at Debug
// level and never influence binding results.
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		c.logger = logger
	}
}

// WithDebugTrace writes binding traces to w
func WithDebugTrace(w io.Writer) ParserOpt {
	return func(c *ParserConfig) {
		c.logger = newTraceLogger(w, slog.LevelDebug)
	}
}

// WithTelemetryBasic enables token and call counting
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables counting plus lex/bind timing
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithExternalCommands binds commands missing from the registry with an
// empty signature instead of failing with ErrorUnknownCommand
func WithExternalCommands() ParserOpt {
	return func(c *ParserConfig) {
		c.external = true
	}
}

// WithExpressionParser replaces the baseline expression parser. The binder
// treats it as opaque; it must consume at least one token per successful call.
func WithExpressionParser(p ExpressionParser) ParserOpt {
	return func(c *ParserConfig) {
		c.exprs = p
	}
}

func newConfig(opts []ParserOpt) *ParserConfig {
	config := &ParserConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = defaultLogger()
	}
	return config
}

// defaultLogger logs traces to stderr when CALLBIND_DEBUG_PARSER is set
func defaultLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("CALLBIND_DEBUG_PARSER") != "" {
		logLevel = slog.LevelDebug
	}
	return newTraceLogger(os.Stderr, logLevel)
}

func newTraceLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove timestamp and level for cleaner trace output
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// ParseTelemetry holds binding metrics
type ParseTelemetry struct {
	LexTime    time.Duration
	BindTime   time.Duration
	TotalTime  time.Duration
	TokenCount int // top-level tokens, whitespace included
	CallCount  int // calls bound, sub-pipelines included
}
