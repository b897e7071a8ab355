package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/aledsdavies/callbind/core/callfmt"
	"github.com/aledsdavies/callbind/runtime/parser"
)

// Output formats accepted by --format
const (
	formatText    = "text"
	formatJSON    = "json"
	formatCBORHex = "cbor-hex"
)

// displayOptions controls how a bound pipeline is printed
type displayOptions struct {
	format    string
	digest    bool
	telemetry bool
	useColor  bool
}

// DisplayPipeline renders a bound pipeline in the requested format
func DisplayPipeline(w io.Writer, p *parser.Pipeline, opts displayOptions) error {
	switch opts.format {
	case formatText, "":
		callfmt.WriteText(w, p.Calls, p.Source, opts.useColor)
	case formatJSON:
		data, err := callfmt.PipelineJSON(p.Calls, p.Source)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, string(data))
	case formatCBORHex:
		for _, call := range p.Calls {
			data, err := callfmt.MarshalCanonical(call, p.Source)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(w, hex.EncodeToString(data))
		}
	default:
		return &CLIError{
			Type:    "input",
			Message: fmt.Sprintf("unknown format %q", opts.format),
			Hint:    "Use one of: text, json, cbor-hex",
		}
	}

	if opts.digest {
		for _, call := range p.Calls {
			sum, err := callfmt.DigestHex(call, p.Source)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "%s %s\n", Colorize("digest", ColorGray, opts.useColor), sum)
		}
	}

	if opts.telemetry && p.Telemetry != nil {
		t := p.Telemetry
		_, _ = fmt.Fprintf(w, "%s tokens=%d calls=%d lex=%s bind=%s total=%s\n",
			Colorize("telemetry", ColorGray, opts.useColor),
			t.TokenCount, t.CallCount, t.LexTime, t.BindTime, t.TotalTime)
	}
	return nil
}
