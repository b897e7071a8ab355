package main

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/callbind/runtime/parser"
	"github.com/spf13/cobra"
)

func (a *app) bindCmd() *cobra.Command {
	var (
		file      string
		format    string
		digest    bool
		external  bool
		telemetry bool
	)

	cmd := &cobra.Command{
		Use:   "bind [line...]",
		Short: "Bind command lines and print the resulting calls",
		Long: `Bind command lines against the loaded signatures and print the calls.

The line comes from the arguments, from -f <file> (one line per statement,
- for stdin), or from piped stdin.`,
		Example: `  callbind bind ls -la src
  callbind bind --format json 'ls *.go | first 3'
  echo 'cp a b' | callbind bind --digest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry()
			if err != nil {
				return err
			}

			var statements []string
			if len(args) > 0 {
				if file != "" {
					return &CLIError{Type: "input", Message: "cannot combine a command line with --file"}
				}
				statements = []string{strings.Join(args, " ")}
			} else {
				reader, closeFunc, err := getInputReader(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				defer func() { _ = closeFunc() }()

				statements, err = readStatements(reader)
				if err != nil {
					return err
				}
			}

			display := displayOptions{
				format:    format,
				digest:    digest,
				telemetry: telemetry,
				useColor:  a.useColor(),
			}
			opts := a.parserOpts(cmd.ErrOrStderr(), external, telemetry)

			out := cmd.OutOrStdout()
			for i, source := range statements {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				p, err := parser.ParsePipeline(source, reg, opts...)
				if err != nil {
					return err
				}
				if i > 0 && format == formatText {
					_, _ = fmt.Fprintln(out)
				}
				if err := DisplayPipeline(out, p, display); err != nil {
					return err
				}
			}
			return nil
		},
	}

	// Flags after the first word belong to the line being bound
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read command lines from file (- for stdin)")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json, cbor-hex")
	cmd.Flags().BoolVar(&digest, "digest", false, "Print the canonical digest of each call")
	cmd.Flags().BoolVar(&external, "external", false, "Bind unknown commands as external (no declared arguments)")
	cmd.Flags().BoolVar(&telemetry, "telemetry", false, "Print token and call counts with timings")
	return cmd
}
