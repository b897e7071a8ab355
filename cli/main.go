package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aledsdavies/callbind/runtime/parser"
	"github.com/aledsdavies/callbind/runtime/registry"
	"github.com/spf13/cobra"
)

// app holds the persistent flags shared by every subcommand
type app struct {
	signatures []string
	noColor    bool
	debug      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	a := &app{}
	rootCmd := a.rootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(a.noColor))
		stop()
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "callbind",
		Short:         "Bind shell command lines to typed calls using command signatures",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringArrayVarP(&a.signatures, "signatures", "s", nil,
		"Signature file to load (.json, .jsonc, .yaml); repeatable. Defaults to $CALLBIND_SIGNATURES")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Trace binding phases to stderr")

	rootCmd.AddCommand(a.bindCmd(), a.checkCmd(), a.signaturesCmd(), a.replCmd())
	return rootCmd
}

// signatureFiles returns the --signatures flags, falling back to the
// CALLBIND_SIGNATURES path list
func (a *app) signatureFiles() []string {
	if len(a.signatures) > 0 {
		return a.signatures
	}
	var files []string
	for _, path := range filepath.SplitList(os.Getenv("CALLBIND_SIGNATURES")) {
		if path != "" {
			files = append(files, path)
		}
	}
	return files
}

// loadRegistry builds the registry from the builtins plus signature files.
// File definitions replace builtins of the same name.
func (a *app) loadRegistry() (*registry.Registry, error) {
	reg := registry.NewWithBuiltins()

	files := a.signatureFiles()
	if len(files) == 0 {
		return reg, nil
	}
	sigs, err := registry.LoadFiles(files...)
	if err != nil {
		return nil, err
	}
	for _, sig := range sigs {
		if err := reg.Register(sig); err != nil {
			return nil, fmt.Errorf("register %s: %w", sig.Name, err)
		}
	}
	return reg, nil
}

func (a *app) parserOpts(stderr io.Writer, external, telemetry bool) []parser.ParserOpt {
	var opts []parser.ParserOpt
	if a.debug {
		opts = append(opts, parser.WithDebugTrace(stderr))
	}
	if external {
		opts = append(opts, parser.WithExternalCommands())
	}
	if telemetry {
		opts = append(opts, parser.WithTelemetryTiming())
	}
	return opts
}

func (a *app) useColor() bool {
	return ShouldUseColor(a.noColor)
}
