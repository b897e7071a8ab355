package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aledsdavies/callbind/core/types"
	"github.com/aledsdavies/callbind/runtime/lexer"
	"github.com/aledsdavies/callbind/runtime/parser"
	"github.com/aledsdavies/callbind/runtime/registry"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	promptMain = "callbind> "
	promptCont = "........> "
)

// prompter reads one line of interactive input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func (a *app) replCmd() *cobra.Command {
	var (
		historyPath string
		format      string
		digest      bool
		external    bool
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Bind command lines interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			ln := liner.NewLiner()
			defer func() { _ = ln.Close() }()
			ln.SetCtrlCAborts(true)
			ln.SetCompleter(func(line string) []string {
				return completeLine(reg.Names(), line)
			})

			if historyPath == "" {
				if home, err := os.UserHomeDir(); err == nil {
					historyPath = filepath.Join(home, ".callbind_history")
				}
			}
			if historyPath != "" {
				if f, err := os.Open(historyPath); err == nil {
					_, _ = ln.ReadHistory(f)
					_ = f.Close()
				}
				defer func() {
					if f, err := os.Create(historyPath); err == nil {
						_, _ = ln.WriteHistory(f)
						_ = f.Close()
					}
				}()
			}

			if watch {
				files := a.signatureFiles()
				if len(files) == 0 {
					return &CLIError{
						Type:    "input",
						Message: "--watch needs signature files",
						Hint:    "Pass -s <file> or set CALLBIND_SIGNATURES",
					}
				}
				go func() {
					_ = registry.Watch(ctx, files, func(sigs []*types.Signature, err error) {
						reloadRegistry(cmd.ErrOrStderr(), reg, sigs, err, a.useColor())
					})
				}()
			}

			s := &session{
				in:       ln,
				out:      cmd.OutOrStdout(),
				errOut:   cmd.ErrOrStderr(),
				registry: reg,
				opts:     a.parserOpts(cmd.ErrOrStderr(), external, false),
				display: displayOptions{
					format:   format,
					digest:   digest,
					useColor: a.useColor(),
				},
				history: func(line string) { ln.AppendHistory(line) },
			}
			return s.run(ctx)
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "History file (default ~/.callbind_history)")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json, cbor-hex")
	cmd.Flags().BoolVar(&digest, "digest", false, "Print the canonical digest of each call")
	cmd.Flags().BoolVar(&external, "external", false, "Bind unknown commands as external (no declared arguments)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload signature files when they change")
	return cmd
}

// reloadRegistry swaps in freshly loaded signatures on top of the builtins.
// A failed load keeps the previous registry.
func reloadRegistry(w io.Writer, reg *registry.Registry, sigs []*types.Signature, err error, useColor bool) {
	if err != nil {
		FormatError(w, err, useColor)
		return
	}
	if err := reg.Replace(append(registry.Builtins(), sigs...)); err != nil {
		FormatError(w, err, useColor)
		return
	}
	_, _ = fmt.Fprintf(w, "%s %d signatures\n", Colorize("reloaded", ColorGreen, useColor), len(sigs))
}

// session is one interactive binding loop
type session struct {
	in       prompter
	out      io.Writer
	errOut   io.Writer
	registry *registry.Registry
	opts     []parser.ParserOpt
	display  displayOptions
	history  func(string)
}

func (s *session) run(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.out, "Type a command line to bind it. :help lists commands, :quit exits.")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		source, ok := readStatement(s.in, promptMain, promptCont)
		if !ok {
			_, _ = fmt.Fprintln(s.out)
			return nil
		}

		trimmed := strings.TrimSpace(source)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			if quit := s.meta(trimmed); quit {
				return nil
			}
			continue
		}

		p, err := parser.ParsePipeline(source, s.registry, s.opts...)
		if err != nil {
			FormatError(s.errOut, err, s.display.useColor)
		} else if err := DisplayPipeline(s.out, p, s.display); err != nil {
			FormatError(s.errOut, err, s.display.useColor)
		}

		if s.history != nil {
			s.history(strings.ReplaceAll(source, "\n", " "))
		}
	}
}

// meta runs a :command and reports whether the session should end
func (s *session) meta(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		return true
	case ":help":
		for _, sig := range s.registry.Signatures() {
			_, _ = fmt.Fprintln(s.out, sig.Usage())
		}
	case ":sig":
		if len(fields) != 2 {
			_, _ = fmt.Fprintln(s.errOut, "usage: :sig <command>")
			return false
		}
		sig, ok := s.registry.Get(fields[1])
		if !ok {
			msg := fmt.Sprintf("unknown command %q", fields[1])
			if similar := s.registry.Suggest(fields[1]); len(similar) > 0 {
				msg += " (did you mean " + strings.Join(similar, ", ") + "?)"
			}
			_, _ = fmt.Fprintln(s.errOut, msg)
			return false
		}
		_, _ = fmt.Fprintln(s.out, sig.Usage())
		if sig.Description != "" {
			_, _ = fmt.Fprintln(s.out, "  "+sig.Description)
		}
	default:
		_, _ = fmt.Fprintln(s.errOut, "unknown command. Type :help or :quit.")
	}
	return false
}

// readStatement prompts until the input no longer ends inside a string or
// bracket. It returns false at end of input.
func readStatement(in prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := in.Prompt(p)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// ctrl-c drops the partial statement
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if _, err := lexer.Lex(b.String()); lexer.IsIncomplete(err) {
			continue
		}
		return b.String(), true
	}
}

// completeLine completes the command name being typed at the end of line:
// at the start, after a pipe or after an opening parenthesis.
func completeLine(names []string, line string) []string {
	start := strings.LastIndexAny(line, "|(") + 1
	prefix := line[:start]
	word := line[start:]
	trimmed := strings.TrimLeft(word, " \t")
	prefix += word[:len(word)-len(trimmed)]
	if strings.ContainsAny(trimmed, " \t") {
		return nil
	}

	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, trimmed) {
			out = append(out, prefix+name)
		}
	}
	return out
}
