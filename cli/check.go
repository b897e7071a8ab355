package main

import (
	"fmt"

	"github.com/aledsdavies/callbind/runtime/registry"
	"github.com/spf13/cobra"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate signature files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			useColor := a.useColor()

			var failed int
			for _, path := range args {
				sigs, err := registry.Load(path)
				if err != nil {
					failed++
					FormatError(out, err, useColor)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s %s (%d commands)\n", Colorize("ok", ColorGreen, useColor), path, len(sigs))
			}

			if failed > 0 {
				return &CLIError{
					Type:    "signatures",
					Message: fmt.Sprintf("%d of %d signature files failed validation", failed, len(args)),
				}
			}
			return nil
		},
	}
}
