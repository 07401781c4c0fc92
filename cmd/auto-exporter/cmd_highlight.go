package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildstar-studios/auto-exporter/internal/tui"
)

func highlightCmd() *cobra.Command {
	var (
		flags  settingsFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "highlight",
		Short: "List the entities an export would include",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("highlight: %w", err)
			}
			s, err := flags.settings(cmd, op)
			if err != nil {
				return fmt.Errorf("highlight: %w", err)
			}
			res, err := op.Highlight(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("highlight: %w", err)
			}
			if asJSON {
				return printJSON(res)
			}
			fmt.Print(tui.RenderHighlight(res))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
