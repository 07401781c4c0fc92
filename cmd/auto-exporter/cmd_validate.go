package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildstar-studios/auto-exporter/internal/tui"
)

func validateCmd() *cobra.Command {
	var (
		flags  settingsFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check naming directives (-dir, -sk) in the scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}
			s, err := flags.settings(cmd, op)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}
			report, err := op.Validate(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}
			if asJSON {
				if err := printJSON(report); err != nil {
					return err
				}
			} else {
				fmt.Print(tui.RenderIssues(report))
			}
			if report.Errors > 0 {
				return fmt.Errorf("validate: %d error(s)", report.Errors)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
