package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/tui"
)

func exportCmd() *cobra.Command {
	var (
		flags  settingsFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every unit of the configured scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			s, err := flags.settings(cmd, op)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			sum, err := op.Export(cmd.Context(), s)
			return reportSummary("export", sum, err, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run summary as JSON")
	return cmd
}

func exportSelectedCmd() *cobra.Command {
	var (
		flags  settingsFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "export-selected NAME...",
		Short: "Export the named entities grouped by selected type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("export-selected: %w", err)
			}
			s, err := flags.settings(cmd, op)
			if err != nil {
				return fmt.Errorf("export-selected: %w", err)
			}
			sum, err := op.ExportSelected(cmd.Context(), s, args)
			return reportSummary("export-selected", sum, err, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run summary as JSON")
	return cmd
}

// reportSummary prints sum and turns failed units into a non-zero exit.
func reportSummary(name string, sum *exporter.Summary, err error, asJSON bool) error {
	if sum != nil {
		if asJSON {
			if jsonErr := printJSON(sum); jsonErr != nil {
				return jsonErr
			}
		} else {
			fmt.Print(tui.RenderSummary(sum))
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if sum != nil && sum.Failed > 0 {
		return fmt.Errorf("%s: %d unit(s) failed", name, sum.Failed)
	}
	return nil
}
