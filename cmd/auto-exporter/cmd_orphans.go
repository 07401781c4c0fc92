package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildstar-studios/auto-exporter/internal/tui"
)

func orphansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "Find or delete exported files the ledger no longer references",
	}
	cmd.AddCommand(orphansFindCmd(), orphansCleanCmd())
	return cmd
}

func orphansFindCmd() *cobra.Command {
	var (
		flags  settingsFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List orphaned export files",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("orphans find: %w", err)
			}
			s, err := flags.settings(cmd, op)
			if err != nil {
				return fmt.Errorf("orphans find: %w", err)
			}
			orphans, err := op.FindOrphans(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("orphans find: %w", err)
			}
			if asJSON {
				return printJSON(map[string]any{"orphans": orphans, "count": len(orphans)})
			}
			fmt.Print(tui.RenderOrphans(orphans))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func orphansCleanCmd() *cobra.Command {
	var (
		flags     settingsFlags
		emptyDirs bool
		yes       bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete orphaned export files",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()
			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("orphans clean: %w", err)
			}
			s, err := flags.settings(cmd, op)
			if err != nil {
				return fmt.Errorf("orphans clean: %w", err)
			}

			orphans, err := op.FindOrphans(ctx, s)
			if err != nil {
				return fmt.Errorf("orphans clean: %w", err)
			}
			if len(orphans) == 0 && !emptyDirs {
				fmt.Print(tui.RenderOrphans(nil))
				return nil
			}

			prompt := tui.NewConfirm(fmt.Sprintf("Delete %d orphaned file(s)?", len(orphans)), orphans).
				WithToggle("also remove empty folders", "e", emptyDirs)
			answer, err := confirm(yes, prompt)
			if errors.Is(err, errNotConfirmed) {
				fmt.Println("Cancelled.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("orphans clean: %w", err)
			}
			if answer.Confirmed() {
				emptyDirs = answer.ToggleOn()
			}

			report, err := op.CleanListedOrphans(ctx, s, orphans, emptyDirs)
			if report != nil {
				if asJSON {
					if jsonErr := printJSON(report); jsonErr != nil {
						return jsonErr
					}
				} else {
					fmt.Print(tui.RenderCleanup(report))
				}
			}
			if err != nil {
				return fmt.Errorf("orphans clean: %w", err)
			}
			if len(report.Skipped) > 0 {
				logger.Info("listed files were no longer orphans and were kept", "count", len(report.Skipped))
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("orphans clean: %d file(s) could not be deleted", len(report.Failed))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&emptyDirs, "empty-dirs", false, "also remove empty folders under the export path")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
