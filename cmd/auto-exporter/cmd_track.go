package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildstar-studios/auto-exporter/internal/operator"
	"github.com/wildstar-studios/auto-exporter/internal/tui"
)

func trackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Manage the export tracking ledger",
	}
	cmd.AddCommand(trackDeleteCmd())
	return cmd
}

func trackDeleteCmd() *cobra.Command {
	var (
		flags      settingsFlags
		regenerate bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the tracking ledger, optionally writing an empty template",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("track delete: %w", err)
			}
			s, err := flags.settings(cmd, op)
			if err != nil {
				return fmt.Errorf("track delete: %w", err)
			}

			if !cfg.Tracking.Enabled {
				return fmt.Errorf("track delete: %w", operator.ErrTrackingDisabled)
			}
			snap, err := op.Snapshot()
			if err != nil {
				return fmt.Errorf("track delete: %w", err)
			}
			path := op.Tracker(snap, s).Path()
			prompt := tui.NewConfirm("Delete the tracking file?", []string{path}).
				WithToggle("write a fresh template", "r", regenerate)
			answer, err := confirm(yes, prompt)
			if errors.Is(err, errNotConfirmed) {
				fmt.Println("Cancelled.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("track delete: %w", err)
			}
			if answer.Confirmed() {
				regenerate = answer.ToggleOn()
			}

			res, err := op.DeleteTrackFile(cmd.Context(), s, regenerate)
			if err != nil {
				return fmt.Errorf("track delete: %w", err)
			}
			switch {
			case res.Regenerated:
				fmt.Printf("Tracking file reset: %s\n", res.Path)
			case res.Existed:
				fmt.Printf("Tracking file deleted: %s\n", res.Path)
			default:
				fmt.Printf("No tracking file at %s\n", res.Path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "write an empty template after deleting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
