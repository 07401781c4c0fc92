package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/watch"
)

func watchCmd() *cobra.Command {
	var (
		flags settingsFlags
		force bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Export automatically whenever the scene snapshot is saved",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.Export.AutoOnSave && !force {
				return errors.New("watch: export.auto_on_save is off; enable it or pass --force")
			}
			logger := newLogger()
			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			s, err := flags.settings(cmd, op)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}

			trigger := func(ctx context.Context) error {
				sum, err := op.Export(ctx, s)
				if errors.Is(err, exporter.ErrExportInProgress) {
					logger.Info("watch: export already running, skipping save")
					return nil
				}
				if err != nil {
					return err
				}
				logger.Info("watch: auto export finished",
					"run_id", sum.RunID, "exported", sum.Succeeded, "skipped", sum.Skipped, "failed", sum.Failed)
				return nil
			}

			w, err := watch.New(op.SnapshotPath(), cfg.Watch.Debounce, trigger, logger)
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "watch even when export.auto_on_save is off")
	return cmd
}
