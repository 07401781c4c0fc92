package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/wildstar-studios/auto-exporter/internal/config"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg     *config.Config
	cfgFile string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:     "auto-exporter",
		Short:   "Auto Exporter: plan, run and track scene exports",
		Long:    "Auto Exporter partitions a scene into export units by scope and naming directives, writes one file per unit, and keeps a ledger of what each run produced so stale files can be found and cleaned up.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadFile(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.auto-exporter/config.yaml)")

	rootCmd.AddCommand(
		exportCmd(),
		exportSelectedCmd(),
		highlightCmd(),
		orphansCmd(),
		trackCmd(),
		validateCmd(),
		watchCmd(),
		serveCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newOperator(logger *slog.Logger) (*operator.Operator, error) {
	backend, err := operator.NewBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	return operator.New(cfg, backend, logger), nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// interactive reports whether stdin is a terminal.
var interactive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
