package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	exportmcp "github.com/wildstar-studios/auto-exporter/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  export             export every unit of the configured scope
  export_selected    export named entities
  highlight          list what an export would include
  find_orphans       list files the ledger no longer references
  clean_orphans      delete orphaned files
  delete_track_file  delete or reset the tracking ledger
  validate           check -dir and -sk naming directives

The scene snapshot is re-read on every call, so the server can stay up
while the host application keeps saving.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			op, err := newOperator(logger)
			if err != nil {
				return fmt.Errorf("mcp: %w", err)
			}

			srv := exportmcp.NewServer(op, version, logger)

			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: auto-exporter MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
