// Package mcp implements the Model Context Protocol server for auto-exporter.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
)

// Server wraps an MCPServer with auto-exporter dependencies.
type Server struct {
	mcp    *mcpserver.MCPServer
	op     *operator.Operator
	logger *slog.Logger
}

// NewServer creates a new MCP server. If op is nil every tool call returns an
// error response instead of panicking.
func NewServer(op *operator.Operator, version string, logger *slog.Logger) *Server {
	s := &Server{
		op:     op,
		logger: logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"auto-exporter",
		version,
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildExportTool(), s.handleExport)
	mcpSrv.AddTool(buildExportSelectedTool(), s.handleExportSelected)
	mcpSrv.AddTool(buildHighlightTool(), s.handleHighlight)
	mcpSrv.AddTool(buildFindOrphansTool(), s.handleFindOrphans)
	mcpSrv.AddTool(buildCleanOrphansTool(), s.handleCleanOrphans)
	mcpSrv.AddTool(buildDeleteTrackFileTool(), s.handleDeleteTrackFile)
	mcpSrv.AddTool(buildValidateTool(), s.handleValidate)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleExport is the exported handler for the "export" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleExport(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleExport(ctx, req)
}

// HandleExportSelected is the exported handler for the "export_selected" tool.
func (s *Server) HandleExportSelected(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleExportSelected(ctx, req)
}

// HandleHighlight is the exported handler for the "highlight" tool.
func (s *Server) HandleHighlight(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleHighlight(ctx, req)
}

// HandleFindOrphans is the exported handler for the "find_orphans" tool.
func (s *Server) HandleFindOrphans(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleFindOrphans(ctx, req)
}

// HandleCleanOrphans is the exported handler for the "clean_orphans" tool.
func (s *Server) HandleCleanOrphans(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleCleanOrphans(ctx, req)
}

// HandleDeleteTrackFile is the exported handler for the "delete_track_file" tool.
func (s *Server) HandleDeleteTrackFile(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleDeleteTrackFile(ctx, req)
}

// HandleValidate is the exported handler for the "validate" tool.
func (s *Server) HandleValidate(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleValidate(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// overrides reads the shared settings arguments.
func overrides(req mcpgo.CallToolRequest) operator.Overrides {
	return operator.Overrides{
		Path:         req.GetString("path", ""),
		Scope:        req.GetString("scope", ""),
		Mode:         req.GetString("mode", ""),
		Format:       req.GetString("format", ""),
		SelectedType: req.GetString("selected_type", ""),
		SkBehavior:   req.GetString("sk_behavior", ""),
	}
}

func settingsOptions() []mcpgo.ToolOption {
	return []mcpgo.ToolOption{
		mcpgo.WithString("path",
			mcpgo.Description("Export directory (default: configured export.path)"),
		),
		mcpgo.WithString("scope",
			mcpgo.Description("Export scope: scene, parent, layer, or object"),
		),
		mcpgo.WithString("mode",
			mcpgo.Description("Export mode: all, visible, or renderable"),
		),
		mcpgo.WithString("format",
			mcpgo.Description("Output format: obj, fbx, stl, ply, dae, or x3d"),
		),
		mcpgo.WithString("sk_behavior",
			mcpgo.Description("Validation of -sk usage: basic or strict"),
		),
	}
}

// --- tool definitions ---

func buildExportTool() mcpgo.Tool {
	opts := append([]mcpgo.ToolOption{
		mcpgo.WithDescription("Export the scene by the current settings. Returns a summary of exported, skipped and failed units."),
	}, settingsOptions()...)
	return mcpgo.NewTool("export", opts...)
}

func buildExportSelectedTool() mcpgo.Tool {
	opts := append([]mcpgo.ToolOption{
		mcpgo.WithDescription("Export only the named entities."),
		mcpgo.WithArray("names",
			mcpgo.Required(),
			mcpgo.Description("Raw entity names to export"),
			mcpgo.WithStringItems(),
		),
		mcpgo.WithString("selected_type",
			mcpgo.Description("Grouping of the selection: parent or object"),
		),
	}, settingsOptions()...)
	return mcpgo.NewTool("export_selected", opts...)
}

func buildHighlightTool() mcpgo.Tool {
	opts := append([]mcpgo.ToolOption{
		mcpgo.WithDescription("List the entities an export with the current settings would include."),
	}, settingsOptions()...)
	return mcpgo.NewTool("highlight", opts...)
}

func buildFindOrphansTool() mcpgo.Tool {
	opts := append([]mcpgo.ToolOption{
		mcpgo.WithDescription("List files in tracked export directories that the last exports did not produce."),
	}, settingsOptions()...)
	return mcpgo.NewTool("find_orphans", opts...)
}

func buildCleanOrphansTool() mcpgo.Tool {
	opts := append([]mcpgo.ToolOption{
		mcpgo.WithDescription("Delete orphaned export files and update the tracking ledger."),
		mcpgo.WithBoolean("empty_dirs",
			mcpgo.Description("Also remove empty folders left behind (default: false)"),
		),
	}, settingsOptions()...)
	return mcpgo.NewTool("clean_orphans", opts...)
}

func buildDeleteTrackFileTool() mcpgo.Tool {
	opts := append([]mcpgo.ToolOption{
		mcpgo.WithDescription("Delete the tracking ledger file."),
		mcpgo.WithBoolean("regenerate",
			mcpgo.Description("Write an empty template for the current settings afterwards (default: false)"),
		),
	}, settingsOptions()...)
	return mcpgo.NewTool("delete_track_file", opts...)
}

func buildValidateTool() mcpgo.Tool {
	opts := append([]mcpgo.ToolOption{
		mcpgo.WithDescription("Report conflicting or duplicated naming modifiers in the scene."),
	}, settingsOptions()...)
	return mcpgo.NewTool("validate", opts...)
}

// --- tool handlers ---

func (s *Server) handleExport(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.op == nil {
		return mcpgo.NewToolResultError("exporter is unavailable"), nil
	}
	settings, err := s.op.SettingsWith(overrides(req))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	sum, err := s.op.Export(ctx, settings)
	if err != nil {
		return mcpgo.NewToolResultErrorf("export failed: %s", err.Error()), nil
	}
	return toolResultJSON(sum)
}

func (s *Server) handleExportSelected(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.op == nil {
		return mcpgo.NewToolResultError("exporter is unavailable"), nil
	}
	names := req.GetStringSlice("names", nil)
	if len(names) == 0 {
		return mcpgo.NewToolResultError("names is required and must not be empty"), nil
	}
	settings, err := s.op.SettingsWith(overrides(req))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	sum, err := s.op.ExportSelected(ctx, settings, names)
	if err != nil {
		return mcpgo.NewToolResultErrorf("export failed: %s", err.Error()), nil
	}
	return toolResultJSON(sum)
}

func (s *Server) handleHighlight(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.op == nil {
		return mcpgo.NewToolResultError("exporter is unavailable"), nil
	}
	settings, err := s.op.SettingsWith(overrides(req))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	res, err := s.op.Highlight(ctx, settings)
	if err != nil {
		return mcpgo.NewToolResultErrorf("highlight failed: %s", err.Error()), nil
	}
	return toolResultJSON(res)
}

func (s *Server) handleFindOrphans(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.op == nil {
		return mcpgo.NewToolResultError("exporter is unavailable"), nil
	}
	settings, err := s.op.SettingsWith(overrides(req))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	orphans, err := s.op.FindOrphans(ctx, settings)
	if err != nil {
		return mcpgo.NewToolResultErrorf("find orphans failed: %s", err.Error()), nil
	}
	if orphans == nil {
		orphans = []string{}
	}
	return toolResultJSON(map[string]any{"orphans": orphans, "count": len(orphans)})
}

func (s *Server) handleCleanOrphans(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.op == nil {
		return mcpgo.NewToolResultError("exporter is unavailable"), nil
	}
	settings, err := s.op.SettingsWith(overrides(req))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	report, err := s.op.CleanOrphans(ctx, settings, req.GetBool("empty_dirs", false))
	if report == nil {
		return mcpgo.NewToolResultErrorf("clean orphans failed: %s", err.Error()), nil
	}
	if err != nil {
		s.logger.Warn("mcp: orphan cleanup could not update ledger", "error", err)
	}
	return toolResultJSON(report)
}

func (s *Server) handleDeleteTrackFile(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.op == nil {
		return mcpgo.NewToolResultError("exporter is unavailable"), nil
	}
	settings, err := s.op.SettingsWith(overrides(req))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	res, err := s.op.DeleteTrackFile(ctx, settings, req.GetBool("regenerate", false))
	if err != nil {
		return mcpgo.NewToolResultErrorf("delete track file failed: %s", err.Error()), nil
	}
	return toolResultJSON(res)
}

func (s *Server) handleValidate(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.op == nil {
		return mcpgo.NewToolResultError("exporter is unavailable"), nil
	}
	settings, err := s.op.SettingsWith(overrides(req))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	report, err := s.op.Validate(ctx, settings)
	if err != nil {
		return mcpgo.NewToolResultErrorf("validate failed: %s", err.Error()), nil
	}
	return toolResultJSON(map[string]any{
		"summary":  report.Summary(),
		"errors":   report.Errors,
		"warnings": report.Warnings,
		"issues":   report.Issues,
		"blocked":  settings.SkBehavior == models.SkStrict && report.Blocks(),
	})
}
