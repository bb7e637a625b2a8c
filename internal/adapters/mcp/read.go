package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scanlog/internal/application"
	"scanlog/internal/application/commands"
	"scanlog/internal/domain"
	"scanlog/internal/ports"
)

// Deps bundles the services the scan tools work on
type Deps struct {
	Session  *application.Session
	Remote   ports.BackupRemote
	Guard    *commands.BackupGuard
	Exporter ports.Exporter
}

func (d Deps) store() ports.RecordStore {
	return d.Session.Store()
}

// RegisterReadTools adds all read-only history tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, deps Deps) {
	s.AddTool(historyTool(), historyHandler(deps))
	s.AddTool(countTool(), countHandler(deps))
	s.AddTool(searchTool(), searchHandler(deps))
	s.AddTool(sessionTool(), sessionHandler(deps))
}

// --- history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("history",
		mcp.WithDescription("List recorded scans, newest first. Each line is the capture timestamp followed by the decoded text."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records to return (default 50, 0 for all)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of newest records to skip"),
		),
	)
}

func historyHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 50)
		offset := req.GetInt("offset", 0)

		page, err := commands.NewListHistoryCommand(deps.store(), limit, offset).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if page.Total == 0 {
			return mcp.NewToolResultText("No scans recorded."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "History (%d items)\n", page.Total)
		for _, r := range page.Records {
			sb.WriteString(formatRecord(r))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- count ---

func countTool() mcp.Tool {
	return mcp.NewTool("count",
		mcp.WithDescription("Return the number of recorded scans."),
	)
}

func countHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, err := commands.NewCountHistoryCommand(deps.store()).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%d", n)), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search_history",
		mcp.WithDescription("Fuzzy search recorded scans by text or timestamp. Returns the best matches first."),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
	)
}

func searchHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchHistoryCommand(deps.store(), query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			sb.WriteString(formatRecord(r.ScanRecord))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- session ---

func sessionTool() mcp.Tool {
	return mcp.NewTool("session_scans",
		mcp.WithDescription("List the values recorded since this server started, newest first. Unlike history this is never persisted."),
	)
}

func sessionHandler(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items := deps.Session.Reported()
		if len(items) == 0 {
			return mcp.NewToolResultText("No results."), nil
		}
		return mcp.NewToolResultText(strings.Join(items, "\n")), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// statusError reports a failed use case with the same wording the CLI and TUI use
func statusError(op string, err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(application.StatusMessage(op, err)), nil
}

func formatRecord(r domain.ScanRecord) string {
	return fmt.Sprintf("%s  %s", r.Timestamp, r.Text)
}
