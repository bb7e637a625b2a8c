package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scanlog/internal/application"
	"scanlog/internal/application/commands"
)

// RegisterWriteTools adds all history-changing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, deps Deps) {
	s.AddTool(recordTool(), recordHandler(deps))
	s.AddTool(exportTool(), exportHandler(deps))
	s.AddTool(uploadTool(), uploadHandler(deps))
	s.AddTool(downloadTool(), downloadHandler(deps))
	s.AddTool(clearTool(), clearHandler(deps))
}

// --- record_scan ---

func recordTool() mcp.Tool {
	return mcp.NewTool("record_scan",
		mcp.WithDescription("Record a decoded QR or barcode value. Repeats of the same value within two seconds are ignored."),
		mcp.WithString("text",
			mcp.Description("The decoded text"),
			mcp.Required(),
		),
	)
}

func recordHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := req.GetString("text", "")

		result, err := commands.NewRecordScanCommand(deps.Session, text).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- export_csv ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export_csv",
		mcp.WithDescription("Export the history as CSV (Timestamp,Content). With a path the file is written there, otherwise the CSV is returned."),
		mcp.WithString("path",
			mcp.Description("Optional output file path"),
		),
	)
}

func exportHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if path := req.GetString("path", ""); path != "" {
			result, err := commands.NewExportCommand(deps.store(), deps.Exporter, path).Execute(ctx)
			if err != nil {
				return statusError("export", err)
			}
			return mcp.NewToolResultText(result.Message), nil
		}

		history, err := deps.store().All(ctx)
		if err != nil {
			return toolError(err)
		}
		if history.IsEmpty() {
			return statusError("export", application.ErrEmptyHistory)
		}

		var buf bytes.Buffer
		if err := deps.Exporter.Export(&buf, history); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(buf.String()), nil
	}
}

// --- upload_backup ---

func uploadTool() mcp.Tool {
	return mcp.NewTool("upload_backup",
		mcp.WithDescription("Upload the full history to the remote backup document, creating it on first use."),
	)
}

func uploadHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewUploadCommand(deps.Guard, deps.Remote, deps.store(), deps.Session)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return statusError("upload", err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- download_backup ---

func downloadTool() mcp.Tool {
	return mcp.NewTool("download_backup",
		mcp.WithDescription("Download the remote backup and merge it into the local history. Nothing local is lost."),
	)
}

func downloadHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewDownloadCommand(deps.Guard, deps.Remote, deps.store(), deps.Session)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return statusError("download", err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- clear_history ---

func clearTool() mcp.Tool {
	return mcp.NewTool("clear_history",
		mcp.WithDescription("Permanently delete all recorded scans. "+commands.ClearPrompt+" Pass confirm=true to proceed."),
		mcp.WithBoolean("confirm",
			mcp.Description("Must be true to actually clear the history"),
			mcp.Required(),
		),
	)
}

func clearHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		confirmed := req.GetBool("confirm", false)

		result, err := commands.NewClearCommand(deps.store(), confirmed).Execute(ctx)
		if err != nil {
			return statusError("clear", err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s (%d records removed)", result.Message, result.Removed)), nil
	}
}
