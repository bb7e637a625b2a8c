package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "scanlog/internal/adapters/mcp"
	"scanlog/internal/bootstrap"
	"scanlog/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("scanlog-mcp: %v", err)
	}
}

func run() error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the history database")
	flag.StringVar(&cfg.RemoteURL, "remote", cfg.RemoteURL, "document host base URL")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}

	rt, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	mcpServer := server.NewMCPServer(
		"scanlog-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	deps := mcpadapter.Deps{
		Session:  rt.Session,
		Remote:   rt.Remote,
		Guard:    rt.Guard,
		Exporter: rt.Exporter,
	}
	mcpadapter.RegisterReadTools(mcpServer, deps)
	mcpadapter.RegisterWriteTools(mcpServer, deps)

	if err := server.ServeStdio(mcpServer); err != nil {
		rt.Logger.Errorw("stdio server stopped", "error", err)
		return err
	}
	return nil
}
