package main

import (
	"github.com/spf13/cobra"
	"github.com/unowned-ai/mimal/pkg/mcp"
	"go.uber.org/zap"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Mimal MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes voice notes and
documents as MCP tools via STDIO.

Logs go to stderr so the JSON-RPC stream on stdout stays clean.

Example:
  mimal mcp
  mimal mcp --db notes.db --tz Asia/Bangkok
  mimal mcp --backend redis --redis-url redis://localhost:6379/0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}

		srv := mcp.NewMimalMCPServer(store, medium, log)
		defer srv.Close()

		log.Info("mimal MCP server started",
			zap.String("backend", backendName()),
			zap.String("storage", storageLabel()),
			zap.String("today", store.Today()))

		// Blocks until stdin closes.
		return srv.Start()
	},
}
