package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crateskel/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	Long: `Serves the skeleton, list_items and search_crates tools over the
Model Context Protocol so coding agents can read crate APIs directly.`,
	Run: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) {
	service, client, _ := newService()

	srv := mcp.NewServer(service, client)
	if err := srv.Run(); err != nil {
		log.Fatalf("mcp server failed: %v", err)
	}
}
