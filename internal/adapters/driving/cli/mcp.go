package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/mcp"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can browse
projects, knowledge bases and documents and ask scoped questions.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve over HTTP instead.

Tools: ask, list_projects, list_knowledge_bases, list_documents,
document_profile.
Resources: docfoundry://scope, docfoundry://runs,
docfoundry://documents/{id}/profile.

Examples:
  # Stdio mode (default)
  docfoundry mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  docfoundry mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "docfoundry": {
        "command": "/path/to/docfoundry",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Conversation: conversation,
		Scope:        scopeController,
		Profiles:     profileResolver,
		Runs:         runService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}
	defer scopeController.Wait()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		logger.Info("MCP server listening on %s", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
