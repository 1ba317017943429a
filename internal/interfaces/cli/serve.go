package cli

import (
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/cinema4d-mcp/cli/internal/core/chat"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/bridge"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/logging"
	"github.com/cinema4d-mcp/cli/internal/interfaces/mcpserver"
)

// NewServeCommand creates the serve command, the entry point Claude Desktop
// launches. MCP runs over stdio, so all logging stays off stdout.
func NewServeCommand(container *CLIContainer) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools for Cinema 4D over stdio",
		Long: `Serve speaks the Model Context Protocol on stdin/stdout and forwards
tool calls to the Cinema 4D plugin over its local socket. Claude Desktop
starts this command itself; running it by hand is mostly useful with an
MCP inspector.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, container, logFile)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file (default: c4dmcp.log in the data dir)")

	return cmd
}

func runServe(cmd *cobra.Command, container *CLIContainer, logFile string) error {
	cfg := container.Config

	if logFile == "" {
		logFile = filepath.Join(cfg.ResolveDataDir(), "c4dmcp.log")
	}
	log, closer, err := logging.New(logging.Options{
		Debug:    cfg.Debug,
		FilePath: logFile,
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer closer.Close()

	client := bridge.New(cfg.Host, cfg.Port, cfg.Timeout(), log)
	defer client.Close()

	server := mcpserver.New(client, chat.NewManager(), Version, log)
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
