package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cinema4d-mcp/cli/internal/assets"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/bridge"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/clientconfig"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/config"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/installer"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/logging"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the installation and the connection to Cinema 4D",
		Long: `Validate checks the pieces the installer set up:

- Configuration file
- Cinema 4D plugin deployment
- Claude Desktop configuration
- Socket connection to the running plugin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, container)
		},
	}
}

func runValidate(cmd *cobra.Command, container *CLIContainer) error {
	out := container.Out
	cfg := container.Config

	fmt.Fprintln(out, "🔍 Cinema 4D MCP Validation")
	fmt.Fprintln(out, "")

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	appData := os.Getenv("APPDATA")

	fmt.Fprintf(out, "Configuration: %s (%s:%d, timeout %s)\n",
		config.Path(), cfg.Host, cfg.Port, cfg.Timeout())

	// Plugin deployment
	if candidate, found := installer.Discover(installer.Candidates(runtime.GOOS, home, appData)); found {
		if installer.IsDeployed(candidate.Path, assets.PluginArtifact) {
			fmt.Fprintf(out, "✅ Plugin deployed: %s\n", candidate.Path)
		} else {
			fmt.Fprintf(out, "⚠️  Plugins directory found but the bridge plugin is missing or outdated: %s\n", candidate.Path)
			fmt.Fprintln(out, "   Run 'c4dmcp install' to deploy it.")
		}
	} else {
		fmt.Fprintln(out, "⚠️  No Cinema 4D plugins directory found.")
	}

	// Claude Desktop configuration
	if path, found := findClientConfig(home, appData); found {
		fmt.Fprintf(out, "✅ Claude Desktop config: %s\n", path)
	} else {
		fmt.Fprintln(out, "⚠️  Claude Desktop config not found. Run 'c4dmcp install'.")
	}

	// Live connection
	fmt.Fprintf(out, "Connecting to %s:%d... ", cfg.Host, cfg.Port)
	log, closer, err := logging.New(logging.Options{Debug: cfg.Debug})
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	client := bridge.New(cfg.Host, cfg.Port, cfg.Timeout(), log)
	defer client.Close()

	if err := client.Ping(cmd.Context()); err != nil {
		fmt.Fprintln(out, "❌ Failed")
		return fmt.Errorf("Cinema 4D is not reachable: %w\n\nStart Cinema 4D and enable the MCP bridge plugin, then try again", err)
	}
	fmt.Fprintln(out, "✅ Connected")

	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "🎉 Everything looks good.")
	return nil
}

// findClientConfig returns the first existing Claude Desktop config path.
func findClientConfig(home, appData string) (string, bool) {
	for _, path := range clientconfig.CandidatePaths(runtime.GOOS, home, appData) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
