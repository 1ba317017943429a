package cli

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cinema4d-mcp/cli/internal/assets"
	"github.com/cinema4d-mcp/cli/internal/core/install"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/clientconfig"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/config"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/installer"
)

// NewInstallCommand creates the install command.
func NewInstallCommand(container *CLIContainer) *cobra.Command {
	var (
		pluginsDir     string
		launchCommand  string
		nonInteractive bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the Cinema 4D plugin and configure Claude Desktop",
		Long: `Install runs the full setup:

- Resolve the c4dmcp launch command
- Materialize the support directory and configuration
- Locate the Cinema 4D plugins directory
- Copy the bridge plugin into it
- Write the Claude Desktop MCP configuration

When no plugins directory is found you are asked for one; leaving the
prompt empty skips plugin deployment and the rest still completes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(container, pluginsDir, launchCommand, nonInteractive)
		},
	}

	cmd.Flags().StringVar(&pluginsDir, "plugins-dir", "", "Cinema 4D plugins directory (skips discovery)")
	cmd.Flags().StringVar(&launchCommand, "command", "", "launch command to write into the client config (default: this binary)")
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; skip steps that would need input")

	return cmd
}

func runInstall(container *CLIContainer, pluginsDir, launchCommand string, nonInteractive bool) error {
	fmt.Fprintln(container.Out, "🚀 Cinema 4D MCP Installer")
	fmt.Fprintln(container.Out, "")

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	appData := os.Getenv("APPDATA")

	runner := &install.Runner{
		ResolveCommand: func() (string, error) {
			return resolveLaunchCommand(launchCommand)
		},
		PrepareEnvironment: func() (string, error) {
			return prepareEnvironment(container.Config)
		},
		DiscoverPluginDir: func() (string, bool) {
			if pluginsDir != "" {
				return pluginsDir, true
			}
			candidate, found := installer.Discover(installer.Candidates(runtime.GOOS, home, appData))
			return candidate.Path, found
		},
		DeployPlugin: func(dir string) (string, error) {
			return installer.Deploy(dir, assets.PluginArtifact)
		},
		ConfigureClient: func(command string) (*install.ClientConfigResult, error) {
			return configureClient(command, home, appData)
		},
		Out: container.Out,
	}
	if !nonInteractive {
		runner.In = container.In
	}

	_, err = runner.Run()
	return err
}

// resolveLaunchCommand returns the absolute command Claude Desktop will run.
// With no override that is the installer binary itself.
func resolveLaunchCommand(override string) (string, error) {
	if override != "" {
		path, err := exec.LookPath(override)
		if err != nil {
			return "", fmt.Errorf("command %q not found: %w\nInstall it first (%s) or drop --command to use this binary", override, err, installHint())
		}
		return path, nil
	}
	return os.Executable()
}

// installHint names the platform's usual package manager for the
// remediation message.
func installHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "brew install"
	case "windows":
		return "winget install"
	default:
		return "apt/dnf install"
	}
}

// prepareEnvironment creates the support directory, stages a copy of the
// plugin artifact next to the config, and persists the configuration.
func prepareEnvironment(cfg *config.Config) (string, error) {
	dataDir := cfg.ResolveDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	if _, err := installer.Deploy(dataDir, assets.PluginArtifact); err != nil {
		return "", fmt.Errorf("stage plugin artifact: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return "", fmt.Errorf("write configuration: %w", err)
	}
	return dataDir, nil
}

// configureClient writes the Claude Desktop config, or renders the document
// for manual placement when no location is writable.
func configureClient(command, home, appData string) (*install.ClientConfigResult, error) {
	doc := clientconfig.NewDocument(command, []string{"serve"})

	path, ok := clientconfig.SelectPath(clientconfig.CandidatePaths(runtime.GOOS, home, appData))
	if !ok {
		rendered, err := doc.Render()
		if err != nil {
			return nil, err
		}
		return &install.ClientConfigResult{FallbackDocument: rendered}, nil
	}

	result, err := clientconfig.Write(path, doc)
	if err != nil {
		return nil, err
	}
	return &install.ClientConfigResult{
		Path:             path,
		BackupPath:       result.BackupPath,
		DisplacedServers: result.DisplacedServers,
	}, nil
}
