// Package cli defines the c4dmcp command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/cinema4d-mcp/cli/internal/infrastructure/config"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds the dependencies shared by the commands. Config is
// loaded once before the command tree runs; In/Out exist so tests can
// drive interactive commands.
type CLIContainer struct {
	Config *config.Config
	In     io.Reader
	Out    io.Writer
}

// NewContainer loads the configuration and wires the standard streams.
func NewContainer() (*CLIContainer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &CLIContainer{
		Config: cfg,
		In:     os.Stdin,
		Out:    os.Stdout,
	}, nil
}

// NewRootCommand builds the base command with all subcommands attached.
func NewRootCommand(container *CLIContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "c4dmcp",
		Short: "Cinema 4D MCP - connect Claude to Cinema 4D",
		Long: `c4dmcp bridges Claude Desktop and Cinema 4D over the Model Context
Protocol. It installs the Cinema 4D plugin, configures Claude Desktop, and
serves MCP tools that forward scene commands to the running application.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigOverrides(cmd, container)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("host", "", "Cinema 4D bridge host (default localhost)")
	rootCmd.PersistentFlags().Int("port", 0, "Cinema 4D bridge port (default 9877)")

	rootCmd.AddCommand(NewInstallCommand(container))
	rootCmd.AddCommand(NewServeCommand(container))
	rootCmd.AddCommand(NewValidateCommand(container))
	rootCmd.AddCommand(NewChatCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary.
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applyConfigOverrides folds explicitly set global flags into the loaded
// configuration before any command runs.
func applyConfigOverrides(cmd *cobra.Command, container *CLIContainer) error {
	if container.Config == nil {
		container.Config = config.DefaultConfig()
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		container.Config.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		container.Config.Port = port
	}
	if cmd.Flags().Changed("debug") {
		debugFlag, _ := cmd.Flags().GetBool("debug")
		container.Config.Debug = debugFlag
	}

	return config.Validate(container.Config)
}

// Execute runs the command tree and exits non-zero on error. The context
// bounds long-running commands like serve.
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
