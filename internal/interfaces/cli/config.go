package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cinema4d-mcp/cli/internal/infrastructure/config"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage configuration settings for c4dmcp.

Settings can also be overridden per run with C4DMCP_* environment
variables (C4DMCP_HOST, C4DMCP_PORT, C4DMCP_TIMEOUT, C4DMCP_DEBUG,
C4DMCP_DATA_DIR).`,
	}

	configCmd.AddCommand(NewConfigShowCommand(container))
	configCmd.AddCommand(NewConfigSetCommand(container))
	configCmd.AddCommand(NewConfigPathCommand(container))

	return configCmd
}

// NewConfigShowCommand creates the show subcommand.
func NewConfigShowCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := container.Config
			fmt.Fprintln(container.Out, "Current Configuration:")
			fmt.Fprintf(container.Out, "Host: %s\n", cfg.Host)
			fmt.Fprintf(container.Out, "Port: %d\n", cfg.Port)
			fmt.Fprintf(container.Out, "Timeout: %s\n", cfg.Timeout())
			fmt.Fprintf(container.Out, "Debug: %t\n", cfg.Debug)
			fmt.Fprintf(container.Out, "Data Directory: %s\n", cfg.ResolveDataDir())
			return nil
		},
	}
}

// NewConfigSetCommand creates the set subcommand.
func NewConfigSetCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set one of: host, port, timeout, debug, data-dir.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := container.Config
			key, value := args[0], args[1]

			switch key {
			case "host":
				cfg.Host = value
			case "port":
				port, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("port must be a number: %w", err)
				}
				cfg.Port = port
			case "timeout":
				seconds, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("timeout must be a number of seconds: %w", err)
				}
				cfg.TimeoutSeconds = seconds
			case "debug":
				debugFlag, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("debug must be true or false: %w", err)
				}
				cfg.Debug = debugFlag
			case "data-dir":
				cfg.DataDir = value
			default:
				return fmt.Errorf("unknown setting %q (host, port, timeout, debug, data-dir)", key)
			}

			if err := config.Validate(cfg); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("save configuration: %w", err)
			}
			fmt.Fprintf(container.Out, "Set %s = %s\n", key, value)
			return nil
		},
	}
}

// NewConfigPathCommand creates the path subcommand.
func NewConfigPathCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(container.Out, "Configuration file path: %s\n", config.Path())
			return nil
		},
	}
}
