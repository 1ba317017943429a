// Package install sequences the installer: a linear five-step procedure
// with no loops and no concurrency. Fatal steps abort the run; discovery
// misses degrade to an operator prompt or a stdout fallback and the run
// still succeeds.
package install

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Step names, in execution order.
const (
	StepCheckRuntime      = "check-runtime"
	StepInstallDeps       = "install-deps"
	StepDiscoverPluginDir = "discover-plugin-dir"
	StepDeployPlugin      = "deploy-plugin"
	StepConfigureClient   = "configure-client"
)

// Status of a completed step.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// StepResult records the outcome of one step.
type StepResult struct {
	Step   string
	Status Status
	Detail string
}

// Report collects the outcome of a full run.
type Report struct {
	Results []StepResult

	Command    string // resolved launch command written into the client config
	PluginDir  string // where the artifact landed, empty when skipped
	ConfigPath string // where the client config landed, empty on fallback
	BackupPath string // backup of a pre-existing client config, if any
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// ClientConfigResult is what the configure-client dependency reports back.
type ClientConfigResult struct {
	Path             string
	BackupPath       string
	DisplacedServers []string

	// FallbackDocument is set when no config location was usable; the
	// runner prints it for the operator to place manually.
	FallbackDocument []byte
}

// Runner wires the five steps to their implementations. Every field must be
// set except In/Out, which default to no input and discarded output.
type Runner struct {
	// ResolveCommand verifies the launch command that will be written into
	// the client configuration and returns it. Failure is fatal and happens
	// before any filesystem mutation.
	ResolveCommand func() (string, error)

	// PrepareEnvironment materializes the support environment (data
	// directory, staged artifact). Failure is fatal, no rollback.
	PrepareEnvironment func() (string, error)

	// DiscoverPluginDir probes the candidate plugin directories and returns
	// the first match.
	DiscoverPluginDir func() (string, bool)

	// DeployPlugin copies the artifact into the target directory.
	DeployPlugin func(dir string) (string, error)

	// ConfigureClient writes the client configuration for the resolved
	// command.
	ConfigureClient func(command string) (*ClientConfigResult, error)

	In  io.Reader
	Out io.Writer
}

// Run executes the installer sequence. The returned report always carries
// one result per attempted step; err is non-nil only for fatal failures
// (the process should then exit non-zero).
func (r *Runner) Run() (*Report, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	report := &Report{}
	record := func(step string, status Status, detail string) {
		report.Results = append(report.Results, StepResult{Step: step, Status: status, Detail: detail})
	}

	// CheckRuntime
	command, err := r.ResolveCommand()
	if err != nil {
		record(StepCheckRuntime, StatusFailed, err.Error())
		return report, fmt.Errorf("launch command not available: %w", err)
	}
	report.Command = command
	record(StepCheckRuntime, StatusOK, command)
	fmt.Fprintf(out, "✅ Launch command: %s\n", command)

	// InstallDeps
	dataDir, err := r.PrepareEnvironment()
	if err != nil {
		record(StepInstallDeps, StatusFailed, err.Error())
		return report, fmt.Errorf("prepare environment: %w", err)
	}
	record(StepInstallDeps, StatusOK, dataDir)
	fmt.Fprintf(out, "✅ Support files ready in %s\n", dataDir)

	// DiscoverPluginDir
	pluginDir, found := r.DiscoverPluginDir()
	if found {
		record(StepDiscoverPluginDir, StatusOK, pluginDir)
		fmt.Fprintf(out, "✅ Found Cinema 4D plugins directory: %s\n", pluginDir)
	} else {
		pluginDir = r.promptForPluginDir(out)
		if pluginDir == "" {
			record(StepDiscoverPluginDir, StatusSkipped, "no directory found, no manual path given")
			record(StepDeployPlugin, StatusSkipped, "plugin not deployed")
			fmt.Fprintln(out, "⚠️  Skipping plugin deployment. Copy the plugin into your Cinema 4D plugins directory manually.")
		} else {
			record(StepDiscoverPluginDir, StatusOK, pluginDir+" (manual)")
		}
	}

	// DeployPlugin
	if pluginDir != "" {
		deployed, err := r.DeployPlugin(pluginDir)
		if err != nil {
			record(StepDeployPlugin, StatusFailed, err.Error())
			return report, fmt.Errorf("deploy plugin: %w", err)
		}
		report.PluginDir = pluginDir
		record(StepDeployPlugin, StatusOK, deployed)
		fmt.Fprintf(out, "✅ Plugin installed: %s\n", deployed)
	}

	// ConfigureClient
	cfgResult, err := r.ConfigureClient(command)
	if err != nil {
		record(StepConfigureClient, StatusFailed, err.Error())
		return report, fmt.Errorf("configure client: %w", err)
	}
	if cfgResult.FallbackDocument != nil {
		record(StepConfigureClient, StatusSkipped, "no writable config location")
		fmt.Fprintln(out, "⚠️  Could not write the Claude Desktop configuration. Add this yourself:")
		fmt.Fprintln(out, string(cfgResult.FallbackDocument))
	} else {
		report.ConfigPath = cfgResult.Path
		report.BackupPath = cfgResult.BackupPath
		record(StepConfigureClient, StatusOK, cfgResult.Path)
		fmt.Fprintf(out, "✅ Claude Desktop configured: %s\n", cfgResult.Path)
		if cfgResult.BackupPath != "" {
			fmt.Fprintf(out, "   Previous configuration backed up to %s\n", cfgResult.BackupPath)
		}
		if len(cfgResult.DisplacedServers) > 0 {
			fmt.Fprintf(out, "⚠️  The previous configuration had other MCP servers (%s).\n",
				strings.Join(cfgResult.DisplacedServers, ", "))
			fmt.Fprintln(out, "   The file was replaced, not merged; restore them from the backup if you still need them.")
		}
	}

	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "🎉 Installation finished. Restart Cinema 4D and Claude Desktop.")
	return report, nil
}

// promptForPluginDir asks the operator for a manual path. Empty input or
// EOF/interrupt means skip; discovery degrades gracefully instead of
// failing the run.
func (r *Runner) promptForPluginDir(out io.Writer) string {
	if r.In == nil {
		return ""
	}

	fmt.Fprintln(out, "⚠️  No Cinema 4D plugins directory found.")
	fmt.Fprint(out, "Enter the plugins directory path (leave empty to skip): ")

	reader := bufio.NewReader(r.In)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(line)
}
