package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinema4d-mcp/cli/internal/assets"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/clientconfig"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/installer"
)

func TestInstall_EndToEnd_WithExplicitPluginsDir(t *testing.T) {
	container, out := newTestContainer(t)
	pluginsDir := t.TempDir()

	root := NewRootCommand(container)
	root.SetArgs([]string{"install", "--plugins-dir", pluginsDir, "--non-interactive"})
	require.NoError(t, root.Execute())

	// Plugin deployed
	artifact := filepath.Join(pluginsDir, installer.ArtifactName)
	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, assets.PluginArtifact, data)

	// Support files staged
	staged := filepath.Join(container.Config.ResolveDataDir(), installer.ArtifactName)
	assert.FileExists(t, staged)

	// Client configured with a serve entry for this binary
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	configPath, found := findClientConfig(home, os.Getenv("APPDATA"))
	require.True(t, found, "client config should have been written")

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), clientconfig.ServerName)
	assert.Contains(t, string(content), "serve")

	self, err := os.Executable()
	require.NoError(t, err)
	assert.Contains(t, string(content), strings.ReplaceAll(self, `\`, `\\`))

	assert.Contains(t, out.String(), "Installation finished")
}

func TestInstall_NoPluginsDir_NonInteractive_SkipsDeployment(t *testing.T) {
	container, out := newTestContainer(t)

	root := NewRootCommand(container)
	root.SetArgs([]string{"install", "--non-interactive"})
	require.NoError(t, root.Execute(), "missing plugins dir must not fail the run")

	assert.Contains(t, out.String(), "Skipping plugin deployment")
	assert.Contains(t, out.String(), "Installation finished")
}

func TestInstall_ManualPluginsDirPrompt(t *testing.T) {
	container, out := newTestContainer(t)
	pluginsDir := t.TempDir()
	container.In = strings.NewReader(pluginsDir + "\n")

	root := NewRootCommand(container)
	root.SetArgs([]string{"install"})
	require.NoError(t, root.Execute())

	assert.FileExists(t, filepath.Join(pluginsDir, installer.ArtifactName))
	assert.Contains(t, out.String(), "Plugin installed")
}

func TestInstall_SecondRunBacksUpClientConfig(t *testing.T) {
	container, _ := newTestContainer(t)
	pluginsDir := t.TempDir()

	run := func() {
		root := NewRootCommand(container)
		root.SetArgs([]string{"install", "--plugins-dir", pluginsDir, "--non-interactive"})
		require.NoError(t, root.Execute())
	}
	run()
	run()

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	configPath, found := findClientConfig(home, os.Getenv("APPDATA"))
	require.True(t, found)
	assert.FileExists(t, configPath+clientconfig.BackupSuffix)
}

func TestInstall_DiscoveredPluginsDirUsedWithoutPrompt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("discovery roots derive from HOME on this platform")
	}

	container, out := newTestContainer(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	release := installer.Releases()[0]
	discovered := filepath.Join(home, ".maxon", "Cinema 4D "+release, "plugins")
	require.NoError(t, os.MkdirAll(discovered, 0o755))

	root := NewRootCommand(container)
	root.SetArgs([]string{"install", "--non-interactive"})
	require.NoError(t, root.Execute())

	assert.FileExists(t, filepath.Join(discovered, installer.ArtifactName))
	assert.Contains(t, out.String(), discovered)
}
