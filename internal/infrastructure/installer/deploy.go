package installer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactName is the filename the plugin artifact keeps inside the Cinema
// 4D plugins directory. Cinema 4D loads .pyp files from there on startup.
const ArtifactName = "c4d_mcp_bridge.pyp"

// Deploy writes the plugin artifact into targetDir, creating the directory
// if absent and overwriting any same-named file. Returns the final path.
func Deploy(targetDir string, data []byte) (string, error) {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("create plugins directory %s: %w", targetDir, err)
	}

	path := filepath.Join(targetDir, ArtifactName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write plugin artifact %s: %w", path, err)
	}
	return path, nil
}

// IsDeployed reports whether targetDir already holds a byte-identical copy
// of the artifact. Used only for reporting; Deploy overwrites regardless.
func IsDeployed(targetDir string, data []byte) bool {
	existing, err := os.ReadFile(filepath.Join(targetDir, ArtifactName))
	if err != nil {
		return false
	}
	return bytes.Equal(existing, data)
}
