// Package clientconfig writes the desktop AI client's MCP server registry
// entry for the Cinema 4D bridge.
package clientconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ServerName is the key this installation claims in the client's mcpServers
// registry.
const ServerName = "cinema4d"

// BackupSuffix is appended to the original filename before overwriting.
const BackupSuffix = ".backup"

// ServerEntry is one launch descriptor in the client's server registry.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// Document is the client configuration file. Only the server registry key is
// recognized; anything else in a pre-existing file is not carried over.
type Document struct {
	MCPServers map[string]ServerEntry `json:"mcpServers"`
}

// NewDocument builds the fixed configuration skeleton with the single
// cinema4d entry.
func NewDocument(command string, args []string) *Document {
	return &Document{
		MCPServers: map[string]ServerEntry{
			ServerName: {Command: command, Args: args},
		},
	}
}

// Render returns the document as indented JSON, for writing or for the
// stdout fallback when no config location is writable.
func (d *Document) Render() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// CandidatePaths returns the client config file locations to try, in order.
// Windows uses the single APPDATA-derived path; the POSIX platforms probe
// two spellings of the config directory.
func CandidatePaths(goos, home, appData string) []string {
	switch goos {
	case "windows":
		return []string{filepath.Join(appData, "Claude", "claude_desktop_config.json")}
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"),
			filepath.Join(home, ".config", "Claude", "claude_desktop_config.json"),
		}
	default:
		return []string{
			filepath.Join(home, ".config", "Claude", "claude_desktop_config.json"),
			filepath.Join(home, ".config", "claude", "claude_desktop_config.json"),
		}
	}
}

// SelectPath returns the first candidate whose parent directory exists or
// can be created. ok is false when every candidate is unusable; the caller
// then falls back to printing the document.
func SelectPath(candidates []string) (string, bool) {
	for _, path := range candidates {
		dir := filepath.Dir(path)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return path, true
		}
		if err := os.MkdirAll(dir, 0755); err == nil {
			return path, true
		}
	}
	return "", false
}

// WriteResult reports what a Write did.
type WriteResult struct {
	// BackupPath is the backup file created from a pre-existing config, or
	// empty when there was nothing to back up.
	BackupPath string

	// DisplacedServers lists server registry entries other than ours that
	// the pre-existing file carried. The write replaces the whole file, so
	// these entries are gone from the live config (still present in the
	// backup). Callers should warn about them.
	DisplacedServers []string
}

// Write replaces the configuration file at path with the document. A
// pre-existing file is first copied byte-identically to path+BackupSuffix.
// The file is replaced wholesale, never merged; displaced entries are
// reported so the caller can flag the loss.
func Write(path string, doc *Document) (*WriteResult, error) {
	res := &WriteResult{}

	if existing, err := os.ReadFile(path); err == nil {
		res.DisplacedServers = foreignServers(existing)

		backupPath := path + BackupSuffix
		if err := os.WriteFile(backupPath, existing, 0644); err != nil {
			return nil, fmt.Errorf("back up existing config to %s: %w", backupPath, err)
		}
		res.BackupPath = backupPath
	}

	data, err := doc.Render()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("write client config %s: %w", path, err)
	}
	return res, nil
}

// foreignServers lists mcpServers keys other than ours in a config file.
// Unparseable files report nothing; the backup still preserves them.
func foreignServers(data []byte) []string {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	var out []string
	for name := range doc.MCPServers {
		if name != ServerName {
			out = append(out, name)
		}
	}
	return out
}
