package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the CLI configuration shared by every command.
type Config struct {
	// Host and Port locate the socket server the Cinema 4D plugin opens
	// inside the application.
	Host string `json:"host"`
	Port int    `json:"port"`

	// TimeoutSeconds bounds a single command round-trip. Rendering can be
	// slow, so the default is generous.
	TimeoutSeconds int `json:"timeout_seconds"`

	Debug bool `json:"debug"`

	// DataDir holds chat exports, the staged plugin artifact, and the serve
	// log. Empty means the default under the user config directory.
	DataDir string `json:"data_dir,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:           "localhost",
		Port:           9877,
		TimeoutSeconds: 30,
		Debug:          false,
	}
}

// Load reads configuration from the config file, then applies environment
// overrides. A missing file is not an error; defaults are returned.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("C4DMCP_HOST"); host != "" {
		cfg.Host = host
	}

	if port := os.Getenv("C4DMCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p < 65536 {
			cfg.Port = p
		}
	}

	if timeout := os.Getenv("C4DMCP_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			cfg.TimeoutSeconds = t
		}
	}

	if os.Getenv("C4DMCP_DEBUG") == "true" {
		cfg.Debug = true
	}

	if dir := os.Getenv("C4DMCP_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
}

// Save writes the configuration to the default config file, creating the
// directory if needed.
func Save(cfg *Config) error {
	return SaveTo(cfg, Path())
}

// SaveTo writes the configuration to an explicit path.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Path returns the location of the config file.
func Path() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".c4dmcp-config.json"
	}
	return filepath.Join(homeDir, ".config", "c4dmcp", "config.json")
}

// ResolveDataDir returns the directory for chat exports, the staged plugin
// artifact, and log output, falling back to the default next to the config
// file when the configuration does not name one.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".c4dmcp"
	}
	return filepath.Join(homeDir, ".config", "c4dmcp", "data")
}

// Timeout returns the command round-trip timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate normalizes out-of-range values instead of failing: a config file
// edited by hand should degrade to defaults, not break the CLI.
func Validate(cfg *Config) error {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = 9877
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}

	return nil
}
