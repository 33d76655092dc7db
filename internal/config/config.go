// Package config handles configuration loading and mind home resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvHome names the environment variable that overrides the mind home.
const EnvHome = "MIND_HOME"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// Config is the per-home configuration read from <home>/config.yaml.
type Config struct {
	StoragePath string `yaml:"storage_path"` // relative paths are resolved against home
	LogLevel    string `yaml:"log_level"`    // "debug" | "info" | "warn" | "error"
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		StoragePath: "brain.json",
		LogLevel:    "warn",
	}
}

// Load reads a config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing or empty keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if v, ok := raw["storage_path"].(string); ok && strings.TrimSpace(v) != "" {
		cfg.StoragePath = strings.TrimSpace(v)
	}
	if v, ok := raw["log_level"].(string); ok && v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// StorageFile returns the absolute document path for a config rooted at home.
func (c *Config) StorageFile(home string) string {
	p := c.StoragePath
	if strings.HasPrefix(p, "~/") {
		if expanded, err := normalizePath(p); err == nil {
			return expanded
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}

// ---------------------------------------------------------------------------
// Home resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global mind config file.
// This file stores only mind_home.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mind", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveHome returns the mind home path and the source of the resolution.
// Priority: MIND_HOME env → persisted global config → ~/.mind
// source is one of "env", "config", or "default".
func ResolveHome() (path, source string) {
	if env := os.Getenv(EnvHome); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mind"), "default"
}

// GetHome returns the resolved mind home path.
func GetHome() string {
	path, _ := ResolveHome()
	return path
}

// GetPersistedHome reads mind_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", false, nil
	}

	val, _ := raw["mind_home"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}
