// Package agents registers and unregisters the mind-mcp server with coding
// agents (Claude Code, Cursor, Codex, OpenCode) by editing their config files.
package agents

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ServerName is the key the server is registered under in agent configs.
const ServerName = "mind"

// Binary is the command agents launch to reach the server.
const Binary = "mind-mcp"

// Result reports what an install or uninstall changed.
type Result struct {
	Changed bool
	Message string
}

func unchanged(msg string) Result { return Result{Message: msg} }

func changed(f string, a ...any) Result {
	return Result{Changed: true, Message: fmt.Sprintf(f, a...)}
}

// ErrInvalidConfig is returned when an agent config exists but cannot be parsed.
// The file is left untouched.
var ErrInvalidConfig = errors.New("invalid agent config")

// ErrManualEdit is returned when the server is registered in a form that
// cannot be removed without rewriting unrelated parts of the config.
var ErrManualEdit = errors.New("remove the server entry by hand")

// ---------------------------------------------------------------------------
// Server entries
// ---------------------------------------------------------------------------

var stdioEntry = map[string]any{
	"command": Binary,
	"args":    []any{},
	"type":    "stdio",
}

var opencodeEntry = map[string]any{
	"type":    "local",
	"command": []any{Binary},
}

// ---------------------------------------------------------------------------
// Default locations
// ---------------------------------------------------------------------------

// DefaultDir returns ~/<dotDir>, or <cwd>/<dotDir> when project is set.
//
//revive:disable:flag-parameter
func DefaultDir(dotDir string, project bool) string {
	if project {
		cwd, _ := os.Getwd()
		return filepath.Join(cwd, dotDir)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dotDir)
}

func claudeConfigPath(claudeHome string, project bool) string {
	if project {
		return filepath.Join(filepath.Dir(claudeHome), ".mcp.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude.json")
}

func opencodeConfigPath(project bool) string {
	if project {
		cwd, _ := os.Getwd()
		return filepath.Join(cwd, "opencode.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "opencode", "opencode.json")
}

//revive:enable:flag-parameter

// ---------------------------------------------------------------------------
// JSON configs
// ---------------------------------------------------------------------------

// document is a JSON config object. Keys keep their file order so rewriting
// a config only moves what was changed.
type document = orderedmap.OrderedMap[string, json.RawMessage]

func readJSON(path string) (*document, error) {
	doc := orderedmap.New[string, json.RawMessage]()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) || (err == nil && len(strings.TrimSpace(string(data))) == 0) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return doc, nil
}

func writeJSON(path string, doc *document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent config files hold server entries, not secrets
}

// section decodes the object stored under key, or returns an empty one.
func section(doc *document, key string) (*document, error) {
	sec := orderedmap.New[string, json.RawMessage]()
	raw, ok := doc.Get(key)
	if !ok {
		return sec, nil
	}
	if err := json.Unmarshal(raw, sec); err != nil {
		return nil, fmt.Errorf("%w: %q is not an object", ErrInvalidConfig, key)
	}
	return sec, nil
}

// addServer registers entry under doc[key][ServerName] in the file at path.
// It reports false when the server is already registered.
func addServer(path, key string, entry map[string]any) (bool, error) {
	doc, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, err := section(doc, key)
	if err != nil {
		return false, err
	}
	if _, exists := servers.Get(ServerName); exists {
		return false, nil
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	servers.Set(ServerName, raw)
	if raw, err = json.Marshal(servers); err != nil {
		return false, err
	}
	doc.Set(key, raw)
	return true, writeJSON(path, doc)
}

// removeServer drops doc[key][ServerName]. Emptied sections are removed and a
// config left with nothing in it is deleted.
func removeServer(path, key string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	doc, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, err := section(doc, key)
	if err != nil {
		return false, err
	}
	if _, present := servers.Delete(ServerName); !present {
		return false, nil
	}
	if servers.Len() == 0 {
		doc.Delete(key)
	} else {
		raw, err := json.Marshal(servers)
		if err != nil {
			return false, err
		}
		doc.Set(key, raw)
	}
	if doc.Len() == 0 {
		return true, os.Remove(path)
	}
	return true, writeJSON(path, doc)
}

// ---------------------------------------------------------------------------
// TOML config (Codex)
// ---------------------------------------------------------------------------

const tomlHeader = "[mcp_servers." + ServerName + "]"

const tomlSection = "\n" + tomlHeader + "\ncommand = \"" + Binary + "\"\nargs = []\n"

// hasTOMLServer reports whether the config at path registers the server.
// The file is edited as text so comments survive; it is parsed only to check.
func hasTOMLServer(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	has, err := tomlRegisters(data)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return has, nil
}

func tomlRegisters(data []byte) (bool, error) {
	var cfg struct {
		MCPServers map[string]any `toml:"mcp_servers"`
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return false, err
	}
	_, ok := cfg.MCPServers[ServerName]
	return ok, nil
}

func appendTOMLServer(path string) (bool, error) {
	has, err := hasTOMLServer(path)
	if err != nil || has {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if _, err := f.WriteString(tomlSection); err != nil {
		return false, err
	}
	return true, nil
}

// serverTable reports whether a trimmed line opens the server's table or one
// of its subtables. Whitespace, key quoting and trailing comments are ignored.
func serverTable(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[[") {
		return false
	}
	if i := strings.Index(trimmed, "#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	h := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '"', '\'':
			return -1
		}
		return r
	}, trimmed)
	return h == tomlHeader || strings.HasPrefix(h, strings.TrimSuffix(tomlHeader, "]")+".")
}

func removeTOMLServer(path string) (bool, error) {
	has, err := hasTOMLServer(path)
	if err != nil || !has {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	// Drop the server's tables and their key-value pairs up to the next header.
	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if serverTable(trimmed) {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(trimmed, "[") {
			inSection = false
		}
		if !inSection {
			kept = append(kept, line)
		}
	}
	cleaned := strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
	// Inline tables and dotted keys are left alone: the file is not rewritten.
	if still, err := tomlRegisters([]byte(cleaned)); err != nil || still {
		return false, fmt.Errorf("%w: %s: %s is not defined by a table header", ErrManualEdit, path, ServerName)
	}
	return true, os.WriteFile(path, []byte(cleaned), 0o644) // #nosec G306 -- agent TOML config is not a credential file
}

// ---------------------------------------------------------------------------
// Claude Code
// ---------------------------------------------------------------------------

// InstallClaudeCode registers the server in ~/.claude.json, or in the
// project's .mcp.json (next to claudeHome) when project is set.
//
//revive:disable:flag-parameter
func InstallClaudeCode(claudeHome string, project bool) (Result, error) {
	path := claudeConfigPath(claudeHome, project)
	added, err := addServer(path, "mcpServers", stdioEntry)
	if err != nil || !added {
		return unchanged("Already installed"), err
	}
	return changed("Installed: mcpServers in %s", path), nil
}

// UninstallClaudeCode reverses InstallClaudeCode.
func UninstallClaudeCode(claudeHome string, project bool) (Result, error) {
	path := claudeConfigPath(claudeHome, project)
	done, err := removeServer(path, "mcpServers")
	if err != nil || !done {
		return unchanged("Nothing to remove"), err
	}
	return changed("Removed: mcpServers from %s", path), nil
}

//revive:enable:flag-parameter

// ---------------------------------------------------------------------------
// Cursor
// ---------------------------------------------------------------------------

// InstallCursor registers the server in <cursorHome>/mcp.json.
func InstallCursor(cursorHome string) (Result, error) {
	path := filepath.Join(cursorHome, "mcp.json")
	added, err := addServer(path, "mcpServers", stdioEntry)
	if err != nil || !added {
		return unchanged("Already installed"), err
	}
	return changed("Installed: mcpServers in %s", path), nil
}

// UninstallCursor reverses InstallCursor.
func UninstallCursor(cursorHome string) (Result, error) {
	path := filepath.Join(cursorHome, "mcp.json")
	done, err := removeServer(path, "mcpServers")
	if err != nil || !done {
		return unchanged("Nothing to remove"), err
	}
	return changed("Removed: mcpServers from %s", path), nil
}

// ---------------------------------------------------------------------------
// Codex
// ---------------------------------------------------------------------------

// InstallCodex appends an [mcp_servers.mind] table to <codexHome>/config.toml.
func InstallCodex(codexHome string) (Result, error) {
	path := filepath.Join(codexHome, "config.toml")
	added, err := appendTOMLServer(path)
	if err != nil || !added {
		return unchanged("Already installed"), err
	}
	return changed("Installed: %s in %s", tomlHeader, path), nil
}

// UninstallCodex reverses InstallCodex.
func UninstallCodex(codexHome string) (Result, error) {
	path := filepath.Join(codexHome, "config.toml")
	done, err := removeTOMLServer(path)
	if err != nil || !done {
		return unchanged("Nothing to remove"), err
	}
	return changed("Removed: %s from %s", tomlHeader, path), nil
}

// ---------------------------------------------------------------------------
// OpenCode
// ---------------------------------------------------------------------------

// InstallOpencode registers the server under "mcp" in opencode.json.
//
//revive:disable:flag-parameter
func InstallOpencode(project bool) (Result, error) {
	path := opencodeConfigPath(project)
	added, err := addServer(path, "mcp", opencodeEntry)
	if err != nil || !added {
		return unchanged("Already installed"), err
	}
	return changed("Installed: mcp in %s", path), nil
}

// UninstallOpencode reverses InstallOpencode.
func UninstallOpencode(project bool) (Result, error) {
	path := opencodeConfigPath(project)
	done, err := removeServer(path, "mcp")
	if err != nil || !done {
		return unchanged("Nothing to remove"), err
	}
	return changed("Removed: mcp from %s", path), nil
}

//revive:enable:flag-parameter
