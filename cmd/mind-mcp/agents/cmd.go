// Package agentscmd implements the `mind-mcp install` and `mind-mcp uninstall`
// command groups.
package agentscmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mind/cmd/mind/shared"
	"github.com/go-ports/mind/internal/agents"
)

// Command implements one of the install/uninstall groups.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// target is one agent subcommand: its config directory and the two actions.
type target struct {
	name      string
	title     string
	dotDir    string // empty when the agent takes no config directory
	install   func(dir string, project bool) (agents.Result, error)
	uninstall func(dir string, project bool) (agents.Result, error)
}

var targets = []target{
	{
		name: "claude-code", title: "Claude Code", dotDir: ".claude",
		install:   agents.InstallClaudeCode,
		uninstall: agents.UninstallClaudeCode,
	},
	{
		name: "cursor", title: "Cursor", dotDir: ".cursor",
		install:   func(dir string, _ bool) (agents.Result, error) { return agents.InstallCursor(dir) },
		uninstall: func(dir string, _ bool) (agents.Result, error) { return agents.UninstallCursor(dir) },
	},
	{
		name: "codex", title: "Codex", dotDir: ".codex",
		install:   func(dir string, _ bool) (agents.Result, error) { return agents.InstallCodex(dir) },
		uninstall: func(dir string, _ bool) (agents.Result, error) { return agents.UninstallCodex(dir) },
	},
	{
		name: "opencode", title: "OpenCode",
		install:   func(_ string, project bool) (agents.Result, error) { return agents.InstallOpencode(project) },
		uninstall: func(_ string, project bool) (agents.Result, error) { return agents.UninstallOpencode(project) },
	},
}

// NewInstall creates the install command group.
func NewInstall(ctx *shared.Context) *Command {
	return newGroup(ctx, "install", "Register mind-mcp with a coding agent", true)
}

// NewUninstall creates the uninstall command group.
func NewUninstall(ctx *shared.Context) *Command {
	return newGroup(ctx, "uninstall", "Remove mind-mcp from a coding agent", false)
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

//revive:disable:flag-parameter
func newGroup(ctx *shared.Context, use, short string, install bool) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   use,
		Short: short,
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, t := range targets {
		c.cmd.AddCommand(newTarget(t, install))
	}
	return c
}

func newTarget(t target, install bool) *cobra.Command {
	var configDir string
	var project bool

	action, verb := t.uninstall, "Remove mind-mcp from"
	if install {
		action, verb = t.install, "Register mind-mcp with"
	}

	cmd := &cobra.Command{
		Use:   t.name,
		Short: fmt.Sprintf("%s %s", verb, t.title),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := configDir
			if dir == "" && t.dotDir != "" {
				dir = agents.DefaultDir(t.dotDir, project)
			}
			res, err := action(dir, project)
			if err != nil {
				return fmt.Errorf("%s: %w", t.name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	if t.dotDir != "" {
		cmd.Flags().StringVar(&configDir, "config-dir", "", fmt.Sprintf("Path to %s directory", t.dotDir))
	}
	cmd.Flags().BoolVar(&project, "project", false, "Use the current project instead of the global config")
	return cmd
}

//revive:enable:flag-parameter
