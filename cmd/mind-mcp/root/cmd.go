// Package rootcmd wires the root cobra.Command for the mind-mcp binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	agentscmd "github.com/go-ports/mind/cmd/mind-mcp/agents"
	"github.com/go-ports/mind/cmd/mind/shared"
	"github.com/go-ports/mind/internal/buildinfo"
	"github.com/go-ports/mind/internal/command"
	internalmcp "github.com/go-ports/mind/internal/mcp"
)

// New creates and returns the root cobra.Command for mind-mcp. Run without
// a subcommand it serves over stdio until stdin closes.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "mind-mcp",
		Short:         "Serve mind spaces and memories to coding agents over MCP (stdio)",
		Version:       buildinfo.Version + " (" + buildinfo.GitCommit + ")",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, logger, err := ctx.Open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger.Debug("mcp: serving", "storage", store.Path())
			return internalmcp.Serve(cmd.Context(), store, command.New(logger))
		},
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override mind home directory (default: $MIND_HOME env → persisted config → ~/.mind)",
	)

	root.AddCommand(
		agentscmd.NewInstall(ctx).Cmd(),
		agentscmd.NewUninstall(ctx).Cmd(),
	)

	return root
}
