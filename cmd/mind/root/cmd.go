// Package rootcmd wires the root cobra.Command for the mind CLI binary.
package rootcmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-ports/mind/cmd/mind/shared"
	"github.com/go-ports/mind/internal/command"
	"github.com/go-ports/mind/internal/output"
)

// argsGuard is put in front of the arguments by Execute. cobra stops looking
// for subcommands at "--", so tokens such as "__complete" are never routed to
// its hidden completion command. RunE drops the guard again.
const argsGuard = "--"

// New creates and returns the root cobra.Command for the mind CLI.
//
// Flag parsing is disabled: every argument, including ones that look like
// flags, is handed to the command dispatcher unchanged. Run it with Execute.
func New(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:                "mind <command> [args...]",
		Short:              "mind — organize memories into spaces",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && args[0] == argsGuard {
				args = args[1:]
			}
			store, logger, err := ctx.Open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := output.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return command.New(logger).Execute(args, store, out)
		},
	}
}

// Execute runs root with args. All of them reach the dispatcher, including
// the names cobra reserves for shell completion.
func Execute(ctx context.Context, root *cobra.Command, args []string) error {
	guarded := make([]string, 0, len(args)+1)
	guarded = append(guarded, argsGuard)
	root.SetArgs(append(guarded, args...))
	return root.ExecuteContext(ctx)
}

// Run executes the mind CLI with args and returns the process exit code.
// A failing command has its message written to stderr.
func Run(ctx context.Context, sc *shared.Context, args []string, stdout, stderr io.Writer) int {
	root := New(sc)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := Execute(ctx, root, args); err != nil {
		output.NewConsole(stdout, stderr).Error(err.Error())
		return 1
	}
	return 0
}
