package commands

import (
	"context"
	"flag"

	"tasker/internal/exitcode"
	"tasker/internal/view"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "tasker rm <n>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	list, row, rest, code := resolveRow(ctx, env, args, view.MsgLoginToDelete)
	if code != exitcode.Success {
		return code
	}
	if len(rest) > 0 {
		env.errorf("unexpected argument: %s", rest[0])
		return exitcode.UserError
	}

	if err := list.Delete(ctx, row.ID); err != nil {
		return codeFor(err)
	}
	return exitcode.Success
}
