package commands

import (
	"context"
	"flag"

	"tasker/internal/exitcode"
	"tasker/internal/view"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "tasker done <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string) int {
	return runSetDone(ctx, env, args, true)
}

// UndoneCmd implements the undone command.
type UndoneCmd struct{}

func (c *UndoneCmd) Name() string      { return "undone" }
func (c *UndoneCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoneCmd) Synopsis() string  { return "Mark a task not completed" }
func (c *UndoneCmd) Usage() string     { return "tasker undone <n>" }
func (c *UndoneCmd) NeedsAuth() bool   { return true }

func (c *UndoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoneCmd) Run(ctx context.Context, env *Env, args []string) int {
	return runSetDone(ctx, env, args, false)
}

// runSetDone is the shared implementation for done and undone.
func runSetDone(ctx context.Context, env *Env, args []string, done bool) int {
	list, row, rest, code := resolveRow(ctx, env, args, view.MsgLoginToStatus)
	if code != exitcode.Success {
		return code
	}
	if len(rest) > 0 {
		env.errorf("unexpected argument: %s", rest[0])
		return exitcode.UserError
	}

	if err := list.SetDone(ctx, row.ID, done); err != nil {
		return codeFor(err)
	}
	return exitcode.Success
}
