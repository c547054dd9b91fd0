package commands

import (
	"context"
	"flag"

	"tasker/internal/exitcode"
	"tasker/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command, the home view.
// Handles both `tasker` (no args) and `tasker list`.
type ListCmd struct {
	refresh bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "Show the task list" }
func (c *ListCmd) Usage() string     { return "tasker list [common flags] [--refresh]" }
func (c *ListCmd) NeedsAuth() bool   { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.refresh, "refresh", false, "")
	fs.BoolVar(&c.refresh, "r", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		env.errorf("unexpected argument: %s", args[0])
		return exitcode.UserError
	}
	if c.refresh {
		// Refetch instead of showing the shell's cached list
		env.List = nil
	}
	return showList(ctx, env)
}

// showList renders the home view. Anonymous sessions get the login action
// only; a failed fetch is rendered in place of the list.
func showList(ctx context.Context, env *Env) int {
	list := env.List
	code := exitcode.Success
	if list == nil {
		list = env.newTaskList()
		if err := list.Mount(ctx); err != nil {
			code = codeFor(err)
		}
		if env.interactive && code == exitcode.Success {
			env.List = list
		}
	}

	output.RenderList(env.Out, list.Snapshot())
	return code
}
