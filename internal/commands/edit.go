package commands

import (
	"context"
	"flag"
	"strings"

	"tasker/internal/exitcode"
	"tasker/internal/view"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. The title and the description are
// separate updates, as in the list view where each field is edited on its
// own.
type EditCmd struct {
	desc optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title or description" }
func (c *EditCmd) Usage() string     { return "tasker edit [--desc <text>] <n> [title...]" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.desc = optionalString{}
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 && len(args) < 2 && !c.desc.set {
		env.errorf("title or --desc required")
		return exitcode.UserError
	}

	list, row, rest, code := resolveRow(ctx, env, args, view.MsgLoginToUpdate)
	if code != exitcode.Success {
		return code
	}

	if len(rest) > 0 {
		if err := list.EditTitle(ctx, row.ID, strings.Join(rest, " ")); err != nil {
			return codeFor(err)
		}
	}
	if c.desc.set {
		if err := list.EditDesc(ctx, row.ID, c.desc.value); err != nil {
			return codeFor(err)
		}
	}
	return exitcode.Success
}
