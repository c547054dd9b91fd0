package commands

import (
	"context"
	"flag"
	"strings"

	"tasker/internal/exitcode"
	"tasker/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
// Without a title the task is created as "New Task".
type AddCmd struct {
	desc string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "tasker add [--desc <text>] [title...]" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	task := service.NewTask()
	if len(args) > 0 {
		title := strings.Join(args, " ")
		if strings.TrimSpace(title) == "" {
			env.errorf("title required")
			return exitcode.UserError
		}
		task.Title = title
	}
	task.Desc = c.desc

	// Adding does not need the current list, only a session
	list := env.List
	if list == nil {
		list = env.newTaskList()
	}
	if _, err := list.Add(ctx, task); err != nil {
		return codeFor(err)
	}
	return exitcode.Success
}
