package commands

import (
	"context"
	"flag"
	"fmt"

	"tasker/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasker help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasker                                           Show the task list
  tasker list [common flags] [--refresh]
  tasker login [common flags] [--username <name>] [--password <password>]
  tasker logout [common flags]
  tasker add [common flags] [--desc <text>] [title...]
  tasker edit [common flags] [--desc <text>] <n> [title...]
  tasker done [common flags] <n>
  tasker undone [common flags] <n>
  tasker rm [common flags] <n>
  tasker shell [common flags]
  tasker help
  tasker version

Tasks are numbered as shown by tasker list.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKER_API_URL       Backend base URL (default https://demo2.z-bit.ee)
  TASKER_TIMEOUT       Request timeout, e.g. 10s (default none)
  TASKER_SYNC_POLICY   optimistic or confirmed (default optimistic)
  TASKER_USERNAME      Username for tasker login
  TASKER_PASSWORD      Password for tasker login
`
