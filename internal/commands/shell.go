package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"tasker/internal/exitcode"
	"tasker/internal/logger"
	"tasker/internal/output"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the shell command: an interactive task list that
// keeps one session and one list for its whole lifetime. Each input line is
// a command without the "tasker" prefix.
type ShellCmd struct {
	// Registry resolves command lines. Nil means DefaultRegistry.
	Registry *Registry
}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return nil }
func (c *ShellCmd) Synopsis() string  { return "Run commands interactively" }
func (c *ShellCmd) Usage() string     { return "tasker shell [common flags]" }
func (c *ShellCmd) NeedsAuth() bool   { return false }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, env *Env, args []string) int {
	if env.interactive {
		env.errorf("already in a shell")
		return exitcode.UserError
	}
	if len(args) > 0 {
		env.errorf("unexpected argument: %s", args[0])
		return exitcode.UserError
	}

	registry := c.Registry
	if registry == nil {
		registry = DefaultRegistry
	}

	env.interactive = true
	defer func() {
		env.interactive = false
		env.List = nil
	}()

	showList(ctx, env)

	prompt := isTerminal(env)
	for ctx.Err() == nil {
		if prompt {
			fmt.Fprint(env.Out, "tasker> ")
		}
		line, err := env.readLine()
		if err != nil {
			break
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			break
		}

		code := c.runLine(ctx, env, registry, fields)
		logger.Debug().Str("command", fields[0]).Int("code", code).Msg("shell command")
	}
	return exitcode.Success
}

// runLine runs one command line and re-renders the list after task actions.
func (c *ShellCmd) runLine(ctx context.Context, env *Env, registry *Registry, fields []string) int {
	cmd, rest, err := registry.Resolve(fields)
	if err != nil {
		env.errorf("%v", err)
		return exitcode.UserError
	}
	if cmd.Name() == c.Name() {
		env.errorf("already in a shell")
		return exitcode.UserError
	}

	positional, err := ParseFlags(cmd, rest, nil)
	if err != nil {
		env.errorf("%v", err)
		return exitcode.UserError
	}

	code := cmd.Run(ctx, env, positional)
	if cmd.NeedsAuth() && env.List != nil {
		output.RenderList(env.Out, env.List.Snapshot())
	}
	return code
}

func isTerminal(env *Env) bool {
	f, ok := env.In.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
