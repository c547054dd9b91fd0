package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"tasker/internal/exitcode"
	"tasker/internal/view"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
// Credentials come from flags, then TASKER_USERNAME/TASKER_PASSWORD, then
// prompts on stdin.
type LoginCmd struct {
	username string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in to the task backend" }
func (c *LoginCmd) Usage() string {
	return "tasker login [common flags] [--username <name>] [--password <password>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		env.errorf("unexpected argument: %s", args[0])
		return exitcode.UserError
	}

	form := view.NewLoginForm(env.Service, env.Store, env.notifier())
	form.Username = c.username
	form.Password = c.password
	if env.Config != nil {
		if form.Username == "" {
			form.Username = env.Config.Username
		}
		if form.Password == "" {
			form.Password = env.Config.Password
		}
	}

	if err := promptCredentials(env, form); err != nil {
		env.errorf("%v", err)
		return exitcode.UserError
	}

	if env.Config != nil {
		if err := env.Config.EnsureDir(); err != nil {
			env.errorf("failed to create config directory: %v", err)
			return exitcode.AuthError
		}
	}

	if err := form.Submit(ctx); err != nil {
		if errors.Is(err, view.ErrIncomplete) {
			env.errorf("%v", err)
			return exitcode.UserError
		}
		return exitcode.AuthError
	}

	// Continue to the task list, as after a redirect to the home view
	env.setSession(form.Session())
	return showList(ctx, env)
}

// promptCredentials asks for whatever the form is missing.
// The password is read without echo when stdin is a terminal.
func promptCredentials(env *Env, form *view.LoginForm) error {
	if strings.TrimSpace(form.Username) == "" {
		fmt.Fprint(env.ErrOut, "username: ")
		line, err := env.readLine()
		if err != nil {
			return view.ErrIncomplete
		}
		form.Username = line
	}

	if form.Password == "" {
		fmt.Fprint(env.ErrOut, "password: ")
		if f, ok := env.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			pw, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(env.ErrOut)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			form.Password = string(pw)
			return nil
		}
		line, err := env.readLine()
		if err != nil {
			return view.ErrIncomplete
		}
		form.Password = line
	}
	return nil
}
