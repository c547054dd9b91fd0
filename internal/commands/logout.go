package commands

import (
	"context"
	"flag"

	"tasker/internal/exitcode"
	"tasker/internal/output"
	"tasker/internal/session"
	"tasker/internal/view"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove the stored token" }
func (c *LogoutCmd) Usage() string     { return "tasker logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string) int {
	if !env.Store.IsAuthenticated() {
		env.infof("not logged in")
	} else {
		if err := env.Store.ClearToken(); err != nil {
			env.errorf("failed to remove token: %v", err)
			return exitcode.AuthError
		}
		env.infof("logged out")
	}

	// Back to the home view, which only offers login now
	env.setSession(session.New(nil, session.Anonymous))
	output.RenderList(env.Out, view.Snapshot{Status: view.StatusIdle})
	return exitcode.Success
}
