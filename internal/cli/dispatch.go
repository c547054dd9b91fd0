// Package cli routes command lines to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/commands"
	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/logger"
	"tasker/internal/service"
	"tasker/internal/session"
	"tasker/internal/view"
)

// ServiceFactory creates a Service bound to a session.
// Used to inject the backend during dispatch.
type ServiceFactory func(cfg *config.Config, sess *session.Session) service.Service

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// No arguments select the task list. Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd, rest, err := d.registry.Resolve(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var common commands.CommonFlags
	positional, err := commands.ParseFlags(cmd, rest, func(fs *flag.FlagSet) {
		common.Register(fs)
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(common.ConfigDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = common.Quiet
	cfg.Debug = common.Debug
	logger.Setup(errOut, cfg.Debug)

	store := session.NewStore(cfg.TokenPath())
	sess := store.Load()
	logger.Debug().
		Str("command", cmd.Name()).
		Str("config", cfg.Dir).
		Str("api_url", cfg.APIURL).
		Stringer("session", sess.State()).
		Msg("dispatch")

	// Check auth requirements
	if cmd.NeedsAuth() && !sess.Authenticated() {
		if sess.State() == session.Expired {
			fmt.Fprintf(errOut, "error: %s\n", view.MsgSessionExpired)
		} else {
			fmt.Fprintln(errOut, "error: not logged in (run: tasker login)")
		}
		return exitcode.AuthError
	}

	connect := func(s *session.Session) service.Service {
		return d.factory(cfg, s)
	}
	env := &commands.Env{
		Config:  cfg,
		Store:   store,
		Session: sess,
		Service: connect(sess),
		Connect: connect,
		In:      in,
		Out:     out,
		ErrOut:  errOut,
	}

	// Run command
	return cmd.Run(ctx, env, positional)
}
