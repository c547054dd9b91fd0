// Package commands provides the command interface and implementations.
package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/output"
	"tasker/internal/service"
	"tasker/internal/session"
	"tasker/internal/view"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires an authenticated session.
	// Commands like help, version, login, logout and list return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Connector creates a service bound to a session.
type Connector func(sess *session.Session) service.Service

// Env is what a command runs against. Login and logout replace Session,
// Service and List in place, so a shell sees the new session on its next
// line.
type Env struct {
	Config  *config.Config
	Store   *session.Store
	Session *session.Session
	Service service.Service
	Connect Connector

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// List is the mounted task list of an interactive shell. One-shot
	// commands leave it nil and mount a fresh list.
	List *view.TaskList

	interactive bool
	lines       *bufio.Reader
}

// readLine reads one line from In without the line terminator.
func (e *Env) readLine() (string, error) {
	if e.In == nil {
		return "", io.EOF
	}
	if e.lines == nil {
		e.lines = bufio.NewReader(e.In)
	}
	line, err := e.lines.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (e *Env) quiet() bool {
	return e.Config != nil && e.Config.Quiet
}

func (e *Env) notifier() view.Notifier {
	return output.NewNotifier(e.Out, e.ErrOut, e.quiet())
}

func (e *Env) policy() config.SyncPolicy {
	if e.Config == nil {
		return ""
	}
	return e.Config.SyncPolicy
}

// errorf prints an error line to ErrOut.
func (e *Env) errorf(format string, args ...any) {
	fmt.Fprintf(e.ErrOut, output.ErrorPrefix+format+"\n", args...)
}

// infof prints an informational line to Out unless quiet.
func (e *Env) infof(format string, args ...any) {
	if !e.quiet() {
		fmt.Fprintf(e.Out, format+"\n", args...)
	}
}

// setSession switches the environment to sess, rebuilding the service.
func (e *Env) setSession(sess *session.Session) {
	e.Session = sess
	if e.Connect != nil {
		e.Service = e.Connect(sess)
	}
	e.List = nil
}

// newTaskList creates an unmounted list for the current session.
func (e *Env) newTaskList() *view.TaskList {
	return view.NewTaskList(e.Service, e.Session, view.Options{
		Policy:   e.policy(),
		Store:    e.Store,
		Notifier: e.notifier(),
	})
}

// taskList returns a mounted list. A failed fetch is reported on ErrOut and
// returned as an exit code other than Success.
func (e *Env) taskList(ctx context.Context) (*view.TaskList, int) {
	if e.List != nil {
		return e.List, exitcode.Success
	}

	list := e.newTaskList()
	if err := list.Mount(ctx); err != nil {
		if !errors.Is(err, service.ErrUnauthorized) {
			e.errorf("%s", view.MsgFetchFailed)
		}
		return nil, codeFor(err)
	}
	if e.interactive {
		e.List = list
	}
	return list, exitcode.Success
}

// codeFor maps an error from a view or service to an exit code.
func codeFor(err error) int {
	var (
		authErr  *service.AuthError
		fetchErr *service.FetchError
	)
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, view.ErrNotLoggedIn),
		errors.As(err, &authErr):
		return exitcode.AuthError
	case errors.As(err, &fetchErr):
		return exitcode.BackendError
	default:
		return exitcode.UserError
	}
}
