package view

import (
	"context"
	"fmt"
	"strings"

	"tasker/internal/logger"
	"tasker/internal/session"
)

// LoginState is the state of a LoginForm.
type LoginState int

const (
	LoginUnauthenticated LoginState = iota
	LoginSubmitting
	LoginAuthenticated
	LoginFailed
)

func (s LoginState) String() string {
	switch s {
	case LoginUnauthenticated:
		return "unauthenticated"
	case LoginSubmitting:
		return "submitting"
	case LoginAuthenticated:
		return "authenticated"
	case LoginFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// LoginForm collects credentials and turns them into a stored session.
type LoginForm struct {
	Username string
	Password string

	auth    Authenticator
	store   *session.Store
	notify  Notifier
	state   LoginState
	session *session.Session
}

// NewLoginForm creates an empty form.
func NewLoginForm(auth Authenticator, store *session.Store, n Notifier) *LoginForm {
	return &LoginForm{auth: auth, store: store, notify: notifierOrDiscard(n)}
}

// State returns the current state.
func (f *LoginForm) State() LoginState { return f.state }

// Session returns the session created by a successful submit.
func (f *LoginForm) Session() *session.Session { return f.session }

// CanSubmit reports whether both fields are filled in.
func (f *LoginForm) CanSubmit() bool {
	return strings.TrimSpace(f.Username) != "" && f.Password != ""
}

// Submit exchanges the credentials for a token and stores it.
// On failure nothing is stored and the form can be submitted again.
func (f *LoginForm) Submit(ctx context.Context) error {
	if !f.CanSubmit() {
		return ErrIncomplete
	}

	f.state = LoginSubmitting
	token, err := f.auth.Login(ctx, strings.TrimSpace(f.Username), f.Password)
	if err != nil {
		logger.Debug().Err(err).Msg("login failed")
		f.state = LoginFailed
		f.notify.Notify(Notification{Level: LevelError, Message: MsgLoginFailed})
		return err
	}

	if err := f.store.SetToken(token); err != nil {
		logger.Error().Err(err).Msg("save token")
		f.state = LoginFailed
		f.notify.Notify(Notification{Level: LevelError, Message: "failed to save token: " + err.Error()})
		return fmt.Errorf("save token: %w", err)
	}

	sess := f.store.Load()
	if !sess.Authenticated() {
		// The backend handed out a token that is already expired
		if err := f.store.ClearToken(); err != nil {
			logger.Error().Err(err).Msg("clear token")
		}
		f.state = LoginFailed
		f.notify.Notify(Notification{Level: LevelError, Message: MsgSessionExpired})
		return ErrTokenExpired
	}

	f.session = sess
	f.state = LoginAuthenticated
	f.notify.Notify(Notification{Level: LevelSuccess, Message: MsgLoggedIn})
	return nil
}
