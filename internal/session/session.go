// Package session holds the bearer token of the logged-in user: the token
// file on disk (Store) and the per-process view of it (Session).
package session

import (
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// State is the authentication state of a Session.
type State int

const (
	// Anonymous means no token is stored.
	Anonymous State = iota

	// Authenticated means a token is stored and not known to be expired.
	Authenticated

	// Expired means the token passed its expiry or the backend rejected it.
	Expired
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Session is the token as seen by one process.
// It is created by Store.Load and passed explicitly to the API client.
type Session struct {
	mu    sync.RWMutex
	token *oauth2.Token
	state State
}

// New returns a session in the given state. A nil token yields Anonymous.
func New(token *oauth2.Token, state State) *Session {
	if token == nil || token.AccessToken == "" {
		return &Session{state: Anonymous}
	}
	return &Session{token: token, state: state}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Authenticated reports whether the session may be used for requests.
func (s *Session) Authenticated() bool {
	return s.State() == Authenticated
}

// Token returns the token while the session is authenticated.
func (s *Session) Token() (*oauth2.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Authenticated {
		return nil, false
	}
	return s.token, true
}

// Expire moves an authenticated session to Expired.
// Anonymous sessions stay anonymous.
func (s *Session) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Authenticated {
		s.state = Expired
	}
}

// SetAuthHeader sets the Authorization header on r if the session is
// authenticated. It reports whether a header was set.
func (s *Session) SetAuthHeader(r *http.Request) bool {
	tok, ok := s.Token()
	if !ok {
		return false
	}
	tok.SetAuthHeader(r)
	return true
}
