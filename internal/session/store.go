package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Store persists a single bearer token in a file.
// Every operation reads or writes the file directly, so changes made by
// another process are observed on the next call.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// SetClock overrides the clock used for expiry checks (for testing).
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Path returns the token file path.
func (s *Store) Path() string { return s.path }

// SetToken persists accessToken, overwriting any prior value.
// The file is written with mode 0600.
func (s *Store) SetToken(accessToken string) error {
	if accessToken == "" {
		return errors.New("empty token")
	}
	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      expiryOf(accessToken),
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(s.path, data, 0600)
}

// Token returns the persisted access token.
func (s *Store) Token() (string, bool) {
	token, err := s.read()
	if err != nil {
		return "", false
	}
	return token.AccessToken, true
}

// ClearToken removes the persisted token. Clearing an absent token is not
// an error.
func (s *Store) ClearToken() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// IsAuthenticated reports whether a token is persisted.
// The token is not validated and its expiry is not checked.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// Load returns a Session for the persisted token.
// A missing or unreadable token file yields an Anonymous session.
func (s *Store) Load() *Session {
	token, err := s.read()
	if err != nil {
		return New(nil, Anonymous)
	}
	if !token.Expiry.IsZero() && !token.Expiry.After(s.now()) {
		return New(token, Expired)
	}
	return New(token, Authenticated)
}

func (s *Store) read() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(s.path), err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("no access token")
	}
	return &token, nil
}

// expiryOf returns the exp claim if accessToken is a JWT, otherwise zero.
// The signature is not verified; the backend remains the authority.
func expiryOf(accessToken string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
