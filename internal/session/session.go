// Package session holds the shopper's credential for the lifetime of a
// login: the bearer token the backend issued plus the display fields that
// came with it. The engine treats the token as opaque; claims are decoded
// only to surface username and expiry, never to verify (the client holds no
// signing key).
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no active session")

// Session is the client-side view of a login.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Balance  int    `json:"balance"`
}

// Authenticated reports whether a token is held. It says nothing about the
// token still being accepted by the server; a 401 on use is the real test.
func (s Session) Authenticated() bool { return s.Token != "" }

// ExpiresAt decodes the token's exp claim without verifying the signature.
// Returns the zero time when the token is absent, unparsable or carries no
// expiry.
func (s Session) ExpiresAt() time.Time {
	if s.Token == "" {
		return time.Time{}
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Store persists the session to a single file so CLI invocations within one
// login share it. The cart itself is never persisted; only the credential.
type Store struct {
	path string
}

// NewStore uses an explicit file path.
func NewStore(path string) *Store { return &Store{path: path} }

// DefaultStore places the session file under the user config directory.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, "shopctl", "session.json")}, nil
}

// Load reads the current session. ErrNoSession when none was saved.
func (st *Store) Load() (Session, error) {
	raw, err := os.ReadFile(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("parsing session: %w", err)
	}
	if !s.Authenticated() {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Save writes the session with owner-only permissions.
func (st *Store) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(st.path, raw, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear removes the saved session. Clearing an absent session is not an
// error.
func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
