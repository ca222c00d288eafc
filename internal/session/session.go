// Package session persists the bearer session between runs.
//
// A session moves between two states only: anonymous and authenticated.
// Login or registration stores a session; logout, a 401 response or an
// expired token removes it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	"taskboard/internal/service"
)

// ErrNoSession is returned when no session is stored.
var ErrNoSession = errors.New("not logged in")

// State is the session state machine.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

type record struct {
	Token   string       `json:"token"`
	User    service.User `json:"user"`
	SavedAt time.Time    `json:"saved_at"`
}

// Store reads and writes the session file.
// Store implements oauth2.TokenSource so it can feed an oauth2.Transport.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// SetClock overrides the clock used for expiry checks (for testing).
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored session.
// A token whose exp claim has passed is removed and reported as
// service.ErrSessionExpired.
func (s *Store) Load() (service.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return service.Session{}, ErrNoSession
	}
	if err != nil {
		return service.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Token == "" {
		// Corrupt session files behave like a logout.
		_ = s.Clear()
		return service.Session{}, ErrNoSession
	}

	if claims, err := ParseClaims(rec.Token); err == nil && claims.Expired(s.now()) {
		_ = s.Clear()
		return service.Session{}, service.ErrSessionExpired
	}

	return service.Session{Token: rec.Token, User: rec.User}, nil
}

// Save stores a session with mode 0600, creating the directory if needed.
func (s *Store) Save(sess service.Session) error {
	if sess.Token == "" {
		return errors.New("session token is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(record{Token: sess.Token, User: sess.User, SavedAt: s.now().UTC()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// State reports whether a usable session is stored.
func (s *Store) State() State {
	if _, err := s.Load(); err != nil {
		return Anonymous
	}
	return Authenticated
}

// Token implements oauth2.TokenSource.
func (s *Store) Token() (*oauth2.Token, error) {
	sess, err := s.Load()
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}
	if claims, err := ParseClaims(sess.Token); err == nil {
		tok.Expiry = claims.ExpiresAt
	}
	return tok, nil
}
