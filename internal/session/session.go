// package session manages the signed-in student's identity for the lifetime
// of a command.
//
// The token and user data load once from the local cache and travel with the
// Session value; nothing reads authentication state from globals. Signing in
// or out writes through to the cache so the next command observes it.
package session

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/repositories"
	"github.com/desertthunder/nisu/internal/shared"
)

// Session holds the student's bearer token and profile for one command run.
type Session struct {
	token  string
	user   models.UserData
	repo   *repositories.SessionRepository
	logger *log.Logger
}

// NewSession creates a session manager backed by the given repository.
func NewSession(repo *repositories.SessionRepository, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{repo: repo, logger: logger}
}

// Load reads the persisted session. Returns [shared.ErrNotAuthenticated]
// when the student has not signed in.
func (s *Session) Load() error {
	token, user, err := s.repo.Load()
	if err != nil {
		return err
	}

	s.token = token
	s.user = user
	s.logger.Debug("session loaded", "email", user.Email)
	return nil
}

// SignIn persists a new token and identity, replacing any prior session.
func (s *Session) SignIn(token string, user models.UserData) error {
	if err := s.repo.Save(token, user); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.token = token
	s.user = user
	s.logger.Info("signed in", "email", user.Email)
	return nil
}

// SignOut clears the persisted session and the in-memory state.
func (s *Session) SignOut() error {
	if err := s.repo.Clear(); err != nil {
		return err
	}

	s.token = ""
	s.user = models.UserData{}
	s.logger.Info("signed out")
	return nil
}

// Token returns the bearer token, or [shared.ErrNotAuthenticated] when the
// session is empty.
func (s *Session) Token() (string, error) {
	if s.token == "" {
		return "", fmt.Errorf("%w: please sign in", shared.ErrNotAuthenticated)
	}
	return s.token, nil
}

// Authenticated reports whether a token is present. It does not verify the
// token with the backend; an expired token still fails at request time.
func (s *Session) Authenticated() bool {
	return s.token != ""
}

// User returns the signed-in student's profile. Zero value when signed out.
func (s *Session) User() models.UserData {
	return s.user
}
