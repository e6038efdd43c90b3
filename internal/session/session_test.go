package session

import (
	"errors"
	"testing"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/repositories"
	"github.com/desertthunder/nisu/internal/shared"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewSession(repositories.NewSessionRepository(db), nil)
}

func TestSession(t *testing.T) {
	sess := newTestSession(t)
	user := models.UserData{Email: "student@example.com", Name: "Test Student"}

	t.Run("load before sign in", func(t *testing.T) {
		if err := sess.Load(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if sess.Authenticated() {
			t.Error("empty session should not report authenticated")
		}
		if _, err := sess.Token(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated from Token, got %v", err)
		}
	})

	t.Run("sign in", func(t *testing.T) {
		if err := sess.SignIn("tok-123", user); err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}

		token, err := sess.Token()
		if err != nil {
			t.Fatalf("Token failed: %v", err)
		}
		if token != "tok-123" {
			t.Errorf("token = %q, want tok-123", token)
		}
		if sess.User() != user {
			t.Errorf("user = %+v, want %+v", sess.User(), user)
		}
	})

	t.Run("session survives a new process", func(t *testing.T) {
		// Same repository, fresh in-memory state.
		fresh := NewSession(sess.repo, nil)
		if err := fresh.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !fresh.Authenticated() {
			t.Error("persisted session should load as authenticated")
		}
		if fresh.User().Email != user.Email {
			t.Errorf("email = %q, want %q", fresh.User().Email, user.Email)
		}
	})

	t.Run("sign out", func(t *testing.T) {
		if err := sess.SignOut(); err != nil {
			t.Fatalf("SignOut failed: %v", err)
		}
		if sess.Authenticated() {
			t.Error("signed-out session should not report authenticated")
		}
		if err := sess.Load(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after sign out, got %v", err)
		}
	})
}
