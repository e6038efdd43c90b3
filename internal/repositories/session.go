package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/shared"
)

// SessionRepository persists the signed-in student's bearer token and
// identity. The table holds at most one row.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save stores the token and student identity, replacing any prior session.
func (r *SessionRepository) Save(token string, user models.UserData) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO session (id, token, email, name, picture, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			email = excluded.email,
			name = excluded.name,
			picture = excluded.picture,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, token, user.Email, user.Name, user.Picture, time.Now()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the stored token and identity, or
// [shared.ErrNotAuthenticated] when no session has been saved.
func (r *SessionRepository) Load() (string, models.UserData, error) {
	var (
		token string
		user  models.UserData
	)
	err := r.db.QueryRow("SELECT token, email, name, picture FROM session WHERE id = 1").
		Scan(&token, &user.Email, &user.Name, &user.Picture)
	if err == sql.ErrNoRows {
		return "", models.UserData{}, shared.ErrNotAuthenticated
	}
	if err != nil {
		return "", models.UserData{}, fmt.Errorf("failed to load session: %w", err)
	}
	return token, user, nil
}

// Clear signs the student out by deleting the stored session. Clearing an
// empty table is not an error.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM session WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
