package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/nisu/internal/models"
)

// PlaylistRepository persists the merged playlist and its cursor per notebook.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new [PlaylistRepository] with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Replace swaps the stored playlist for a notebook with the given tasks and
// cursor in one transaction. The previous value is discarded entirely, so
// callers must merge against the latest cached state before writing.
func (r *PlaylistRepository) Replace(notebook string, tasks []models.Task, cursor int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlist_tasks WHERE notebook = ?", notebook); err != nil {
		return fmt.Errorf("failed to clear playlist: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO playlist_tasks (notebook, position, task_id, kind, payload, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, task := range tasks {
		if _, err := stmt.Exec(notebook, i, task.ID, task.Kind.String(), task.Payload, string(task.Status)); err != nil {
			return fmt.Errorf("failed to insert task %s: %w", task.ID, err)
		}
	}

	cursorQuery := `
		INSERT INTO playlist_cursors (notebook, position, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(notebook) DO UPDATE SET
			position = excluded.position,
			updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(cursorQuery, notebook, cursor, time.Now()); err != nil {
		return fmt.Errorf("failed to store cursor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get returns the cached playlist and cursor for a notebook. A notebook with
// no cached playlist yields an empty slice and cursor zero, not an error.
func (r *PlaylistRepository) Get(notebook string) ([]models.Task, int, error) {
	rows, err := r.db.Query(`
		SELECT task_id, kind, payload, status
		FROM playlist_tasks
		WHERE notebook = ?
		ORDER BY position ASC
	`, notebook)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query playlist: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var (
			task   models.Task
			kind   string
			status string
		)
		if err := rows.Scan(&task.ID, &kind, &task.Payload, &status); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Kind = models.ParseKind(kind)
		task.Status = models.TaskStatus(status)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	var cursor int
	err = r.db.QueryRow("SELECT position FROM playlist_cursors WHERE notebook = ?", notebook).Scan(&cursor)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, fmt.Errorf("failed to query cursor: %w", err)
	}

	return tasks, cursor, nil
}

// SetCursor updates the stored cursor without touching the task rows.
func (r *PlaylistRepository) SetCursor(notebook string, cursor int) error {
	query := `
		INSERT INTO playlist_cursors (notebook, position, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(notebook) DO UPDATE SET
			position = excluded.position,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, notebook, cursor, time.Now()); err != nil {
		return fmt.Errorf("failed to store cursor: %w", err)
	}
	return nil
}
