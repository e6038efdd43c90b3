package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/shared"
)

// NotebookRepository caches notebook identity: the bidirectional id↔name
// mapping and the last-opened record used by the resolver.
type NotebookRepository struct {
	db *sql.DB
}

// NewNotebookRepository creates a new [NotebookRepository] with the given database connection
func NewNotebookRepository(db *sql.DB) *NotebookRepository {
	return &NotebookRepository{db: db}
}

// Upsert records a notebook observed from the backend. Existing rows are
// refreshed in place; last_opened_at is left untouched.
func (r *NotebookRepository) Upsert(nb models.Notebook) error {
	if nb.ID == "" || nb.Name == "" {
		return fmt.Errorf("%w: notebook id and name are required", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO notebooks (id, name, external_id, created_by, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			external_id = excluded.external_id,
			created_by = excluded.created_by,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, nb.ID, nb.Name, nb.ExternalID, nb.CreatedBy, nb.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert notebook: %w", err)
	}

	return nil
}

// UpsertAll records every notebook from a listing response.
func (r *NotebookRepository) UpsertAll(notebooks []models.Notebook) error {
	for _, nb := range notebooks {
		if nb.ID == "" || nb.Name == "" {
			continue
		}
		if err := r.Upsert(nb); err != nil {
			return err
		}
	}
	return nil
}

// NameByID resolves a notebook name from its durable id or the external
// system's id. Returns [shared.ErrNotebookNotFound] when no mapping exists.
func (r *NotebookRepository) NameByID(id string) (string, error) {
	var name string
	err := r.db.QueryRow(
		"SELECT name FROM notebooks WHERE id = ? OR external_id = ?", id, id,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: no cached name for id %s", shared.ErrNotebookNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query notebook name: %w", err)
	}
	return name, nil
}

// IDByName resolves a notebook id from its human-readable name.
// Returns [shared.ErrNotebookNotFound] when no mapping exists.
func (r *NotebookRepository) IDByName(name string) (string, error) {
	var id string
	err := r.db.QueryRow("SELECT id FROM notebooks WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: no cached id for name %s", shared.ErrNotebookNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query notebook id: %w", err)
	}
	return id, nil
}

// RecordMapping opportunistically stores an id↔name pair observed together,
// e.g. from a playlist response carrying the notebook id. Existing rows keep
// their metadata.
func (r *NotebookRepository) RecordMapping(id, name string) error {
	if id == "" || name == "" {
		return nil
	}

	query := `
		INSERT INTO notebooks (id, name, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`
	if _, err := r.db.Exec(query, id, name, time.Now()); err != nil {
		return fmt.Errorf("failed to record notebook mapping: %w", err)
	}
	return nil
}

// TouchOpened marks the notebook as the most recently opened one.
func (r *NotebookRepository) TouchOpened(id string) error {
	result, err := r.db.Exec(
		"UPDATE notebooks SET last_opened_at = ? WHERE id = ? OR external_id = ?",
		time.Now(), id, id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch notebook: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNotebookNotFound, id)
	}
	return nil
}

// LastOpened returns the most recently opened notebook, or
// [shared.ErrNotebookNotFound] when none has been recorded.
func (r *NotebookRepository) LastOpened() (*models.Notebook, error) {
	query := `
		SELECT id, name, external_id, created_by
		FROM notebooks
		WHERE last_opened_at IS NOT NULL
		ORDER BY last_opened_at DESC
		LIMIT 1
	`

	var (
		nb         models.Notebook
		externalID sql.NullString
		createdBy  sql.NullString
	)
	err := r.db.QueryRow(query).Scan(&nb.ID, &nb.Name, &externalID, &createdBy)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no notebook opened yet", shared.ErrNotebookNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last opened notebook: %w", err)
	}
	nb.ExternalID = externalID.String
	nb.CreatedBy = createdBy.String

	return &nb, nil
}

// List returns every cached notebook ordered by name.
func (r *NotebookRepository) List() ([]models.Notebook, error) {
	rows, err := r.db.Query("SELECT id, name, external_id, created_by FROM notebooks ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []models.Notebook
	for rows.Next() {
		var (
			nb         models.Notebook
			externalID sql.NullString
			createdBy  sql.NullString
		)
		if err := rows.Scan(&nb.ID, &nb.Name, &externalID, &createdBy); err != nil {
			return nil, fmt.Errorf("failed to scan notebook: %w", err)
		}
		nb.ExternalID = externalID.String
		nb.CreatedBy = createdBy.String
		notebooks = append(notebooks, nb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return notebooks, nil
}
