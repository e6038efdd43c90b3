// package services defines interface Classroom for the content-delivery
// backend that stores notebooks, playlists, and per-student progress.
package services

import (
	"context"

	"github.com/desertthunder/nisu/internal/models"
)

// Classroom defines the interface for the classroom backend. All methods
// require a signed-in student; an expired or missing token surfaces
// [shared.ErrNotAuthenticated].
type Classroom interface {
	// Notebooks retrieves every notebook assigned to the student.
	Notebooks(ctx context.Context) ([]models.Notebook, error)

	// Playlist retrieves the playlist for a notebook, addressed by name or id.
	Playlist(ctx context.Context, ref models.NotebookRef) (*PlaylistResponse, error)

	// ReportProgress records one task completion. The server treats the
	// completed set as an idempotent upsert keyed by item id.
	ReportProgress(ctx context.Context, update ProgressUpdate) (*ProgressResponse, error)

	// Progress retrieves the completed item ids for a notebook.
	Progress(ctx context.Context, notebookID string) ([]string, error)
}

// PlaylistResponse is the playlist payload for one notebook. The id and name
// fields are optional on the wire; when present they feed the local id↔name
// maps.
type PlaylistResponse struct {
	NotebookID   string        `json:"notebookId,omitempty"`
	NotebookName string        `json:"notebookName,omitempty"`
	Playlist     []models.Task `json:"playlist"`
}

// ProgressUpdate is the completion report for a single task. NotebookID is
// preferred; NotebookName is the fallback when no id mapping is known.
type ProgressUpdate struct {
	NotebookID   string `json:"notebookId,omitempty"`
	NotebookName string `json:"notebookName,omitempty"`
	ItemID       string `json:"itemId"`
	Completed    bool   `json:"completed"`
}

// ProgressResponse is the server's acknowledgement, carrying the full
// completed set after the upsert.
type ProgressResponse struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message,omitempty"`
	CompletedItems []string `json:"completedItems"`
}
