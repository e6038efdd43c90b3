// package syncer reports task completions to the classroom backend and keeps
// the local playlist cache in step.
//
// Remote sync is best effort: a transport failure is logged and swallowed so
// the student keeps advancing. The local cache update always happens, which
// means progress can be locally ahead of the server until the next
// successful report. The server applies each report as an idempotent set
// upsert, so re-sending a completion is harmless.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/playlist"
	"github.com/desertthunder/nisu/internal/repositories"
	"github.com/desertthunder/nisu/internal/services"
	"github.com/desertthunder/nisu/internal/shared"
)

// Syncer translates working-playlist status changes into remote progress
// records. Playlists are cached under the notebook's human name; a ref's id
// only routes the remote report.
type Syncer struct {
	classroom services.Classroom
	notebooks *repositories.NotebookRepository
	playlists *repositories.PlaylistRepository
	logger    *log.Logger
}

// NewSyncer creates a syncer over the classroom client and local cache.
func NewSyncer(classroom services.Classroom, notebooks *repositories.NotebookRepository, playlists *repositories.PlaylistRepository, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Syncer{
		classroom: classroom,
		notebooks: notebooks,
		playlists: playlists,
		logger:    logger,
	}
}

// ReportCompletion records a task's completion locally and reports it to the
// backend. A remote failure is logged and absorbed; only invalid input is an
// error.
func (s *Syncer) ReportCompletion(ctx context.Context, ref models.NotebookRef, taskID string, completed bool) error {
	if taskID == "" {
		return fmt.Errorf("%w: task id required", shared.ErrInvalidInput)
	}
	if ref.Name == "" && ref.ID == "" {
		return fmt.Errorf("%w: notebook ref required", shared.ErrInvalidInput)
	}

	if err := s.updateLocal(ref, taskID, completed); err != nil {
		s.logger.Warn("failed to update cached playlist", "task", taskID, "error", err)
	}

	update := s.buildUpdate(ref, taskID, completed)
	resp, err := s.classroom.ReportProgress(ctx, update)
	if err != nil {
		s.logger.Warn("progress sync failed, keeping local state", "task", taskID, "error", err)
		return nil
	}

	s.logger.Debug("progress synced", "task", taskID, "completed_items", len(resp.CompletedItems))
	return nil
}

// buildUpdate prefers the durable notebook id, recovering it from the
// id↔name cache when the ref only carries a name. The name rides along as
// the server-side fallback.
func (s *Syncer) buildUpdate(ref models.NotebookRef, taskID string, completed bool) services.ProgressUpdate {
	update := services.ProgressUpdate{
		NotebookID:   ref.ID,
		NotebookName: ref.Name,
		ItemID:       taskID,
		Completed:    completed,
	}

	if update.NotebookID == "" && ref.Name != "" {
		id, err := s.notebooks.IDByName(ref.Name)
		if err != nil {
			if !errors.Is(err, shared.ErrNotebookNotFound) {
				s.logger.Warn("notebook id lookup failed", "name", ref.Name, "error", err)
			}
			return update
		}
		update.NotebookID = id
	}

	return update
}

// updateLocal re-reads the latest cached playlist, flips the task's status,
// and writes the whole value back with a recomputed cursor.
func (s *Syncer) updateLocal(ref models.NotebookRef, taskID string, completed bool) error {
	key := cacheKey(ref)

	tasks, _, err := s.playlists.Get(key)
	if err != nil {
		return err
	}

	found := false
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		if completed {
			tasks[i].Status = models.StatusComplete
		} else {
			tasks[i].Status = models.StatusPending
		}
		found = true
		break
	}
	if !found {
		return fmt.Errorf("task %s not in cached playlist for %s", taskID, key)
	}

	return s.playlists.Replace(key, tasks, playlist.Cursor(tasks))
}

// cacheKey returns the local playlist cache key for a ref. Names are
// preferred because every resolution shape yields one; ids only appear in
// some.
func cacheKey(ref models.NotebookRef) string {
	if ref.Name != "" {
		return ref.Name
	}
	return ref.ID
}
