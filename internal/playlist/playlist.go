// package playlist implements reconciliation of server playlists with locally
// cached completion state.
//
// Merge is a pure function: server ordering and task definitions win, cached
// completion status survives by task identity (the id). The cursor always
// points at the first task a student has not completed.
package playlist

import (
	"github.com/desertthunder/nisu/internal/models"
)

// Merge reconciles a freshly fetched playlist against the locally cached one.
//
// Output is in remote order. Entries whose id exists in the cache are emitted
// as the cached entry, preserving status; new ids are emitted pending.
// Remote entries without an id are dropped. The returned cursor is the index
// of the first non-complete task, or len(merged) when none are pending.
func Merge(remote, cached []models.Task) ([]models.Task, int) {
	lookup := make(map[string]models.Task, len(cached))
	for _, task := range cached {
		if task.Validate() == nil {
			lookup[task.ID] = task
		}
	}

	merged := make([]models.Task, 0, len(remote))
	for _, task := range remote {
		if task.Validate() != nil {
			continue
		}
		if stored, ok := lookup[task.ID]; ok {
			merged = append(merged, stored)
			continue
		}
		// First sight of this id: completion starts fresh regardless of
		// anything the server sent.
		task.Status = models.StatusPending
		merged = append(merged, task)
	}

	return merged, Cursor(merged)
}

// Cursor returns the index of the first task whose status is not complete,
// or len(tasks) when every task is complete.
func Cursor(tasks []models.Task) int {
	for i, task := range tasks {
		if !task.Complete() {
			return i
		}
	}
	return len(tasks)
}

// Fallback returns the built-in orientation playlist used when the server
// returns no tasks for a notebook. A usable default beats an error screen in
// the classroom.
func Fallback() []models.Task {
	return []models.Task{
		{ID: "default1", Kind: models.KindPrompt, Payload: "What is the subject of this notebook?", Status: models.StatusPending},
		{ID: "default2", Kind: models.KindPrompt, Payload: "Please summarize the key concepts.", Status: models.StatusPending},
	}
}
