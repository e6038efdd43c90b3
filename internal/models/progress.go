package models

import "time"

// ProgressRecord is the per-student, per-notebook set of completed task ids.
//
// Records are created on the first completion event for a pairing and updated
// on every subsequent completion or un-completion; the core never deletes
// them.
type ProgressRecord struct {
	NotebookID     string    `json:"notebookId"`
	UserEmail      string    `json:"userEmail,omitempty"`
	CompletedItems []string  `json:"completedItems"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// Completed reports whether the given task id is in the completed set.
func (p ProgressRecord) Completed(taskID string) bool {
	for _, id := range p.CompletedItems {
		if id == taskID {
			return true
		}
	}
	return false
}
