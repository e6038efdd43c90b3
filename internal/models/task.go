package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TaskKind enumerates the closed set of task kinds a playlist may contain.
//
// Kind strings arrive from the server with inconsistent case and whitespace;
// they are normalized exactly once, at ingestion, via [ParseKind].
type TaskKind int

const (
	KindUnknown TaskKind = iota
	KindPrompt
	KindWebsite
	KindMultimedia
	KindQuiz
	KindAssignment
)

// ParseKind normalizes a raw kind string (trim + lowercase) into a [TaskKind].
//
// Legacy playlists label multimedia tasks with compound strings like
// "Multimedia (audio)", so a substring match is kept for that kind.
func ParseKind(raw string) TaskKind {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "prompt":
		return KindPrompt
	case "website":
		return KindWebsite
	case "multimedia":
		return KindMultimedia
	case "quiz":
		return KindQuiz
	case "assignment":
		return KindAssignment
	}
	if strings.Contains(s, "multimedia") {
		return KindMultimedia
	}
	return KindUnknown
}

func (k TaskKind) String() string {
	switch k {
	case KindPrompt:
		return "prompt"
	case KindWebsite:
		return "website"
	case KindMultimedia:
		return "multimedia"
	case KindQuiz:
		return "quiz"
	case KindAssignment:
		return "assignment"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind as its normalized string form.
func (k TaskKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts any raw string and normalizes it; unrecognized kinds
// decode to [KindUnknown] rather than failing the playlist fetch.
func (k *TaskKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("task kind must be a string: %w", err)
	}
	*k = ParseKind(s)
	return nil
}

// TaskStatus is the completion state of a task.
type TaskStatus string

const (
	StatusPending  TaskStatus = "pending"
	StatusComplete TaskStatus = "complete"
)

// ParseStatus normalizes a stored status string; anything other than
// "complete" counts as pending.
func ParseStatus(raw string) TaskStatus {
	if strings.ToLower(strings.TrimSpace(raw)) == string(StatusComplete) {
		return StatusComplete
	}
	return StatusPending
}

// Task is one unit of learning work in a playlist.
//
// The wire field names ("type", "command") follow the backend contract.
type Task struct {
	ID      string     `json:"id"`
	Kind    TaskKind   `json:"type"`
	Payload string     `json:"command"`
	Status  TaskStatus `json:"status,omitempty"`
}

// Validate checks that the task carries the identity key required for merge
// and completion tracking.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task id is required")
	}
	return nil
}

// Complete reports whether the task has been finished by the student.
func (t Task) Complete() bool {
	return t.Status == StatusComplete
}
