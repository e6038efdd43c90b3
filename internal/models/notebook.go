package models

import (
	"strings"
	"time"
)

// Notebook is a teacher-owned, named collection of tasks as returned by the
// classroom backend.
type Notebook struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"idFromExternalSystem,omitempty"`
	CreatedBy  string    `json:"createdBy,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

// NotebookRef is a resolved reference to a notebook. The name is always
// present once resolved; the durable id may be missing when only the page
// URL was available.
type NotebookRef struct {
	Name string
	ID   string
}

// HasID reports whether the durable backend id is known.
func (r NotebookRef) HasID() bool {
	return strings.TrimSpace(r.ID) != ""
}

// Key returns the identifier to use in backend paths: the id when known,
// otherwise the name (the server resolves names as a fallback).
func (r NotebookRef) Key() string {
	if r.HasID() {
		return r.ID
	}
	return r.Name
}

// UserData identifies the signed-in student.
type UserData struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}
