package ui

import (
	"github.com/desertthunder/nisu/internal/engine"
	"github.com/desertthunder/nisu/internal/models"
)

// notebooksFetchedMsg delivers the assigned notebook listing.
type notebooksFetchedMsg struct {
	notebooks []models.Notebook
	err       error
}

// playlistFetchedMsg delivers one notebook's merged playlist.
type playlistFetchedMsg struct {
	notebook models.Notebook
	tasks    []models.Task
	err      error
}

// progressUpdateMsg forwards an engine update into the Elm loop.
type progressUpdateMsg engine.ProgressUpdate

// runDoneMsg signals that a single task run finished.
type runDoneMsg struct {
	result *engine.RunResult
	err    error
}

// sessionDoneMsg signals that a run-all session finished.
type sessionDoneMsg struct {
	session *engine.SessionResult
	err     error
}
