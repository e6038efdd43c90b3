package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/nisu/internal/models"
)

var (
	_ list.Item = notebookItem{}
	_ list.Item = taskItem{}
)

// notebookItem wraps [models.Notebook] to implement [list.Item].
type notebookItem struct {
	notebook models.Notebook
}

func (i notebookItem) FilterValue() string { return i.notebook.Name }
func (i notebookItem) Title() string       { return i.notebook.Name }
func (i notebookItem) Description() string {
	desc := "assigned notebook"
	if i.notebook.CreatedBy != "" {
		desc = fmt.Sprintf("by %s", i.notebook.CreatedBy)
	}
	if !i.notebook.UpdatedAt.IsZero() {
		desc = fmt.Sprintf("%s • updated %s", desc, i.notebook.UpdatedAt.Format("Jan 2"))
	}
	return desc
}

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Payload }
func (i taskItem) Title() string       { return i.task.Payload }
func (i taskItem) Description() string {
	if i.task.Complete() {
		return fmt.Sprintf("%s • ✓ done", i.task.Kind)
	}
	return fmt.Sprintf("%s • pending", i.task.Kind)
}
