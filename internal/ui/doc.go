// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for studying a notebook playlist:
//  1. [NotebookListView] : Browse and select an assigned notebook
//  2. [TaskListView] : Preview the notebook's tasks and completion state
//  3. [StudyView] : Advance through tasks one trigger at a time
//  4. [ResultView] : Display the session summary
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the study engine, providing non-blocking status reporting during a session.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
