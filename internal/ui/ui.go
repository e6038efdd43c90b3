package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nisu/internal/engine"
	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/playlist"
	"github.com/desertthunder/nisu/internal/repositories"
	"github.com/desertthunder/nisu/internal/services"
	"github.com/desertthunder/nisu/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	NotebookListView ViewState = iota
	TaskListView
	StudyView
	ResultView
)

// Status copy shown in the study bubble.
const (
	greetingCopy  = "Click me and we can study together!"
	startCopy     = "Click me to start"
	moreCopy      = "Click me for more"
	allDoneCopy   = "Great job, no tasks left!"
	noTasksCopy   = "No tasks available for this notebook."
	loadErrorCopy = "Error loading content. Please try again."
	signInCopy    = "Please sign in to use NISU"
	openFirstCopy = "Please open a notebook first"
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	classroom    services.Classroom
	engine       engine.StudyEngine
	playlists    *repositories.PlaylistRepository
	width        int
	height       int
	notebookList list.Model
	notebooks    []models.Notebook
	taskList     list.Model
	selected     *models.Notebook
	tasks        []models.Task
	cursor       int
	status       string
	running      bool
	runningAll   bool
	progressChan chan engine.ProgressUpdate
	progress     engine.ProgressUpdate
	result       *engine.RunResult
	session      *engine.SessionResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, classroom services.Classroom, eng engine.StudyEngine, playlists *repositories.PlaylistRepository) *Model {
	return &Model{
		ctx:       ctx,
		view:      NotebookListView,
		classroom: classroom,
		engine:    eng,
		playlists: playlists,
		status:    greetingCopy,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching the assigned notebooks.
func (m *Model) Init() tea.Cmd {
	return m.fetchNotebooks()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.notebookList.Width() == 0 {
			m.notebookList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.taskList.Width() == 0 {
			m.taskList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case NotebookListView:
			return m.handleNotebookListKeys(msg)
		case TaskListView:
			return m.handleTaskListKeys(msg)
		case StudyView:
			return m.handleStudyKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case notebooksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.notebooks = msg.notebooks
		items := make([]list.Item, len(msg.notebooks))
		for i, nb := range msg.notebooks {
			items[i] = notebookItem{notebook: nb}
		}
		m.notebookList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.notebookList.Title = "Your Notebooks"
		m.notebookList.SetSize(m.width-4, m.height-8)
		return m, nil

	case playlistFetchedMsg:
		if msg.err != nil {
			m.status = loadErrorCopy
			m.view = NotebookListView
			return m, nil
		}
		m.selected = &msg.notebook
		m.tasks = msg.tasks
		m.cursor = playlist.Cursor(msg.tasks)
		items := make([]list.Item, len(msg.tasks))
		for i, task := range msg.tasks {
			items[i] = taskItem{task: task}
		}
		m.taskList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.taskList.Title = fmt.Sprintf("Tasks in '%s'", msg.notebook.Name)
		m.taskList.SetSize(m.width-4, m.height-8)
		m.view = TaskListView
		if len(msg.tasks) == 0 {
			m.status = noTasksCopy
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = engine.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runDoneMsg:
		m.running = false
		m.result = msg.result
		m.err = msg.err
		m.progressChan = nil
		m.applyRunStatus(msg.result, msg.err)
		return m, nil

	case sessionDoneMsg:
		m.running = false
		m.runningAll = false
		m.session = msg.session
		m.err = msg.err
		m.progressChan = nil
		m.view = ResultView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == NotebookListView {
		if errors.Is(m.err, shared.ErrNotAuthenticated) {
			return styles.err.Render(fmt.Sprintf("%s\n\nPress q to quit", signInCopy))
		}
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case NotebookListView:
		return m.renderNotebookList()
	case TaskListView:
		return m.renderTaskList()
	case StudyView:
		return m.renderStudy()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleNotebookListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.notebookList.SelectedItem()
		if selected != nil {
			if nb, ok := selected.(notebookItem); ok {
				return m, m.fetchPlaylist(nb.notebook)
			}
		}
	}

	var cmd tea.Cmd
	m.notebookList, cmd = m.notebookList.Update(msg)
	return m, cmd
}

func (m *Model) handleTaskListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = NotebookListView
		return m, nil
	case "enter", " ":
		m.view = StudyView
		m.err = nil
		if m.cursor == 0 {
			m.status = startCopy
		} else if m.cursor >= len(m.tasks) && len(m.tasks) > 0 {
			m.status = allDoneCopy
		} else {
			m.status = moreCopy
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) handleStudyKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.running {
		if s := msg.String(); s == "q" || s == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.selected != nil {
			return m, m.fetchPlaylist(*m.selected)
		}
		m.view = NotebookListView
		return m, nil
	case "enter", " ":
		return m, m.runNext()
	case "a":
		return m, m.runAll()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = NotebookListView
		m.selected = nil
		m.result = nil
		m.session = nil
		m.err = nil
		m.status = greetingCopy
		return m, m.fetchNotebooks()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case NotebookListView:
		m.notebookList, cmd = m.notebookList.Update(msg)
	case TaskListView:
		m.taskList, cmd = m.taskList.Update(msg)
	}
	return m, cmd
}

// applyRunStatus picks the bubble copy for a finished run.
func (m *Model) applyRunStatus(result *engine.RunResult, err error) {
	switch {
	case err != nil && errors.Is(err, shared.ErrNotAuthenticated):
		m.status = signInCopy
	case err != nil && errors.Is(err, shared.ErrNotebookNotFound):
		m.status = openFirstCopy
	case err != nil && errors.Is(err, shared.ErrEmptyPlaylist):
		m.status = noTasksCopy
	case err != nil:
		m.status = loadErrorCopy
	case result != nil && result.AllComplete:
		m.status = allDoneCopy
		m.cursor = result.Cursor
	case result != nil:
		m.status = moreCopy
		m.cursor = result.Cursor
	}
}

func (m *Model) fetchNotebooks() tea.Cmd {
	return func() tea.Msg {
		notebooks, err := m.classroom.Notebooks(m.ctx)
		return notebooksFetchedMsg{notebooks: notebooks, err: err}
	}
}

// fetchPlaylist loads the remote playlist merged with the cached copy, so
// completion recorded locally still shows when the backend is unreachable.
func (m *Model) fetchPlaylist(nb models.Notebook) tea.Cmd {
	return func() tea.Msg {
		cached, _, cacheErr := m.playlists.Get(nb.Name)
		if cacheErr != nil {
			cached = nil
		}

		resp, err := m.classroom.Playlist(m.ctx, models.NotebookRef{Name: nb.Name, ID: nb.ID})
		if err != nil {
			if len(cached) > 0 {
				return playlistFetchedMsg{notebook: nb, tasks: cached}
			}
			return playlistFetchedMsg{notebook: nb, err: err}
		}

		merged, _ := playlist.Merge(resp.Playlist, cached)
		return playlistFetchedMsg{notebook: nb, tasks: merged}
	}
}

// notebookURL builds the page URL the resolver expects from a selection.
func (m *Model) notebookURL() string {
	if m.selected == nil {
		return ""
	}
	return "https://notebooklm.google.com/app/" + url.PathEscape(m.selected.Name)
}

func (m *Model) runNext() tea.Cmd {
	m.running = true
	m.progressChan = make(chan engine.ProgressUpdate, 50)

	ch := m.progressChan
	go func() {
		result, err := m.engine.RunNext(m.ctx, ch, m.notebookURL())
		m.result = result
		m.err = err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) runAll() tea.Cmd {
	m.running = true
	m.runningAll = true
	m.progressChan = make(chan engine.ProgressUpdate, 50)

	ch := m.progressChan
	go func() {
		session, err := m.engine.RunAll(m.ctx, ch, m.notebookURL())
		m.session = session
		m.err = err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runDoneMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			if m.runningAll {
				return sessionDoneMsg{session: m.session, err: m.err}
			}
			return runDoneMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderNotebookList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	if m.status != "" && m.status != greetingCopy {
		return fmt.Sprintf("%s\n\n%s\n%s", m.notebookList.View(), styles.warn.Render(m.status), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.notebookList.View(), helpView)
}

func (m *Model) renderTaskList() string {
	studyKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "study"),
	)
	helpKeys := []key.Binding{studyKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.taskList.View(), helpView)
}

func (m *Model) renderStudy() string {
	name := "your notebook"
	if m.selected != nil {
		name = m.selected.Name
	}
	title := styles.title.Render(fmt.Sprintf("Studying '%s'", name))

	if m.running {
		var phase string
		switch m.progress.Phase {
		case engine.ResolveNotebook:
			phase = "Finding your notebook..."
		case engine.FetchPlaylist:
			phase = "Loading your tasks..."
		case engine.MergePlaylist:
			phase = "Preparing your playlist..."
		case engine.ExecuteTask:
			phase = fmt.Sprintf("Working on task %d/%d", m.progress.Step, m.progress.Total)
		case engine.SyncProgress:
			phase = "Saving your progress..."
		default:
			phase = "Working..."
		}
		return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
	}

	progress := ""
	if len(m.tasks) > 0 {
		progress = fmt.Sprintf("Progress: %d/%d tasks\n\n", m.cursor, len(m.tasks))
	}

	bubble := m.status
	if m.status == allDoneCopy {
		bubble = styles.ok.Render(m.status)
	} else if m.status == loadErrorCopy || m.status == signInCopy {
		bubble = styles.err.Render(m.status)
	}

	helpKeys := []key.Binding{m.keys.study, m.keys.all, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, progress, bubble, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Session ended early: %v\n\nPress r to restart, q to quit", m.err))
	}

	if m.session == nil {
		return styles.err.Render("No session result available\n\nPress r to restart, q to quit")
	}

	title := styles.ok.Render("✓ " + allDoneCopy)
	info := fmt.Sprintf("\nNotebook: %s\nTasks completed: %d/%d\n", m.session.Notebook.Name, len(m.session.Runs), m.session.Total)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
