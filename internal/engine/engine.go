// package engine orchestrates an end-to-end study session over a notebook
// playlist.
//
// The core abstraction is StudyEngine, which resolves the notebook, merges
// the server playlist with cached completion state, executes the task under
// the cursor, and reports progress. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
//
// Session flow per trigger: Idle -> ResolvingNotebook -> Merging ->
// ExecutingTask -> Syncing -> AwaitingUser (or AllComplete). A trigger that
// arrives while a task is executing is rejected with
// [shared.ErrSessionBusy]; two executions never interleave for the same
// playlist.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nisu/internal/executor"
	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/playlist"
	"github.com/desertthunder/nisu/internal/repositories"
	"github.com/desertthunder/nisu/internal/resolver"
	"github.com/desertthunder/nisu/internal/services"
	"github.com/desertthunder/nisu/internal/shared"
	"github.com/desertthunder/nisu/internal/syncer"
)

// RunResult contains the outcome of running one task.
type RunResult struct {
	Notebook     models.NotebookRef // Resolved notebook
	Task         *models.Task       // Task that ran (nil when none pending)
	State        executor.State     // Terminal executor state
	Cursor       int                // Cursor after the run
	Total        int                // Playlist length
	AllComplete  bool               // Every task is complete
	UsedFallback bool               // Built-in orientation playlist in use
}

// SessionResult contains the outcome of running a playlist to completion.
type SessionResult struct {
	Notebook models.NotebookRef
	Runs     []RunResult // One entry per executed task
	Total    int
}

// StudyEngine defines operations for advancing through notebook playlists.
type StudyEngine interface {
	// RunNext refreshes the playlist and executes the task under the cursor.
	RunNext(ctx context.Context, progress chan<- ProgressUpdate, pageURL string) (*RunResult, error)

	// RunAll executes every remaining task in cursor order.
	RunAll(ctx context.Context, progress chan<- ProgressUpdate, pageURL string) (*SessionResult, error)

	// Warm prefetches and caches playlists for every assigned notebook.
	Warm(ctx context.Context, progress chan<- ProgressUpdate, opts WarmOpts) (*WarmResult, error)
}

// Engine implements StudyEngine. Contains dependencies on the classroom
// client, resolver, executor, syncer, and local cache.
type Engine struct {
	classroom services.Classroom
	resolver  *resolver.Resolver
	executor  *executor.Executor
	syncer    *syncer.Syncer
	notebooks *repositories.NotebookRepository
	playlists *repositories.PlaylistRepository
	logger    *log.Logger

	// mu serializes task execution; concurrent triggers are rejected, not queued.
	mu sync.Mutex
}

// NewEngine creates a study engine with the provided collaborators.
func NewEngine(
	classroom services.Classroom,
	res *resolver.Resolver,
	exec *executor.Executor,
	sync *syncer.Syncer,
	notebooks *repositories.NotebookRepository,
	playlists *repositories.PlaylistRepository,
	logger *log.Logger,
) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		classroom: classroom,
		resolver:  res,
		executor:  exec,
		syncer:    sync,
		notebooks: notebooks,
		playlists: playlists,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// RunNext runs one task: resolve, refresh, merge, execute, sync.
func (e *Engine) RunNext(ctx context.Context, progress chan<- ProgressUpdate, pageURL string) (*RunResult, error) {
	if !e.mu.TryLock() {
		return nil, shared.ErrSessionBusy
	}
	defer e.mu.Unlock()

	e.sendProgress(progress, resolvingUpdate(pageURL))
	ref := e.resolver.Resolve(pageURL)
	if ref == nil {
		return nil, fmt.Errorf("%w: please open a notebook first", shared.ErrNotebookNotFound)
	}

	result := &RunResult{Notebook: *ref}

	tasks, cursor, usedFallback := e.refresh(ctx, progress, *ref)
	result.Total = len(tasks)
	result.Cursor = cursor
	result.UsedFallback = usedFallback

	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks available for this notebook", shared.ErrEmptyPlaylist)
	}
	if cursor >= len(tasks) {
		result.AllComplete = true
		return result, nil
	}

	task := tasks[cursor]
	result.Task = &task

	e.sendProgress(progress, executingUpdate(task, cursor+1, len(tasks)))
	state, err := e.executor.Execute(ctx, task)
	result.State = state
	if err != nil {
		// Best effort: a failed execution still counts as done.
		e.logger.Warn("task failed, advancing anyway", "id", task.ID, "error", err)
	}

	e.sendProgress(progress, syncingUpdate(task.ID, cursor+1, len(tasks)))
	if err := e.syncer.ReportCompletion(ctx, *ref, task.ID, true); err != nil {
		return result, fmt.Errorf("failed to record completion: %w", err)
	}

	result.Cursor = cursor + 1
	result.AllComplete = result.Cursor >= len(tasks)
	return result, nil
}

// RunAll repeatedly runs the next task until the playlist completes.
func (e *Engine) RunAll(ctx context.Context, progress chan<- ProgressUpdate, pageURL string) (*SessionResult, error) {
	session := &SessionResult{}

	for {
		select {
		case <-ctx.Done():
			return session, ctx.Err()
		default:
		}

		result, err := e.RunNext(ctx, progress, pageURL)
		if err != nil {
			return session, err
		}

		session.Notebook = result.Notebook
		session.Total = result.Total

		if result.Task != nil {
			session.Runs = append(session.Runs, *result)
		}
		if result.AllComplete {
			return session, nil
		}
	}
}

// refresh fetches the server playlist and merges it against the cached one.
// Fetch failures fall back to the cached playlist, then to the built-in
// orientation playlist; a refresh never fails the session.
func (e *Engine) refresh(ctx context.Context, progress chan<- ProgressUpdate, ref models.NotebookRef) ([]models.Task, int, bool) {
	key := cacheKey(ref)

	cached, _, err := e.playlists.Get(key)
	if err != nil {
		e.logger.Warn("failed to read cached playlist", "notebook", key, "error", err)
		cached = nil
	}

	e.sendProgress(progress, fetchingPlaylistUpdate(key))
	resp, err := e.classroom.Playlist(ctx, ref)
	if err != nil {
		e.logger.Warn("playlist fetch failed, using cached copy", "notebook", key, "error", err)
		if len(cached) > 0 {
			return cached, playlist.Cursor(cached), false
		}
		fallback, cursor := playlist.Merge(playlist.Fallback(), nil)
		e.store(key, fallback, cursor)
		return fallback, cursor, true
	}

	// A playlist response can carry the notebook id the URL never exposed.
	if resp.NotebookID != "" && ref.Name != "" {
		if err := e.notebooks.RecordMapping(resp.NotebookID, ref.Name); err != nil {
			e.logger.Warn("failed to record notebook mapping", "error", err)
		}
	}

	remote := resp.Playlist
	usedFallback := false
	if len(remote) == 0 {
		remote = playlist.Fallback()
		usedFallback = true
	}

	merged, cursor := playlist.Merge(remote, cached)
	e.sendProgress(progress, mergedUpdate(len(merged), cursor))
	e.store(key, merged, cursor)
	return merged, cursor, usedFallback
}

func (e *Engine) store(key string, tasks []models.Task, cursor int) {
	if err := e.playlists.Replace(key, tasks, cursor); err != nil {
		e.logger.Warn("failed to cache merged playlist", "notebook", key, "error", err)
	}
}

// cacheKey mirrors the syncer's convention: playlists cache under the
// notebook name when one is known.
func cacheKey(ref models.NotebookRef) string {
	if ref.Name != "" {
		return ref.Name
	}
	return ref.ID
}
