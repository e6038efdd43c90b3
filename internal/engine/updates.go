package engine

import (
	"fmt"

	"github.com/desertthunder/nisu/internal/models"
)

// ProgressUpdate represents a progress event during a study session.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Session phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Session phase enumeration
type Phase int

const (
	ResolveNotebook Phase = iota
	FetchPlaylist
	MergePlaylist
	ExecuteTask
	SyncProgress
	WarmCache
)

func (p Phase) String() string {
	switch p {
	case ResolveNotebook:
		return "resolve_notebook"
	case FetchPlaylist:
		return "fetch_playlist"
	case MergePlaylist:
		return "merge_playlist"
	case ExecuteTask:
		return "execute_task"
	case SyncProgress:
		return "sync_progress"
	case WarmCache:
		return "warm_cache"
	default:
		return ""
	}
}

func resolvingUpdate(pageURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveNotebook,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Identifying notebook for %s...", pageURL),
	}
}

func fetchingPlaylistUpdate(notebook string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loading playlist for %s...", notebook),
	}
}

func mergedUpdate(total, cursor int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist ready: %d tasks, next is #%d", total, cursor+1),
	}
}

func executingUpdate(task models.Task, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExecuteTask,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s task %s", step, total, task.Kind, task.ID),
		Data:    task,
	}
}

func syncingUpdate(taskID string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Saving progress for %s...", taskID),
	}
}

func warmingUpdate(notebook string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Caching %s...", step, total, notebook),
	}
}

func warmDoneUpdate(notebook string, step, total int, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tasks)", step, total, notebook, count),
	}
}

func warmFailedUpdate(notebook string, step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, notebook, err),
	}
}
