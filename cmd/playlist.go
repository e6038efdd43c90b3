package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/playlist"
	"github.com/desertthunder/nisu/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistShow fetches a notebook's playlist, merges it with the cached copy,
// and prints the tasks in cursor order.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	notebook := cmd.StringArg("notebook")
	if notebook == "" {
		return fmt.Errorf("%w: notebook name or id is required", shared.ErrMissingArgument)
	}

	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Info("loading playlist", "notebook", notebook)

	cached, _, err := r.playlists.Get(notebook)
	if err != nil {
		r.logger.Warn("failed to read cached playlist", "error", err)
		cached = nil
	}

	resp, err := r.classroom.Playlist(ctx, models.NotebookRef{Name: notebook})
	if err != nil {
		if len(cached) == 0 {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		r.logger.Warn("playlist fetch failed, using cached copy", "error", err)
	}

	var tasks []models.Task
	var cursor int
	if resp != nil {
		tasks, cursor = playlist.Merge(resp.Playlist, cached)
		if resp.NotebookID != "" {
			if err := r.notebooks.RecordMapping(resp.NotebookID, notebook); err != nil {
				r.logger.Warn("failed to record notebook mapping", "error", err)
			}
		}
		if err := r.playlists.Replace(notebook, tasks, cursor); err != nil {
			r.logger.Warn("failed to cache merged playlist", "error", err)
		}
	} else {
		tasks = cached
		cursor = playlist.Cursor(tasks)
	}

	if len(tasks) == 0 {
		return r.writePlain("No tasks available for this notebook.\n")
	}

	if useJSON {
		return r.writeJSON(tasks, pretty)
	}

	r.writePlain("Playlist for %s (%d tasks, next is #%d):\n\n", notebook, len(tasks), cursor+1)
	for i, task := range tasks {
		mark := " "
		if task.Complete() {
			mark = "✓"
		}
		r.writePlain("%s %d. [%s] %s\n", mark, i+1, task.Kind, task.Payload)
	}

	return nil
}
