package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/nisu/internal/formatter"
	"github.com/desertthunder/nisu/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProgressShow prints a notebook's completion state, combining the cached
// playlist with the server's completed-item set when reachable.
func (r *Runner) ProgressShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	notebook := cmd.StringArg("notebook")
	if notebook == "" {
		return fmt.Errorf("%w: notebook name is required", shared.ErrMissingArgument)
	}

	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	tasks, _, err := r.playlists.Get(notebook)
	if err != nil {
		return fmt.Errorf("failed to read cached playlist: %w", err)
	}

	report := formatter.NewProgressReport(notebook, tasks)

	// The server's completed set is advisory; the cached playlist already
	// reflects local runs.
	key := notebook
	if id, err := r.notebooks.IDByName(notebook); err == nil {
		key = id
	}
	remote, err := r.classroom.Progress(ctx, key)
	if err != nil {
		r.logger.Warn("failed to fetch remote progress", "error", err)
		remote = nil
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"notebook":       notebook,
			"tasks":          report.Tasks,
			"cursor":         report.Cursor,
			"completedItems": remote,
		}, pretty)
	}

	r.writePlain("Notebook: %s\n", notebook)
	r.writePlain("Local: %d/%d tasks complete (%.0f%%)\n", report.CompletedCount(), len(report.Tasks), report.PercentComplete())
	if remote != nil {
		r.writePlain("Server: %d items recorded complete\n", len(remote))
	}

	return nil
}

// ProgressReport exports a progress report file for a notebook.
func (r *Runner) ProgressReport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	notebook := cmd.StringArg("notebook")
	if notebook == "" {
		return fmt.Errorf("%w: notebook name is required", shared.ErrMissingArgument)
	}

	format := cmd.String("format")
	output := cmd.String("output")

	tasks, _, err := r.playlists.Get(notebook)
	if err != nil {
		return fmt.Errorf("failed to read cached playlist: %w", err)
	}
	if len(tasks) == 0 {
		return fmt.Errorf("%w: nothing cached for %q, run 'nisu playlist' first", shared.ErrEmptyPlaylist, notebook)
	}

	report := formatter.NewProgressReport(notebook, tasks)
	path, err := formatter.WriteReport(report, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("report written", "path", path, "format", format)

	r.writePlain("✓ Report written to %s\n", path)
	r.writePlain("  Notebook: %s\n", notebook)
	r.writePlain("  Progress: %d/%d tasks\n", report.CompletedCount(), len(report.Tasks))
	return nil
}
