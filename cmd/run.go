package main

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/desertthunder/nisu/internal/engine"
	"github.com/desertthunder/nisu/internal/shared"
	"github.com/urfave/cli/v3"
)

// Run executes the next task in a notebook's playlist, or every remaining
// task with --all. Progress updates stream to the terminal as they happen.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	pageURL := cmd.String("url")
	if pageURL == "" {
		notebook := cmd.StringArg("notebook")
		if notebook == "" {
			return fmt.Errorf("%w: a notebook name or --url is required", shared.ErrMissingArgument)
		}
		pageURL = notebookPageURL(notebook)
	}

	progress := make(chan engine.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	if cmd.Bool("all") {
		session, err := r.engine.RunAll(ctx, progress, pageURL)
		close(progress)
		wg.Wait()
		if err != nil {
			return err
		}

		r.writePlainln("✓ Session complete: %d tasks run in %s", len(session.Runs), session.Notebook.Name)
		r.writePlain("Great job, no tasks left!\n")
		return nil
	}

	result, err := r.engine.RunNext(ctx, progress, pageURL)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	if result.AllComplete && result.Task == nil {
		return r.writePlain("Great job, no tasks left!\n")
	}

	r.writePlainln("✓ Task %s finished (%s)", result.Task.ID, result.State)
	if result.AllComplete {
		r.writePlain("Great job, no tasks left!\n")
	} else {
		r.writePlain("Progress: %d/%d tasks. Run again for the next one.\n", result.Cursor, result.Total)
	}
	return nil
}

// notebookPageURL builds the page URL the resolver expects from a name.
func notebookPageURL(notebook string) string {
	return "https://notebooklm.google.com/app/" + url.PathEscape(notebook)
}
