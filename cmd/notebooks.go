package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/nisu/internal/shared"
	"github.com/urfave/cli/v3"
)

// NotebooksList lists the student's assigned notebooks and refreshes the
// cached id↔name maps.
func (r *Runner) NotebooksList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Info("listing assigned notebooks")

	notebooks, err := r.classroom.Notebooks(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if err := r.notebooks.UpsertAll(notebooks); err != nil {
		r.logger.Warn("failed to cache notebook listing", "error", err)
	}

	if useJSON {
		return r.writeJSON(notebooks, pretty)
	}

	r.writePlain("Found %d notebooks:\n\n", len(notebooks))
	for i, nb := range notebooks {
		r.writePlain("%d. %s\n", i+1, nb.Name)
		r.writePlain("   ID: %s\n", nb.ID)
		if nb.CreatedBy != "" {
			r.writePlain("   Teacher: %s\n", nb.CreatedBy)
		}
		if !nb.UpdatedAt.IsZero() {
			r.writePlain("   Updated: %s\n", nb.UpdatedAt.Format("2006-01-02"))
		}
		r.writePlain("\n")
	}

	return nil
}
