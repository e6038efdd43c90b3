package main

import (
	"context"
	"sync"

	"github.com/desertthunder/nisu/internal/engine"
	"github.com/urfave/cli/v3"
)

// CacheWarm prefetches and caches the playlist for every assigned notebook,
// so study sessions work offline.
func (r *Runner) CacheWarm(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	opts := engine.WarmOpts{
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}

	r.logger.Info("warming playlist cache", "workers", opts.NumWorkers, "rate", opts.RateLimit)

	progress := make(chan engine.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Warm(ctx, progress, opts)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	r.writePlainln("✓ Cached %d/%d notebooks", result.Cached, result.TotalNotebooks)
	if result.Failed > 0 {
		r.writePlain("✗ %d notebooks failed, rerun to retry\n", result.Failed)
	}
	return nil
}
