package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/playlist"
	"github.com/desertthunder/nisu/internal/shared"
	"golang.org/x/time/rate"
)

// WarmOpts contains configuration for concurrent playlist prefetching.
type WarmOpts struct {
	NumWorkers int     // Concurrent workers (default: 3)
	RateLimit  float64 // Requests per second (default: 5)
}

// NotebookWarmResult records the outcome of caching one notebook's playlist.
type NotebookWarmResult struct {
	Notebook  models.Notebook
	TaskCount int
	Success   bool
	Error     error
}

// WarmResult contains the outcome of a full cache warm.
type WarmResult struct {
	TotalNotebooks int
	Cached         int
	Failed         int
	Results        []NotebookWarmResult
}

type warmJob struct {
	notebook models.Notebook
}

// Warm fetches the playlist for every assigned notebook concurrently and
// caches each merged result, so a study session can start offline.
//
// A worker pool drains the notebook list with a shared rate limiter; partial
// failures are recorded per notebook, never fatal to the warm as a whole.
func (e *Engine) Warm(ctx context.Context, progress chan<- ProgressUpdate, opts WarmOpts) (*WarmResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	notebooks, err := e.classroom.Notebooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list notebooks: %v", shared.ErrAPIRequest, err)
	}

	// The listing itself refreshes both id↔name maps.
	if err := e.notebooks.UpsertAll(notebooks); err != nil {
		e.logger.Warn("failed to cache notebook listing", "error", err)
	}

	result := &WarmResult{
		TotalNotebooks: len(notebooks),
		Results:        make([]NotebookWarmResult, 0, len(notebooks)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan warmJob, len(notebooks))
	results := make(chan NotebookWarmResult, len(notebooks))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.warmWorker(ctx, &wg, limiter, jobs, results)
	}

	for i, nb := range notebooks {
		e.sendProgress(progress, warmingUpdate(nb.Name, i+1, len(notebooks)))
		jobs <- warmJob{notebook: nb}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Cached++
			e.sendProgress(progress, warmDoneUpdate(res.Notebook.Name, completed, len(notebooks), res.TaskCount))
		} else {
			result.Failed++
			e.sendProgress(progress, warmFailedUpdate(res.Notebook.Name, completed, len(notebooks), res.Error))
		}
	}

	return result, nil
}

// warmWorker drains warm jobs, fetching and caching one playlist per job.
func (e *Engine) warmWorker(ctx context.Context, wg *sync.WaitGroup, limiter *rate.Limiter, jobs <-chan warmJob, results chan<- NotebookWarmResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		results <- e.warmNotebook(ctx, job.notebook)
	}
}

// warmNotebook fetches one playlist and merges it into the cache, preserving
// any completion status already recorded locally.
func (e *Engine) warmNotebook(ctx context.Context, nb models.Notebook) NotebookWarmResult {
	result := NotebookWarmResult{Notebook: nb}

	resp, err := e.classroom.Playlist(ctx, models.NotebookRef{Name: nb.Name, ID: nb.ID})
	if err != nil {
		result.Error = fmt.Errorf("failed to fetch playlist: %w", err)
		return result
	}

	cached, _, err := e.playlists.Get(nb.Name)
	if err != nil {
		e.logger.Warn("failed to read cached playlist", "notebook", nb.Name, "error", err)
		cached = nil
	}

	merged, cursor := playlist.Merge(resp.Playlist, cached)
	if err := e.playlists.Replace(nb.Name, merged, cursor); err != nil {
		result.Error = fmt.Errorf("failed to cache playlist: %w", err)
		return result
	}

	result.TaskCount = len(merged)
	result.Success = true
	return result
}
