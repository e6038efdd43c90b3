// package executor drives one learning task against a study surface.
//
// Execution is best effort. A surface that never becomes ready transitions
// the task to [StateFailed], but the caller still advances the playlist;
// forward progress in the classroom beats strict correctness. Failures are
// logged, never escalated.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/shared"
)

// State is the per-task execution state.
type State int

const (
	StateIdle State = iota
	StateDispatching
	StateAwaitingReadiness
	StateDone
	StateFailed
)

// String returns the state name for logs and status displays.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateAwaitingReadiness:
		return "awaiting readiness"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Surface is the study page the executor drives: a query input with a submit
// control, an assignment input with its own submit control, and a media
// player overlay.
type Surface interface {
	// WritePrompt replaces the query input's content.
	WritePrompt(text string) error

	// PromptReady reports whether the query submit control is present and
	// enabled. Polled, must be cheap.
	PromptReady() bool

	// SubmitPrompt activates the query submit control.
	SubmitPrompt() error

	// WriteAssignment replaces the assignment input's content.
	WriteAssignment(text string) error

	// AssignmentReady reports whether the assignment submit control is
	// present and enabled.
	AssignmentReady() bool

	// SubmitAssignment activates the assignment submit control.
	SubmitAssignment() error

	// ShowMedia renders an embeddable media URL in the player overlay.
	ShowMedia(url string, audio bool) error
}

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// Executor runs tasks one at a time against an injected surface.
type Executor struct {
	surface Surface
	opener  Opener
	cfg     shared.AutomationConfig
	logger  *log.Logger
	state   State
}

// NewExecutor creates an executor over the given surface and opener.
func NewExecutor(surface Surface, opener Opener, cfg shared.AutomationConfig, logger *log.Logger) *Executor {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Executor{
		surface: surface,
		opener:  opener,
		cfg:     cfg,
		logger:  logger,
		state:   StateIdle,
	}
}

// State returns the state of the most recent execution.
func (e *Executor) State() State {
	return e.state
}

// Execute runs one task to its terminal state and returns it. The error
// describes a [StateFailed] outcome for logging; callers advance the
// playlist either way.
func (e *Executor) Execute(ctx context.Context, task models.Task) (State, error) {
	e.state = StateDispatching
	e.logger.Debug("dispatching task", "id", task.ID, "kind", task.Kind)

	var err error
	switch task.Kind {
	case models.KindPrompt, models.KindQuiz:
		err = e.submitInput(ctx, task.Payload,
			e.surface.WritePrompt, e.surface.PromptReady, e.surface.SubmitPrompt)
	case models.KindAssignment:
		err = e.submitInput(ctx, task.Payload,
			e.surface.WriteAssignment, e.surface.AssignmentReady, e.surface.SubmitAssignment)
	case models.KindWebsite:
		err = e.openWebsite(task.Payload)
	case models.KindMultimedia:
		err = e.showMedia(task.Payload)
	case models.KindUnknown:
		// Unrecognized kinds never block the pipeline.
		e.logger.Warn("unknown task kind, skipping", "id", task.ID)
		e.state = StateDone
		return e.state, nil
	default:
		e.logger.Warn("unhandled task kind, skipping", "id", task.ID, "kind", task.Kind)
		e.state = StateDone
		return e.state, nil
	}

	if err != nil {
		e.logger.Error("task execution failed", "id", task.ID, "error", err)
		e.state = StateFailed
		return e.state, err
	}

	e.settle(ctx)
	e.state = StateDone
	return e.state, nil
}

// submitInput writes the payload into an input surface, waits for its submit
// control to become ready, and activates it.
func (e *Executor) submitInput(ctx context.Context, payload string, write func(string) error, ready func() bool, submit func() error) error {
	if err := write(payload); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSurfaceUnavailable, err)
	}

	e.state = StateAwaitingReadiness
	if err := WaitFor(ctx, e.cfg.PollInterval(), e.cfg.MaxPollAttempts, ready); err != nil {
		return fmt.Errorf("submit control never became ready: %w", err)
	}

	if err := submit(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSurfaceUnavailable, err)
	}
	return nil
}

func (e *Executor) openWebsite(payload string) error {
	if err := e.opener.Open(EnsureScheme(payload)); err != nil {
		return fmt.Errorf("failed to open website: %w", err)
	}
	return nil
}

func (e *Executor) showMedia(payload string) error {
	embed := TransformMediaURL(payload)
	if err := e.surface.ShowMedia(embed, IsAudioURL(embed)); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSurfaceUnavailable, err)
	}
	return nil
}

// settle pauses briefly after a dispatch so the external page can visually
// update before the next task runs.
func (e *Executor) settle(ctx context.Context) {
	delay := e.cfg.SettleDelay()
	if delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
