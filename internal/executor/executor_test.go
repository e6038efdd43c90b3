package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/shared"
)

// fakeSurface records every interaction so tests can assert on exactly what
// the executor touched.
type fakeSurface struct {
	promptText      string
	promptReadyIn   int // checks until the submit control reports ready
	promptSubmitted bool

	assignmentText      string
	assignmentReadyIn   int
	assignmentSubmitted bool

	mediaURL   string
	mediaAudio bool
	mediaShown bool
}

func (f *fakeSurface) WritePrompt(text string) error {
	f.promptText = text
	return nil
}

func (f *fakeSurface) PromptReady() bool {
	f.promptReadyIn--
	return f.promptReadyIn < 0
}

func (f *fakeSurface) SubmitPrompt() error {
	f.promptSubmitted = true
	return nil
}

func (f *fakeSurface) WriteAssignment(text string) error {
	f.assignmentText = text
	return nil
}

func (f *fakeSurface) AssignmentReady() bool {
	f.assignmentReadyIn--
	return f.assignmentReadyIn < 0
}

func (f *fakeSurface) SubmitAssignment() error {
	f.assignmentSubmitted = true
	return nil
}

func (f *fakeSurface) ShowMedia(url string, audio bool) error {
	f.mediaShown = true
	f.mediaURL = url
	f.mediaAudio = audio
	return nil
}

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) Open(url string) error {
	f.opened = append(f.opened, url)
	return nil
}

func testConfig() shared.AutomationConfig {
	return shared.AutomationConfig{PollIntervalMS: 1, MaxPollAttempts: 5, SettleDelayMS: 0}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("prompt writes and submits", func(t *testing.T) {
		surface := &fakeSurface{promptReadyIn: 2}
		e := NewExecutor(surface, &fakeOpener{}, testConfig(), nil)

		state, err := e.Execute(ctx, models.Task{ID: "t1", Kind: models.KindPrompt, Payload: "Summarize chapter one"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state != StateDone {
			t.Errorf("state = %v, want done", state)
		}
		if surface.promptText != "Summarize chapter one" {
			t.Errorf("prompt text = %q", surface.promptText)
		}
		if !surface.promptSubmitted {
			t.Error("prompt was never submitted")
		}
	})

	t.Run("quiz uses the prompt surface", func(t *testing.T) {
		surface := &fakeSurface{}
		e := NewExecutor(surface, &fakeOpener{}, testConfig(), nil)

		if _, err := e.Execute(ctx, models.Task{ID: "t2", Kind: models.KindQuiz, Payload: "Answer question 3"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !surface.promptSubmitted {
			t.Error("quiz should submit through the prompt surface")
		}
	})

	t.Run("assignment uses its own surface", func(t *testing.T) {
		surface := &fakeSurface{assignmentReadyIn: 1}
		e := NewExecutor(surface, &fakeOpener{}, testConfig(), nil)

		state, err := e.Execute(ctx, models.Task{ID: "t3", Kind: models.KindAssignment, Payload: "Write an essay"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state != StateDone {
			t.Errorf("state = %v, want done", state)
		}
		if surface.assignmentText != "Write an essay" || !surface.assignmentSubmitted {
			t.Errorf("assignment surface not driven: %+v", surface)
		}
		if surface.promptSubmitted {
			t.Error("assignment must not touch the prompt surface")
		}
	})

	t.Run("submit control never ready forces failure", func(t *testing.T) {
		surface := &fakeSurface{promptReadyIn: 1000}
		e := NewExecutor(surface, &fakeOpener{}, testConfig(), nil)

		state, err := e.Execute(ctx, models.Task{ID: "t4", Kind: models.KindPrompt, Payload: "p"})
		if state != StateFailed {
			t.Errorf("state = %v, want failed", state)
		}
		if !errors.Is(err, shared.ErrTaskTimeout) {
			t.Errorf("expected ErrTaskTimeout, got %v", err)
		}
		if surface.promptSubmitted {
			t.Error("timed-out task must not submit")
		}
	})

	t.Run("website opens a normalized url", func(t *testing.T) {
		opener := &fakeOpener{}
		e := NewExecutor(&fakeSurface{}, opener, testConfig(), nil)

		state, err := e.Execute(ctx, models.Task{ID: "t5", Kind: models.KindWebsite, Payload: "example.com/reading"})
		if err != nil || state != StateDone {
			t.Fatalf("state = %v, err = %v", state, err)
		}
		if len(opener.opened) != 1 || opener.opened[0] != "http://example.com/reading" {
			t.Errorf("opened = %v", opener.opened)
		}
	})

	t.Run("multimedia renders the embed form", func(t *testing.T) {
		surface := &fakeSurface{}
		e := NewExecutor(surface, &fakeOpener{}, testConfig(), nil)

		if _, err := e.Execute(ctx, models.Task{ID: "t6", Kind: models.KindMultimedia, Payload: "https://youtu.be/abc123"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if surface.mediaURL != "https://www.youtube.com/embed/abc123" {
			t.Errorf("media url = %q", surface.mediaURL)
		}
		if surface.mediaAudio {
			t.Error("youtube embed should not render as audio")
		}
	})

	t.Run("wav media renders as audio", func(t *testing.T) {
		surface := &fakeSurface{}
		e := NewExecutor(surface, &fakeOpener{}, testConfig(), nil)

		if _, err := e.Execute(ctx, models.Task{ID: "t7", Kind: models.KindMultimedia, Payload: "https://example.com/lecture.wav"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !surface.mediaAudio {
			t.Error("wav url should render as audio")
		}
	})

	t.Run("unknown kind completes without touching the surface", func(t *testing.T) {
		surface := &fakeSurface{}
		opener := &fakeOpener{}
		e := NewExecutor(surface, opener, testConfig(), nil)

		state, err := e.Execute(ctx, models.Task{ID: "t8", Kind: models.KindUnknown, Payload: "listen"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state != StateDone {
			t.Errorf("state = %v, want done", state)
		}
		if surface.promptText != "" || surface.mediaShown || len(opener.opened) != 0 {
			t.Errorf("unknown kind must not mutate the surface: %+v", surface)
		}
	})
}
