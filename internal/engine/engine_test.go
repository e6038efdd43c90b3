package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/nisu/internal/executor"
	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/repositories"
	"github.com/desertthunder/nisu/internal/resolver"
	"github.com/desertthunder/nisu/internal/shared"
	"github.com/desertthunder/nisu/internal/syncer"
	nisutest "github.com/desertthunder/nisu/internal/testing"
)

type fixture struct {
	engine    *Engine
	classroom *nisutest.MockClassroom
	surface   *nisutest.MockSurface
	opener    *nisutest.MockOpener
	notebooks *repositories.NotebookRepository
	playlists *repositories.PlaylistRepository
}

func newFixture(t *testing.T, classroom *nisutest.MockClassroom) *fixture {
	t.Helper()

	db := nisutest.OpenTestDB(t)
	notebooks := repositories.NewNotebookRepository(db)
	playlists := repositories.NewPlaylistRepository(db)

	cfg := shared.AutomationConfig{PollIntervalMS: 1, MaxPollAttempts: 5, SettleDelayMS: 0}
	surface := &nisutest.MockSurface{}
	opener := &nisutest.MockOpener{}

	eng := NewEngine(
		classroom,
		resolver.NewResolver(notebooks, cfg, nil),
		executor.NewExecutor(surface, opener, cfg, nil),
		syncer.NewSyncer(classroom, notebooks, playlists, nil),
		notebooks,
		playlists,
		nil,
	)

	return &fixture{
		engine:    eng,
		classroom: classroom,
		surface:   surface,
		opener:    opener,
		notebooks: notebooks,
		playlists: playlists,
	}
}

const bioURL = "https://notebooklm.google.com/app/Biology%20101"

func bioPlaylist() map[string][]models.Task {
	return map[string][]models.Task{
		"Biology 101": {
			{ID: "t1", Kind: models.KindPrompt, Payload: "Summarize chapter one"},
			{ID: "t2", Kind: models.KindWebsite, Payload: "example.com/reading"},
			{ID: "t3", Kind: models.KindMultimedia, Payload: "https://youtu.be/abc"},
		},
	}
}

func TestRunNext(t *testing.T) {
	ctx := context.Background()

	t.Run("executes the task under the cursor", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{Playlists: bioPlaylist()})

		result, err := f.engine.RunNext(ctx, nil, bioURL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Task == nil || result.Task.ID != "t1" {
			t.Fatalf("expected t1 to run, got %+v", result.Task)
		}
		if result.State != executor.StateDone {
			t.Errorf("state = %v, want done", result.State)
		}
		if result.Cursor != 1 || result.Total != 3 || result.AllComplete {
			t.Errorf("result = %+v, want cursor 1 of 3", result)
		}
		if f.surface.PromptText != "Summarize chapter one" {
			t.Errorf("prompt text = %q", f.surface.PromptText)
		}
		if !f.classroom.Completed["t1"] {
			t.Error("completion was not reported")
		}

		tasks, cursor, err := f.playlists.Get("Biology 101")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if tasks[0].Status != models.StatusComplete || cursor != 1 {
			t.Errorf("cached state = %+v cursor %d", tasks, cursor)
		}
	})

	t.Run("second trigger runs the next task", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{Playlists: bioPlaylist()})

		if _, err := f.engine.RunNext(ctx, nil, bioURL); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		result, err := f.engine.RunNext(ctx, nil, bioURL)
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		if result.Task == nil || result.Task.ID != "t2" {
			t.Fatalf("expected t2 to run, got %+v", result.Task)
		}
		if len(f.opener.Opened) != 1 || f.opener.Opened[0] != "http://example.com/reading" {
			t.Errorf("opened = %v", f.opener.Opened)
		}
	})

	t.Run("all complete reports without executing", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{Playlists: bioPlaylist()})

		for range 3 {
			if _, err := f.engine.RunNext(ctx, nil, bioURL); err != nil {
				t.Fatalf("run failed: %v", err)
			}
		}

		result, err := f.engine.RunNext(ctx, nil, bioURL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.AllComplete || result.Task != nil {
			t.Errorf("result = %+v, want all complete with no task", result)
		}
	})

	t.Run("empty remote playlist uses the orientation fallback", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{})

		result, err := f.engine.RunNext(ctx, nil, bioURL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.UsedFallback {
			t.Error("expected the fallback playlist")
		}
		if result.Task == nil || result.Task.ID != "default1" {
			t.Errorf("task = %+v, want default1", result.Task)
		}
	})

	t.Run("fetch failure falls back to the cached playlist", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{FailFetch: true})

		cached := []models.Task{
			{ID: "t1", Kind: models.KindPrompt, Payload: "p1", Status: models.StatusComplete},
			{ID: "t2", Kind: models.KindPrompt, Payload: "p2", Status: models.StatusPending},
		}
		if err := f.playlists.Replace("Biology 101", cached, 1); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		result, err := f.engine.RunNext(ctx, nil, bioURL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Task == nil || result.Task.ID != "t2" {
			t.Errorf("task = %+v, want cached t2", result.Task)
		}
	})

	t.Run("unresolvable url is a notebook error", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{Playlists: bioPlaylist()})

		_, err := f.engine.RunNext(ctx, nil, "https://notebooklm.google.com/")
		if !errors.Is(err, shared.ErrNotebookNotFound) {
			t.Errorf("expected ErrNotebookNotFound, got %v", err)
		}
	})

	t.Run("concurrent trigger is rejected", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{Playlists: bioPlaylist()})

		f.engine.mu.Lock()
		defer f.engine.mu.Unlock()

		_, err := f.engine.RunNext(ctx, nil, bioURL)
		if !errors.Is(err, shared.ErrSessionBusy) {
			t.Errorf("expected ErrSessionBusy, got %v", err)
		}
	})

	t.Run("playlist response id feeds the name map", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{
			Playlists:   bioPlaylist(),
			PlaylistIDs: map[string]string{"Biology 101": "nb-1"},
		})

		if _, err := f.engine.RunNext(ctx, nil, bioURL); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		id, err := f.notebooks.IDByName("Biology 101")
		if err != nil {
			t.Fatalf("IDByName failed: %v", err)
		}
		if id != "nb-1" {
			t.Errorf("id = %q, want nb-1", id)
		}

		// With the mapping recorded, the completion report carries the id.
		if _, err := f.engine.RunNext(ctx, nil, bioURL); err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		last := f.classroom.Updates[len(f.classroom.Updates)-1]
		if last.NotebookID != "nb-1" {
			t.Errorf("update id = %q, want nb-1", last.NotebookID)
		}
	})
}

func TestRunAll(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, &nisutest.MockClassroom{Playlists: bioPlaylist()})

	progress := make(chan ProgressUpdate, 64)
	session, err := f.engine.RunAll(ctx, progress, bioURL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(session.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(session.Runs))
	}
	for _, id := range []string{"t1", "t2", "t3"} {
		if !f.classroom.Completed[id] {
			t.Errorf("%s was never reported complete", id)
		}
	}

	tasks, cursor, err := f.playlists.Get("Biology 101")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cursor != 3 {
		t.Errorf("cursor = %d, want 3", cursor)
	}
	for _, task := range tasks {
		if !task.Complete() {
			t.Errorf("task %s not complete after RunAll", task.ID)
		}
	}

	if len(progress) == 0 {
		t.Error("expected progress updates on the channel")
	}
}

func TestWarm(t *testing.T) {
	ctx := context.Background()

	t.Run("caches every notebook playlist", func(t *testing.T) {
		classroom := &nisutest.MockClassroom{
			NotebookList: []models.Notebook{
				{ID: "nb-1", Name: "Biology 101"},
				{ID: "nb-2", Name: "Chemistry Notes"},
			},
			Playlists: map[string][]models.Task{
				"nb-1": {{ID: "t1", Kind: models.KindPrompt, Payload: "p1"}},
				"nb-2": {{ID: "t9", Kind: models.KindQuiz, Payload: "q1"}},
			},
		}
		f := newFixture(t, classroom)

		result, err := f.engine.Warm(ctx, nil, WarmOpts{NumWorkers: 2})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Cached != 2 || result.Failed != 0 {
			t.Errorf("result = %+v, want 2 cached", result)
		}

		tasks, _, err := f.playlists.Get("Biology 101")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != "t1" {
			t.Errorf("cached playlist = %+v", tasks)
		}

		// The listing also refreshed the id↔name maps.
		name, err := f.notebooks.NameByID("nb-2")
		if err != nil || name != "Chemistry Notes" {
			t.Errorf("NameByID = %q, %v", name, err)
		}
	})

	t.Run("warm preserves local completion status", func(t *testing.T) {
		classroom := &nisutest.MockClassroom{
			NotebookList: []models.Notebook{{ID: "nb-1", Name: "Biology 101"}},
			Playlists: map[string][]models.Task{
				"nb-1": {
					{ID: "t1", Kind: models.KindPrompt, Payload: "p1"},
					{ID: "t2", Kind: models.KindPrompt, Payload: "p2"},
				},
			},
		}
		f := newFixture(t, classroom)

		cached := []models.Task{{ID: "t1", Kind: models.KindPrompt, Payload: "p1", Status: models.StatusComplete}}
		if err := f.playlists.Replace("Biology 101", cached, 1); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		if _, err := f.engine.Warm(ctx, nil, WarmOpts{}); err != nil {
			t.Fatalf("warm failed: %v", err)
		}

		tasks, cursor, err := f.playlists.Get("Biology 101")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(tasks) != 2 || tasks[0].Status != models.StatusComplete {
			t.Errorf("merged warm result = %+v", tasks)
		}
		if cursor != 1 {
			t.Errorf("cursor = %d, want 1", cursor)
		}
	})

	t.Run("listing failure is fatal", func(t *testing.T) {
		f := newFixture(t, &nisutest.MockClassroom{FailFetch: true})

		if _, err := f.engine.Warm(ctx, nil, WarmOpts{}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
