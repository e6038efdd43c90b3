package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestNotebookRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotebookRepository(db)

	bio := models.Notebook{
		ID:         "nb-1",
		Name:       "Sample Biology Notebook",
		ExternalID: "5629",
		CreatedBy:  "teacher@example.com",
		UpdatedAt:  time.Now(),
	}

	t.Run("upsert and lookup by id", func(t *testing.T) {
		if err := repo.Upsert(bio); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		name, err := repo.NameByID("nb-1")
		if err != nil {
			t.Fatalf("NameByID failed: %v", err)
		}
		if name != bio.Name {
			t.Errorf("name = %q, want %q", name, bio.Name)
		}
	})

	t.Run("lookup by external id", func(t *testing.T) {
		name, err := repo.NameByID("5629")
		if err != nil {
			t.Fatalf("NameByID by external id failed: %v", err)
		}
		if name != bio.Name {
			t.Errorf("name = %q, want %q", name, bio.Name)
		}
	})

	t.Run("lookup by name", func(t *testing.T) {
		id, err := repo.IDByName(bio.Name)
		if err != nil {
			t.Fatalf("IDByName failed: %v", err)
		}
		if id != "nb-1" {
			t.Errorf("id = %q, want nb-1", id)
		}
	})

	t.Run("unknown id is a not found error", func(t *testing.T) {
		_, err := repo.NameByID("missing")
		if !errors.Is(err, shared.ErrNotebookNotFound) {
			t.Errorf("expected ErrNotebookNotFound, got %v", err)
		}
	})

	t.Run("upsert refreshes metadata", func(t *testing.T) {
		renamed := bio
		renamed.Name = "Biology Notebook (Renamed)"
		if err := repo.Upsert(renamed); err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}

		name, err := repo.NameByID("nb-1")
		if err != nil {
			t.Fatalf("NameByID failed: %v", err)
		}
		if name != renamed.Name {
			t.Errorf("name = %q, want %q", name, renamed.Name)
		}
	})

	t.Run("upsert rejects blank identity", func(t *testing.T) {
		err := repo.Upsert(models.Notebook{Name: "no id"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("last opened tracking", func(t *testing.T) {
		if _, err := repo.LastOpened(); !errors.Is(err, shared.ErrNotebookNotFound) {
			t.Errorf("expected ErrNotebookNotFound before any open, got %v", err)
		}

		if err := repo.TouchOpened("nb-1"); err != nil {
			t.Fatalf("TouchOpened failed: %v", err)
		}

		nb, err := repo.LastOpened()
		if err != nil {
			t.Fatalf("LastOpened failed: %v", err)
		}
		if nb.ID != "nb-1" {
			t.Errorf("last opened = %q, want nb-1", nb.ID)
		}
	})

	t.Run("touch by external id", func(t *testing.T) {
		if err := repo.TouchOpened("5629"); err != nil {
			t.Errorf("TouchOpened by external id failed: %v", err)
		}
	})

	t.Run("touch unknown notebook fails", func(t *testing.T) {
		err := repo.TouchOpened("missing")
		if !errors.Is(err, shared.ErrNotebookNotFound) {
			t.Errorf("expected ErrNotebookNotFound, got %v", err)
		}
	})

	t.Run("record mapping fills gaps only", func(t *testing.T) {
		if err := repo.RecordMapping("nb-2", "Chemistry Notes"); err != nil {
			t.Fatalf("RecordMapping failed: %v", err)
		}

		id, err := repo.IDByName("Chemistry Notes")
		if err != nil {
			t.Fatalf("IDByName failed: %v", err)
		}
		if id != "nb-2" {
			t.Errorf("id = %q, want nb-2", id)
		}

		// Blank pairs are silently ignored, the mapping is best effort.
		if err := repo.RecordMapping("", "Chemistry Notes"); err != nil {
			t.Errorf("blank mapping should be a no-op: %v", err)
		}
	})

	t.Run("list orders by name", func(t *testing.T) {
		notebooks, err := repo.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(notebooks) != 2 {
			t.Fatalf("expected 2 notebooks, got %d", len(notebooks))
		}
		if notebooks[0].Name > notebooks[1].Name {
			t.Errorf("notebooks not ordered by name: %q before %q", notebooks[0].Name, notebooks[1].Name)
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)

	tasks := []models.Task{
		{ID: "t1", Kind: models.KindPrompt, Payload: "Summarize chapter one", Status: models.StatusComplete},
		{ID: "t2", Kind: models.KindMultimedia, Payload: "https://youtu.be/abc", Status: models.StatusPending},
	}

	t.Run("empty notebook yields empty playlist", func(t *testing.T) {
		got, cursor, err := repo.Get("Sample Biology Notebook")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 0 || cursor != 0 {
			t.Errorf("expected empty playlist and zero cursor, got %d tasks, cursor %d", len(got), cursor)
		}
	})

	t.Run("replace then get round trips", func(t *testing.T) {
		if err := repo.Replace("Sample Biology Notebook", tasks, 1); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}

		got, cursor, err := repo.Get("Sample Biology Notebook")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(got))
		}
		for i := range tasks {
			if got[i] != tasks[i] {
				t.Errorf("task %d = %+v, want %+v", i, got[i], tasks[i])
			}
		}
		if cursor != 1 {
			t.Errorf("cursor = %d, want 1", cursor)
		}
	})

	t.Run("replace discards prior value", func(t *testing.T) {
		shorter := []models.Task{{ID: "t9", Kind: models.KindQuiz, Payload: "take the quiz", Status: models.StatusPending}}
		if err := repo.Replace("Sample Biology Notebook", shorter, 0); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}

		got, cursor, err := repo.Get("Sample Biology Notebook")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != "t9" {
			t.Errorf("expected only t9, got %+v", got)
		}
		if cursor != 0 {
			t.Errorf("cursor = %d, want 0", cursor)
		}
	})

	t.Run("notebooks are isolated", func(t *testing.T) {
		if err := repo.Replace("Chemistry Notes", tasks, 0); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}

		got, _, err := repo.Get("Sample Biology Notebook")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("other notebook's replace leaked, got %d tasks", len(got))
		}
	})

	t.Run("set cursor alone", func(t *testing.T) {
		if err := repo.SetCursor("Chemistry Notes", 2); err != nil {
			t.Fatalf("SetCursor failed: %v", err)
		}

		got, cursor, err := repo.Get("Chemistry Notes")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("SetCursor should not touch tasks, got %d", len(got))
		}
		if cursor != 2 {
			t.Errorf("cursor = %d, want 2", cursor)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	user := models.UserData{Email: "student@example.com", Name: "Test Student", Picture: "https://example.com/p.png"}

	t.Run("load before save is not authenticated", func(t *testing.T) {
		_, _, err := repo.Load()
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		if err := repo.Save("tok-123", user); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		token, got, err := repo.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if token != "tok-123" {
			t.Errorf("token = %q, want tok-123", token)
		}
		if got != user {
			t.Errorf("user = %+v, want %+v", got, user)
		}
	})

	t.Run("save replaces the prior session", func(t *testing.T) {
		if err := repo.Save("tok-456", user); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}

		token, _, err := repo.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if token != "tok-456" {
			t.Errorf("token = %q, want tok-456", token)
		}
	})

	t.Run("blank token is rejected", func(t *testing.T) {
		err := repo.Save("", user)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("clear signs out", func(t *testing.T) {
		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		if _, _, err := repo.Load(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after clear, got %v", err)
		}

		if err := repo.Clear(); err != nil {
			t.Errorf("clearing an empty session should succeed: %v", err)
		}
	})
}
