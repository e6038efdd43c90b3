// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/services"
	"github.com/desertthunder/nisu/internal/shared"
)

// MockClassroom is a test double for [services.Classroom]. Zero value serves
// empty data; populate the fields to script responses.
type MockClassroom struct {
	NotebookList []models.Notebook
	Playlists    map[string][]models.Task // keyed by ref.Key()
	PlaylistIDs  map[string]string        // notebookId returned per key
	Completed    map[string]bool
	Updates      []services.ProgressUpdate
	FailFetch    bool
	FailReport   bool
}

func (m *MockClassroom) Notebooks(ctx context.Context) ([]models.Notebook, error) {
	if m.FailFetch {
		return nil, errors.New("backend unreachable")
	}
	return m.NotebookList, nil
}

func (m *MockClassroom) Playlist(ctx context.Context, ref models.NotebookRef) (*services.PlaylistResponse, error) {
	if m.FailFetch {
		return nil, errors.New("backend unreachable")
	}
	return &services.PlaylistResponse{
		NotebookID: m.PlaylistIDs[ref.Key()],
		Playlist:   m.Playlists[ref.Key()],
	}, nil
}

func (m *MockClassroom) ReportProgress(ctx context.Context, update services.ProgressUpdate) (*services.ProgressResponse, error) {
	if m.FailReport {
		return nil, errors.New("backend unreachable")
	}

	m.Updates = append(m.Updates, update)
	if m.Completed == nil {
		m.Completed = make(map[string]bool)
	}
	if update.Completed {
		m.Completed[update.ItemID] = true
	} else {
		delete(m.Completed, update.ItemID)
	}

	return &services.ProgressResponse{Success: true, CompletedItems: m.CompletedItems()}, nil
}

func (m *MockClassroom) Progress(ctx context.Context, notebookID string) ([]string, error) {
	if m.FailFetch {
		return nil, errors.New("backend unreachable")
	}
	return m.CompletedItems(), nil
}

// CompletedItems returns the simulated server-side completed set.
func (m *MockClassroom) CompletedItems() []string {
	items := make([]string, 0, len(m.Completed))
	for id := range m.Completed {
		items = append(items, id)
	}
	return items
}

// MockSurface is a test double for the executor's study surface. Every
// control reports ready immediately.
type MockSurface struct {
	PromptText     string
	AssignmentText string
	MediaURL       string
	MediaAudio     bool
	Submitted      int
}

func (m *MockSurface) WritePrompt(text string) error     { m.PromptText = text; return nil }
func (m *MockSurface) PromptReady() bool                 { return true }
func (m *MockSurface) SubmitPrompt() error               { m.Submitted++; return nil }
func (m *MockSurface) WriteAssignment(text string) error { m.AssignmentText = text; return nil }
func (m *MockSurface) AssignmentReady() bool             { return true }
func (m *MockSurface) SubmitAssignment() error           { m.Submitted++; return nil }

func (m *MockSurface) ShowMedia(url string, audio bool) error {
	m.MediaURL = url
	m.MediaAudio = audio
	return nil
}

// MockOpener records opened URLs.
type MockOpener struct {
	Opened []string
}

func (m *MockOpener) Open(url string) error {
	m.Opened = append(m.Opened, url)
	return nil
}

// OpenTestDB returns a migrated in-memory database that closes with the test.
func OpenTestDB(t *testing.T) *sql.DB {
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

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
