// Classroom backend implementation of [Classroom]
//
// Requests carry a bearer token and are throttled with a client-side rate
// limiter so a cache warm cannot hammer the shared backend.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/shared"
	"golang.org/x/time/rate"
)

// ClassroomService implements the Classroom interface over HTTP.
type ClassroomService struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClassroomService creates a new classroom client. requestsPerSecond
// bounds the request rate; zero or negative disables throttling.
func NewClassroomService(baseURL string, requestsPerSecond float64, client *http.Client) *ClassroomService {
	if baseURL == "" {
		baseURL = shared.DefaultConfig().API.BaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &ClassroomService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
	}
}

// SetToken installs the bearer token used for subsequent requests.
func (c *ClassroomService) SetToken(token string) {
	c.token = token
}

// doRequest performs an authenticated HTTP request against the backend and
// decodes the JSON response into result.
func (c *ClassroomService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if c.token == "" {
		return fmt.Errorf("%w: please sign in", shared.ErrNotAuthenticated)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: please sign in", shared.ErrNotAuthenticated)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrNotebookNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, text)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Notebooks retrieves every notebook assigned to the signed-in student.
func (c *ClassroomService) Notebooks(ctx context.Context) ([]models.Notebook, error) {
	var response struct {
		Notebooks []models.Notebook `json:"notebooks"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/students/notebooks", nil, &response); err != nil {
		return nil, err
	}
	return response.Notebooks, nil
}

// Playlist retrieves the playlist for a notebook by name or id.
func (c *ClassroomService) Playlist(ctx context.Context, ref models.NotebookRef) (*PlaylistResponse, error) {
	key := ref.Key()
	if key == "" {
		return nil, fmt.Errorf("%w: notebook name or id required", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/students/notebooks/%s/playlist", url.PathEscape(key))

	var response PlaylistResponse
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ReportProgress records one task completion with the backend.
func (c *ClassroomService) ReportProgress(ctx context.Context, update ProgressUpdate) (*ProgressResponse, error) {
	if update.ItemID == "" {
		return nil, fmt.Errorf("%w: item id required", shared.ErrInvalidInput)
	}
	if update.NotebookID == "" && update.NotebookName == "" {
		return nil, fmt.Errorf("%w: notebook id or name required", shared.ErrInvalidInput)
	}

	var response ProgressResponse
	if err := c.doRequest(ctx, http.MethodPost, "/students/progress", update, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Progress retrieves the completed item ids for a notebook.
func (c *ClassroomService) Progress(ctx context.Context, notebookID string) ([]string, error) {
	if notebookID == "" {
		return nil, fmt.Errorf("%w: notebook id required", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/students/progress/%s", url.PathEscape(notebookID))

	var response struct {
		CompletedItems []string `json:"completedItems"`
	}
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.CompletedItems, nil
}
