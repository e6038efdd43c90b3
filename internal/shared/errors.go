package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("session token expired")
	ErrAuthFailed       = fmt.Errorf("authentication failed")

	// API and backend errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotebookNotFound   = fmt.Errorf("notebook not found")
	ErrEmptyPlaylist      = fmt.Errorf("playlist is empty")

	// Automation errors
	ErrTaskTimeout        = fmt.Errorf("task readiness timed out")
	ErrSurfaceUnavailable = fmt.Errorf("page surface unavailable")
	ErrSessionBusy        = fmt.Errorf("a task is already executing")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
