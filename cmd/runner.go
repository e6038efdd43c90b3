package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nisu/internal/engine"
	"github.com/desertthunder/nisu/internal/executor"
	"github.com/desertthunder/nisu/internal/repositories"
	"github.com/desertthunder/nisu/internal/resolver"
	"github.com/desertthunder/nisu/internal/services"
	"github.com/desertthunder/nisu/internal/session"
	"github.com/desertthunder/nisu/internal/shared"
	"github.com/desertthunder/nisu/internal/syncer"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	classroom  *services.ClassroomService
	session    *session.Session
	engine     engine.StudyEngine
	db         *sql.DB
	notebooks  *repositories.NotebookRepository
	playlists  *repositories.PlaylistRepository
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// When a database handle is provided the full dependency graph is built:
// repositories, session, classroom client, and the study engine. Without one
// only the setup command is usable.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	r.classroom = services.NewClassroomService(opts.Config.API.BaseURL, opts.Config.API.RateLimit, opts.HTTPClient)

	if opts.DB != nil {
		r.notebooks = repositories.NewNotebookRepository(opts.DB)
		r.playlists = repositories.NewPlaylistRepository(opts.DB)
		r.session = session.NewSession(repositories.NewSessionRepository(opts.DB), opts.Logger)

		if err := r.session.Load(); err == nil {
			if token, err := r.session.Token(); err == nil {
				r.classroom.SetToken(token)
			}
		}

		surface := &consoleSurface{out: r.output}
		r.engine = engine.NewEngine(
			r.classroom,
			resolver.NewResolver(r.notebooks, opts.Config.Automation, opts.Logger),
			executor.NewExecutor(surface, &browserOpener{}, opts.Config.Automation, opts.Logger),
			syncer.NewSyncer(r.classroom, r.notebooks, r.playlists, opts.Logger),
			r.notebooks,
			r.playlists,
			opts.Logger,
		)
	}

	return r
}

// SetLogger replaces the runner's logger, e.g. to redirect logs to a file
// while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// requireStore guards actions that need the local database.
func (r *Runner) requireStore() error {
	if r.db == nil || r.engine == nil {
		return fmt.Errorf("%w: local database not initialized, run 'nisu setup database'", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, notebooksCommand, playlistCommand, runCommand, progressCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
