// package resolver determines which notebook a study page URL refers to.
//
// Resolution is best effort. An unrecognized URL yields a nil ref, never an
// error; callers present a "please open a notebook" prompt instead of
// failing. A development fallback can substitute a configured default
// notebook so the rest of the pipeline can be exercised on any page.
package resolver

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/repositories"
	"github.com/desertthunder/nisu/internal/shared"
)

// Resolver maps page URLs to notebook refs using the cached id↔name maps.
type Resolver struct {
	notebooks       *repositories.NotebookRepository
	devFallback     bool
	defaultNotebook string
	logger          *log.Logger
}

// NewResolver creates a resolver over the notebook cache. When cfg enables
// the development fallback, unrecognized URLs resolve to the configured
// default notebook instead of nil.
func NewResolver(notebooks *repositories.NotebookRepository, cfg shared.AutomationConfig, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{
		notebooks:       notebooks,
		devFallback:     cfg.DevFallback,
		defaultNotebook: cfg.DefaultNotebook,
		logger:          logger,
	}
}

// Resolve parses a page URL against the three known shapes and returns the
// notebook it names, or nil when no notebook context can be determined.
//
// Shapes, in match order:
//
//	/app/{name}            human-readable name only
//	/notebooks/{id}/{name} id and name together
//	/notebook/{id}         opaque id alone, recovered via the local cache
func (r *Resolver) Resolve(pageURL string) *models.NotebookRef {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		r.logger.Warn("unparseable page url", "url", pageURL, "error", err)
		return r.fallback()
	}

	segments := splitPath(parsed.Path)
	if len(segments) == 0 {
		return r.fallback()
	}

	switch segments[0] {
	case "app":
		if len(segments) >= 2 {
			return &models.NotebookRef{Name: segments[1]}
		}
	case "notebooks":
		if len(segments) >= 3 {
			ref := &models.NotebookRef{ID: segments[1], Name: segments[2]}
			r.remember(ref)
			return ref
		}
	case "notebook":
		if len(segments) >= 2 {
			return r.resolveByID(segments[1])
		}
	}

	return r.fallback()
}

// resolveByID recovers a notebook name for an id-only URL from the cache.
// The cache may have no match, in which case the notebook is unknown.
func (r *Resolver) resolveByID(id string) *models.NotebookRef {
	name, err := r.notebooks.NameByID(id)
	if err != nil {
		r.logger.Debug("no cached name for notebook id", "id", id)
		return r.fallback()
	}

	ref := &models.NotebookRef{Name: name, ID: id}
	if err := r.notebooks.TouchOpened(id); err != nil {
		r.logger.Warn("failed to record notebook open", "error", err)
	}
	return ref
}

// remember updates the id↔name map and last-opened record. Failures are
// logged; resolution itself already succeeded.
func (r *Resolver) remember(ref *models.NotebookRef) {
	if err := r.notebooks.RecordMapping(ref.ID, ref.Name); err != nil {
		r.logger.Warn("failed to record notebook mapping", "error", err)
		return
	}
	if err := r.notebooks.TouchOpened(ref.ID); err != nil {
		r.logger.Warn("failed to record notebook open", "error", err)
	}
}

func (r *Resolver) fallback() *models.NotebookRef {
	if r.devFallback && r.defaultNotebook != "" {
		r.logger.Debug("using development fallback notebook", "name", r.defaultNotebook)
		return &models.NotebookRef{Name: r.defaultNotebook}
	}
	return nil
}

// splitPath returns the non-empty path segments. url.Parse has already
// decoded percent escapes.
func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
