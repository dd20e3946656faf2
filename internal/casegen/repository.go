// Package casegen supplies case files for new games, either from the
// embedded catalog of authored cases or from the oracle-backed generator.
package casegen

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

// ErrNoCaseAvailable signals that neither the generator nor the catalog
// could supply a case for a new game.
var ErrNoCaseAvailable = errors.NewSentinel("no case available")

// Generator authors a fresh case. Implemented by the oracle adapter.
type Generator interface {
	GenerateCaseFile(ctx context.Context, difficulty string, avoidance string) (*models.CaseFile, error)
}

// History exposes summaries of recently played cases for the avoidance
// prompt.
type History interface {
	RecentSummaries(ctx context.Context) ([]string, error)
}

// Repository selects or builds a case file for a new session.
type Repository struct {
	generator Generator
	history   History
	logger    *slog.Logger
	pick      func(n int) int
}

// NewRepository creates a case repository. The generator and history are
// optional: without a generator every game uses a catalog case, without a
// history the generator gets no avoidance prompt.
func NewRepository(generator Generator, history History, logger *slog.Logger) *Repository {
	return &Repository{
		generator: generator,
		history:   history,
		logger:    logger.With("source", "CaseRepository"),
		pick:      rand.Intn,
	}
}

// SelectCase returns a validated case file for the given difficulty. An
// oracle-backed generation failure falls back to the authored catalog so a
// game can always start while the oracle is down; only an empty catalog is
// fatal.
func (r *Repository) SelectCase(ctx context.Context, difficulty string) (*models.CaseFile, error) {
	if r.generator != nil {
		caseFile, err := r.generate(ctx, difficulty)
		if err == nil {
			return caseFile, nil
		}
		r.logger.WarnContext(ctx, "case generation failed, falling back to catalog", errors.SlogError(err))
	}

	catalog, err := Catalog()
	if err != nil {
		return nil, errors.Wrap(errors.Join(ErrNoCaseAvailable, err), "load catalog")
	}
	if len(catalog) == 0 {
		return nil, errors.Wrap(ErrNoCaseAvailable, "catalog is empty")
	}
	caseFile := catalog[r.pick(len(catalog))]
	return &caseFile, nil
}

func (r *Repository) generate(ctx context.Context, difficulty string) (*models.CaseFile, error) {
	var avoidance string
	if r.history != nil {
		summaries, err := r.history.RecentSummaries(ctx)
		if err != nil {
			// Avoidance is a soft constraint; generation proceeds without it.
			r.logger.WarnContext(ctx, "could not read case history", errors.SlogError(err))
		}
		avoidance = AvoidancePrompt(summaries)
	}

	caseFile, err := r.generator.GenerateCaseFile(ctx, difficulty, avoidance)
	if err != nil {
		return nil, errors.Wrap(err, "generate case file")
	}
	if err = caseFile.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate generated case file")
	}
	return caseFile, nil
}

// AvoidancePrompt renders recent case summaries into the instruction block
// that steers the generator away from repeating them.
func AvoidancePrompt(summaries []string) string {
	if len(summaries) == 0 {
		return "Create a fresh, original noir mystery."
	}

	return fmt.Sprintf(`PREVIOUS CASES - You must create something COMPLETELY DIFFERENT from these recent mysteries:

%s

REQUIREMENTS FOR VARIETY:
- Use a DIFFERENT type of location
- Use a DIFFERENT murder method
- Use DIFFERENT character archetypes and professions
- Use DIFFERENT motives
- Create a UNIQUE atmosphere and story theme
- Vary the time of day, weather, and season

Be creative and ensure this case feels fresh and distinct from all previous ones!`,
		strings.Join(summaries, "\n\n"))
}
