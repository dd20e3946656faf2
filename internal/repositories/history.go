package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/sqlite"
)

// historyCap bounds how many case summaries are kept. Older entries are
// pruned on insert.
const historyCap = 10

// avoidanceWindow is how many of the most recent summaries feed the
// generation prompt.
const avoidanceWindow = 5

// CaseHistoryRepository keeps a bounded, append-only log of case summaries.
// The summaries bias case generation away from repeating recent settings,
// methods, and motives. This is a soft nudge, not a hard constraint.
type CaseHistoryRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewCaseHistoryRepository(dbs *sqlite.Database, logger *slog.Logger) *CaseHistoryRepository {
	return &CaseHistoryRepository{
		dbs:    dbs,
		logger: logger.With("source", "CaseHistoryRepository"),
	}
}

// Add records a summary of a played case and prunes the log down to the cap.
func (r *CaseHistoryRepository) Add(ctx context.Context, caseFile *models.CaseFile) error {
	summary := Summarise(caseFile)

	stmt := `INSERT INTO case_history (case_id, summary) VALUES (?, ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, caseFile.ID, summary); err != nil {
		return errors.Wrap(err, "insert case history", slog.String("caseId", caseFile.ID))
	}

	prune := `DELETE FROM case_history WHERE id NOT IN (
		SELECT id FROM case_history ORDER BY id DESC LIMIT ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, prune, historyCap); err != nil {
		return errors.Wrap(err, "prune case history")
	}
	return nil
}

// RecentSummaries returns the newest summaries, oldest first, capped to the
// avoidance window.
func (r *CaseHistoryRepository) RecentSummaries(ctx context.Context) ([]string, error) {
	var summaries []string
	stmt := `SELECT summary FROM (
		SELECT id, summary FROM case_history ORDER BY id DESC LIMIT ?
	) ORDER BY id ASC`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &summaries, stmt, avoidanceWindow); err != nil {
		return nil, errors.Wrap(err, "read case history")
	}
	return summaries, nil
}

// Count returns the number of retained history entries.
func (r *CaseHistoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.dbs.ReadOnly.GetContext(ctx, &count, `SELECT COUNT(*) FROM case_history`); err != nil {
		return 0, errors.Wrap(err, "count case history")
	}
	return count, nil
}

// Summarise renders a one-paragraph narrative summary of a case for the
// avoidance prompt.
func Summarise(caseFile *models.CaseFile) string {
	suspects := make([]string, 0, len(caseFile.Suspects))
	for _, suspect := range caseFile.Suspects {
		suspects = append(suspects, suspect.Name)
	}

	return fmt.Sprintf(
		"In %q, %s (%s) was found dead at %s from %s. "+
			"The investigation took place in %s with suspects including %s. "+
			"%s was the killer, motivated by %s. "+
			"The case featured %d pieces of evidence and %d red herrings.",
		caseFile.Title,
		caseFile.Crime.Victim.Name,
		caseFile.Crime.Victim.Occupation,
		caseFile.Setting.Location,
		caseFile.Crime.CauseOfDeath,
		caseFile.Setting.Time,
		strings.Join(suspects, ", "),
		caseFile.Solution.Murderer,
		caseFile.Solution.Motive,
		len(caseFile.Crime.Scene.Evidence),
		len(caseFile.RedHerrings),
	)
}
