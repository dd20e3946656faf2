package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/sqlite"
)

var ErrNotFound = errors.NewSentinel("not found")

// CaseFileRepository persists case files as JSON blobs keyed by case id.
type CaseFileRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewCaseFileRepository(dbs *sqlite.Database, logger *slog.Logger) *CaseFileRepository {
	return &CaseFileRepository{
		dbs:    dbs,
		logger: logger.With("source", "CaseFileRepository"),
	}
}

func (r *CaseFileRepository) Upsert(ctx context.Context, caseFile *models.CaseFile) error {
	blob, err := json.Marshal(caseFile)
	if err != nil {
		return errors.Wrap(err, "marshal case file", slog.String("id", caseFile.ID))
	}

	stmt := `INSERT INTO case_files (id, data) VALUES (?, ?)
	ON CONFLICT (id) DO UPDATE SET data = excluded.data`
	if _, err = r.dbs.ReadWrite.ExecContext(ctx, stmt, caseFile.ID, string(blob)); err != nil {
		return errors.Wrap(err, "insert case file", slog.String("id", caseFile.ID))
	}
	return nil
}

func (r *CaseFileRepository) Get(ctx context.Context, id string) (*models.CaseFile, error) {
	var blob string
	err := r.dbs.ReadOnly.GetContext(ctx, &blob, `SELECT data FROM case_files WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(ErrNotFound, "case file not found", slog.String("id", id))
	}
	if err != nil {
		return nil, errors.Wrap(err, "read case file", slog.String("id", id))
	}

	var caseFile models.CaseFile
	if err = json.Unmarshal([]byte(blob), &caseFile); err != nil {
		return nil, errors.Wrap(err, "unmarshal case file", slog.String("id", id))
	}
	return &caseFile, nil
}
