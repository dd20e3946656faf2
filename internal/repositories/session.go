package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/sqlite"
)

// SessionRepository persists game sessions as JSON blobs. The embedded case
// file travels inside the blob so a session can be resumed without a
// separate case lookup.
type SessionRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewSessionRepository(dbs *sqlite.Database, logger *slog.Logger) *SessionRepository {
	return &SessionRepository{
		dbs:    dbs,
		logger: logger.With("source", "SessionRepository"),
	}
}

func (r *SessionRepository) Upsert(ctx context.Context, session *models.Session) error {
	blob, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "marshal session", slog.String("id", session.ID))
	}

	stmt := `INSERT INTO game_sessions (id, case_id, data, started_at, updated_at)
	VALUES (?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	ON CONFLICT (id) DO UPDATE SET
		data = excluded.data,
		updated_at = excluded.updated_at`
	_, err = r.dbs.ReadWrite.ExecContext(ctx, stmt,
		session.ID, session.CaseID, string(blob), session.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrap(err, "insert session", slog.String("id", session.ID))
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var blob string
	err := r.dbs.ReadOnly.GetContext(ctx, &blob, `SELECT data FROM game_sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(ErrNotFound, "session not found", slog.String("id", id))
	}
	if err != nil {
		return nil, errors.Wrap(err, "read session", slog.String("id", id))
	}

	var session models.Session
	if err = json.Unmarshal([]byte(blob), &session); err != nil {
		return nil, errors.Wrap(err, "unmarshal session", slog.String("id", id))
	}
	return &session, nil
}

// List returns all persisted sessions, newest first.
func (r *SessionRepository) List(ctx context.Context) ([]*models.Session, error) {
	var blobs []string
	err := r.dbs.ReadOnly.SelectContext(ctx, &blobs,
		`SELECT data FROM game_sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list sessions")
	}

	sessions := make([]*models.Session, 0, len(blobs))
	for _, blob := range blobs {
		var session models.Session
		if err = json.Unmarshal([]byte(blob), &session); err != nil {
			return nil, errors.Wrap(err, "unmarshal session")
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, `DELETE FROM game_sessions WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete session", slog.String("id", id))
	}
	return nil
}
