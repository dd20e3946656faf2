package repositories_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/repositories"
	"github.com/myrjola/gumshoe/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func testCaseFile() *models.CaseFile {
	return &models.CaseFile{
		ID:    "velvet-room",
		Title: "Murder at the Velvet Room",
		Setting: models.Setting{
			Time:       "November 1947",
			Location:   "The Velvet Room nightclub",
			Atmosphere: "Rain hammers the neon outside.",
		},
		Crime: models.Crime{
			Victim:       models.Victim{Name: "Sam Castellano", Occupation: "club owner"},
			CauseOfDeath: "poisoning",
			Scene: models.CrimeScene{
				Location: "back office",
				Evidence: []models.Evidence{
					{Item: "ledger", Description: "a leather-bound ledger"},
					{Item: "lipstick-stained glass", IsRedHerring: true},
				},
			},
		},
		Solution: models.Solution{
			Murderer:    "Vince Malone",
			Method:      "poisoned whiskey",
			Motive:      "gambling debts",
			KeyEvidence: []string{"ledger"},
		},
		Suspects: []models.Suspect{
			{Name: "Vince Malone", IsGuilty: true},
			{Name: "Rita Calloway"},
		},
	}
}

func TestSessionRepository_Roundtrip(t *testing.T) {
	t.Parallel()

	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	caseFiles := repositories.NewCaseFileRepository(dbs, logger)
	sessions := repositories.NewSessionRepository(dbs, logger)
	ctx := context.Background()

	caseFile := testCaseFile()
	require.NoError(t, caseFiles.Upsert(ctx, caseFile))

	started := time.Date(2024, 3, 1, 22, 15, 0, 0, time.UTC)
	session := &models.Session{
		ID:        "session-1",
		CaseID:    caseFile.ID,
		Case:      caseFile,
		StartedAt: started,
		Conversation: []models.ConversationEntry{
			{ID: "entry-1", Type: models.EntryTypeNarrator, Message: "Rain hammers the neon outside.", Timestamp: started},
		},
	}
	require.NoError(t, sessions.Upsert(ctx, session))

	loaded, err := sessions.Get(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, session.ID, loaded.ID)
	require.Equal(t, caseFile.ID, loaded.CaseID)
	require.Equal(t, caseFile.Solution, loaded.Case.Solution)
	require.Len(t, loaded.Conversation, 1)
	require.Equal(t, "Rain hammers the neon outside.", loaded.Conversation[0].Message)
	require.False(t, loaded.IsSolved)
	require.Nil(t, loaded.CompletedAt)

	// Updating must replace the stored blob.
	completed := started.Add(30 * time.Minute)
	session.CompletedAt = &completed
	session.IsSolved = true
	require.NoError(t, sessions.Upsert(ctx, session))

	loaded, err = sessions.Get(ctx, "session-1")
	require.NoError(t, err)
	require.True(t, loaded.IsSolved)
	require.NotNil(t, loaded.CompletedAt)
	require.True(t, loaded.CompletedAt.Equal(completed))
}

func TestSessionRepository_GetMissing(t *testing.T) {
	t.Parallel()

	dbs := newTestDB(t)
	sessions := repositories.NewSessionRepository(dbs, testhelpers.NewLogger(io.Discard))

	_, err := sessions.Get(context.Background(), "nonexistent")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSessionRepository_ListNewestFirst(t *testing.T) {
	t.Parallel()

	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	caseFiles := repositories.NewCaseFileRepository(dbs, logger)
	sessions := repositories.NewSessionRepository(dbs, logger)
	ctx := context.Background()

	caseFile := testCaseFile()
	require.NoError(t, caseFiles.Upsert(ctx, caseFile))

	older := &models.Session{ID: "older", CaseID: caseFile.ID, Case: caseFile,
		StartedAt: time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)}
	newer := &models.Session{ID: "newer", CaseID: caseFile.ID, Case: caseFile,
		StartedAt: time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)}
	require.NoError(t, sessions.Upsert(ctx, older))
	require.NoError(t, sessions.Upsert(ctx, newer))

	listed, err := sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "newer", listed[0].ID)
	require.Equal(t, "older", listed[1].ID)
}
