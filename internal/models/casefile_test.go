package models_test

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/models"
	"github.com/stretchr/testify/require"
)

func validCaseFile() models.CaseFile {
	return models.CaseFile{
		ID:    "velvet-room",
		Title: "Murder at the Velvet Room",
		Setting: models.Setting{
			Time:       "November 1947, just past midnight",
			Location:   "The Velvet Room nightclub",
			Atmosphere: "Rain hammers the neon outside.",
		},
		Solution: models.Solution{
			Murderer:    "Vince Malone",
			Method:      "poisoned whiskey",
			Motive:      "gambling debts",
			Opportunity: "alone with the glass before the show",
			KeyEvidence: []string{"ledger", "cufflink"},
		},
		Suspects: []models.Suspect{
			{Name: "Vince Malone", IsGuilty: true},
			{Name: "Rita Calloway"},
			{Name: "Eddie Fontaine"},
		},
	}
}

func TestCaseFileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.CaseFile)
		wantErr bool
	}{
		{
			name:    "valid case",
			mutate:  func(*models.CaseFile) {},
			wantErr: false,
		},
		{
			name:    "missing id",
			mutate:  func(c *models.CaseFile) { c.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing murderer",
			mutate:  func(c *models.CaseFile) { c.Solution.Murderer = "" },
			wantErr: true,
		},
		{
			name:    "no suspects",
			mutate:  func(c *models.CaseFile) { c.Suspects = nil },
			wantErr: true,
		},
		{
			name: "nobody guilty",
			mutate: func(c *models.CaseFile) {
				c.Suspects[0].IsGuilty = false
			},
			wantErr: true,
		},
		{
			name: "two guilty suspects",
			mutate: func(c *models.CaseFile) {
				c.Suspects[1].IsGuilty = true
			},
			wantErr: true,
		},
		{
			name: "guilty suspect is not the murderer",
			mutate: func(c *models.CaseFile) {
				c.Suspects[0].IsGuilty = false
				c.Suspects[1].IsGuilty = true
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caseFile := validCaseFile()
			tt.mutate(&caseFile)

			err := caseFile.Validate()

			if tt.wantErr {
				require.ErrorIs(t, err, models.ErrInvalidCaseFile)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSessionTrackingSetsDeduplicate(t *testing.T) {
	session := models.Session{}

	session.RecordClue("ledger")
	session.RecordClue("ledger")
	session.RecordClue("")
	session.RecordInterview("Rita Calloway")
	session.RecordInterview("Rita Calloway")
	session.RecordVisit("The Velvet Room")
	session.AddNote("check the alibi")
	session.AddNote("check the alibi")

	require.Equal(t, []string{"ledger"}, session.DiscoveredClues)
	require.Equal(t, []string{"Rita Calloway"}, session.InterviewedCharacters)
	require.Equal(t, []string{"The Velvet Room"}, session.VisitedLocations)
	require.Equal(t, []string{"check the alibi"}, session.PlayerNotes)
}
