package ai_test

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/ai"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/stretchr/testify/require"
)

func TestParseTurn(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.GameMasterTurn
		wantErr bool
	}{
		{
			name: "strict JSON",
			raw:  `{"response": "The rain keeps falling.", "type": "narrator", "isSolved": false}`,
			want: models.GameMasterTurn{
				Response: "The rain keeps falling.",
				Type:     models.EntryTypeNarrator,
			},
		},
		{
			name: "fenced JSON with language tag",
			raw: "```json\n" +
				`{"response": "I was home all night.", "type": "character", "speaker": "Rita Calloway", "isSolved": false}` +
				"\n```",
			want: models.GameMasterTurn{
				Response: "I was home all night.",
				Type:     models.EntryTypeCharacter,
				Speaker:  "Rita Calloway",
			},
		},
		{
			name: "fenced JSON without language tag",
			raw: "```\n" +
				`{"response": "A ledger, a cufflink, an empty glass.", "type": "narrator"}` +
				"\n```",
			want: models.GameMasterTurn{
				Response: "A ledger, a cufflink, an empty glass.",
				Type:     models.EntryTypeNarrator,
			},
		},
		{
			name: "JSON buried in prose",
			raw: "Here is my answer:\n" +
				`{"response": "You accused Vince Malone.", "type": "narrator", "isSolved": true, "isCorrectSolution": true}` +
				"\nLet me know if you need anything else.",
			want: models.GameMasterTurn{
				Response:          "You accused Vince Malone.",
				Type:              models.EntryTypeNarrator,
				IsSolved:          true,
				IsCorrectSolution: true,
			},
		},
		{
			name: "nested braces inside strings survive the scan",
			raw:  `noise {"response": "The note reads \"{meet me at 10}\".", "type": "narrator"} noise`,
			want: models.GameMasterTurn{
				Response: `The note reads "{meet me at 10}".`,
				Type:     models.EntryTypeNarrator,
			},
		},
		{
			name: "plain prose degrades to a narrator turn",
			raw:  "The bartender shrugs and polishes another glass.",
			want: models.GameMasterTurn{
				Response: "The bartender shrugs and polishes another glass.",
				Type:     models.EntryTypeNarrator,
			},
		},
		{
			name:    "character turn without speaker is rejected",
			raw:     `{"response": "Nothing to say.", "type": "character"}`,
			wantErr: true,
		},
		{
			name:    "narrator turn with speaker is rejected",
			raw:     `{"response": "Nothing.", "type": "narrator", "speaker": "Rita"}`,
			wantErr: true,
		},
		{
			name:    "unknown turn type is rejected",
			raw:     `{"response": "Nothing.", "type": "detective"}`,
			wantErr: true,
		},
		{
			name:    "empty response text is rejected",
			raw:     `{"response": "  ", "type": "narrator"}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn, err := ai.ParseTurn(tt.raw)

			if tt.wantErr {
				require.ErrorIs(t, err, ai.ErrOracle)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, turn)
		})
	}
}

func TestParseCaseFileHasNoRawTextFallback(t *testing.T) {
	_, err := ai.ParseCaseFile("a foggy night, nothing structured about it")
	require.ErrorIs(t, err, ai.ErrOracle)
}

func TestParseCaseFileFromFencedJSON(t *testing.T) {
	raw := "```json\n" +
		`{"id": "velvet-room", "title": "Murder at the Velvet Room", "solution": {"murderer": "Vince Malone"}}` +
		"\n```"

	caseFile, err := ai.ParseCaseFile(raw)

	require.NoError(t, err)
	require.Equal(t, "velvet-room", caseFile.ID)
	require.Equal(t, "Vince Malone", caseFile.Solution.Murderer)
}
