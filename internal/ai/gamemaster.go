package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	_ "embed"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

//go:embed prompts/gamemaster.txt
var gameMasterPrompt string

var gameMasterTemplate = template.Must(template.New("gamemaster").Parse(gameMasterPrompt))

// GameMasterTurn asks the oracle to resolve one player turn. The oracle sees
// the full case file and conversation so far, classifies the input as an
// accusation or an investigative move, and answers in character.
func (c *Client) GameMasterTurn(
	ctx context.Context,
	caseFile *models.CaseFile,
	conversation []models.ConversationEntry,
	input string,
) (models.GameMasterTurn, error) {
	var turn models.GameMasterTurn

	caseJSON, err := json.MarshalIndent(caseFile, "", "  ")
	if err != nil {
		return turn, errors.Wrap(err, "marshal case file")
	}

	var prompt bytes.Buffer
	err = gameMasterTemplate.Execute(&prompt, struct {
		CaseJSON string
		History  string
		Input    string
	}{
		CaseJSON: string(caseJSON),
		History:  formatHistory(conversation),
		Input:    input,
	})
	if err != nil {
		return turn, errors.Wrap(err, "execute game master template")
	}

	raw, err := c.syncCompletion(ctx, prompt.String(), gameMasterMaxTokens)
	if err != nil {
		return turn, errors.Wrap(err, "game master completion")
	}

	return ParseTurn(raw)
}

// formatHistory renders the conversation log the way the oracle expects:
// one line per entry, prefixed with the speaker.
func formatHistory(conversation []models.ConversationEntry) string {
	lines := make([]string, 0, len(conversation))
	for _, entry := range conversation {
		speaker := "Narrator"
		switch entry.Type {
		case models.EntryTypePlayer:
			speaker = "Player"
		case models.EntryTypeCharacter:
			if entry.Speaker != "" {
				speaker = entry.Speaker
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, entry.Message))
	}
	return strings.Join(lines, "\n")
}
