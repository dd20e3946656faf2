package ai

import (
	"bytes"
	"context"
	"strconv"
	"text/template"
	"time"

	_ "embed"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

//go:embed prompts/casefile.txt
var caseFilePrompt string

var caseFileTemplate = template.Must(template.New("casefile").Parse(caseFilePrompt))

// GenerateCaseFile asks the oracle to author a fresh case. The avoidance
// text summarises recently played cases so the oracle steers away from
// repeating their settings, methods, and motives; it is a soft constraint.
//
// The generated case must satisfy the case file invariant, otherwise the
// call fails. There is no degraded fallback here.
func (c *Client) GenerateCaseFile(
	ctx context.Context,
	difficulty string,
	avoidance string,
) (*models.CaseFile, error) {
	if avoidance == "" {
		avoidance = "Create a fresh, original noir mystery."
	}

	var prompt bytes.Buffer
	err := caseFileTemplate.Execute(&prompt, struct {
		Difficulty string
		Avoidance  string
	}{
		Difficulty: difficulty,
		Avoidance:  avoidance,
	})
	if err != nil {
		return nil, errors.Wrap(err, "execute case file template")
	}

	raw, err := c.syncCompletion(ctx, prompt.String(), caseFileMaxTokens)
	if err != nil {
		return nil, errors.Wrap(err, "case file completion")
	}

	caseFile, err := ParseCaseFile(raw)
	if err != nil {
		return nil, err
	}
	if caseFile.ID == "" {
		caseFile.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if err = caseFile.Validate(); err != nil {
		return nil, errors.Wrap(errors.Join(ErrOracle, err), "generated case file is invalid")
	}
	return caseFile, nil
}
