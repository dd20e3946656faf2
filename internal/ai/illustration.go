package ai

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	_ "embed"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/sashabaranov/go-openai"
)

//go:embed prompts/imageprompt.txt
var imagePromptPrompt string

var imagePromptTemplate = template.Must(template.New("imageprompt").Parse(imagePromptPrompt))

// SafeImagePrompt turns an opening narration into an image prompt that stays
// clear of the image model's content filters. Like case generation, this
// call fails hard on an unusable response.
func (c *Client) SafeImagePrompt(ctx context.Context, description string) (string, error) {
	var prompt bytes.Buffer
	err := imagePromptTemplate.Execute(&prompt, struct{ Description string }{Description: description})
	if err != nil {
		return "", errors.Wrap(err, "execute image prompt template")
	}

	raw, err := c.syncCompletion(ctx, prompt.String(), imagePromptMaxTokens)
	if err != nil {
		return "", errors.Wrap(err, "image prompt completion")
	}

	safePrompt := strings.TrimSpace(raw)
	if safePrompt == "" {
		return "", errors.Wrap(ErrOracle, "empty image prompt")
	}
	return safePrompt, nil
}

// CaseIllustration renders a case illustration with Dall-E and returns its URL.
func (c *Client) CaseIllustration(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.CreateImage(ctx, openai.ImageRequest{ //nolint:exhaustruct // this is better for readability
		Model:          openai.CreateImageModelDallE3,
		Prompt:         prompt,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
		N:              1,
	})
	if err != nil {
		return "", errors.Wrap(errors.Join(ErrOracle, err), "create image")
	}
	if len(response.Data) == 0 {
		return "", errors.Wrap(ErrOracle, "image response has no data")
	}
	return response.Data[0].URL, nil
}
