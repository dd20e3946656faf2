package ai

import (
	"context"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// ErrOracle marks any failure of the narrative oracle: transport errors and
// responses the adapter cannot turn into a well-formed result.
var ErrOracle = errors.NewSentinel("oracle failure")

const (
	caseFileMaxTokens    = 4096
	gameMasterMaxTokens  = 1200
	imagePromptMaxTokens = 300
)

// Client adapts the OpenAI API to the game's oracle contracts.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates an oracle client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4TurboPreview,
	}
}

// syncCompletion sends a single-message chat completion and returns the text
// of the first choice.
func (c *Client) syncCompletion(ctx context.Context, prompt string, maxTokens int) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(errors.Join(ErrOracle, err), "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(ErrOracle, "completion has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
