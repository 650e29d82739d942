// Package llm wraps the hosted chat-completion gateway behind a small
// interface. One request, one reply, no streaming and no retries: the caller
// has already spent a credit by the time this package runs, so a failed call
// must surface immediately instead of burning time on retry loops.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ErrRateLimited is returned when the provider answers with HTTP 429.
var ErrRateLimited = errors.New("model provider rate limit exceeded")

// ErrEmptyReply is returned when the provider answers 200 with no choices.
var ErrEmptyReply = errors.New("model provider returned an empty reply")

// UpstreamError reports a non-429 provider failure with the upstream status
// preserved for diagnostics.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model provider error (status %d): %s", e.StatusCode, e.Message)
}

// Client issues a single chat completion and returns the raw message content.
type Client interface {
	Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient is a Client backed by an OpenAI-compatible completion gateway.
type OpenAIClient struct {
	client      *openai.Client
	temperature float32
}

// NewOpenAIClient creates a client for the given API key. baseURL overrides
// the provider endpoint when non-empty, which is how the hosted AI gateway
// (an OpenAI-compatible proxy) is targeted.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		temperature: 0.7,
	}
}

// Complete sends the system and user prompts to the given model and returns
// the assistant message content verbatim.
func (c *OpenAIClient) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: c.temperature,
		},
	)
	if err != nil {
		return "", translateError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

// translateError maps go-openai transport errors onto the package taxonomy.
func translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ErrRateLimited
		}
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ErrRateLimited
		}
		return &UpstreamError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}

	// Timeouts, connection failures and cancelled contexts all land here.
	return &UpstreamError{StatusCode: 0, Message: err.Error()}
}
