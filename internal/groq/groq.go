// Package groq is the primary translation backend. Groq serves the
// OpenAI chat-completion API, so the client is go-openai pointed at
// Groq's endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	baseURL        = "https://api.groq.com/openai/v1"
	model          = "llama-3.1-8b-instant"
	requestTimeout = 20 * time.Second
)

// Client calls Groq chat completions.
type Client struct {
	client *openai.Client
}

// NewClient builds a Groq client from an API key.
func NewClient(apiKey string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{client: openai.NewClientWithConfig(cfg)}
}

// Complete sends one prompt and returns the raw model text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		// Low temperature keeps translations consistent run to run.
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("groq completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from groq")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
