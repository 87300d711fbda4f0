package generativeAI

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

var ErrMissingAPIKey = errors.New("gemini api key is not set")

type AIClient struct {
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, apiKey, model string) (*AIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  model,
	}, nil
}

func (ai *AIClient) Model() string { return ai.model }

// GenerateContent sends a single prompt and returns the concatenated text of
// the first candidate.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}
