package categorize

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

// GeminiExtractor asks Gemini for keywords.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

func NewGeminiExtractor(ctx context.Context, apiKey string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiExtractor{client: client, model: geminiModel}, nil
}

func (e *GeminiExtractor) Name() string {
	return "gemini"
}

func (e *GeminiExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(keywordPrompt(text)), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return SplitKeywords(result.Text()), nil
}
