package categorize

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const openAIModel = "gpt-4o-mini"

// OpenAIExtractor asks the chat completions API for keywords.
type OpenAIExtractor struct {
	client openai.Client
}

func NewOpenAIExtractor(apiKey string, opts ...option.RequestOption) *OpenAIExtractor {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIExtractor{client: openai.NewClient(opts...)}
}

func (e *OpenAIExtractor) Name() string {
	return "openai"
}

func (e *OpenAIExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	response, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openAIModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(keywordPrompt(text)),
					},
				},
			},
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("openai completion: no choices")
	}
	return SplitKeywords(response.Choices[0].Message.Content), nil
}
