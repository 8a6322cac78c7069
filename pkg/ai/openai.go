package ai

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
)

var _ Completion = (*Service)(nil)

// Service is an OpenAI-compatible completion client. Generators call it
// under a caller-supplied timeout; it never retries on its own.
type Service struct {
	client *openai.Client
	logger *log.Logger
}

func NewOpenAIService(logger *log.Logger, apiKey string, baseURL string) *Service {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &Service{
		client: &client,
		logger: logger,
	}
}

func (s *Service) Completions(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, model string) (openai.ChatCompletionMessage, error) {
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       model,
		Temperature: param.Opt[float64]{Value: 1.0},
	})
	if err != nil {
		return openai.ChatCompletionMessage{}, err
	}

	if len(completion.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("OpenAI returned no completion choices")
	}

	return completion.Choices[0].Message, nil
}
