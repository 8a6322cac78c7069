package ai

import (
	"context"

	"github.com/openai/openai-go"
)

// Completion is the LLM collaborator consumed by candidate generators.
type Completion interface {
	Completions(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, model string) (openai.ChatCompletionMessage, error)
}
