package idle

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"

	"github.com/kayleyai/kayley/pkg/ai"
	"github.com/kayleyai/kayley/pkg/prompts"
	"github.com/kayleyai/kayley/pkg/surfacing"
)

// ThoughtGenerator produces one LLM-written idle note for its category.
type ThoughtGenerator struct {
	category string
	ai       ai.Completion
	model    string
	persona  string
	logger   *log.Logger
}

var _ surfacing.Generator = (*ThoughtGenerator)(nil)

func NewThoughtGenerator(logger *log.Logger, completion ai.Completion, model, persona, category string) *ThoughtGenerator {
	return &ThoughtGenerator{
		category: category,
		ai:       completion,
		model:    model,
		persona:  persona,
		logger:   logger,
	}
}

func (g *ThoughtGenerator) Category() string {
	return g.category
}

func (g *ThoughtGenerator) Generate(ctx context.Context, snapshot any) (*surfacing.Draft, error) {
	prompt, err := prompts.BuildIdleThoughtPrompt(prompts.IdleThoughtPrompt{
		Category: g.category,
		Persona:  g.persona,
		Context:  snapshotText(snapshot),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	message, err := g.ai.Completions(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt),
	}, g.model)
	if err != nil {
		return nil, fmt.Errorf("failed to generate idle thought: %w", err)
	}

	content := strings.TrimSpace(message.Content)
	if content == "" {
		return nil, nil
	}

	return &surfacing.Draft{Category: g.category, Content: content}, nil
}

// QuestionGenerator draws from a curated question table. It needs no LLM
// and serves as the offline fallback generator.
type QuestionGenerator struct {
	category string

	mu  sync.Mutex
	rng *rand.Rand
}

var _ surfacing.Generator = (*QuestionGenerator)(nil)

func NewQuestionGenerator(category string, rng *rand.Rand) *QuestionGenerator {
	return &QuestionGenerator{category: category, rng: rng}
}

func (g *QuestionGenerator) Category() string {
	return g.category
}

func (g *QuestionGenerator) Generate(ctx context.Context, _ any) (*surfacing.Draft, error) {
	if len(QuestionTable) == 0 {
		return nil, nil
	}

	g.mu.Lock()
	question := QuestionTable[g.rng.Intn(len(QuestionTable))]
	g.mu.Unlock()

	return &surfacing.Draft{Category: g.category, Content: question}, nil
}

func snapshotText(snapshot any) string {
	switch v := snapshot.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
