package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIdleThoughtPrompt(t *testing.T) {
	prompt, err := BuildIdleThoughtPrompt(IdleThoughtPrompt{
		Category: "activity",
		Persona:  "An illustrator who loves slow mornings.",
		Context:  "mood: upbeat, recent topic: gallery shows",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, `"activity" category`)
	assert.Contains(t, prompt, "An illustrator who loves slow mornings.")
	assert.Contains(t, prompt, "recent topic: gallery shows")
}

func TestBuildIdleThoughtPromptWithoutContext(t *testing.T) {
	prompt, err := BuildIdleThoughtPrompt(IdleThoughtPrompt{
		Category: "mood",
		Persona:  "persona",
	})
	require.NoError(t, err)

	assert.NotContains(t, prompt, "Current context", "context block should be omitted when empty")
}

func TestBuildDaySummaryPrompt(t *testing.T) {
	prompt, err := BuildDaySummaryPrompt(DaySummaryPrompt{
		Persona: "A cellist between rehearsals.",
		Weekday: "Tuesday",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "It is Tuesday.")
	assert.Contains(t, prompt, "A cellist between rehearsals.")
}
