package prompts

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed templates/idle_thought_prompt.tmpl
var idleThoughtPromptTemplate string

type IdleThoughtPrompt struct {
	Category string
	Persona  string
	Context  string
}

func BuildIdleThoughtPrompt(data IdleThoughtPrompt) (string, error) {
	tmpl, err := template.New("idle_thought").Parse(idleThoughtPromptTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
