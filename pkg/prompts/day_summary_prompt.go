package prompts

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed templates/day_summary_prompt.tmpl
var daySummaryPromptTemplate string

type DaySummaryPrompt struct {
	Persona string
	Weekday string
}

func BuildDaySummaryPrompt(data DaySummaryPrompt) (string, error) {
	tmpl, err := template.New("day_summary").Parse(daySummaryPromptTemplate)
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
