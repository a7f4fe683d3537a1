package feed

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
)

//go:embed prompt.tmpl
var defaultPromptTemplate string

// PromptData is the input to the prompt template.
type PromptData struct {
	Topic          string
	Count          int
	Page           int
	Previous       string
	IncludeOptions bool
	MaxOptions     int
}

// PromptBuilder renders provider prompts from a template.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses the template at path, or the built-in template
// when path is empty.
func NewPromptBuilder(path string) (*PromptBuilder, error) {
	text := defaultPromptTemplate
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template from %s: %w", path, err)
		}
		text = string(content)
	}

	tmpl, err := template.New("feed_prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// Build renders the prompt for data.
func (p *PromptBuilder) Build(data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
