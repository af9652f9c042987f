package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// SystemInstruction is sent with every generation request.
const SystemInstruction = "You are an educational assistant. " +
	"You MUST respond ONLY with a valid JSON object. " +
	"No markdown, no code blocks, no explanation, just the raw JSON."

//go:embed templates/prompt.tmpl
var defaultPromptTemplate string

// promptData represents the data passed to the prompt template
type promptData struct {
	Level              string
	Profile            LevelProfile
	Text               string
	OptionPlaceholders string
}

// PromptBuilder renders the user prompt for a level from a text/template.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses templateText. An empty string selects the built-in template.
func NewPromptBuilder(templateText string) (*PromptBuilder, error) {
	if strings.TrimSpace(templateText) == "" {
		templateText = defaultPromptTemplate
	}

	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(templateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// LoadPromptBuilder reads the template at path. An empty path selects the built-in template.
func LoadPromptBuilder(path string) (*PromptBuilder, error) {
	if path == "" {
		return NewPromptBuilder("")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v", ErrInvalidConfig, path, err)
	}
	return NewPromptBuilder(string(content))
}

// Build renders the prompt for text at the given level.
func (b *PromptBuilder) Build(text string, level domain.StressLevel, profile LevelProfile) (Prompt, error) {
	data := promptData{
		Level:              strings.ToUpper(level.String()),
		Profile:            profile,
		Text:               text,
		OptionPlaceholders: optionPlaceholders(profile.QuizOptions),
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return Prompt{}, fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return Prompt{
		System: SystemInstruction,
		User:   buf.String(),
		JSON:   true,
	}, nil
}

// optionPlaceholders renders `"A", "B", ...` for n options.
func optionPlaceholders(n int) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("%q", string(rune('A'+i%26))))
	}
	return strings.Join(parts, ", ")
}
