package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/ternarybob/secretary/internal/models"
)

// TemplateKind selects the prompt wording
type TemplateKind string

const (
	// TemplateProfile is used only for the organization profile collection
	TemplateProfile TemplateKind = "profile"
	// TemplateGeneral is used for every other collection
	TemplateGeneral TemplateKind = "general"
)

const profileTemplate = `You are {{.Role}}. Answer questions about the restaurant information concisely.

The restaurant information is stored in the "{{.Collection}}" collection:
{{.Documents}}

Previous conversation context:
{{.Context}}

Question about the restaurant: {{.Question}}

Important instructions:
1. Answer directly and concisely in less than {{.MaxWords}} words
2. Answer in {{.Language}}: Thai questions get Thai answers, English questions get English answers
3. Only mention relevant information that directly answers the question
4. Consider the conversation context when appropriate
`

const generalTemplate = `You are {{.Role}}. Answer questions about the stored records concisely.

The records are stored in the "{{.Collection}}" collection:
{{.Documents}}

Previous conversation context:
{{.Context}}

Question: {{.Question}}

Important instructions:
1. Answer directly and concisely in less than {{.MaxWords}} words
2. Answer in {{.Language}}: Thai questions get Thai answers, English questions get English answers
3. Only mention records that directly answer the question
4. Consider the conversation context when appropriate
`

type promptData struct {
	Role       string
	Collection string
	Documents  string
	Context    string
	Question   string
	MaxWords   int
	Language   string
}

// PromptBuilder renders question-answering prompts
type PromptBuilder struct {
	templates map[TemplateKind]*template.Template
	role      string
	maxWords  int
}

// NewPromptBuilder parses both templates
func NewPromptBuilder(role string, maxWords int) *PromptBuilder {
	if maxWords <= 0 {
		maxWords = 50
	}
	return &PromptBuilder{
		templates: map[TemplateKind]*template.Template{
			TemplateProfile: template.Must(template.New("profile").Parse(profileTemplate)),
			TemplateGeneral: template.Must(template.New("general").Parse(generalTemplate)),
		},
		role:     role,
		maxWords: maxWords,
	}
}

// Build embeds the full document set as indented JSON together with the
// question and the conversation context, both verbatim.
func (b *PromptBuilder) Build(kind TemplateKind, collection string, documents []models.Record, question, conversation string) (string, error) {
	tmpl, ok := b.templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown template kind %q", kind)
	}

	docs, err := indentJSON(documents)
	if err != nil {
		return "", fmt.Errorf("failed to encode documents: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, promptData{
		Role:       b.role,
		Collection: collection,
		Documents:  docs,
		Context:    conversation,
		Question:   question,
		MaxWords:   b.maxWords,
		Language:   DetectLanguage(question),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", kind, err)
	}
	return out.String(), nil
}

func indentJSON(documents []models.Record) (string, error) {
	if documents == nil {
		documents = []models.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(documents); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Thai Unicode block
const (
	thaiBlockStart = '\u0E00'
	thaiBlockEnd   = '\u0E7F'
)

// DetectLanguage returns "Thai" when text contains any rune of the Thai block, "English" otherwise
func DetectLanguage(text string) string {
	for _, r := range text {
		if r >= thaiBlockStart && r <= thaiBlockEnd {
			return "Thai"
		}
	}
	return "English"
}
