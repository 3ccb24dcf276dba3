// Package tasks turns free-text task descriptions into dated task records.
package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
)

// UserMessage is the reply sent when a task cannot be understood
const UserMessage = "Sorry, I couldn't understand the time format. Please try again."

// ErrUnparseableTask covers every malformed extraction reply: bad JSON, wrong
// field types, missing fields or a time not in YYYY-MM-DD HH:mm form.
var ErrUnparseableTask = errors.New("unparseable task reply")

const dateLayout = "2006-01-02"

const promptTemplate = `You are a task parser. Parse this Thai task with time: "{{.Text}}"
Today's date is: {{.Today}}
Return ONLY a valid JSON object in this exact format, nothing else:
{
    "description": "task description without time",
    "time": "YYYY-MM-DD HH:mm",
    "has_explicit_date": boolean
}
Rules:
- If no specific date is mentioned in the task, use today's date ({{.Today}}) and set has_explicit_date to false
- If a specific date is mentioned, parse that date and set has_explicit_date to true
- Always convert Thai time words to 24-hour format
- Time must be in HH:mm format`

var prompt = template.Must(template.New("task").Parse(promptTemplate))

// reply mirrors the requested JSON with pointers so absent fields are detectable
type reply struct {
	Description     *string `json:"description"`
	Time            *string `json:"time"`
	HasExplicitDate *bool   `json:"has_explicit_date"`
}

// Parser implements interfaces.TaskParser
type Parser struct {
	llm    interfaces.LLMService
	now    func() time.Time
	logger arbor.ILogger
}

// Option configures a Parser
type Option func(*Parser)

// WithClock replaces the source of today's date
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// NewParser creates a task parser
func NewParser(llmService interfaces.LLMService, logger arbor.ILogger, opts ...Option) *Parser {
	p := &Parser{
		llm:    llmService,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ interfaces.TaskParser = (*Parser)(nil)

// BuildPrompt renders the extraction prompt for text and today's date
func BuildPrompt(text, today string) (string, error) {
	var out bytes.Buffer
	if err := prompt.Execute(&out, struct{ Text, Today string }{text, today}); err != nil {
		return "", fmt.Errorf("failed to render task prompt: %w", err)
	}
	return out.String(), nil
}

// Parse runs one extraction round trip. There is no retry: a malformed reply
// is discarded and reported as ErrUnparseableTask. LLM transport failures are
// returned wrapped as they are.
func (p *Parser) Parse(ctx context.Context, text string) (*models.Task, error) {
	today := p.now().Format(dateLayout)

	content, err := BuildPrompt(text, today)
	if err != nil {
		return nil, err
	}

	raw, err := p.llm.Extract(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("task extraction failed: %w", err)
	}

	task, err := Decode(raw, today)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("reply", raw).
			Msg("Failed to parse LLM response")
		return nil, err
	}

	p.logger.Debug().
		Str("description", task.Description).
		Str("time", task.Time).
		Bool("has_explicit_date", task.HasExplicitDate).
		Msg("Task parsed")

	return task, nil
}

// Decode extracts the task from a model reply. Without an explicit date the
// date part is forced to today, keeping only the model's clock time.
func Decode(raw, today string) (*models.Task, error) {
	var r reply
	if err := json.Unmarshal([]byte(common.ExtractJSON(raw)), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableTask, err)
	}

	var missing []string
	if r.Description == nil {
		missing = append(missing, "description")
	}
	if r.Time == nil {
		missing = append(missing, "time")
	}
	if r.HasExplicitDate == nil {
		missing = append(missing, "has_explicit_date")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrUnparseableTask, strings.Join(missing, ", "))
	}

	when := strings.TrimSpace(*r.Time)
	if !*r.HasExplicitDate {
		fields := strings.Fields(when)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: empty time", ErrUnparseableTask)
		}
		when = today + " " + fields[len(fields)-1]
	}

	t, err := time.Parse(models.TaskTimeLayout, when)
	if err != nil {
		return nil, fmt.Errorf("%w: time %q: %v", ErrUnparseableTask, when, err)
	}
	// Re-format so a one-digit hour is stored zero padded
	when = t.Format(models.TaskTimeLayout)

	return &models.Task{
		Description:     *r.Description,
		Time:            when,
		HasExplicitDate: *r.HasExplicitDate,
	}, nil
}
