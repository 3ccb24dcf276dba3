package interfaces

import (
	"context"
)

// LLMService sends prompts to the hosted language model.
type LLMService interface {
	// Ask answers a question prompt. Failures come back as a user-visible
	// error string rather than an error value.
	Ask(ctx context.Context, prompt string) string

	// Extract runs a deterministic structured-extraction prompt and returns
	// the raw model text.
	Extract(ctx context.Context, prompt string) (string, error)
}
