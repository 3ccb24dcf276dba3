package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/interfaces"
)

// ErrorPrefix starts every caller-visible failure text of the question pipeline
const ErrorPrefix = "Error analyzing collection: "

// FormatError renders err as the caller-visible failure text
func FormatError(err error) string {
	return ErrorPrefix + err.Error()
}

// Client sends prompts with the fixed decoding parameters of each call type
type Client struct {
	generator   Generator
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      arbor.ILogger
}

// NewClient creates a query client. Question answering uses the configured
// temperature and output cap with the safety filter on; extraction always
// runs at temperature 0 with a single candidate.
func NewClient(generator Generator, config *common.GeminiConfig, logger arbor.ILogger) (*Client, error) {
	timeout, err := common.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid gemini timeout %q: %w", config.Timeout, err)
	}

	return &Client{
		generator:   generator,
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

var _ interfaces.LLMService = (*Client)(nil)

// Ask answers a question prompt. Any failure is logged and returned as text.
func (c *Client) Ask(ctx context.Context, prompt string) string {
	resp, err := c.generate(ctx, &ContentRequest{
		Prompt:       prompt,
		Model:        c.model,
		Temperature:  c.temperature,
		MaxTokens:    c.maxTokens,
		SafetyFilter: true,
	})
	if err != nil {
		c.logFailure(err, "ask")
		return FormatError(err)
	}
	return resp.Text
}

// Extract runs a deterministic extraction prompt and returns the raw reply
func (c *Client) Extract(ctx context.Context, prompt string) (string, error) {
	resp, err := c.generate(ctx, &ContentRequest{
		Prompt:         prompt,
		Model:          c.model,
		Temperature:    0,
		CandidateCount: 1,
	})
	if err != nil {
		c.logFailure(err, "extract")
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) generate(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.generator.GenerateContent(ctx, request)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("provider", string(resp.Provider)).
		Str("model", resp.Model).
		Int("response_length", len(resp.Text)).
		Dur("duration", time.Since(start)).
		Msg("LLM call completed")

	return resp, nil
}

func (c *Client) logFailure(err error, call string) {
	event := c.logger.Error()
	switch {
	case errors.Is(err, ErrBlocked):
		event = c.logger.Warn()
	case IsRateLimitError(err):
		event = event.Bool("rate_limited", true)
	}
	event.Str("call", call).Err(err).Msg("LLM call failed")
}
