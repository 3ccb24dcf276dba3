package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/secretary/internal/common"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// ErrBlocked is returned when the provider refuses to answer on safety grounds
var ErrBlocked = errors.New("response blocked by content safety filter")

// ContentRequest represents a provider-agnostic single-prompt generation request
type ContentRequest struct {
	Prompt         string
	Model          string
	Temperature    float32
	MaxTokens      int
	CandidateCount int
	// SafetyFilter applies the medium-and-above block threshold to the
	// harassment, hate speech, sexually explicit and dangerous categories.
	SafetyFilter bool
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// Generator produces text for a request
type Generator interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
}

// ProviderFactory creates provider clients lazily and routes requests by model name
type ProviderFactory struct {
	geminiConfig *common.GeminiConfig
	claudeConfig *common.ClaudeConfig
	llmConfig    *common.LLMConfig
	logger       arbor.ILogger

	mu           sync.Mutex
	geminiClient *genai.Client
	claudeClient *anthropic.Client
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(
	geminiConfig *common.GeminiConfig,
	claudeConfig *common.ClaudeConfig,
	llmConfig *common.LLMConfig,
	logger arbor.ILogger,
) *ProviderFactory {
	return &ProviderFactory{
		geminiConfig: geminiConfig,
		claudeConfig: claudeConfig,
		llmConfig:    llmConfig,
		logger:       logger,
	}
}

// DetectProvider determines the provider type from a model string.
// "claude-..." or "claude/..." selects Claude, "gemini-..." or "gemini/..."
// selects Gemini, anything else uses the configured default.
func (f *ProviderFactory) DetectProvider(model string) ProviderType {
	model = strings.ToLower(model)

	switch {
	case strings.HasPrefix(model, "claude/"), strings.HasPrefix(model, "anthropic/"), strings.HasPrefix(model, "claude-"):
		return ProviderClaude
	case strings.HasPrefix(model, "gemini/"), strings.HasPrefix(model, "google/"), strings.HasPrefix(model, "gemini-"):
		return ProviderGemini
	}

	if f.llmConfig.DefaultProvider == "" {
		return ProviderGemini
	}
	return ProviderType(f.llmConfig.DefaultProvider)
}

// NormalizeModel removes provider prefix from model name if present
func (f *ProviderFactory) NormalizeModel(model string) string {
	for _, prefix := range []string{"claude/", "anthropic/", "gemini/", "google/"} {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// ValidateCredentials resolves the API key of the default provider so that a
// missing credential aborts start-up instead of failing the first question.
func (f *ProviderFactory) ValidateCredentials() error {
	switch f.DetectProvider("") {
	case ProviderClaude:
		_, err := common.ResolveAPIKey("anthropic_api_key", f.claudeConfig.APIKey)
		return err
	default:
		_, err := common.ResolveAPIKey("gemini_api_key", f.geminiConfig.APIKey)
		return err
	}
}

// GetGeminiClient returns a Gemini client, creating one if necessary
func (f *ProviderFactory) GetGeminiClient(ctx context.Context) (*genai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.geminiClient != nil {
		return f.geminiClient, nil
	}

	apiKey, err := common.ResolveAPIKey("gemini_api_key", f.geminiConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Gemini API key: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	f.geminiClient = client
	return client, nil
}

// GetClaudeClient returns a Claude client, creating one if necessary
func (f *ProviderFactory) GetClaudeClient() (*anthropic.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claudeClient != nil {
		return f.claudeClient, nil
	}

	apiKey, err := common.ResolveAPIKey("anthropic_api_key", f.claudeConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Anthropic API key: %w", err)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	f.claudeClient = &client
	return f.claudeClient, nil
}

// GenerateContent generates content using the provider matching the request model
func (f *ProviderFactory) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	provider := f.DetectProvider(request.Model)
	model := f.NormalizeModel(request.Model)

	f.logger.Debug().
		Str("provider", string(provider)).
		Str("model", model).
		Int("prompt_length", len(request.Prompt)).
		Msg("Generating content with provider")

	switch provider {
	case ProviderClaude:
		return f.generateWithClaude(ctx, request, model)
	default:
		return f.generateWithGemini(ctx, request, model)
	}
}

// geminiSafetySettings blocks medium and above in the four harm categories
func geminiSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return settings
}

// generateWithGemini generates content using Gemini API. No retry: a failed
// call is reported to the caller as is.
func (f *ProviderFactory) generateWithGemini(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	client, err := f.GetGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = f.geminiConfig.Model
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(request.Temperature),
	}
	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}
	if request.CandidateCount > 0 {
		config.CandidateCount = int32(request.CandidateCount)
	}
	if request.SafetyFilter {
		config.SafetySettings = geminiSafetySettings()
	}

	contents := []*genai.Content{genai.NewContentFromText(request.Prompt, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, ErrBlocked
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	return &ContentResponse{
		Text:     text,
		Provider: ProviderGemini,
		Model:    model,
	}, nil
}

// generateWithClaude generates content using Claude API
func (f *ProviderFactory) generateWithClaude(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	client, err := f.GetClaudeClient()
	if err != nil {
		return nil, err
	}

	if model == "" || !strings.HasPrefix(strings.ToLower(model), "claude") {
		model = f.claudeConfig.Model
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.claudeConfig.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(request.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	if resp.StopReason == anthropic.StopReasonRefusal {
		return nil, ErrBlocked
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	return &ContentResponse{
		Text:     text.String(),
		Provider: ProviderClaude,
		Model:    model,
	}, nil
}

// IsRateLimitError reports whether err is a provider quota or rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "rate_limit")
}
