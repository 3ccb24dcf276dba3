// Package analyzer answers natural-language questions about stored collections.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
	"github.com/ternarybob/secretary/internal/services/llm"
	"github.com/ternarybob/secretary/internal/services/normalize"
)

// Service runs the inspect, normalize, prompt and ask pipeline
type Service struct {
	storage    interfaces.DocumentStorage
	llm        interfaces.LLMService
	prompts    *PromptBuilder
	normalizer *normalize.Normalizer
	config     *common.AnalyzerConfig
	logger     arbor.ILogger
}

// NewService creates a new analyzer service
func NewService(
	storage interfaces.DocumentStorage,
	llmService interfaces.LLMService,
	config *common.AnalyzerConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		storage:    storage,
		llm:        llmService,
		prompts:    NewPromptBuilder(config.AssistantRole, config.MaxWords),
		normalizer: normalize.New(),
		config:     config,
		logger:     logger,
	}
}

var _ interfaces.AnalyzerService = (*Service)(nil)

// Inspect reports whether a collection exists, its size and the field names
// of one sample record. Any lookup error is reported as a missing collection.
func (s *Service) Inspect(ctx context.Context, collection string) models.CollectionInfo {
	info := models.CollectionInfo{Name: collection}

	exists, err := s.storage.CollectionExists(ctx, collection)
	if err != nil {
		return s.inspectFailed(info, err)
	}
	if !exists {
		return info
	}

	count, err := s.storage.Count(ctx, collection)
	if err != nil {
		return s.inspectFailed(info, err)
	}

	info.Exists = true
	info.DocumentCount = count

	if count > 0 {
		sample, err := s.storage.FindOne(ctx, collection)
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			info.SampleKeys = []string{}
		case err != nil:
			return s.inspectFailed(models.CollectionInfo{Name: collection}, err)
		default:
			info.SampleKeys = sample.Keys()
		}
	}

	return info
}

func (s *Service) inspectFailed(info models.CollectionInfo, err error) models.CollectionInfo {
	s.logger.Error().
		Str("collection", info.Name).
		Err(err).
		Msg("Failed to inspect collection")
	info.Exists = false
	info.Error = err.Error()
	return info
}

// Route picks the profile collection for identity questions when it holds
// data, and keeps fallback otherwise.
func (s *Service) Route(ctx context.Context, question, fallback string) string {
	if !MatchesKeywords(question, s.config.ProfileKeywords) {
		return fallback
	}

	info := s.Inspect(ctx, s.config.ProfileCollection)
	if !info.Exists || info.DocumentCount < 1 {
		return fallback
	}

	s.logger.Debug().
		Str("from", fallback).
		Str("to", s.config.ProfileCollection).
		Msg("Question routed to profile collection")

	return s.config.ProfileCollection
}

// MatchesKeywords reports whether the lowercased question contains any keyword
func MatchesKeywords(question string, keywords []string) bool {
	lowered := strings.ToLower(question)
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// Analyze answers question from the full contents of collection. Missing and
// empty collections and every failure come back as caller-visible text.
func (s *Service) Analyze(ctx context.Context, collection, question, conversation string) string {
	info := s.Inspect(ctx, collection)
	if !info.Exists {
		return fmt.Sprintf("Collection '%s' does not exist.", collection)
	}

	s.logger.Info().
		Str("collection", collection).
		Int64("document_count", info.DocumentCount).
		Str("question", question).
		Msg("Analyzing collection")

	records, err := s.storage.Find(ctx, collection, interfaces.FindOptions{})
	if err != nil {
		s.logger.Error().Str("collection", collection).Err(err).Msg("Failed to read collection")
		return llm.FormatError(err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("The collection '%s' is empty.", collection)
	}

	kind := TemplateGeneral
	if collection == s.config.ProfileCollection {
		kind = TemplateProfile
	}

	prompt, err := s.prompts.Build(kind, collection, s.normalizer.Records(records), question, conversation)
	if err != nil {
		s.logger.Error().Str("collection", collection).Err(err).Msg("Failed to build prompt")
		return llm.FormatError(err)
	}

	return s.llm.Ask(ctx, prompt)
}
