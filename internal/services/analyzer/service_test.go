package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
)

// mockStorage implements interfaces.DocumentStorage over in-memory collections
type mockStorage struct {
	collections map[string][]models.Record
	listErr     error
	findErr     error
}

func (m *mockStorage) Ping(ctx context.Context) error { return m.listErr }

func (m *mockStorage) ListCollections(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	names := []string{}
	for name := range m.collections {
		names = append(names, name)
	}
	return names, nil
}

func (m *mockStorage) CollectionExists(ctx context.Context, collection string) (bool, error) {
	if m.listErr != nil {
		return false, m.listErr
	}
	_, ok := m.collections[collection]
	return ok, nil
}

func (m *mockStorage) Count(ctx context.Context, collection string) (int64, error) {
	return int64(len(m.collections[collection])), nil
}

func (m *mockStorage) FindOne(ctx context.Context, collection string) (models.Record, error) {
	records := m.collections[collection]
	if len(records) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return records[0], nil
}

func (m *mockStorage) Find(ctx context.Context, collection string, opts interfaces.FindOptions) ([]models.Record, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.collections[collection], nil
}

func (m *mockStorage) Insert(ctx context.Context, collection string, record models.Record) (string, error) {
	m.collections[collection] = append(m.collections[collection], record)
	return "65f1a2b3c4d5e6f708192a3b", nil
}

func (m *mockStorage) DeleteAll(ctx context.Context, collection string) (int64, error) {
	n := len(m.collections[collection])
	m.collections[collection] = []models.Record{}
	return int64(n), nil
}

func (m *mockStorage) Close() error { return nil }

// mockLLM implements interfaces.LLMService and records prompts
type mockLLM struct {
	answer  string
	prompts []string
}

func (m *mockLLM) Ask(ctx context.Context, prompt string) string {
	m.prompts = append(m.prompts, prompt)
	return m.answer
}

func (m *mockLLM) Extract(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not used")
}

func newTestService(storage *mockStorage, llmService *mockLLM) *Service {
	config := common.NewDefaultConfig().Analyzer
	return NewService(storage, llmService, &config, arbor.NewNoOpLogger())
}

func menuStorage() *mockStorage {
	id, _ := models.ParseIdentifier("65f1a2b3c4d5e6f708192a3b")
	return &mockStorage{collections: map[string][]models.Record{
		"menus": {
			models.NewRecord(
				models.F("_id", id),
				models.F("name", models.String("Pad Thai")),
				models.F("price", models.Int(120)),
				models.F("updated", models.Timestamp(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))),
			),
		},
		"about": {
			models.NewRecord(models.F("th", models.Nested(models.NewRecord(models.F("name", models.String("บ้านสวน")))))),
		},
		"empty": {},
	}}
}

func TestInspect(t *testing.T) {
	service := newTestService(menuStorage(), &mockLLM{})
	ctx := context.Background()

	info := service.Inspect(ctx, "menus")
	assert.True(t, info.Exists)
	assert.Equal(t, int64(1), info.DocumentCount)
	assert.Equal(t, []string{"_id", "name", "price", "updated"}, info.SampleKeys)

	info = service.Inspect(ctx, "empty")
	assert.True(t, info.Exists)
	assert.Zero(t, info.DocumentCount)
	assert.Nil(t, info.SampleKeys)

	info = service.Inspect(ctx, "nope")
	assert.False(t, info.Exists)
	assert.Empty(t, info.Error)
}

func TestInspect_LookupErrorReportsMissing(t *testing.T) {
	storage := menuStorage()
	storage.listErr = errors.New("server selection timeout")
	service := newTestService(storage, &mockLLM{})

	info := service.Inspect(context.Background(), "menus")
	assert.False(t, info.Exists)
	assert.Equal(t, "server selection timeout", info.Error)
}

func TestAnalyze_MissingAndEmptyAreDistinct(t *testing.T) {
	llmService := &mockLLM{answer: "unused"}
	service := newTestService(menuStorage(), llmService)
	ctx := context.Background()

	assert.Equal(t, "Collection 'nope' does not exist.", service.Analyze(ctx, "nope", "anything?", ""))
	assert.Equal(t, "The collection 'empty' is empty.", service.Analyze(ctx, "empty", "anything?", ""))
	assert.Empty(t, llmService.prompts)
}

func TestAnalyze_ConnectionFailureLooksMissing(t *testing.T) {
	storage := menuStorage()
	storage.listErr = errors.New("connection refused")
	service := newTestService(storage, &mockLLM{})

	assert.Equal(t, "Collection 'menus' does not exist.", service.Analyze(context.Background(), "menus", "price?", ""))
}

func TestAnalyze_BuildsGeneralPrompt(t *testing.T) {
	llmService := &mockLLM{answer: "Pad Thai costs 120 baht."}
	service := newTestService(menuStorage(), llmService)

	answer := service.Analyze(context.Background(), "menus", "How much is pad thai?", "User: hi\nAssistant: hello")

	assert.Equal(t, "Pad Thai costs 120 baht.", answer)
	require.Len(t, llmService.prompts, 1)
	prompt := llmService.prompts[0]
	assert.Contains(t, prompt, `"menus" collection`)
	assert.Contains(t, prompt, `"_id": "65f1a2b3c4d5e6f708192a3b"`)
	assert.Contains(t, prompt, `"updated": "2024-06-01T10:00:00Z"`)
	assert.Contains(t, prompt, "How much is pad thai?")
	assert.Contains(t, prompt, "User: hi\nAssistant: hello")
	assert.Contains(t, prompt, "less than 50 words")
	assert.Contains(t, prompt, "Answer in English")
	assert.NotContains(t, prompt, "restaurant information")
}

func TestAnalyze_ProfilePromptInThai(t *testing.T) {
	llmService := &mockLLM{answer: "ร้านก่อตั้งปี 2525"}
	service := newTestService(menuStorage(), llmService)

	service.Analyze(context.Background(), "about", "ร้านก่อตั้งเมื่อไหร่", "")

	require.Len(t, llmService.prompts, 1)
	prompt := llmService.prompts[0]
	assert.Contains(t, prompt, "restaurant information")
	assert.Contains(t, prompt, "Answer in Thai")
	assert.Contains(t, prompt, "บ้านสวน")
}

func TestAnalyze_ReadFailureIsText(t *testing.T) {
	storage := menuStorage()
	storage.findErr = errors.New("cursor killed")
	service := newTestService(storage, &mockLLM{})

	answer := service.Analyze(context.Background(), "menus", "price?", "")
	assert.True(t, strings.HasPrefix(answer, "Error analyzing collection: "))
}

func TestRoute(t *testing.T) {
	ctx := context.Background()
	service := newTestService(menuStorage(), &mockLLM{})

	assert.Equal(t, "about", service.Route(ctx, "Who is the OWNER?", "menus"))
	assert.Equal(t, "about", service.Route(ctx, "tell me the history", "data"))
	assert.Equal(t, "menus", service.Route(ctx, "what is spicy?", "menus"))

	// Profile collection empty: keep the default
	empty := menuStorage()
	empty.collections["about"] = []models.Record{}
	service = newTestService(empty, &mockLLM{})
	assert.Equal(t, "menus", service.Route(ctx, "restaurant awards?", "menus"))

	// Profile collection missing
	delete(empty.collections, "about")
	assert.Equal(t, "menus", service.Route(ctx, "restaurant awards?", "menus"))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "English", DetectLanguage("When did you open?"))
	assert.Equal(t, "Thai", DetectLanguage("เปิดกี่โมง"))
	assert.Equal(t, "Thai", DetectLanguage("Is ต้มยำ spicy?"))
	assert.Equal(t, "English", DetectLanguage(""))
}

func TestPromptBuilder_UnknownKind(t *testing.T) {
	_, err := NewPromptBuilder("assistant", 50).Build("other", "menus", nil, "q", "")
	assert.Error(t, err)
}

func TestPromptBuilder_EmptyDocumentsRenderAsArray(t *testing.T) {
	prompt, err := NewPromptBuilder("assistant", 50).Build(TemplateGeneral, "menus", nil, "q", "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "collection:\n[]\n")
}
