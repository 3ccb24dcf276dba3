package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/handlers"
	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/services/analyzer"
	"github.com/ternarybob/secretary/internal/services/entries"
	"github.com/ternarybob/secretary/internal/services/llm"
	"github.com/ternarybob/secretary/internal/services/sessions"
	"github.com/ternarybob/secretary/internal/services/tasks"
	"github.com/ternarybob/secretary/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Storage interfaces.DocumentStorage

	// LLM access
	Providers  *llm.ProviderFactory
	LLMService interfaces.LLMService

	// Services
	AnalyzerService interfaces.AnalyzerService
	EntryService    interfaces.EntryService
	TaskParser      interfaces.TaskParser
	Sessions        interfaces.SessionStore

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	EntriesHandler *handlers.EntriesHandler
	AnalyzeHandler *handlers.AnalyzeHandler
	PageHandler    *handlers.PageHandler
}

// New opens the store, creates the LLM client and wires services and handlers
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initLLM(); err != nil {
		app.Storage.Close()
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	app.initServices()
	app.initHandlers()

	logger.Info().
		Str("storage", cfg.Storage.Type).
		Str("llm_provider", string(app.Providers.DetectProvider(""))).
		Msg("Application initialization complete")

	return app, nil
}

// NewWithDependencies wires services and handlers over an existing store and
// LLM service
func NewWithDependencies(cfg *common.Config, logger arbor.ILogger, store interfaces.DocumentStorage, llmService interfaces.LLMService) *App {
	app := &App{
		Config:     cfg,
		Logger:     logger,
		Storage:    store,
		LLMService: llmService,
	}
	app.initServices()
	app.initHandlers()
	return app
}

// initDatabase opens the configured document store
func (a *App) initDatabase(ctx context.Context) error {
	store, err := storage.NewDocumentStorage(ctx, a.Logger, a.Config)
	if err != nil {
		return err
	}
	a.Storage = store
	return nil
}

// initLLM creates the provider factory and the query client
func (a *App) initLLM() error {
	a.Providers = llm.NewProviderFactory(&a.Config.Gemini, &a.Config.Claude, &a.Config.LLM, a.Logger)

	// Decoding parameters come from [gemini]; the model follows the default provider
	params := a.Config.Gemini
	if a.Providers.DetectProvider("") == llm.ProviderClaude {
		params.Model = a.Config.Claude.Model
	}

	client, err := llm.NewClient(a.Providers, &params, a.Logger)
	if err != nil {
		return err
	}
	a.LLMService = client
	return nil
}

func (a *App) initServices() {
	a.AnalyzerService = analyzer.NewService(a.Storage, a.LLMService, &a.Config.Analyzer, a.Logger)
	a.EntryService = entries.NewService(a.Storage, &a.Config.Entries, a.Logger)
	a.TaskParser = tasks.NewParser(a.LLMService, a.Logger)
	a.Sessions = sessions.NewStore(a.Config.Telegram.HistorySize)
}

func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Storage, a.Logger)
	a.EntriesHandler = handlers.NewEntriesHandler(a.EntryService, a.Logger)
	a.AnalyzeHandler = handlers.NewAnalyzeHandler(a.AnalyzerService, a.Storage, a.Logger)
	a.PageHandler = handlers.NewPageHandler(a.Storage, a.Config.Dashboard.DefaultCollection, a.Logger)
}

// ValidateCredentials checks that the default LLM provider has an API key
func (a *App) ValidateCredentials() error {
	if a.Providers == nil {
		return nil
	}
	return a.Providers.ValidateCredentials()
}

// Close releases the store
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	if err := a.Storage.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	a.Logger.Info().Msg("Storage closed")
	return nil
}
