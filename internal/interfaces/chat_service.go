package interfaces

import (
	"context"

	"github.com/ternarybob/secretary/internal/models"
)

// SessionStore holds the recent conversation of each chat
type SessionStore interface {
	// Append adds a line and drops the oldest lines past the retention limit.
	Append(chatID int64, line string)
	// Context returns the retained lines joined by newlines.
	Context(chatID int64) string
	Clear(chatID int64)
}

// AnalyzerService answers questions about stored collections
type AnalyzerService interface {
	Analyze(ctx context.Context, collection, question, conversation string) string
	Route(ctx context.Context, question, fallback string) string
	Inspect(ctx context.Context, collection string) models.CollectionInfo
}

// TaskParser turns free text into a task with a normalized time
type TaskParser interface {
	Parse(ctx context.Context, text string) (*models.Task, error)
}

// EntryService persists notes, tasks and dashboard entries
type EntryService interface {
	SaveNote(ctx context.Context, text string) (string, error)
	SaveTask(ctx context.Context, task *models.Task) (string, error)
	AddEntry(ctx context.Context, entry *models.DataEntry) (string, error)
	ListEntries(ctx context.Context) ([]models.Record, error)
}
