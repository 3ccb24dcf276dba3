// Package entries persists notes, tasks and dashboard submissions.
package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
	"github.com/ternarybob/secretary/internal/services/normalize"
)

var (
	// ErrInvalidEntry is returned when an entry fails validation before any write
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrInvalidTime is returned when a dashboard entry time is not ISO-8601
	ErrInvalidTime = errors.New("invalid entry time")
)

// isoLayouts are tried in order. Times without an offset are taken as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseISOTime parses an ISO-8601 date or date-time
func ParseISOTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: Invalid isoformat string: '%s'", ErrInvalidTime, s)
}

// Service implements interfaces.EntryService
type Service struct {
	storage    interfaces.DocumentStorage
	collection string
	validate   *validator.Validate
	display    *normalize.Normalizer
	now        func() time.Time
	logger     arbor.ILogger
}

// NewService creates an entry service writing to the configured collection
func NewService(storage interfaces.DocumentStorage, config *common.EntriesConfig, logger arbor.ILogger) *Service {
	collection := config.Collection
	if collection == "" {
		collection = "data"
	}
	return &Service{
		storage:    storage,
		collection: collection,
		validate:   newValidator(),
		display:    normalize.New(normalize.WithTimeLayout(normalize.DisplayLayout)),
		now:        time.Now,
		logger:     logger,
	}
}

var _ interfaces.EntryService = (*Service)(nil)

// Collection returns the collection entries are written to
func (s *Service) Collection() string {
	return s.collection
}

// newValidator registers the tasktime tag used by models.Entry
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tasktime", func(fl validator.FieldLevel) bool {
		return models.ValidTaskTime(fl.Field().String())
	})
	return v
}

func (s *Service) check(entry any) error {
	if err := s.validate.Struct(entry); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return nil
}

func (s *Service) insert(ctx context.Context, record models.Record, kind string) (string, error) {
	id, err := s.storage.Insert(ctx, s.collection, record)
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", kind, err)
	}

	s.logger.Info().
		Str("collection", s.collection).
		Str("type", kind).
		Str("id", id).
		Msg("Entry saved")

	return id, nil
}

// SaveNote stores {description, type: "note"}
func (s *Service) SaveNote(ctx context.Context, text string) (string, error) {
	entry := models.Entry{Description: text, Type: models.EntryTypeNote}
	if err := s.check(entry); err != nil {
		return "", err
	}
	return s.insert(ctx, entry.ToRecord(), string(entry.Type))
}

// SaveTask stores {description, type: "task", time}. The time must already
// be in YYYY-MM-DD HH:mm form.
func (s *Service) SaveTask(ctx context.Context, task *models.Task) (string, error) {
	if task == nil {
		return "", fmt.Errorf("%w: nil task", ErrInvalidEntry)
	}
	entry := models.Entry{Description: task.Description, Type: models.EntryTypeTask, Time: task.Time}
	if err := s.check(entry); err != nil {
		return "", err
	}
	return s.insert(ctx, entry.ToRecord(), string(entry.Type))
}

// AddEntry stores a dashboard submission with its parsed time and a UTC
// creation timestamp. Validation failures wrap ErrInvalidEntry, unparsable
// times wrap ErrInvalidTime.
func (s *Service) AddEntry(ctx context.Context, entry *models.DataEntry) (string, error) {
	if entry == nil {
		return "", fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}
	if err := s.check(entry); err != nil {
		return "", err
	}

	at, err := ParseISOTime(entry.Time)
	if err != nil {
		return "", err
	}

	return s.insert(ctx, entry.ToRecord(at, s.now().UTC()), entry.Type)
}

// ListEntries returns every entry, newest time first, normalized for display
func (s *Service) ListEntries(ctx context.Context) ([]models.Record, error) {
	records, err := s.storage.Find(ctx, s.collection, interfaces.FindOptions{
		SortField:  "time",
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return s.display.Records(records), nil
}
