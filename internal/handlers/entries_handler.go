package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
	"github.com/ternarybob/secretary/internal/services/entries"
)

// EntriesHandler serves the notes and tasks of the data collection
type EntriesHandler struct {
	entries  interfaces.EntryService
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewEntriesHandler creates a new entries handler
func NewEntriesHandler(entryService interfaces.EntryService, logger arbor.ILogger) *EntriesHandler {
	return &EntriesHandler{
		entries:  entryService,
		validate: validator.New(),
		logger:   logger,
	}
}

// ListHandler handles GET /telegram-data - every entry, newest time first
func (h *EntriesHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	records, err := h.entries.ListEntries(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Error fetching telegram data")
		WriteDetail(w, http.StatusInternalServerError, "Failed to fetch data: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"count":  len(records),
		"data":   records,
	})
}

// AddHandler handles POST /add-data
func (h *EntriesHandler) AddHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var entry models.DataEntry
	if err := decodeBody(r, h.validate, &entry); err != nil {
		h.logger.Warn().Err(err).Msg("Rejected data entry")
		WriteDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := h.entries.AddEntry(r.Context(), &entry)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entries.ErrInvalidEntry) {
			status = http.StatusUnprocessableEntity
		}
		h.logger.Error().Err(err).Msg("Error adding data")
		WriteDetail(w, status, "Failed to add data: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Data added successfully",
		"id":      id,
	})
}
