package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/interfaces"
)

// HealthHandler reports store connectivity
type HealthHandler struct {
	storage interfaces.DocumentStorage
	logger  arbor.ILogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage interfaces.DocumentStorage, logger arbor.ILogger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		logger:  logger,
	}
}

// HealthCheckHandler handles GET /health
func (h *HealthHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	collections, err := h.storage.ListCollections(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Health check failed")
		WriteDetail(w, http.StatusInternalServerError, "Database connection error: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"collections": collections,
	})
}
