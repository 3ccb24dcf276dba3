package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
)

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	CollectionName string `json:"collection_name" validate:"required"`
	Question       string `json:"question" validate:"required"`
	Context        string `json:"context"`
}

// AnalyzeHandler answers questions and reports collection state
type AnalyzeHandler struct {
	analyzer interfaces.AnalyzerService
	storage  interfaces.DocumentStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer interfaces.AnalyzerService, storage interfaces.DocumentStorage, logger arbor.ILogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		storage:  storage,
		validate: validator.New(),
		logger:   logger,
	}
}

// AnalyzeHandler handles POST /analyze. The router picks the collection
// before the question is answered.
func (h *AnalyzeHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AnalyzeRequest
	if err := decodeBody(r, h.validate, &req); err != nil {
		WriteDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	collection := h.analyzer.Route(r.Context(), req.Question, req.CollectionName)
	answer := h.analyzer.Analyze(r.Context(), collection, req.Question, req.Context)

	h.logger.Info().
		Str("requested", req.CollectionName).
		Str("collection", collection).
		Msg("Question analyzed")

	WriteJSON(w, http.StatusOK, map[string]string{
		"analysis": answer,
	})
}

// ListCollectionsHandler handles GET /collections - inspector result per collection
func (h *AnalyzeHandler) ListCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	names, err := h.storage.ListCollections(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list collections")
		WriteDetail(w, http.StatusInternalServerError, "Database connection error: "+err.Error())
		return
	}

	infos := make([]models.CollectionInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, h.analyzer.Inspect(r.Context(), name))
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"collections": infos,
	})
}

// GetCollectionHandler handles GET /collection/{name}
func (h *AnalyzeHandler) GetCollectionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	encoded := strings.TrimPrefix(r.URL.Path, "/collection/")
	name, err := url.PathUnescape(encoded)
	if err != nil || name == "" || strings.Contains(name, "/") {
		WriteDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	WriteJSON(w, http.StatusOK, h.analyzer.Inspect(r.Context(), name))
}
