package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
	"github.com/ternarybob/secretary/internal/services/normalize"
)

//go:embed pages/*.html
var pages embed.FS

type tableView struct {
	Collection  string
	Collections []string
	Columns     []string
	Rows        [][]string
	JSON        string
}

// PageHandler renders the dashboard pages
type PageHandler struct {
	storage           interfaces.DocumentStorage
	normalizer        *normalize.Normalizer
	templates         *template.Template
	defaultCollection string
	logger            arbor.ILogger
}

// NewPageHandler parses the embedded page templates
func NewPageHandler(storage interfaces.DocumentStorage, defaultCollection string, logger arbor.ILogger) *PageHandler {
	if defaultCollection == "" {
		defaultCollection = "data"
	}
	return &PageHandler{
		storage:           storage,
		normalizer:        normalize.New(),
		templates:         template.Must(template.ParseFS(pages, "pages/*.html")),
		defaultCollection: defaultCollection,
		logger:            logger,
	}
}

// RootHandler redirects / to the table view and 404s anything else
func (h *PageHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteDetail(w, http.StatusNotFound, "Not Found")
		return
	}
	http.Redirect(w, r, "/table", http.StatusFound)
}

// TableHandler handles GET /table?collection=<name>
func (h *PageHandler) TableHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	collection := r.URL.Query().Get("collection")
	if collection == "" {
		collection = h.defaultCollection
	}

	records, err := h.storage.Find(r.Context(), collection, interfaces.FindOptions{})
	if err != nil {
		h.logger.Error().Err(err).Str("collection", collection).Msg("Failed to load table")
		WriteDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	collections, err := h.storage.ListCollections(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list collections")
		WriteDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	view, err := buildTableView(collection, collections, h.normalizer.Records(records))
	if err != nil {
		h.logger.Error().Err(err).Str("collection", collection).Msg("Failed to encode table")
		WriteDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	var out bytes.Buffer
	if err := h.templates.ExecuteTemplate(&out, "table.html", view); err != nil {
		h.logger.Error().Err(err).Str("template", "table.html").Msg("Failed to render page")
		WriteDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())
}

// buildTableView lays records out with one column per field name, in order
// of first appearance
func buildTableView(collection string, collections []string, records []models.Record) (tableView, error) {
	view := tableView{
		Collection:  collection,
		Collections: collections,
		Rows:        make([][]string, 0, len(records)),
	}

	seen := map[string]bool{}
	for _, record := range records {
		for _, key := range record.Keys() {
			if !seen[key] {
				seen[key] = true
				view.Columns = append(view.Columns, key)
			}
		}
	}

	for _, record := range records {
		row := make([]string, len(view.Columns))
		for i, column := range view.Columns {
			if v, ok := record.Get(column); ok {
				row[i] = v.String()
			}
		}
		view.Rows = append(view.Rows, row)
	}

	if records == nil {
		records = []models.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return view, err
	}
	view.JSON = string(data)

	return view, nil
}
