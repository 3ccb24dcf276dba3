package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("/", s.app.PageHandler.RootHandler)
	mux.HandleFunc("/table", s.app.PageHandler.TableHandler)

	// Store status
	mux.HandleFunc("/health", s.app.HealthHandler.HealthCheckHandler)
	mux.HandleFunc("/collections", s.app.AnalyzeHandler.ListCollectionsHandler)
	mux.HandleFunc("/collection/", s.app.AnalyzeHandler.GetCollectionHandler)

	// Entries
	mux.HandleFunc("/telegram-data", s.app.EntriesHandler.ListHandler)
	mux.HandleFunc("/add-data", s.app.EntriesHandler.AddHandler)

	// Question answering
	mux.HandleFunc("/analyze", s.app.AnalyzeHandler.AnalyzeHandler)

	return mux
}
