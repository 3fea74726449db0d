package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	api := s.app.APIHandler
	docs := s.app.PDFHandler
	status := s.app.StatusHandler
	prefix := strings.TrimRight(s.app.Config.Server.APIPrefix, "/")

	// Welcome message; also the fallback 404 for unknown paths
	mux.HandleFunc("/", api.RootHandler)
	if prefix != "" {
		mux.HandleFunc("/health", api.HealthHandler)
		mux.HandleFunc(prefix+"/", api.NotFoundHandler)
	}

	// API routes - System
	mux.HandleFunc(prefix+"/health", api.HealthHandler)
	mux.HandleFunc(prefix+"/version", api.VersionHandler)

	// API routes - Extraction
	mux.HandleFunc(prefix+"/extract", docs.ExtractHandler)
	mux.HandleFunc(prefix+"/documents", docs.ListDocumentsHandler)
	mux.HandleFunc(prefix+"/documents/", docs.GetDocumentHandler) // GET /{id}
	mux.HandleFunc(prefix+"/images/", docs.ImageHandler)          // GET /{filename}

	// API routes - Status
	mux.HandleFunc(prefix+"/workers/status", status.WorkersStatusHandler)
	mux.HandleFunc(prefix+"/llm/status", status.LLMStatusHandler)

	if s.app.Config.Debug {
		mux.HandleFunc(prefix+"/debug/generate-uuid", api.GenerateUUIDHandler)
	}

	return mux
}
