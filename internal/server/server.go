package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/pdfextractor/internal/app"
)

// Server manages the HTTP server and routes
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server
}

// New creates a new HTTP server with the given app
func New(application *app.App) *Server {
	s := &Server{
		app: application,
	}

	s.router = s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.withMiddleware(s.router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       uploadReadTimeout(application.Config.Uploads.MaxUploadMB),
		// Extraction plus an LLM summary runs before the response is written
		WriteTimeout:   5 * time.Minute,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 64 << 10,
	}

	return s
}

const (
	minReadTimeout   = 2 * time.Minute
	readTimeoutPerMB = 2 * time.Second
)

// uploadReadTimeout gives the largest accepted upload room to arrive over a slow link
func uploadReadTimeout(maxUploadMB int) time.Duration {
	if timeout := time.Duration(maxUploadMB) * readTimeoutPerMB; timeout > minReadTimeout {
		return timeout
	}
	return minReadTimeout
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	config := s.app.Config
	s.app.Logger.Info().
		Str("address", s.server.Addr).
		Str("api_prefix", config.Server.APIPrefix).
		Int("max_upload_mb", config.Uploads.MaxUploadMB).
		Str("read_timeout", s.server.ReadTimeout.String()).
		Str("image_folder", config.Uploads.ImageFolder).
		Str("storage", config.Storage.Type).
		Msg("PDF extraction server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}
