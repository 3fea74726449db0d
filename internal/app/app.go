// -----------------------------------------------------------------------
// Last Modified: Thursday, 15th October 2026 4:12:09 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/handlers"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
	"github.com/ternarybob/pdfextractor/internal/services/llm"
	"github.com/ternarybob/pdfextractor/internal/services/pdf"
	"github.com/ternarybob/pdfextractor/internal/services/scheduler"
	"github.com/ternarybob/pdfextractor/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Services
	PDFService    interfaces.PDFService
	Summarizer    *llm.Service
	CleanupWorker *scheduler.Service

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	PDFHandler    *handlers.PDFHandler
	StatusHandler *handlers.StatusHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initFolders(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("pdf_folder", cfg.Uploads.PDFFolder).
		Str("image_folder", cfg.Uploads.ImageFolder).
		Str("storage", cfg.Storage.Type).
		Msg("Application initialization complete")

	return app, nil
}

// initFolders creates the upload and image folders
func (a *App) initFolders() error {
	for _, dir := range []string{a.Config.Uploads.PDFFolder, a.Config.Uploads.ImageFolder} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create folder %s: %w", dir, err)
		}
	}
	return nil
}

// initDatabase opens the configured storage backend
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return err
	}
	a.StorageManager = storageManager

	a.Logger.Info().Str("type", a.Config.Storage.Type).Msg("Storage layer initialized")
	return nil
}

// initServices builds the summarizer, the extraction pipeline and the retention sweeper
func (a *App) initServices() error {
	a.Summarizer = llm.NewService(&a.Config.LLM, a.Logger)

	a.PDFService = pdf.NewService(
		a.StorageManager.DocumentStorage(),
		pdf.NewExtractor(a.Logger),
		a.Summarizer,
		a.Config,
		a.Logger,
	)

	a.CleanupWorker = scheduler.NewService(a.Config, a.Logger)
	if err := a.CleanupWorker.Start(); err != nil {
		return fmt.Errorf("failed to start cleanup worker: %w", err)
	}

	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Config, a.Logger)
	a.PDFHandler = handlers.NewPDFHandler(a.PDFService, a.Config, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.CleanupWorker, a.Summarizer, a.Logger)
}

// Close stops the sweeper and closes storage
func (a *App) Close() error {
	if a.CleanupWorker != nil {
		if err := a.CleanupWorker.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop cleanup worker")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
