package interfaces

import (
	"time"

	"github.com/ternarybob/pdfextractor/internal/models"
)

// CleanupWorker is the file retention sweeper (STOPPED or RUNNING)
type CleanupWorker interface {
	// Start registers the recurring sweep; fails if already running
	Start() error

	// Stop cancels the schedule; safe when already stopped
	Stop() error

	IsRunning() bool
	Status() models.WorkerStatus

	// Sweep deletes files older than the retention window relative to now
	Sweep(now time.Time) models.SweepResult
}
