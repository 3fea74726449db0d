package scheduler

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
	"github.com/ternarybob/pdfextractor/internal/models"
)

// CleanupJobName identifies the retention sweep in logs
const CleanupJobName = "cleanup_old_files"

// ErrAlreadyRunning is returned by Start on a running worker
var ErrAlreadyRunning = errors.New("file cleanup worker is already running")

// Service implements interfaces.CleanupWorker on top of robfig/cron.
// It deletes uploaded PDFs and extracted images once they outlive the
// retention window. Database rows are left alone.
type Service struct {
	folders   []string
	retention time.Duration
	schedule  string
	logger    arbor.ILogger

	mu      sync.Mutex // Protects cron, entryID and running
	cron    *cron.Cron
	entryID cron.EntryID
	running bool

	sweepMu sync.Mutex // One sweep at a time
}

// Compile-time interface assertion
var _ interfaces.CleanupWorker = (*Service)(nil)

// NewService creates a stopped cleanup worker for the configured folders
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		folders:   []string{config.Uploads.PDFFolder, config.Uploads.ImageFolder},
		retention: config.RetentionWindow(),
		schedule:  config.CleanupSchedule(),
		logger:    logger,
	}
}

// Start registers the sweep and starts the cron loop
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	c := cron.New()
	entryID, err := c.AddFunc(s.schedule, s.runJob)
	if err != nil {
		return err
	}
	c.Start()

	s.cron = c
	s.entryID = entryID
	s.running = true

	s.logger.Info().
		Str("job_name", CleanupJobName).
		Str("schedule", s.schedule).
		Dur("retention", s.retention).
		Msg("File cleanup worker started")
	return nil
}

// Stop cancels the schedule and waits for an in-flight sweep to finish
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	<-s.cron.Stop().Done()
	s.cron = nil
	s.entryID = 0
	s.running = false

	s.logger.Info().Str("job_name", CleanupJobName).Msg("File cleanup worker stopped")
	return nil
}

func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) Status() models.WorkerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.WorkerStatus{
		Running:          s.running,
		RetentionMinutes: int(s.retention / time.Minute),
	}
	if !s.running {
		return status
	}

	entries := s.cron.Entries()
	status.JobCount = len(entries)
	if next := s.cron.Entry(s.entryID).Next; !next.IsZero() {
		status.NextRun = &next
	}
	return status
}

// runJob is the cron callback; a panic in the sweep is logged and dropped
func (s *Service) runJob() {
	common.RunProtected(s.logger, CleanupJobName, func() {
		s.Sweep(time.Now())
	})
}

// Sweep deletes regular files older than the retention window. Missing
// folders are skipped and a failure on one file does not stop the rest.
func (s *Service) Sweep(now time.Time) models.SweepResult {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	var result models.SweepResult
	cutoff := now.Add(-s.retention)

	for _, folder := range s.folders {
		if folder == "" {
			continue
		}

		entries, err := os.ReadDir(folder)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				s.logger.Debug().Str("folder", folder).Msg("Cleanup folder does not exist, skipping")
			} else {
				s.logger.Warn().Err(err).Str("folder", folder).Msg("Failed to read cleanup folder")
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			path := filepath.Join(folder, entry.Name())
			info, err := entry.Info()
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					result.Failed++
					s.logger.Warn().Err(err).Str("path", path).Msg("Failed to stat file")
				}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}

			result.Scanned++
			if !info.ModTime().Before(cutoff) {
				continue
			}

			if err := os.Remove(path); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				result.Failed++
				s.logger.Warn().Err(err).Str("path", path).Msg("Failed to delete expired file")
				continue
			}
			result.Deleted++
			s.logger.Debug().
				Str("path", path).
				Dur("age", now.Sub(info.ModTime())).
				Msg("Deleted expired file")
		}
	}

	s.logger.Info().
		Str("job_name", CleanupJobName).
		Int("scanned", result.Scanned).
		Int("deleted", result.Deleted).
		Int("failed", result.Failed).
		Msg("File cleanup completed")

	return result
}
