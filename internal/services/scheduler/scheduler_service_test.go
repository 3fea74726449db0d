package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
)

func newTestService(t *testing.T) (*Service, *common.Config) {
	t.Helper()
	dir := t.TempDir()

	config := common.NewDefaultConfig()
	config.Uploads.PDFFolder = filepath.Join(dir, "pdfs")
	config.Uploads.ImageFolder = filepath.Join(dir, "images")
	config.Workers.RetentionMinutes = 10
	config.Workers.CleanupIntervalMinutes = 5

	return NewService(config, arbor.NewLogger()), config
}

func writeAged(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestSweep_DeletesOnlyExpiredFiles(t *testing.T) {
	service, config := newTestService(t)
	now := time.Now()

	oldPDF := filepath.Join(config.Uploads.PDFFolder, "old.pdf")
	freshPDF := filepath.Join(config.Uploads.PDFFolder, "fresh.pdf")
	oldImage := filepath.Join(config.Uploads.ImageFolder, "doc_page_1_image_1.png")
	writeAged(t, oldPDF, now.Add(-11*time.Minute))
	writeAged(t, freshPDF, now.Add(-5*time.Minute))
	writeAged(t, oldImage, now.Add(-30*time.Minute))

	// Subdirectories are never touched
	nested := filepath.Join(config.Uploads.ImageFolder, "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.Chtimes(nested, now.Add(-time.Hour), now.Add(-time.Hour)))

	result := service.Sweep(now)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 2, result.Deleted)
	assert.Zero(t, result.Failed)
	assert.NoFileExists(t, oldPDF)
	assert.NoFileExists(t, oldImage)
	assert.FileExists(t, freshPDF)
	assert.DirExists(t, nested)
}

func TestSweep_MissingFoldersSkipped(t *testing.T) {
	service, _ := newTestService(t)

	result := service.Sweep(time.Now())
	assert.Zero(t, result.Scanned)
	assert.Zero(t, result.Failed)
}

func TestStartStop(t *testing.T) {
	service, _ := newTestService(t)

	status := service.Status()
	assert.False(t, status.Running)
	assert.Nil(t, status.NextRun)
	assert.Zero(t, status.JobCount)
	assert.Equal(t, 10, status.RetentionMinutes)

	require.NoError(t, service.Start())
	t.Cleanup(func() { service.Stop() })
	assert.True(t, service.IsRunning())
	assert.ErrorIs(t, service.Start(), ErrAlreadyRunning)

	status = service.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 1, status.JobCount)
	require.NotNil(t, status.NextRun)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), *status.NextRun, 5*time.Second)

	require.NoError(t, service.Stop())
	assert.False(t, service.IsRunning())
	assert.Nil(t, service.Status().NextRun)
	assert.NoError(t, service.Stop())

	// Restart after stop
	require.NoError(t, service.Start())
	assert.Equal(t, 1, service.Status().JobCount)
}
