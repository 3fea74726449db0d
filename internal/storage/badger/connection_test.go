package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/models"
)

func TestNewBadgerDB_RequiresPath(t *testing.T) {
	_, err := NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{Path: "  "})
	assert.Error(t, err)
}

func TestNewBadgerDB_ResetOnStartup(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "documents")

	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: path})
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())

	storage := NewDocumentStorage(db, logger)
	require.NoError(t, storage.CreateDocument(context.Background(), &models.Document{ID: "doc_keep", Filename: "k.pdf"}))
	require.NoError(t, db.Close())

	reopened, err := NewBadgerDB(logger, &common.BadgerConfig{Path: path})
	require.NoError(t, err)
	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "documents survive a plain reopen")
	require.NoError(t, reopened.Close())

	reset, err := NewBadgerDB(logger, &common.BadgerConfig{Path: path, ResetOnStartup: true})
	require.NoError(t, err)
	t.Cleanup(func() { reset.Close() })
	count, err = reset.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}
