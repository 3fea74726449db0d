package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/models"
)

func newTestStorage(t *testing.T) *DocumentStorage {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewDocumentStorage(db, logger).(*DocumentStorage)
}

func TestCreateDocument_DuplicateRejected(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	doc := &models.Document{ID: "doc_dup", Filename: "a.pdf", OriginalFilename: "a.pdf"}
	require.NoError(t, storage.CreateDocument(ctx, doc))
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)

	err := storage.CreateDocument(ctx, &models.Document{ID: "doc_dup"})
	assert.Error(t, err)
}

func TestCreateDocument_RequiresID(t *testing.T) {
	storage := newTestStorage(t)
	assert.Error(t, storage.CreateDocument(context.Background(), &models.Document{}))
}

func TestSaveArtifacts_StampsChildren(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, storage.CreateDocument(ctx, &models.Document{ID: "doc_stamp", CreatedAt: created}))

	texts := []models.TextContent{{ID: "t1", DocumentID: "doc_stamp", PageNumber: 1, Content: "hello"}}
	images := []models.Image{{ID: "i1", DocumentID: "doc_stamp", PageNumber: 1, ImageIndex: 1, Filename: "doc_stamp_page_1_image_1.png"}}
	require.NoError(t, storage.SaveArtifacts(ctx, "doc_stamp", texts, nil, images))

	doc, err := storage.GetDocument(ctx, "doc_stamp")
	require.NoError(t, err)

	assert.True(t, doc.CreatedAt.Equal(created))
	assert.True(t, doc.UpdatedAt.After(created))
	require.Len(t, doc.TextContents, 1)
	assert.False(t, doc.TextContents[0].CreatedAt.IsZero())
	require.Len(t, doc.Images, 1)
	assert.False(t, doc.Images[0].CreatedAt.IsZero())
	assert.Empty(t, doc.Tables)
}

func TestCancelledContext(t *testing.T) {
	storage := newTestStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.GetDocument(ctx, "doc_any")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = storage.ListDocuments(ctx, 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
