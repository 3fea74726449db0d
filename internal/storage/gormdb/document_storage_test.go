package gormdb

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

func newSQLiteDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(arbor.NewLogger(), &common.StorageConfig{
		Type:   common.StorageTypeSQLite,
		SQLite: common.SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "test.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_MigratesSchema(t *testing.T) {
	db := newSQLiteDB(t)

	migrator := db.Gorm().Migrator()
	for _, model := range []interface{}{&models.Document{}, &models.TextContent{}, &models.Table{}, &models.Image{}} {
		assert.True(t, migrator.HasTable(model))
	}
}

func TestNewDB_UnsupportedType(t *testing.T) {
	_, err := NewDB(arbor.NewLogger(), &common.StorageConfig{Type: common.StorageTypeBadger})
	assert.Error(t, err)
}

func TestSaveArtifacts_RollsBackOnConflict(t *testing.T) {
	db := newSQLiteDB(t)
	storage := NewDocumentStorage(db, arbor.NewLogger())
	ctx := context.Background()

	doc := &models.Document{ID: "doc_tx", Filename: "x.pdf", OriginalFilename: "x.pdf"}
	require.NoError(t, storage.CreateDocument(ctx, doc))

	texts := []models.TextContent{{ID: "t1", DocumentID: doc.ID, PageNumber: 1, Content: "kept?"}}
	// Two images at the same page/index violate the position index
	images := []models.Image{
		{ID: "i1", DocumentID: doc.ID, PageNumber: 1, ImageIndex: 1, Filename: "a.png"},
		{ID: "i2", DocumentID: doc.ID, PageNumber: 1, ImageIndex: 1, Filename: "b.png"},
	}

	err := storage.SaveArtifacts(ctx, doc.ID, texts, nil, images)
	require.Error(t, err)

	loaded, err := storage.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.TextContents, "text rows must roll back with the failed image insert")
	assert.Empty(t, loaded.Images)
}

func TestDeleteDocument_RemovesChildren(t *testing.T) {
	db := newSQLiteDB(t)
	storage := NewDocumentStorage(db, arbor.NewLogger())
	ctx := context.Background()

	doc := &models.Document{ID: "doc_del", Filename: "x.pdf", OriginalFilename: "x.pdf"}
	require.NoError(t, storage.CreateDocument(ctx, doc))

	table, err := models.NewTable("tb1", doc.ID, 1, 0, models.TableGrid{{"h"}})
	require.NoError(t, err)
	require.NoError(t, storage.SaveArtifacts(ctx, doc.ID,
		[]models.TextContent{{ID: "t1", DocumentID: doc.ID, PageNumber: 1}},
		[]models.Table{table},
		[]models.Image{{ID: "i1", DocumentID: doc.ID, PageNumber: 1, ImageIndex: 1, Filename: "c.png"}}))

	require.NoError(t, storage.DeleteDocument(ctx, doc.ID))

	var remaining int64
	require.NoError(t, db.Gorm().Model(&models.TextContent{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, db.Gorm().Model(&models.Table{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, db.Gorm().Model(&models.Image{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
