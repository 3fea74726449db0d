package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
	"github.com/ternarybob/pdfextractor/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentStorage implements interfaces.DocumentStorage on top of gorm
type DocumentStorage struct {
	db     *DB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *DB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentStorage) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	if err := s.db.Gorm().WithContext(ctx).Omit(clause.Associations).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) SaveArtifacts(ctx context.Context, documentID string, texts []models.TextContent, tables []models.Table, images []models.Image) error {
	err := s.db.Gorm().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Touching the parent row doubles as the existence check
		res := tx.Model(&models.Document{}).
			Where("id = ?", documentID).
			Update("updated_at", time.Now().UTC())
		if res.Error != nil {
			return fmt.Errorf("failed to update document: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return interfaces.ErrDocumentNotFound
		}

		if len(texts) > 0 {
			if err := tx.Create(&texts).Error; err != nil {
				return fmt.Errorf("failed to save text content: %w", err)
			}
		}
		if len(tables) > 0 {
			if err := tx.Create(&tables).Error; err != nil {
				return fmt.Errorf("failed to save tables: %w", err)
			}
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return fmt.Errorf("failed to save images: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("document_id", documentID).
		Int("texts", len(texts)).
		Int("tables", len(tables)).
		Int("images", len(images)).
		Msg("Artifacts saved")
	return nil
}

// withChildren preloads artifacts in page/index order
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("TextContents", func(db *gorm.DB) *gorm.DB {
			return db.Order("page_number ASC")
		}).
		Preload("Tables", func(db *gorm.DB) *gorm.DB {
			return db.Order("page_number ASC, table_index ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("page_number ASC, image_index ASC")
		})
}

func (s *DocumentStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := withChildren(s.db.Gorm().WithContext(ctx)).
		Where("id = ?", id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, interfaces.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStorage) ListDocuments(ctx context.Context, skip, limit int) ([]*models.Document, error) {
	query := withChildren(s.db.Gorm().WithContext(ctx)).
		Order("created_at ASC, id ASC")

	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var docs []*models.Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentStorage) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Gorm().WithContext(ctx).Model(&models.Document{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

func (s *DocumentStorage) DeleteDocument(ctx context.Context, id string) error {
	return s.db.Gorm().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children first so this works with or without FK cascades
		for _, child := range []interface{}{&models.TextContent{}, &models.Table{}, &models.Image{}} {
			if err := tx.Where("document_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete document children: %w", err)
			}
		}
		if err := tx.Where("id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		return nil
	})
}
