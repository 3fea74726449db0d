package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
	"github.com/ternarybob/pdfextractor/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// DocumentStorage implements the DocumentStorage interface for Badger.
// Each document is stored as one record holding all of its artifacts.
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentStorage) CreateDocument(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = doc.CreatedAt

	if err := s.db.Store().Insert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) SaveArtifacts(ctx context.Context, documentID string, texts []models.TextContent, tables []models.Table, images []models.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store := s.db.Store()
	now := time.Now().UTC()

	// Read-modify-write in one badger transaction so artifacts land all at once
	err := store.Badger().Update(func(txn *badger.Txn) error {
		var doc models.Document
		if err := store.TxGet(txn, documentID, &doc); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return interfaces.ErrDocumentNotFound
			}
			return fmt.Errorf("failed to load document: %w", err)
		}

		for i := range texts {
			if texts[i].CreatedAt.IsZero() {
				texts[i].CreatedAt = now
			}
		}
		for i := range tables {
			if tables[i].CreatedAt.IsZero() {
				tables[i].CreatedAt = now
			}
		}
		for i := range images {
			if images[i].CreatedAt.IsZero() {
				images[i].CreatedAt = now
			}
		}

		doc.TextContents = append(doc.TextContents, texts...)
		doc.Tables = append(doc.Tables, tables...)
		doc.Images = append(doc.Images, images...)
		doc.UpdatedAt = now

		return store.TxUpsert(txn, documentID, &doc)
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrDocumentNotFound) {
			return err
		}
		return fmt.Errorf("failed to save artifacts: %w", err)
	}

	s.logger.Debug().
		Str("document_id", documentID).
		Int("texts", len(texts)).
		Int("tables", len(tables)).
		Int("images", len(images)).
		Msg("Artifacts saved")
	return nil
}

func (s *DocumentStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc models.Document
	if err := s.db.Store().Get(id, &doc); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStorage) ListDocuments(ctx context.Context, skip, limit int) ([]*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt", "ID")
	if skip > 0 {
		query = query.Skip(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var docs []models.Document
	if err := s.db.Store().Find(&docs, query); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := make([]*models.Document, len(docs))
	for i := range docs {
		result[i] = &docs[i]
	}
	return result, nil
}

func (s *DocumentStorage) CountDocuments(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count, err := s.db.Store().Count(&models.Document{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int64(count), nil
}

func (s *DocumentStorage) DeleteDocument(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.Store().Delete(id, &models.Document{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
