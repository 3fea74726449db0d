package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/pdfextractor/internal/models"
)

// ErrDocumentNotFound is returned when no document exists for an ID
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStorage persists documents and their extracted artifacts
type DocumentStorage interface {
	// CreateDocument inserts a new document row without children
	CreateDocument(ctx context.Context, doc *models.Document) error

	// SaveArtifacts writes all text, table and image rows for a document in one transaction
	SaveArtifacts(ctx context.Context, documentID string, texts []models.TextContent, tables []models.Table, images []models.Image) error

	// GetDocument loads a document with its children ordered by page and index
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// ListDocuments returns documents in creation order with their children
	ListDocuments(ctx context.Context, skip, limit int) ([]*models.Document, error)

	CountDocuments(ctx context.Context) (int64, error)

	// DeleteDocument removes a document and its children; missing IDs are not an error
	DeleteDocument(ctx context.Context, id string) error
}

// StorageManager owns the database connection for the selected backend
type StorageManager interface {
	DocumentStorage() DocumentStorage
	Close() error
}
