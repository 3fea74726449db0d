package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/pdfextractor/internal/models"
)

// ErrUnsupportedFile is returned for uploads that are not PDFs
var ErrUnsupportedFile = errors.New("only PDF files are supported")

// PDFService runs extraction and rebuilds results from storage
type PDFService interface {
	Process(ctx context.Context, file models.FileInfo, includeSummary bool) (*models.ExtractResult, error)
	GetByID(ctx context.Context, id string) (*models.ExtractResult, error)
	List(ctx context.Context, skip, limit int) (*models.DocumentList, error)
}
