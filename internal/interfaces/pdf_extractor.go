// -----------------------------------------------------------------------
// PDF Extractor Interface - Extract text, tables and images from PDF files
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/pdfextractor/internal/models"
)

// PDFPageContent represents extracted content from a single PDF page
type PDFPageContent struct {
	PageNumber int                `json:"page_number"`
	Text       string             `json:"text"`
	Tables     []models.TableGrid `json:"tables,omitempty"`
}

// ExtractedImage is an embedded image that has been decoded and re-encoded
type ExtractedImage struct {
	PageNumber int    // 1-based page
	Index      int    // 1-based position among images on the page
	Ext        string // png, jpeg or tiff
	Data       []byte
}

// PDFExtractor reads content out of a PDF file on disk.
// Implementations must report every page, including pages without text.
type PDFExtractor interface {
	// ExtractPages returns text and detected tables for every page, in page order.
	ExtractPages(ctx context.Context, path string) ([]PDFPageContent, error)

	// ExtractImages returns every embedded image, ordered by page then index.
	// A single image that cannot be decoded fails the whole call.
	ExtractImages(ctx context.Context, path string) ([]ExtractedImage, error)
}
