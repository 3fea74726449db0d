package common

import (
	"fmt"

	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewArtifactID generates an ID for text, table and image rows
func NewArtifactID() string {
	return uuid.New().String()
}

// NewStoredPDFName returns a collision-resistant name for an uploaded PDF
func NewStoredPDFName() string {
	return uuid.New().String() + ".pdf"
}

// ImageFilename names an extracted image so that it cannot collide across
// documents, pages or positions on a page.
func ImageFilename(documentID string, page, index int, ext string) string {
	return fmt.Sprintf("%s_page_%d_image_%d.%s", documentID, page, index, ext)
}

// PageLabel is the human-readable key used for per-page maps
func PageLabel(page int) string {
	return fmt.Sprintf("Page %d", page)
}
