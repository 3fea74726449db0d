package interfaces

import (
	"context"

	"github.com/ternarybob/pdfextractor/internal/models"
)

// Summarizer produces a bounded-length summary of document text.
// Failures never surface: the second return value is false when no summary is available.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, bool)

	// IsAvailable reports whether a backend could be constructed. It does not call the backend.
	IsAvailable() bool

	Status() models.LLMStatus
}
