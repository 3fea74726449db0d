// -----------------------------------------------------------------------
// PDF Service - runs extraction for an upload, persists the artifacts and
// rebuilds results from storage
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
	"github.com/ternarybob/pdfextractor/internal/models"
)

// Service implements interfaces.PDFService
type Service struct {
	storage    interfaces.DocumentStorage
	extractor  interfaces.PDFExtractor
	summarizer interfaces.Summarizer
	config     *common.Config
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PDFService = (*Service)(nil)

// NewService creates a new PDF service
func NewService(
	storage interfaces.DocumentStorage,
	extractor interfaces.PDFExtractor,
	summarizer interfaces.Summarizer,
	config *common.Config,
	logger arbor.ILogger,
) *Service {
	return &Service{
		storage:    storage,
		extractor:  extractor,
		summarizer: summarizer,
		config:     config,
		logger:     logger,
	}
}

// IsPDFFilename reports whether an upload name carries the .pdf extension
func IsPDFFilename(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// Process extracts text, tables and images from an uploaded PDF and stores
// them against a new document. On failure nothing from this upload is left
// behind: written images are removed and the document row is deleted.
func (s *Service) Process(ctx context.Context, file models.FileInfo, includeSummary bool) (*models.ExtractResult, error) {
	if !IsPDFFilename(file.Filename) {
		return nil, interfaces.ErrUnsupportedFile
	}

	started := time.Now()
	doc := &models.Document{
		ID:               common.NewDocumentID(),
		Filename:         file.StoredName,
		OriginalFilename: file.Filename,
	}
	if err := s.storage.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	var written []string
	result, err := s.extract(ctx, doc, file, &written)
	if err != nil {
		s.rollback(doc.ID, written, err)
		return nil, err
	}

	s.logger.Info().
		Str("document_id", doc.ID).
		Str("filename", file.Filename).
		Int("pages", len(result.Text.Pages)).
		Int("tables", countTables(result.Tables)).
		Int("images", len(result.Images)).
		Dur("duration", time.Since(started)).
		Msg("PDF processed")

	if includeSummary {
		if summary, ok := s.summarize(ctx, doc.ID, result.Text); ok {
			result.Summary = &summary
		}
	}

	return result, nil
}

func (s *Service) extract(ctx context.Context, doc *models.Document, file models.FileInfo, written *[]string) (*models.ExtractResult, error) {
	pages, err := s.extractor.ExtractPages(ctx, file.Path)
	if err != nil {
		return nil, err
	}

	extracted, err := s.extractor.ExtractImages(ctx, file.Path)
	if err != nil {
		return nil, err
	}

	texts := make([]models.TextContent, 0, len(pages))
	var tables []models.Table
	for _, page := range pages {
		texts = append(texts, models.TextContent{
			ID:         common.NewArtifactID(),
			DocumentID: doc.ID,
			PageNumber: page.PageNumber,
			Content:    page.Text,
		})
		for idx, grid := range page.Tables {
			table, err := models.NewTable(common.NewArtifactID(), doc.ID, page.PageNumber, idx, grid)
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
		}
	}

	images := make([]models.Image, 0, len(extracted))
	for _, img := range extracted {
		name := common.ImageFilename(doc.ID, img.PageNumber, img.Index, img.Ext)
		path := filepath.Join(s.config.Uploads.ImageFolder, name)
		if err := os.WriteFile(path, img.Data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write image %s: %w", name, err)
		}
		*written = append(*written, path)

		images = append(images, models.Image{
			ID:         common.NewArtifactID(),
			DocumentID: doc.ID,
			PageNumber: img.PageNumber,
			ImageIndex: img.Index,
			Filename:   name,
		})
	}

	if err := s.storage.SaveArtifacts(ctx, doc.ID, texts, tables, images); err != nil {
		return nil, fmt.Errorf("failed to save artifacts: %w", err)
	}

	doc.TextContents = texts
	doc.Tables = tables
	doc.Images = images
	return s.toResult(doc)
}

// rollback removes everything an aborted upload wrote. It runs on a fresh
// context because the request context may already be cancelled.
func (s *Service) rollback(documentID string, written []string, cause error) {
	for _, path := range written {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove image after aborted upload")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.storage.DeleteDocument(ctx, documentID); err != nil {
		s.logger.Warn().Err(err).Str("document_id", documentID).Msg("Failed to delete document after aborted upload")
	}

	s.logger.Error().
		Err(cause).
		Str("document_id", documentID).
		Int("images_removed", len(written)).
		Msg("PDF processing failed")
}

func (s *Service) summarize(ctx context.Context, documentID string, text models.TextData) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout())
	defer cancel()

	summary, ok := s.summarizer.Summarize(ctx, SummaryInput(text))
	if !ok {
		s.logger.Debug().Str("document_id", documentID).Msg("No summary produced")
	}
	return summary, ok
}

// SummaryInput joins pages in page order as "Page N:\n<text>" blocks
func SummaryInput(text models.TextData) string {
	numbers := make([]int, 0, len(text.Pages))
	byNumber := make(map[int]string, len(text.Pages))
	for label, content := range text.Pages {
		var n int
		if _, err := fmt.Sscanf(label, "Page %d", &n); err != nil {
			continue
		}
		numbers = append(numbers, n)
		byNumber[n] = content
	}
	sort.Ints(numbers)

	blocks := make([]string, 0, len(numbers))
	for _, n := range numbers {
		blocks = append(blocks, fmt.Sprintf("%s:\n%s", common.PageLabel(n), byNumber[n]))
	}
	return strings.Join(blocks, "\n\n")
}

// GetByID rebuilds an extraction result from storage. Summary is always nil.
func (s *Service) GetByID(ctx context.Context, id string) (*models.ExtractResult, error) {
	doc, err := s.storage.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResult(doc)
}

// List returns one page of documents with their artifacts
func (s *Service) List(ctx context.Context, skip, limit int) (*models.DocumentList, error) {
	total, err := s.storage.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := s.storage.ListDocuments(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	list := &models.DocumentList{
		Documents: make([]models.DocumentResponse, 0, len(docs)),
		Total:     total,
		Skip:      skip,
		Limit:     limit,
	}
	for _, doc := range docs {
		list.Documents = append(list.Documents, s.toDocumentResponse(doc))
	}
	return list, nil
}

func (s *Service) toResult(doc *models.Document) (*models.ExtractResult, error) {
	result := &models.ExtractResult{
		ID:        doc.ID,
		Filename:  doc.OriginalFilename,
		Text:      models.TextData{Pages: make(map[string]string, len(doc.TextContents))},
		Tables:    models.TableData{Pages: make(map[string][]models.TableGrid)},
		Images:    make([]models.ImageLink, 0, len(doc.Images)),
		CreatedAt: doc.CreatedAt,
	}

	for _, t := range doc.TextContents {
		result.Text.Pages[common.PageLabel(t.PageNumber)] = t.Content
	}

	tables := append([]models.Table(nil), doc.Tables...)
	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].PageNumber != tables[j].PageNumber {
			return tables[i].PageNumber < tables[j].PageNumber
		}
		return tables[i].TableIndex < tables[j].TableIndex
	})
	for i := range tables {
		grid, err := tables[i].Grid()
		if err != nil {
			return nil, err
		}
		label := common.PageLabel(tables[i].PageNumber)
		result.Tables.Pages[label] = append(result.Tables.Pages[label], grid)
	}

	for _, img := range doc.Images {
		result.Images = append(result.Images, models.ImageLink{
			URL:        s.config.ImageURL(img.Filename),
			Page:       img.PageNumber,
			Index:      img.ImageIndex,
			Filename:   img.Filename,
			DocumentID: doc.ID,
		})
	}

	return result, nil
}

func (s *Service) toDocumentResponse(doc *models.Document) models.DocumentResponse {
	resp := models.DocumentResponse{
		ID:               doc.ID,
		Filename:         doc.Filename,
		OriginalFilename: doc.OriginalFilename,
		CreatedAt:        doc.CreatedAt,
		TextContents:     make([]models.TextContentResponse, 0, len(doc.TextContents)),
		Images:           make([]models.ImageResponse, 0, len(doc.Images)),
		Tables:           make([]models.TableResponse, 0, len(doc.Tables)),
	}
	if !doc.UpdatedAt.IsZero() {
		updated := doc.UpdatedAt
		resp.UpdatedAt = &updated
	}

	for _, t := range doc.TextContents {
		resp.TextContents = append(resp.TextContents, models.TextContentResponse{
			ID:         t.ID,
			PageNumber: t.PageNumber,
			Content:    t.Content,
			CreatedAt:  t.CreatedAt,
		})
	}
	for _, img := range doc.Images {
		resp.Images = append(resp.Images, models.ImageResponse{
			ID:         img.ID,
			PageNumber: img.PageNumber,
			ImageIndex: img.ImageIndex,
			Filename:   img.Filename,
			CreatedAt:  img.CreatedAt,
			URL:        s.config.ImageURL(img.Filename),
		})
	}
	for _, t := range doc.Tables {
		resp.Tables = append(resp.Tables, models.TableResponse{
			ID:         t.ID,
			PageNumber: t.PageNumber,
			TableIndex: t.TableIndex,
			TableData:  string(t.TableData),
			CreatedAt:  t.CreatedAt,
		})
	}
	return resp
}

func countTables(data models.TableData) int {
	n := 0
	for _, grids := range data.Pages {
		n += len(grids)
	}
	return n
}
