// -----------------------------------------------------------------------
// PDF Extractor - page text via ledongthuc/pdf, tables via tabula,
// embedded images via pdfcpu
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
)

// Extractor implements the PDFExtractor interface
type Extractor struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{
		logger: logger,
	}
}

// ExtractPages reads every page's plain text and attaches the tables found by
// the layout engine. The page count comes from pdfcpu so that pages the text
// engine cannot resolve still appear with empty text.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]interfaces.PDFPageContent, error) {
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF page count: %w", err)
	}

	f, reader, err := ltpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	if n := reader.NumPage(); n != pageCount {
		e.logger.Warn().
			Str("path", path).
			Int("pdfcpu_pages", pageCount).
			Int("text_pages", n).
			Msg("Page count mismatch between PDF engines")
	}

	pages := make([]interfaces.PDFPageContent, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content := interfaces.PDFPageContent{PageNumber: i}

		page := reader.Page(i)
		if !page.V.IsNull() {
			text, err := readPage(page)
			if err != nil {
				return nil, fmt.Errorf("failed to extract page %d: %w", i, err)
			}
			content.Text = text
		}

		pages = append(pages, content)
	}

	tables, err := e.extractTables(ctx, path)
	if err != nil {
		return nil, err
	}
	tableCount := 0
	for i := range pages {
		pages[i].Tables = tables[pages[i].PageNumber]
		tableCount += len(pages[i].Tables)
	}

	e.logger.Debug().
		Str("path", path).
		Int("pages", len(pages)).
		Int("tables", tableCount).
		Msg("Extracted PDF pages")

	return pages, nil
}

// readPage guards the text engine, which panics on some malformed content streams
func readPage(page ltpdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ExtractImages returns every embedded image re-encoded in its own format.
// Images are numbered from 1 per page in object order, so repeated runs over
// the same file produce the same indices.
func (e *Extractor) ExtractImages(ctx context.Context, path string) ([]interfaces.ExtractedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	type rawImage struct {
		page  int
		objNr int
		kind  string
		data  []byte
	}

	var raw []rawImage
	seen := make(map[[2]int]bool)

	conf := model.NewDefaultConfiguration()
	err = api.ExtractImages(f, nil, func(img model.Image, _ bool, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if img.Thumb {
			return nil
		}
		key := [2]int{img.PageNr, img.ObjNr}
		if seen[key] {
			return nil
		}
		seen[key] = true

		data, err := io.ReadAll(img)
		if err != nil {
			return fmt.Errorf("failed to read image %s on page %d: %w", img.Name, img.PageNr, err)
		}
		raw = append(raw, rawImage{page: img.PageNr, objNr: img.ObjNr, kind: img.FileType, data: data})
		return nil
	}, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].page != raw[j].page {
			return raw[i].page < raw[j].page
		}
		return raw[i].objNr < raw[j].objNr
	})

	images := make([]interfaces.ExtractedImage, 0, len(raw))
	perPage := make(map[int]int)
	for _, r := range raw {
		ext, data, err := reencodeImage(r.data, r.kind)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", r.page, err)
		}
		perPage[r.page]++
		images = append(images, interfaces.ExtractedImage{
			PageNumber: r.page,
			Index:      perPage[r.page],
			Ext:        ext,
			Data:       data,
		})
	}

	e.logger.Debug().
		Str("path", path).
		Int("images", len(images)).
		Msg("Extracted PDF images")

	return images, nil
}
