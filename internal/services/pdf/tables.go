package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/pdfextractor/internal/models"
	"github.com/tsawler/tabula"
	tabmodel "github.com/tsawler/tabula/model"
)

const (
	minTableRows    = 2
	minTableColumns = 2
)

// extractTables runs tabula's layout analysis over the file and returns the
// detected tables keyed by 1-based page number. Pages without tables are absent.
func (e *Extractor) extractTables(ctx context.Context, path string) (map[int][]models.TableGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, _, err := tabula.Open(path).Document()
	if err != nil {
		return nil, fmt.Errorf("failed to analyze PDF layout: %w", err)
	}

	tables := make(map[int][]models.TableGrid)
	for i, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageNumber := page.Number
		if pageNumber == 0 {
			pageNumber = i + 1
		}

		for _, table := range page.ExtractTables() {
			if grid := normalizeGrid(tableCells(table)); grid != nil {
				tables[pageNumber] = append(tables[pageNumber], grid)
			}
		}
	}

	return tables, nil
}

// tableCells flattens a tabula table to its cell text, row by row
func tableCells(table *tabmodel.Table) [][]string {
	if table == nil {
		return nil
	}
	cells := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		values := make([]string, 0, len(row))
		for _, cell := range row {
			values = append(values, cell.Text)
		}
		cells = append(cells, values)
	}
	return cells
}

// normalizeGrid trims cells, drops blank rows and pads rows to a common width.
// Grids smaller than two rows by two columns are discarded.
func normalizeGrid(cells [][]string) models.TableGrid {
	var (
		grid  models.TableGrid
		width int
	)

	for _, row := range cells {
		values := make([]string, len(row))
		blank := true
		for i, cell := range row {
			values[i] = strings.Join(strings.Fields(cell), " ")
			if values[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		grid = append(grid, values)
		if len(values) > width {
			width = len(values)
		}
	}

	if len(grid) < minTableRows || width < minTableColumns {
		return nil
	}

	for i, row := range grid {
		for len(row) < width {
			row = append(row, "")
		}
		grid[i] = row
	}
	return grid
}
