package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Document represents one uploaded PDF and owns its extracted artifacts.
// The relational backend stores children in their own tables; the key-value
// backend stores the whole aggregate under the document ID.
type Document struct {
	ID               string    `gorm:"primaryKey;size:64" json:"id"` // doc_{uuid}
	Filename         string    `gorm:"not null" json:"filename"`      // Stored name on disk
	OriginalFilename string    `gorm:"not null" json:"original_filename"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	TextContents []TextContent `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"text_contents"`
	Tables       []Table       `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"tables"`
	Images       []Image       `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"images"`
}

func (Document) TableName() string { return "pdf_documents" }

// TextContent is the plain text of one page
type TextContent struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	DocumentID string    `gorm:"size:64;not null;index" json:"document_id"`
	PageNumber int       `gorm:"not null" json:"page_number"` // 1-based
	Content    string    `gorm:"type:text" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func (TextContent) TableName() string { return "pdf_text_contents" }

// Table is one detected table; TableIndex orders tables on the same page (0-based)
type Table struct {
	ID         string         `gorm:"primaryKey;size:64" json:"id"`
	DocumentID string         `gorm:"size:64;not null;uniqueIndex:idx_pdf_tables_position" json:"document_id"`
	PageNumber int            `gorm:"not null;uniqueIndex:idx_pdf_tables_position" json:"page_number"`
	TableIndex int            `gorm:"not null;uniqueIndex:idx_pdf_tables_position" json:"table_index"`
	TableData  datatypes.JSON `json:"table_data"` // Serialized TableGrid
	CreatedAt  time.Time      `json:"created_at"`
}

func (Table) TableName() string { return "pdf_tables" }

// Grid decodes the stored table content
func (t *Table) Grid() (TableGrid, error) {
	var grid TableGrid
	if len(t.TableData) == 0 {
		return grid, nil
	}
	if err := json.Unmarshal(t.TableData, &grid); err != nil {
		return nil, fmt.Errorf("failed to decode table %s: %w", t.ID, err)
	}
	return grid, nil
}

// Image is the metadata for one extracted image; the bytes live on disk under Filename
type Image struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	DocumentID string    `gorm:"size:64;not null;uniqueIndex:idx_pdf_images_position" json:"document_id"`
	PageNumber int       `gorm:"not null;uniqueIndex:idx_pdf_images_position" json:"page_number"`
	ImageIndex int       `gorm:"not null;uniqueIndex:idx_pdf_images_position" json:"image_index"` // 1-based within the page
	Filename   string    `gorm:"not null;uniqueIndex" json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Image) TableName() string { return "pdf_images" }

// TableGrid is a rectangular or jagged grid of cell values
type TableGrid [][]string

// NewTable serializes a grid into a table row
func NewTable(id, documentID string, page, index int, grid TableGrid) (Table, error) {
	data, err := json.Marshal(grid)
	if err != nil {
		return Table{}, fmt.Errorf("failed to encode table: %w", err)
	}
	return Table{
		ID:         id,
		DocumentID: documentID,
		PageNumber: page,
		TableIndex: index,
		TableData:  datatypes.JSON(data),
	}, nil
}
