package models

import "time"

// FileInfo points at an uploaded file saved to disk
type FileInfo struct {
	Filename   string // Name as uploaded
	StoredName string // Name assigned on disk
	Path       string
}

// TextData maps "Page N" to the page's text
type TextData struct {
	Pages map[string]string `json:"pages"`
}

// TableData maps "Page N" to the tables found on that page
type TableData struct {
	Pages map[string][]TableGrid `json:"pages"`
}

// ImageLink describes a downloadable extracted image
type ImageLink struct {
	URL        string `json:"url"`
	Page       int    `json:"page"`
	Index      int    `json:"index"`
	Filename   string `json:"filename"`
	DocumentID string `json:"document_id"`
}

// ExtractResult is returned by extraction and by retrieval.
// Summary is only ever set on the extraction path.
type ExtractResult struct {
	ID        string      `json:"id"`
	Filename  string      `json:"filename"`
	Text      TextData    `json:"text"`
	Tables    TableData   `json:"tables"`
	Images    []ImageLink `json:"images"`
	Summary   *string     `json:"summary"`
	CreatedAt time.Time   `json:"created_at"`
}

// List view types

type TextContentResponse struct {
	ID         string    `json:"id"`
	PageNumber int       `json:"page_number"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type TableResponse struct {
	ID         string    `json:"id"`
	PageNumber int       `json:"page_number"`
	TableIndex int       `json:"table_index"`
	TableData  string    `json:"table_data"`
	CreatedAt  time.Time `json:"created_at"`
}

type ImageResponse struct {
	ID         string    `json:"id"`
	PageNumber int       `json:"page_number"`
	ImageIndex int       `json:"image_index"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
	URL        string    `json:"url"`
}

type DocumentResponse struct {
	ID               string                `json:"id"`
	Filename         string                `json:"filename"`
	OriginalFilename string                `json:"original_filename"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        *time.Time            `json:"updated_at"`
	TextContents     []TextContentResponse `json:"text_contents"`
	Images           []ImageResponse       `json:"images"`
	Tables           []TableResponse       `json:"tables"`
}

// DocumentList is one page of documents plus the echoed pagination
type DocumentList struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int64              `json:"total"`
	Skip      int                `json:"skip"`
	Limit     int                `json:"limit"`
}
