package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
	"github.com/ternarybob/pdfextractor/internal/models"
	"github.com/ternarybob/pdfextractor/internal/services/pdf"
)

const (
	unsupportedFileMessage = "Only PDF files are supported."
	multipartMemory        = 32 << 20
)

// PDFHandler serves extraction, retrieval and image download
type PDFHandler struct {
	service interfaces.PDFService
	config  *common.Config
	logger  arbor.ILogger
}

// NewPDFHandler creates a new PDFHandler
func NewPDFHandler(service interfaces.PDFService, config *common.Config, logger arbor.ILogger) *PDFHandler {
	return &PDFHandler{
		service: service,
		config:  config,
		logger:  logger,
	}
}

// ExtractHandler handles POST {prefix}/extract
// Multipart field "file"; query include_summary defaults to true.
func (h *PDFHandler) ExtractHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	includeSummary, err := GetBoolParam(r, "include_summary", true)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	maxBytes := int64(h.config.Uploads.MaxUploadMB) << 20
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("File too large, limit is %d MB", h.config.Uploads.MaxUploadMB))
			return
		}
		WriteError(w, http.StatusUnprocessableEntity, "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Field 'file' is required")
		return
	}
	defer file.Close()

	if !pdf.IsPDFFilename(header.Filename) {
		WriteError(w, http.StatusBadRequest, unsupportedFileMessage)
		return
	}

	info, err := h.saveUpload(file, header.Filename)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Failed to save upload")
		WriteError(w, http.StatusBadRequest, "Error processing PDF: "+err.Error())
		return
	}

	result, err := h.service.Process(r.Context(), info, includeSummary)
	if err != nil {
		if removeErr := os.Remove(info.Path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			h.logger.Warn().Err(removeErr).Str("path", info.Path).Msg("Failed to remove upload after error")
		}
		if errors.Is(err, interfaces.ErrUnsupportedFile) {
			WriteError(w, http.StatusBadRequest, unsupportedFileMessage)
			return
		}
		WriteError(w, http.StatusBadRequest, "Error processing PDF: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// saveUpload copies the upload into the PDF folder under a fresh name
func (h *PDFHandler) saveUpload(src io.Reader, original string) (models.FileInfo, error) {
	stored := common.NewStoredPDFName()
	path := filepath.Join(h.config.Uploads.PDFFolder, stored)

	dst, err := os.Create(path)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return models.FileInfo{}, fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return models.FileInfo{}, fmt.Errorf("failed to write upload file: %w", err)
	}

	h.logger.Debug().
		Str("original", original).
		Str("stored", stored).
		Msg("Upload saved")

	return models.FileInfo{Filename: original, StoredName: stored, Path: path}, nil
}

// GetDocumentHandler handles GET {prefix}/documents/{id}
func (h *PDFHandler) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, h.prefix()+"/documents/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Not Found")
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrDocumentNotFound) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Document with ID %s not found", id))
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to get document")
		WriteError(w, http.StatusInternalServerError, "Failed to get document")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// ListDocumentsHandler handles GET {prefix}/documents?skip=&limit=
func (h *PDFHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	params, err := GetPaginationParams(r)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	list, err := h.service.List(r.Context(), params.Skip, params.Limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list documents")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

// ImageHandler handles GET {prefix}/images/{filename}
// Only plain file names inside the image folder are served.
func (h *PDFHandler) ImageHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, h.prefix()+"/images/")
	notFound := func() {
		WriteError(w, http.StatusNotFound, "Image not found: "+filename)
	}

	if !isPlainFilename(filename) {
		notFound()
		return
	}

	path := filepath.Join(h.config.Uploads.ImageFolder, filename)
	f, err := os.Open(path)
	if err != nil {
		notFound()
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil || !stat.Mode().IsRegular() {
		notFound()
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	w.Header().Set("Content-Type", pdf.ContentTypeForExt(strings.ToLower(ext)))
	http.ServeContent(w, r, filename, stat.ModTime(), f)
}

func (h *PDFHandler) prefix() string {
	return strings.TrimRight(h.config.Server.APIPrefix, "/")
}

func isPlainFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
