package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
)

// StatusHandler reports background worker and LLM backend state
type StatusHandler struct {
	worker     interfaces.CleanupWorker
	summarizer interfaces.Summarizer
	logger     arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(worker interfaces.CleanupWorker, summarizer interfaces.Summarizer, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		worker:     worker,
		summarizer: summarizer,
		logger:     logger,
	}
}

// WorkersStatusHandler handles GET {prefix}/workers/status
func (h *StatusHandler) WorkersStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"file_cleanup_worker": h.worker.Status(),
	})
}

// LLMStatusHandler handles GET {prefix}/llm/status
func (h *StatusHandler) LLMStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"llm_service": h.summarizer.Status(),
	})
}
