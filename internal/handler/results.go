package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/contentflow-ai/platform/internal/service"
)

// ResultsHandler serves stored generation results.
type ResultsHandler struct {
	results *service.ResultCache
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(results *service.ResultCache) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// Download handles GET /api/v1/results/{id}/download. The body is the JSON
// encoding frozen when the result was generated, byte for byte.
func (h *ResultsHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid result ID format")
		return
	}

	raw, ok := h.results.Raw(id)
	if !ok {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "contentflow-"+id+".json"))
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
