package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/store"
	"github.com/contentflow-ai/platform/pkg/logger"
)

// maxAnalyticsBytes caps inbound analytics payloads at 1MB.
const maxAnalyticsBytes = 1 << 20

// AnalyticsHandler handles the inbound analytics webhook and bulk reads.
type AnalyticsHandler struct {
	store  store.Store
	logger *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(s store.Store, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		store:  s,
		logger: log,
	}
}

// Receive handles POST /api/analytics. Any JSON body is accepted and appended
// as-is; there is no schema enforcement or deduplication.
func (h *AnalyticsHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAnalyticsBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "body must be valid JSON")
		return
	}

	if _, err := h.store.Append(r.Context(), body); err != nil {
		h.logger.Error("failed to store analytics payload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store analytics data")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Analytics data received successfully.",
	})
}

// List handles GET /api/analytics, returning every stored payload in
// insertion order. Nothing stored yet yields an empty array, not an error.
func (h *AnalyticsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.All(r.Context())
	if err != nil {
		// Reads degrade to an empty collection rather than failing the
		// dashboard.
		h.logger.Error("failed to read analytics store", zap.Error(err))
		writeJSON(w, http.StatusOK, []json.RawMessage{})
		return
	}

	payloads := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, rec.Payload)
	}
	writeJSON(w, http.StatusOK, payloads)
}
