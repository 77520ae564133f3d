package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/service"
	"github.com/contentflow-ai/platform/pkg/logger"
)

// RelayHandler forwards finished posts to the distribution webhook.
type RelayHandler struct {
	relay  *service.Relay
	logger *logger.Logger
}

// NewRelayHandler creates a new relay handler.
func NewRelayHandler(relay *service.Relay, log *logger.Logger) *RelayHandler {
	return &RelayHandler{
		relay:  relay,
		logger: log,
	}
}

// Send handles POST /api/v1/relay.
func (h *RelayHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Invalid post data.")
		return
	}

	if err := h.relay.Send(r.Context(), req.Text, req.ImageURL); err != nil {
		if errors.Is(err, service.ErrRelayNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.logger.Error("relay delivery failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to send post: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Post sent successfully!",
	})
}
