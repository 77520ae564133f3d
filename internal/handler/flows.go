package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/flows"
	"github.com/contentflow-ai/platform/internal/model"
	"github.com/contentflow-ai/platform/pkg/logger"
)

// FlowsHandler exposes the per-post helper flows: hashtag suggestion and
// image-idea regeneration.
type FlowsHandler struct {
	runner flows.Runner
	logger *logger.Logger
}

// NewFlowsHandler creates a new flows handler.
func NewFlowsHandler(runner flows.Runner, log *logger.Logger) *FlowsHandler {
	return &FlowsHandler{
		runner: runner,
		logger: log,
	}
}

// SuggestHashtags handles POST /api/v1/hashtags.
func (h *FlowsHandler) SuggestHashtags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostText string `json:"postText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.PostText) == "" {
		writeError(w, http.StatusBadRequest, "postText is required")
		return
	}

	hashtags, err := h.runner.SuggestHashtags(r.Context(), req.PostText)
	if err != nil {
		h.logger.Error("hashtag suggestion failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "An error occurred: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hashtags": hashtags,
	})
}

// GenerateImageIdea handles POST /api/v1/image-ideas.
func (h *FlowsHandler) GenerateImageIdea(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizationName string `json:"organizationName"`
		Platform         string `json:"platform"`
		PostText         string `json:"postText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.PostText) == "" {
		writeError(w, http.StatusBadRequest, "postText is required")
		return
	}
	platform, ok := model.ParsePlatform(req.Platform)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown platform")
		return
	}

	idea, err := h.runner.GenerateImageIdea(r.Context(), &flows.ImageIdeaInput{
		Organization: req.OrganizationName,
		Platform:     platform,
		PostText:     req.PostText,
	})
	if err != nil {
		h.logger.Error("image idea generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "An error occurred: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imageIdea": idea,
	})
}
