package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/flows"
	"github.com/contentflow-ai/platform/internal/service"
	"github.com/contentflow-ai/platform/pkg/logger"
)

// maxUploadBytes caps operator image uploads at 10MB.
const maxUploadBytes = 10 << 20

// ImagesHandler handles image generation and hosting uploads.
type ImagesHandler struct {
	runner    flows.Runner
	imageHost *service.ImageHost
	logger    *logger.Logger
}

// NewImagesHandler creates a new images handler.
func NewImagesHandler(runner flows.Runner, imageHost *service.ImageHost, log *logger.Logger) *ImagesHandler {
	return &ImagesHandler{
		runner:    runner,
		imageHost: imageHost,
		logger:    log,
	}
}

// Generate handles POST /api/v1/images/generate. The response carries the
// generated image as a data URI.
func (h *ImagesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	imageURL, err := h.runner.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, flows.ErrNoImageProvider) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.logger.Error("image generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "An error occurred: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imageUrl": imageURL,
	})
}

// Upload handles POST /api/v1/images/upload. It accepts either a multipart
// file field named "image" or a JSON body carrying a data URI, and returns
// the durable public URL from the hosting service.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.imageHost.Configured() {
		writeError(w, http.StatusServiceUnavailable, service.ErrImageHostNotConfigured.Error())
		return
	}

	var image interface{}

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing image file")
			return
		}
		defer file.Close()
		image = file
	} else {
		var req struct {
			ImageDataURI string `json:"imageDataUri"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ImageDataURI == "" {
			writeError(w, http.StatusBadRequest, "imageDataUri is required")
			return
		}
		image = req.ImageDataURI
	}

	url, err := h.imageHost.Upload(r.Context(), image)
	if err != nil {
		h.logger.Error("image upload failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to upload image: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Image uploaded successfully.",
		"url":     url,
	})
}
