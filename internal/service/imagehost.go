package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/contentflow-ai/platform/pkg/logger"
	"github.com/contentflow-ai/platform/pkg/metrics"
)

// ErrImageHostNotConfigured is returned when the hosting credentials are
// missing. Absence of configuration is a hard error surfaced to the operator,
// not a silent skip.
var ErrImageHostNotConfigured = errors.New("image hosting credentials are not configured")

// ImageHostConfig holds Cloudinary credentials.
type ImageHostConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// ImageHost uploads image payloads to Cloudinary and returns durable public
// URLs.
type ImageHost struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *logger.Logger
}

// NewImageHost creates an image host. When credentials are incomplete it
// returns a host whose Upload fails with ErrImageHostNotConfigured.
func NewImageHost(cfg ImageHostConfig, log *logger.Logger) (*ImageHost, error) {
	h := &ImageHost{folder: cfg.Folder, logger: log}

	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return h, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	h.cld = cld
	return h, nil
}

// Configured reports whether hosting credentials are present.
func (h *ImageHost) Configured() bool {
	return h.cld != nil
}

// Upload sends an image (a data URI, a URL, or raw content accepted by the
// hosting API) and returns its public URL.
func (h *ImageHost) Upload(ctx context.Context, image interface{}) (string, error) {
	if h.cld == nil {
		return "", ErrImageHostNotConfigured
	}

	resp, err := h.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder: h.folder,
	})
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if resp.Error.Message != "" {
		metrics.ImageUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to upload image: %s", resp.Error.Message)
	}

	metrics.ImageUploadsTotal.WithLabelValues("success").Inc()
	return resp.SecureURL, nil
}
