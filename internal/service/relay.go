package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/pkg/logger"
	"github.com/contentflow-ai/platform/pkg/metrics"
)

// ErrRelayNotConfigured is returned when no webhook URL is configured. The
// relay fails closed rather than silently dropping posts.
var ErrRelayNotConfigured = errors.New("distribution webhook URL is not configured")

// RelayPayload is the JSON body posted to the distribution webhook.
type RelayPayload struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Relay forwards finished posts to the operator-configured scheduling
// webhook.
type Relay struct {
	webhookURL string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewRelay creates a relay. The webhook URL may be empty; Send then fails
// with ErrRelayNotConfigured.
func NewRelay(webhookURL string, log *logger.Logger) *Relay {
	return &Relay{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
	}
}

// Send posts the payload to the webhook. A non-2xx response is surfaced as a
// failure carrying the endpoint's response body for diagnosis.
func (r *Relay) Send(ctx context.Context, text, imageURL string) error {
	if r.webhookURL == "" {
		return ErrRelayNotConfigured
	}

	body, err := json.Marshal(RelayPayload{Text: text, ImageURL: imageURL})
	if err != nil {
		return fmt.Errorf("failed to encode relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		metrics.RelayDeliveriesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to reach distribution webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.RelayDeliveriesTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("distribution webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	metrics.RelayDeliveriesTotal.WithLabelValues("success").Inc()
	r.logger.Info("post relayed to distribution webhook",
		zap.Int("status", resp.StatusCode),
		zap.Bool("has_image", imageURL != ""),
	)
	return nil
}
