package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow-ai/platform/pkg/logger"
)

func TestRelaySend(t *testing.T) {
	var received RelayPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, logger.NewNop())
	err := relay.Send(context.Background(), "hello world", "https://img.example/1.png")
	require.NoError(t, err)

	assert.Equal(t, "hello world", received.Text)
	assert.Equal(t, "https://img.example/1.png", received.ImageURL)
}

func TestRelaySendOmitsEmptyImageURL(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, logger.NewNop())
	require.NoError(t, relay.Send(context.Background(), "text only", ""))

	_, hasImage := body["imageUrl"]
	assert.False(t, hasImage)
}

func TestRelaySendSurfacesEndpointBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"unknown channel"}`))
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, logger.NewNop())
	err := relay.Send(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "unknown channel")
}

func TestRelayFailsClosedWhenUnconfigured(t *testing.T) {
	relay := NewRelay("", logger.NewNop())
	err := relay.Send(context.Background(), "hello", "")
	assert.ErrorIs(t, err, ErrRelayNotConfigured)
}
