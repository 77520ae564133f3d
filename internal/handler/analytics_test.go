package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow-ai/platform/internal/store"
	"github.com/contentflow-ai/platform/pkg/logger"
)

func analyticsRouter(t *testing.T) http.Handler {
	t.Helper()

	s, err := store.OpenFileStore(filepath.Join(t.TempDir(), "analytics.json"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	h := NewAnalyticsHandler(s, logger.NewNop())
	r := chi.NewRouter()
	r.Post("/api/analytics", h.Receive)
	r.Get("/api/analytics", h.List)
	return r
}

func TestAnalyticsPostThenGet(t *testing.T) {
	router := analyticsRouter(t)

	posted := `{ "text": "hello", "likes": 10, "platform": "X" }`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics", strings.NewReader(posted))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got)

	var want map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(posted), &want))
	assert.Equal(t, want, got[len(got)-1])
}

func TestAnalyticsGetEmptyReturnsArray(t *testing.T) {
	router := analyticsRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAnalyticsRejectsInvalidJSON(t *testing.T) {
	router := analyticsRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics", strings.NewReader("not json"))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
