// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/service"
	"github.com/contentflow-ai/platform/internal/validate"
	"github.com/contentflow-ai/platform/pkg/logger"
)

// SessionHeader carries the client session token used for result
// supersession. The server assigns one when the client does not.
const SessionHeader = "X-Session-Token"

// GenerateHandler handles generation requests.
type GenerateHandler struct {
	orchestrator *service.Orchestrator
	results      *service.ResultCache
	logger       *logger.Logger
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(orch *service.Orchestrator, results *service.ResultCache, log *logger.Logger) *GenerateHandler {
	return &GenerateHandler{
		orchestrator: orch,
		results:      results,
		logger:       log,
	}
}

// generateResponse mirrors the form-state envelope the UI consumes.
type generateResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   bool        `json:"error,omitempty"`
}

// Generate handles POST /api/v1/generate. It accepts form-encoded input or a
// JSON object of the same fields; all values are treated as text and
// validated into a typed request.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	values, err := formValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := validate.ParseForm(values)
	if err != nil {
		var fields validate.FieldErrors
		if errors.As(err, &fields) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"message": fields.Error(),
				"fields":  fields,
				"error":   true,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := r.Header.Get(SessionHeader)
	if session == "" {
		session = uuid.New().String()
	}
	w.Header().Set(SessionHeader, session)

	result, err := h.orchestrator.Run(ctx, req)
	if err != nil {
		h.logger.Error("generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("An error occurred: %s", err))
		return
	}

	if err := h.results.Put(session, result); err != nil {
		h.logger.Error("failed to cache result", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store result")
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Message: "Posts generated successfully.",
		Data:    result,
	})
}

// formValues extracts raw key/value input from a form or JSON body.
func formValues(r *http.Request) (url.Values, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		return valuesFromJSON(body), nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// valuesFromJSON flattens a JSON object into form values, stringifying
// scalars and expanding arrays into repeated keys.
func valuesFromJSON(body map[string]interface{}) url.Values {
	values := url.Values{}
	for key, raw := range body {
		switch v := raw.(type) {
		case []interface{}:
			for _, item := range v {
				values.Add(key, stringify(item))
			}
		case nil:
		default:
			values.Set(key, stringify(v))
		}
	}
	return values
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
