package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondValidationError(rec, ErrCodeValidationFailed, "title is required", "title")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, ErrCodeValidationFailed, body.Error)
	assert.Equal(t, "title", body.Field)
	assert.Nil(t, body.Details)
}

func TestRespondErrorWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithDetails(rec, http.StatusBadGateway, ErrCodeUpstreamError, "Bad Gateway", map[string]any{"provider": "openai"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "openai", body.Details["provider"])
	assert.Empty(t, body.Field)
}
