package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizpin/internal/auth"
	"github.com/gokatarajesh/quizpin/internal/auth/jwt"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

func postGenerate(t *testing.T, h *HTTPHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(body))
	req = req.WithContext(auth.WithClaims(context.Background(), &jwt.Claims{UserID: "user-1"}))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)
	return rec
}

func TestHTTPGenerateReportsCacheState(t *testing.T) {
	f := newFixture(&stubProvider{questions: generatedQuestions(2)}, ServiceOptions{})
	h := NewHTTPHandlers(f.svc, zerolog.Nop())

	rec := postGenerate(t, h, `{"topic":"rivers","count":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var first Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.False(t, first.FromCache)
	assert.Len(t, first.Questions, 2)
	assert.Empty(t, first.ExistingPIN)

	rec = postGenerate(t, h, `{"topic":"rivers","count":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var second Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.FromCache)
	assert.Equal(t, first.PIN, second.ExistingPIN)

	sets := f.store.Sets()
	require.Len(t, sets, 1)
	assert.Equal(t, "user-1", sets[0].CreatedBy)
}

func TestHTTPGenerateErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body string
		want int
	}{
		{name: "missing topic", body: `{"topic":""}`, want: http.StatusBadRequest},
		{name: "bad json", body: `{`, want: http.StatusBadRequest},
		{
			name: "provider rejected",
			err:  &quizset.UpstreamError{Kind: quizset.UpstreamClient, StatusCode: 400, Err: errors.New("bad")},
			body: `{"topic":"t"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "provider down",
			err:  &quizset.UpstreamError{Kind: quizset.UpstreamUnavailable, StatusCode: 500, Err: errors.New("down")},
			body: `{"topic":"t"}`,
			want: http.StatusBadGateway,
		},
		{
			name: "rate limited",
			err:  &quizset.UpstreamError{Kind: quizset.UpstreamUnavailable, StatusCode: 429, Err: errors.New("slow down")},
			body: `{"topic":"t"}`,
			want: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(&stubProvider{err: tt.err, questions: generatedQuestions(1)}, ServiceOptions{})
			rec := postGenerate(t, NewHTTPHandlers(f.svc, zerolog.Nop()), tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHTTPGenerateWithoutProvider(t *testing.T) {
	f := newFixture(nil, ServiceOptions{})

	rec := postGenerate(t, NewHTTPHandlers(f.svc, zerolog.Nop()), `{"topic":"t"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHTTPGenerateUpstreamDetails(t *testing.T) {
	upstream := &quizset.UpstreamError{Kind: quizset.UpstreamUnavailable, Provider: "openai", StatusCode: 502, Err: errors.New("bad gateway")}
	f := newFixture(&stubProvider{err: upstream}, ServiceOptions{})

	rec := postGenerate(t, NewHTTPHandlers(f.svc, zerolog.Nop()), `{"topic":"t"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upstream_error", body.Error)
	assert.Equal(t, "openai", body.Details["provider"])
	assert.EqualValues(t, 502, body.Details["upstreamStatus"])
}
