package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

var testKey = quizset.GenerationKey{Topic: "rivers", Count: 2, Difficulty: "easy", Type: "multiple_choice"}

func TestGeneratorPostsKey(t *testing.T) {
	var got generatorRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"questions":[
			{"question":"Longest river?","options":["Nile","Amazon"],"correctAnswer":"Nile","explanation":""},
			{"question":"Source of the Thames?","options":[],"correctAnswer":"Gloucestershire","explanation":""}
		]}`))
	}))
	defer server.Close()

	g := NewGenerator(Config{BaseURL: server.URL + "/", APIKey: "secret"}, zerolog.Nop())
	out, err := g.Generate(context.Background(), testKey)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Longest river?", out[0].Question)
	assert.Equal(t, generatorRequest{Topic: "rivers", Count: 2, Difficulty: "easy", Type: "multiple_choice"}, got)
}

func TestGeneratorMapsStatus(t *testing.T) {
	tests := []struct {
		status int
		want   quizset.UpstreamKind
	}{
		{http.StatusBadRequest, quizset.UpstreamClient},
		{http.StatusTooManyRequests, quizset.UpstreamUnavailable},
		{http.StatusBadGateway, quizset.UpstreamUnavailable},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		g := NewGenerator(Config{BaseURL: server.URL}, zerolog.Nop())

		_, err := g.Generate(context.Background(), testKey)
		var uerr *quizset.UpstreamError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, tt.want, uerr.Kind)
		assert.Equal(t, tt.status, uerr.StatusCode)
		server.Close()
	}
}

func TestGeneratorWithoutEndpoint(t *testing.T) {
	g := NewGenerator(Config{}, zerolog.Nop())

	_, err := g.Generate(context.Background(), testKey)
	var uerr *quizset.UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, quizset.UpstreamUnavailable, uerr.Kind)
}
