package quizset_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizpin/internal/quizset"
	"github.com/gokatarajesh/quizpin/internal/quizset/quizsettest"
)

func newTestMux(store *quizsettest.Store) *http.ServeMux {
	h := quizset.NewHTTPHandlers(newService(store), zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sets", h.CreateSet)
	mux.HandleFunc("GET /v1/sets/{pin}", h.GetSet)
	mux.HandleFunc("GET /v1/sets/{pin}/questions", h.PlayQuestions)
	mux.HandleFunc("POST /v1/sets/{id}/verify", h.VerifySet)
	mux.HandleFunc("POST /v1/questions/{id}/archive", h.ArchiveQuestion)
	mux.HandleFunc("POST /v1/questions/{id}/difficulty", h.ApplyDifficulty)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHTTPCreateAndPlaySet(t *testing.T) {
	store := quizsettest.New()
	mux := newTestMux(store)

	rec := do(t, mux, http.MethodPost, "/v1/sets", `{
		"title": "Capitals",
		"questions": [
			{"content": "Capital of France?", "options": ["Paris", "Lyon"], "correctAnswer": "Paris"},
			{"question": "Capital of Spain?", "correctAnswer": "Madrid", "difficulty": "HARD"},
			{"content": "   "}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		PIN           string `json:"pin"`
		QuestionCount int    `json:"questionCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 2, created.QuestionCount)

	rec = do(t, mux, http.MethodGet, "/v1/sets/"+strings.ToLower(created.PIN)+"/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var played struct {
		Questions []struct {
			Content    string   `json:"content"`
			Options    []string `json:"options"`
			Difficulty string   `json:"difficulty"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &played))
	require.Len(t, played.Questions, 2)
	assert.Equal(t, []string{"Paris", "Lyon"}, played.Questions[0].Options)
	assert.Equal(t, "hard", played.Questions[1].Difficulty)
	assert.NotContains(t, rec.Body.String(), "isCorrect")
}

func TestHTTPCreateSetValidation(t *testing.T) {
	mux := newTestMux(quizsettest.New())

	rec := do(t, mux, http.MethodPost, "/v1/sets", `{"title": "", "questions": [{"content": "q"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"title"`)

	rec = do(t, mux, http.MethodPost, "/v1/sets", `{"title": "t", "questions": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/v1/sets", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPUnknownPIN(t *testing.T) {
	mux := newTestMux(quizsettest.New())

	rec := do(t, mux, http.MethodGet, "/v1/sets/ZZZZZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPAdminOperations(t *testing.T) {
	store := quizsettest.New()
	store.PutQuestion(quizset.Question{ID: "q1", Content: "c", Answer: quizset.FreeForm("a"), Difficulty: quizset.DifficultyMedium})
	store.PutSet(quizset.Set{ID: "s1", PIN: "ABCDEF", Title: "t", QuestionIDs: []string{"q1"}})
	mux := newTestMux(store)

	rec := do(t, mux, http.MethodPost, "/v1/questions/q1/archive", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"archived":true`)

	rec = do(t, mux, http.MethodPost, "/v1/questions/q1/archive", `{"value": false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"archived":false`)

	rec = do(t, mux, http.MethodPost, "/v1/questions/q1/difficulty", `{"difficulty": "Easy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"difficulty":"easy"`)

	rec = do(t, mux, http.MethodPost, "/v1/questions/q1/difficulty", `{"difficulty": "brutal"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/v1/sets/s1/verify", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verified":true`)

	rec = do(t, mux, http.MethodPost, "/v1/questions/missing/archive", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
