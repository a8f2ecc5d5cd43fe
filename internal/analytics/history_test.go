package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizpin/internal/auth"
	"github.com/gokatarajesh/quizpin/internal/auth/jwt"
	"github.com/gokatarajesh/quizpin/internal/quizset"
	"github.com/gokatarajesh/quizpin/internal/quizset/quizsettest"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func historyStore(t *testing.T) *quizsettest.Store {
	t.Helper()
	store := quizsettest.New()
	store.PutQuestion(quizset.Question{ID: "q1", Content: "2+2?", Answer: quizset.FreeForm("4")})
	store.PutQuestion(quizset.Question{ID: "q2", Content: "Capital of France?", Answer: quizset.Choices([]quizset.Option{
		{Text: "Paris", IsCorrect: true}, {Text: "Rome"},
	}, "")})
	store.PutQuestion(quizset.Question{ID: "q3", Content: "Sky colour?", Answer: quizset.FreeForm("blue")})
	store.PutSet(quizset.Set{ID: "s1", PIN: "PIN234", Title: "Mixed", QuestionIDs: []string{"q3", "q1", "q2"}})
	return store
}

func record(t *testing.T, store *quizsettest.Store, attempt quizset.Attempt, answers map[string]string) {
	t.Helper()
	_, err := store.CreateAttempt(context.Background(), attempt)
	require.NoError(t, err)
	for qid, answer := range answers {
		require.NoError(t, store.AppendUsage(context.Background(), quizset.UsageEntry{
			QuestionID: qid,
			UserID:     attempt.UserID,
			Answer:     answer,
			AnsweredAt: attempt.CompletedAt,
			AttemptID:  attempt.ID,
		}))
	}
}

func TestHistoryKeepsAttemptsSeparate(t *testing.T) {
	store := historyStore(t)
	record(t, store, quizset.Attempt{ID: "a1", UserID: "u1", PIN: "PIN234", CompletedAt: t0},
		map[string]string{"q1": "4", "q2": "Rome", "q3": "blue"})
	record(t, store, quizset.Attempt{ID: "a2", UserID: "u1", PIN: "PIN234", CompletedAt: t0.Add(time.Hour)},
		map[string]string{"q1": "5", "q2": "Paris"})
	record(t, store, quizset.Attempt{ID: "other", UserID: "u2", PIN: "PIN234", CompletedAt: t0},
		map[string]string{"q1": "4"})

	r := NewReconstructor(store, HistoryOptions{}, zerolog.Nop())
	got, err := r.HistoryFor(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	newest, oldest := got[0], got[1]
	assert.Equal(t, "a2", newest.AttemptID)
	assert.Equal(t, "Mixed", newest.SetTitle)
	assert.Equal(t, 3, newest.TotalCount)
	assert.Equal(t, 1, newest.CorrectCount)
	require.Len(t, newest.Details, 2)
	assert.Equal(t, "q1", newest.Details[0].QuestionID)
	assert.Equal(t, "5", newest.Details[0].UserAnswer)
	assert.Equal(t, "4", newest.Details[0].CorrectAnswer)
	assert.False(t, newest.Details[0].Correct)
	assert.True(t, newest.Details[1].Correct)

	assert.Equal(t, "a1", oldest.AttemptID)
	assert.Equal(t, 3, oldest.TotalCount)
	assert.Equal(t, 2, oldest.CorrectCount)
	require.Len(t, oldest.Details, 3)
	assert.Equal(t, "q3", oldest.Details[0].QuestionID)
	assert.Equal(t, "Paris", oldest.Details[2].CorrectAnswer)
}

func TestHistoryFallsBackToPINForMissingSet(t *testing.T) {
	store := historyStore(t)
	record(t, store, quizset.Attempt{ID: "gone", UserID: "u1", PIN: "OLD999", CompletedAt: t0},
		map[string]string{"q1": "4"})

	got, err := NewReconstructor(store, HistoryOptions{}, zerolog.Nop()).HistoryFor(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "OLD999", got[0].SetTitle)
	assert.Equal(t, 1, got[0].CorrectCount)
	assert.Equal(t, 1, got[0].TotalCount)
}

func TestHistoryIncludesArchivedQuestions(t *testing.T) {
	store := historyStore(t)
	record(t, store, quizset.Attempt{ID: "a1", UserID: "u1", PIN: "PIN234", CompletedAt: t0},
		map[string]string{"q1": "4"})
	_, err := store.SetQuestionArchived(context.Background(), "q1", true)
	require.NoError(t, err)

	got, err := NewReconstructor(store, HistoryOptions{}, zerolog.Nop()).HistoryFor(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got[0].Details, 1)
	assert.True(t, got[0].Details[0].Correct)
}

func TestHistoryPageSize(t *testing.T) {
	store := historyStore(t)
	for i := 0; i < 5; i++ {
		record(t, store, quizset.Attempt{ID: string(rune('a' + i)), UserID: "u1", PIN: "PIN234", CompletedAt: t0.Add(time.Duration(i) * time.Minute)}, nil)
	}

	got, err := NewReconstructor(store, HistoryOptions{PageSize: 3, Concurrency: 2}, zerolog.Nop()).HistoryFor(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e", got[0].AttemptID)
	assert.Empty(t, got[0].Details)
	assert.Equal(t, 3, got[0].TotalCount)
}

func TestHistoryRequiresUser(t *testing.T) {
	_, err := NewReconstructor(historyStore(t), HistoryOptions{}, zerolog.Nop()).HistoryFor(context.Background(), " ")
	var verr *quizset.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestHTTPHistoryAndAnalytics(t *testing.T) {
	store := historyStore(t)
	record(t, store, quizset.Attempt{ID: "a1", UserID: "u1", PIN: "PIN234", CompletedAt: t0},
		map[string]string{"q1": "4"})
	h := NewHTTPHandlers(NewAggregator(store, store, zerolog.Nop()), NewReconstructor(store, HistoryOptions{}, zerolog.Nop()), zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/me/history", h.MyHistory)
	mux.HandleFunc("GET /v1/questions/{id}/analytics", h.QuestionAnalytics)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me/history", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &jwt.Claims{UserID: "u1"}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "a1", body.Data[0].AttemptID)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/questions/q1/analytics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ratioText":"1/1"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/questions/nope/analytics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
