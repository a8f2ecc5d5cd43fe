package play

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
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

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seededStore() *quizsettest.Store {
	store := quizsettest.New()
	for _, id := range []string{"q1", "q2", "q3"} {
		store.PutQuestion(quizset.Question{ID: id, Content: id, Answer: quizset.FreeForm("x")})
	}
	store.PutQuestion(quizset.Question{ID: "foreign", Content: "elsewhere", Answer: quizset.FreeForm("x")})
	store.PutSet(quizset.Set{ID: "s1", PIN: "ABC234", Title: "Set", QuestionIDs: []string{"q1", "q2", "q3"}})
	return store
}

func newTestRecorder(store *quizsettest.Store) *Recorder {
	r := NewRecorder(store, store, NewLedger(store, zerolog.Nop()), zerolog.Nop())
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestSubmitRecordsAttemptAndAnswers(t *testing.T) {
	store := seededStore()
	r := newTestRecorder(store)

	attempt, err := r.Submit(context.Background(), SubmitRequest{
		PIN:    " abc234 ",
		UserID: "u1",
		Answers: []Answer{
			{QuestionID: "q1", Answer: " x "},
			{QuestionID: "q2", Answer: "y"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, "ABC234", attempt.PIN)
	assert.Equal(t, fixedNow, attempt.CompletedAt)

	usage := store.Usage()
	require.Len(t, usage, 2)
	for _, e := range usage {
		assert.Equal(t, attempt.ID, e.AttemptID)
		assert.Equal(t, "u1", e.UserID)
		assert.Equal(t, fixedNow, e.AnsweredAt)
	}
	assert.Equal(t, "x", usage[0].Answer)
	assert.Len(t, store.Attempts(), 1)
}

func TestSubmitSkipsForeignQuestions(t *testing.T) {
	store := seededStore()
	r := newTestRecorder(store)

	attempt, err := r.Submit(context.Background(), SubmitRequest{
		PIN:    "ABC234",
		UserID: "u1",
		Answers: []Answer{
			{QuestionID: "q1", Answer: "x"},
			{QuestionID: "foreign", Answer: "x"},
			{QuestionID: "does-not-exist", Answer: "x"},
			{QuestionID: "q3", Answer: "x"},
		},
	})
	require.NoError(t, err)
	require.Len(t, store.Attempts(), 1)

	var ids []string
	for _, e := range store.Usage() {
		assert.Equal(t, attempt.ID, e.AttemptID)
		ids = append(ids, e.QuestionID)
	}
	assert.Equal(t, []string{"q1", "q3"}, ids)
}

func TestSubmitTwiceProducesIndependentEntries(t *testing.T) {
	store := seededStore()
	r := newTestRecorder(store)
	req := SubmitRequest{PIN: "ABC234", UserID: "u1", Answers: []Answer{{QuestionID: "q1", Answer: "x"}}}

	first, err := r.Submit(context.Background(), req)
	require.NoError(t, err)
	second, err := r.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	usage := store.Usage()
	require.Len(t, usage, 2)
	assert.Equal(t, first.ID, usage[0].AttemptID)
	assert.Equal(t, second.ID, usage[1].AttemptID)
}

func TestSubmitContinuesPastAppendFailure(t *testing.T) {
	store := seededStore()
	store.AppendErr = func(e quizset.UsageEntry) error {
		if e.QuestionID == "q2" {
			return errors.New("write timeout")
		}
		return nil
	}
	r := newTestRecorder(store)

	_, err := r.Submit(context.Background(), SubmitRequest{
		PIN:     "ABC234",
		UserID:  "u1",
		Answers: []Answer{{QuestionID: "q1"}, {QuestionID: "q2"}, {QuestionID: "q3"}},
	})
	require.NoError(t, err)
	assert.Len(t, store.Usage(), 2)
}

func TestSubmitValidation(t *testing.T) {
	r := newTestRecorder(seededStore())

	tests := []struct {
		name  string
		req   SubmitRequest
		field string
	}{
		{name: "missing pin", req: SubmitRequest{PIN: "  ", UserID: "u1", Answers: []Answer{{QuestionID: "q1"}}}, field: "pin"},
		{name: "no answers", req: SubmitRequest{PIN: "ABC234", UserID: "u1"}, field: "answers"},
		{name: "no user", req: SubmitRequest{PIN: "ABC234", Answers: []Answer{{QuestionID: "q1"}}}, field: "userId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Submit(context.Background(), tt.req)
			var verr *quizset.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, err := r.Submit(context.Background(), tests[0].req)
	assert.EqualError(t, err, "missing pin or answers")
}

func TestSubmitUnknownPIN(t *testing.T) {
	store := seededStore()
	r := newTestRecorder(store)

	_, err := r.Submit(context.Background(), SubmitRequest{PIN: "ZZZZZZ", UserID: "u1", Answers: []Answer{{QuestionID: "q1"}}})
	assert.ErrorIs(t, err, quizset.ErrNotFound)
	assert.Empty(t, store.Attempts())
}

func TestSubmitStopsWhenCancelled(t *testing.T) {
	store := seededStore()
	ctx, cancel := context.WithCancel(context.Background())
	store.AppendErr = func(quizset.UsageEntry) error {
		cancel()
		return nil
	}
	r := newTestRecorder(store)

	_, err := r.Submit(ctx, SubmitRequest{
		PIN:     "ABC234",
		UserID:  "u1",
		Answers: []Answer{{QuestionID: "q1"}, {QuestionID: "q2"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.Usage(), 1)
	assert.Len(t, store.Attempts(), 1)
}

func TestHTTPSubmit(t *testing.T) {
	store := seededStore()
	h := NewHTTPHandlers(newTestRecorder(store), zerolog.Nop())

	body := `{"pin":"abc234","answers":[{"questionId":"q1","answer":"x"},{"questionId":"nope","answer":"x"}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/attempts", strings.NewReader(body))
	req = req.WithContext(auth.WithClaims(req.Context(), &jwt.Claims{UserID: "u9"}))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"pin":"ABC234"`)
	assert.Len(t, store.Usage(), 1)

	req = httptest.NewRequest(http.MethodPost, "/v1/attempts", strings.NewReader(`{"pin":"ABC234","answers":[]}`))
	req = req.WithContext(auth.WithClaims(req.Context(), &jwt.Claims{UserID: "u9"}))
	rec = httptest.NewRecorder()
	h.Submit(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing pin or answers")
}
