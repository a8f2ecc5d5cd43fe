package play

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/auth"
	"github.com/gokatarajesh/quizpin/internal/quizset"
	httperrors "github.com/gokatarajesh/quizpin/pkg/http/errors"
)

// HTTPHandlers exposes attempt submission.
type HTTPHandlers struct {
	recorder *Recorder
	logger   zerolog.Logger
}

func NewHTTPHandlers(recorder *Recorder, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		recorder: recorder,
		logger:   logger.With().Str("component", "play_http").Logger(),
	}
}

type submitRequest struct {
	PIN     string   `json:"pin"`
	Answers []Answer `json:"answers"`
}

type submitResponse struct {
	AttemptID   string    `json:"attemptId"`
	PIN         string    `json:"pin"`
	CompletedAt time.Time `json:"completedAt"`
}

// Submit handles POST /v1/attempts
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	attempt, err := h.recorder.Submit(r.Context(), SubmitRequest{
		PIN:     req.PIN,
		UserID:  auth.UserIDFromContext(r.Context()),
		Answers: req.Answers,
	})
	if err != nil {
		quizset.RespondError(w, h.logger, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, submitResponse{
		AttemptID:   attempt.ID,
		PIN:         attempt.PIN,
		CompletedAt: attempt.CompletedAt,
	})
}
