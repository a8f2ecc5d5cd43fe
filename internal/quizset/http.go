package quizset

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/auth"
	httperrors "github.com/gokatarajesh/quizpin/pkg/http/errors"
)

// RespondError writes err using the domain status mapping. Server-side
// failures are logged and returned without internal detail.
func RespondError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status, code := HTTPStatus(err)
	var verr *ValidationError
	var uerr *UpstreamError
	switch {
	case errors.As(err, &verr):
		httperrors.RespondValidationError(w, code, verr.Message, verr.Field)
	case errors.As(err, &uerr):
		if status >= 500 {
			logger.Warn().Err(err).Int("status", status).Msg("generation provider failed")
		}
		details := map[string]any{"provider": uerr.Provider}
		if uerr.StatusCode > 0 {
			details["upstreamStatus"] = uerr.StatusCode
		}
		httperrors.RespondErrorWithDetails(w, status, code, http.StatusText(status), details)
	case status == http.StatusNotFound:
		httperrors.RespondNotFound(w, code, err.Error())
	case status >= 500:
		logger.Error().Err(err).Int("status", status).Msg("request failed")
		httperrors.RespondError(w, status, code, http.StatusText(status))
	default:
		httperrors.RespondError(w, status, code, err.Error())
	}
}

// HTTPHandlers exposes authoring, play delivery and admin endpoints.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "quizset_http").Logger(),
	}
}

type createSetRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Questions   []RawQuestion `json:"questions"`
}

type setResponse struct {
	ID            string    `json:"id"`
	PIN           string    `json:"pin"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	QuestionCount int       `json:"questionCount"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type playQuestion struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

type questionResponse struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	Difficulty string `json:"difficulty"`
	Archived   bool   `json:"archived"`
	Verified   bool   `json:"verified"`
}

func toSetResponse(s Set) setResponse {
	return setResponse{
		ID:            s.ID,
		PIN:           s.PIN,
		Title:         s.Title,
		Description:   s.Description,
		Category:      s.Category,
		QuestionCount: len(s.QuestionIDs),
		Verified:      s.Verified,
		CreatedAt:     s.CreatedAt,
	}
}

func toQuestionResponse(q Question) questionResponse {
	return questionResponse{
		ID:         q.ID,
		Content:    q.Content,
		Difficulty: string(q.Difficulty),
		Archived:   q.Archived,
		Verified:   q.Verified,
	}
}

// CreateSet handles POST /v1/sets
func (h *HTTPHandlers) CreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	questions := make([]Question, 0, len(req.Questions))
	for _, raw := range req.Questions {
		if q, ok := NormalizeQuestion(raw); ok {
			questions = append(questions, q)
		}
	}

	set, err := h.service.CreateSet(r.Context(), CreateSetRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Questions:   questions,
		CreatedBy:   auth.UserIDFromContext(r.Context()),
	})
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, toSetResponse(set))
}

// GetSet handles GET /v1/sets/{pin}
func (h *HTTPHandlers) GetSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.SetByPIN(r.Context(), r.PathValue("pin"))
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, toSetResponse(set))
}

// PlayQuestions handles GET /v1/sets/{pin}/questions. Answer keys are not exposed.
func (h *HTTPHandlers) PlayQuestions(w http.ResponseWriter, r *http.Request) {
	set, questions, err := h.service.PlayQuestions(r.Context(), r.PathValue("pin"))
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	items := make([]playQuestion, 0, len(questions))
	for _, q := range questions {
		options := make([]string, 0, len(q.Answer.Options))
		for _, o := range q.Answer.Options {
			options = append(options, o.Text)
		}
		items = append(items, playQuestion{
			ID:         q.ID,
			Content:    q.Content,
			Options:    options,
			Difficulty: string(q.Difficulty),
		})
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{
		"set":       toSetResponse(set),
		"questions": items,
	})
}

type toggleRequest struct {
	Value *bool `json:"value"`
}

// decodeToggle reads {"value": bool}; an empty body means true.
func decodeToggle(r *http.Request) (bool, error) {
	var req toggleRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return false, Invalid("value", "invalid JSON payload")
		}
	}
	if req.Value == nil {
		return true, nil
	}
	return *req.Value, nil
}

// ArchiveQuestion handles POST /v1/questions/{id}/archive
func (h *HTTPHandlers) ArchiveQuestion(w http.ResponseWriter, r *http.Request) {
	archived, err := decodeToggle(r)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	q, err := h.service.ArchiveQuestion(r.Context(), r.PathValue("id"), archived)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	h.logger.Info().Str("question_id", q.ID).Bool("archived", archived).
		Str("by", auth.UserIDFromContext(r.Context())).Msg("question archive flag changed")
	httperrors.RespondJSON(w, http.StatusOK, toQuestionResponse(q))
}

// ApplyDifficulty handles POST /v1/questions/{id}/difficulty
func (h *HTTPHandlers) ApplyDifficulty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	q, err := h.service.ApplyDifficulty(r.Context(), r.PathValue("id"), req.Difficulty)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	h.logger.Info().Str("question_id", q.ID).Str("difficulty", string(q.Difficulty)).
		Str("by", auth.UserIDFromContext(r.Context())).Msg("question difficulty applied")
	httperrors.RespondJSON(w, http.StatusOK, toQuestionResponse(q))
}

// VerifySet handles POST /v1/sets/{id}/verify
func (h *HTTPHandlers) VerifySet(w http.ResponseWriter, r *http.Request) {
	verified, err := decodeToggle(r)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	set, err := h.service.VerifySet(r.Context(), r.PathValue("id"), verified)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, toSetResponse(set))
}
