package generation

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/auth"
	"github.com/gokatarajesh/quizpin/internal/quizset"
	httperrors "github.com/gokatarajesh/quizpin/pkg/http/errors"
)

// HTTPHandlers exposes the generation endpoint.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "generation_http").Logger(),
	}
}

type generateRequest struct {
	Topic      string `json:"topic"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
}

// Generate handles POST /v1/generate
func (h *HTTPHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	res, err := h.service.Generate(r.Context(), Request{
		Topic:      req.Topic,
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Type:       req.Type,
		UserID:     auth.UserIDFromContext(r.Context()),
	})
	if err != nil {
		quizset.RespondError(w, h.logger, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}
