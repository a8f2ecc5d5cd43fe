package analytics

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/auth"
	"github.com/gokatarajesh/quizpin/internal/quizset"
	httperrors "github.com/gokatarajesh/quizpin/pkg/http/errors"
)

// HTTPHandlers exposes question analytics and play history.
type HTTPHandlers struct {
	aggregator *Aggregator
	history    *Reconstructor
	logger     zerolog.Logger
}

func NewHTTPHandlers(aggregator *Aggregator, history *Reconstructor, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		aggregator: aggregator,
		history:    history,
		logger:     logger.With().Str("component", "analytics_http").Logger(),
	}
}

// QuestionAnalytics handles GET /v1/questions/{id}/analytics
func (h *HTTPHandlers) QuestionAnalytics(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.aggregator.Analyze(r.Context(), r.PathValue("id"))
	if err != nil {
		quizset.RespondError(w, h.logger, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, analysis)
}

// MyHistory handles GET /v1/users/me/history
func (h *HTTPHandlers) MyHistory(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.history.HistoryFor(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		quizset.RespondError(w, h.logger, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{"data": summaries})
}
