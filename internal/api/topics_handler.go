package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/scry-feed/internal/api/shared"
	"github.com/phrazzld/scry-feed/internal/popularity"
)

// DefaultPopularLimit is the listing size when the client does not ask for one.
const DefaultPopularLimit = 10

// TopicRanker lists the most requested topics.
type TopicRanker interface {
	Top(ctx context.Context, limit int) ([]popularity.TopicCount, error)
}

// TopicsHandler serves topic popularity.
type TopicsHandler struct {
	ranker TopicRanker
}

// NewTopicsHandler creates a TopicsHandler.
func NewTopicsHandler(ranker TopicRanker) *TopicsHandler {
	return &TopicsHandler{ranker: ranker}
}

// GetPopular handles GET /api/topics/popular?limit=.
func (h *TopicsHandler) GetPopular(w http.ResponseWriter, r *http.Request) {
	limit, err := shared.QueryInt(r, "limit", DefaultPopularLimit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}
	query := PopularQuery{Limit: limit}
	if err := shared.ValidateRequest(query); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	top, err := h.ranker.Top(r.Context(), query.Limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to list popular topics", err)
		return
	}

	response := PopularTopicsResponse{Topics: make([]TopicResponse, 0, len(top))}
	for _, tc := range top {
		response.Topics = append(response.Topics, TopicResponse{Topic: tc.Topic, Count: tc.Count})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
