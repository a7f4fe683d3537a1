package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/scry-feed/internal/api/shared"
	"github.com/phrazzld/scry-feed/internal/domain"
)

// DefaultCount is the page size when the client does not ask for one.
const DefaultCount = 5

// FeedGenerator produces feed pages.
type FeedGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}

// FeedHandler serves the snippet feed.
type FeedHandler struct {
	generator FeedGenerator
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(generator FeedGenerator) *FeedHandler {
	return &FeedHandler{generator: generator}
}

// GetFeed handles GET /api/feed?topic=&count=&cursor=&options=.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewerKey, ok := shared.GetViewerKey(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Viewer could not be identified")
		return
	}

	query, err := parseFeedQuery(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}
	if err := shared.ValidateRequest(query); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.generator.Generate(r.Context(), domain.GenerationRequest{
		Topic:           query.Topic,
		Count:           query.Count,
		Cursor:          query.Cursor,
		GenerateOptions: query.Options,
		ViewerKey:       viewerKey,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

func parseFeedQuery(r *http.Request) (FeedQuery, error) {
	count, err := shared.QueryInt(r, "count", DefaultCount)
	if err != nil {
		return FeedQuery{}, err
	}
	options, err := shared.QueryBool(r, "options", false)
	if err != nil {
		return FeedQuery{}, err
	}

	q := r.URL.Query()
	return FeedQuery{
		Topic:   q.Get("topic"),
		Count:   count,
		Cursor:  q.Get("cursor"),
		Options: options,
	}, nil
}
