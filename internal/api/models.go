package api

import "github.com/phrazzld/scry-feed/internal/domain"

// FeedQuery holds the query parameters of GET /api/feed.
type FeedQuery struct {
	Topic   string `validate:"required,max=1000"`
	Count   int    `validate:"min=1,max=10"`
	Cursor  string `validate:"max=1024"`
	Options bool
}

// FeedResponse is the body of a successful feed page.
type FeedResponse struct {
	Snippets   []string                `json:"snippets"`
	Options    []domain.SubTopicOption `json:"options,omitempty"`
	NextCursor string                  `json:"next_cursor"`
	Source     string                  `json:"source"`
}

// PopularQuery holds the query parameters of GET /api/topics/popular.
type PopularQuery struct {
	Limit int `validate:"min=1,max=100"`
}

// TopicResponse is one entry of the popular topics listing.
type TopicResponse struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

// PopularTopicsResponse is the body of GET /api/topics/popular.
type PopularTopicsResponse struct {
	Topics []TopicResponse `json:"topics"`
}

func resultToResponse(result domain.GenerationResult) FeedResponse {
	snippets := result.Snippets
	if snippets == nil {
		snippets = []string{}
	}
	return FeedResponse{
		Snippets:   snippets,
		Options:    result.Options,
		NextCursor: result.NextCursor,
		Source:     result.Source,
	}
}
