package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scry-feed/internal/api/shared"
	"github.com/phrazzld/scry-feed/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var traceID string
	var hasLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		hasLogger = logger.FromContext(r.Context()) != slog.Default()
	})

	w := httptest.NewRecorder()
	TraceMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/feed", nil))

	assert.Len(t, traceID, 2*shared.TraceIDLength)
	assert.Equal(t, traceID, w.Header().Get(TraceHeader))
	assert.True(t, hasLogger)

	w2 := httptest.NewRecorder()
	TraceMiddleware(next).ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	assert.NotEqual(t, w.Header().Get(TraceHeader), w2.Header().Get(TraceHeader))
}
