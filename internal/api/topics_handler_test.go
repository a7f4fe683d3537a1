package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scry-feed/internal/popularity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rankerFunc func(ctx context.Context, limit int) ([]popularity.TopicCount, error)

func (f rankerFunc) Top(ctx context.Context, limit int) ([]popularity.TopicCount, error) {
	return f(ctx, limit)
}

func TestTopicsHandler_GetPopular(t *testing.T) {
	t.Parallel()

	counter := popularity.NewMemoryCounter(10)
	for _, topic := range []string{"ai ethics", "tides", "ai ethics"} {
		require.NoError(t, counter.Increment(context.Background(), topic))
	}
	handler := NewTopicsHandler(counter)

	t.Run("lists topics by count", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		handler.GetPopular(w, httptest.NewRequest(http.MethodGet, "/api/topics/popular", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"topics":[{"topic":"ai ethics","count":2},{"topic":"tides","count":1}]}`, w.Body.String())
	})

	t.Run("honours limit", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		handler.GetPopular(w, httptest.NewRequest(http.MethodGet, "/api/topics/popular?limit=1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"topics":[{"topic":"ai ethics","count":2}]}`, w.Body.String())
	})

	t.Run("rejects bad limits", func(t *testing.T) {
		t.Parallel()

		for _, target := range []string{"/api/topics/popular?limit=x", "/api/topics/popular?limit=0", "/api/topics/popular?limit=101"} {
			w := httptest.NewRecorder()
			handler.GetPopular(w, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, target)
		}
	})

	t.Run("empty listing is an empty array", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		NewTopicsHandler(popularity.NewMemoryCounter(1)).GetPopular(w, httptest.NewRequest(http.MethodGet, "/api/topics/popular", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"topics":[]}`, w.Body.String())
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		t.Parallel()

		failing := rankerFunc(func(context.Context, int) ([]popularity.TopicCount, error) {
			return nil, errors.New("connection refused")
		})
		w := httptest.NewRecorder()
		NewTopicsHandler(failing).GetPopular(w, httptest.NewRequest(http.MethodGet, "/api/topics/popular", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
