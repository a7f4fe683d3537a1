package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by the API layer.
type ContextKey string

const (
	// ViewerKeyContextKey holds the dedup scope derived for the request.
	ViewerKeyContextKey ContextKey = "viewerKey"

	// TraceIDKey holds the request trace id.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace id (32 hex characters).
	TraceIDLength = 16
)

// SetTraceID returns a copy of ctx carrying a fresh trace id.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the trace id stored in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithViewerKey returns a copy of ctx carrying the viewer key.
func WithViewerKey(ctx context.Context, viewerKey string) context.Context {
	return context.WithValue(ctx, ViewerKeyContextKey, viewerKey)
}

// GetViewerKey returns the viewer key stored in ctx.
func GetViewerKey(ctx context.Context) (string, bool) {
	viewerKey, ok := ctx.Value(ViewerKeyContextKey).(string)
	return viewerKey, ok && viewerKey != ""
}

// generateTraceID falls back to a random UUID if the system entropy source
// fails, so a static id is never returned.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(b)
}
