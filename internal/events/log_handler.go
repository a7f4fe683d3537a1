package events

import (
	"context"
	"log/slog"
)

// LogHandler writes one structured record per provider call.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	return &LogHandler{logger: logger.With("component", "provider_calls")}
}

// HandleEvent logs successful calls at INFO and failed calls at WARN.
func (h *LogHandler) HandleEvent(ctx context.Context, event *CallEvent) error {
	level := slog.LevelInfo
	if event.Outcome != OutcomeOK {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("provider", event.Provider),
		slog.String("topic", event.Topic),
		slog.String("outcome", event.Outcome),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	h.logger.LogAttrs(ctx, level, "provider call completed", attrs...)
	return nil
}
