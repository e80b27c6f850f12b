// Package log provides slog handlers.
package log

import (
	"context"
	"log/slog"

	"github.com/tribeshub/backend/internal/middleware"
	"github.com/tribeshub/backend/pkg/model"
)

// ContextHandler adds values from the [context.Context] to the [slog.Record] so
// every log line emitted while serving a request carries the correlation id and
// the acting user. Not every use of the logger runs within an HTTP request, so
// missing keys are fine.
type ContextHandler struct {
	slog.Handler
}

func New(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		Handler: handler,
	}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.Handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := middleware.GetCorrelationID(ctx); ok {
		r.AddAttrs(slog.String("correlationId", id))
	}

	// public routes do not have a user in the context
	if user, ok := model.GetUserFromContext(ctx); ok {
		r.AddAttrs(slog.Uint64("userId", uint64(user.ID)))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return New(h.Handler.WithAttrs(attrs))
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return New(h.Handler.WithGroup(name))
}
