package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/chatshell-api/internal/middleware"
	"github.com/noah-isme/chatshell-api/internal/models"
	"github.com/noah-isme/chatshell-api/internal/observability"
	"github.com/noah-isme/chatshell-api/internal/repository"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("resource not found")

// NotFoundError reports that a lookup key matched no record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

const tracerName = "github.com/noah-isme/chatshell-api/internal/service"

type query struct {
	operation string
	start     time.Time
	span      trace.Span
}

func startQuery(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, *query) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, operation)
	span.SetAttributes(attrs...)
	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("chatshell.correlation_id", id))
	}
	return ctx, &query{operation: operation, start: time.Now(), span: span}
}

// end records the outcome of the query on the span and in the query metrics.
func (q *query) end(err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
		q.span.SetAttributes(attribute.Bool("chatshell.not_found", true))
	case err != nil:
		outcome = "error"
		q.span.RecordError(err)
		q.span.SetStatus(codes.Error, q.operation+"_failed")
	}

	observability.QueryTotal().WithLabelValues(q.operation, outcome).Inc()
	observability.QueryLatency().WithLabelValues(q.operation).Observe(time.Since(q.start).Seconds())
	q.span.End()
}

// contextLogger tags base with the correlation id carried by ctx.
func contextLogger(ctx context.Context, base zerolog.Logger) *zerolog.Logger {
	logger := base
	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		logger = base.With().Str("correlation_id", id).Logger()
	}
	return &logger
}

func requireServer(ctx context.Context, repo repository.ChatRepository, serverID string) (models.Server, error) {
	server, found, err := repo.GetServer(ctx, serverID)
	if err != nil {
		return models.Server{}, fmt.Errorf("get server: %w", err)
	}
	if !found {
		return models.Server{}, notFound("server", serverID)
	}
	return server, nil
}

func requireChannel(ctx context.Context, repo repository.ChatRepository, serverID, channelID string) (models.Channel, error) {
	if _, err := requireServer(ctx, repo, serverID); err != nil {
		return models.Channel{}, err
	}
	channel, found, err := repo.GetChannel(ctx, serverID, channelID)
	if err != nil {
		return models.Channel{}, fmt.Errorf("get channel: %w", err)
	}
	if !found {
		return models.Channel{}, notFound("channel", channelID)
	}
	return channel, nil
}
