package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/middleware"
	"github.com/noah-isme/chatshell-api/internal/observability"
)

// Web-vitals ratings.
const (
	RatingGood             = "good"
	RatingNeedsImprovement = "needs-improvement"
	RatingPoor             = "poor"
)

type vitalThreshold struct {
	good             float64
	needsImprovement float64
}

// Core Web Vitals thresholds; CLS is unitless, the rest are milliseconds.
var vitalThresholds = map[string]vitalThreshold{
	"LCP":  {good: 2500, needsImprovement: 4000},
	"FID":  {good: 100, needsImprovement: 300},
	"CLS":  {good: 0.1, needsImprovement: 0.25},
	"FCP":  {good: 1800, needsImprovement: 3000},
	"TTFB": {good: 800, needsImprovement: 1800},
	"INP":  {good: 200, needsImprovement: 500},
}

// RateVital classifies a sample against the thresholds of its metric.
func RateVital(name string, value float64) string {
	threshold, ok := vitalThresholds[strings.ToUpper(name)]
	if !ok {
		return ""
	}
	switch {
	case value <= threshold.good:
		return RatingGood
	case value <= threshold.needsImprovement:
		return RatingNeedsImprovement
	default:
		return RatingPoor
	}
}

// EventPublisher is satisfied by *nats.Conn.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// VitalsService ingests web-vitals samples reported by browsers.
type VitalsService interface {
	Record(ctx context.Context, req dto.VitalRequest) (dto.VitalResponse, error)
}

type vitalsService struct {
	publisher    EventPublisher
	subject      string
	redis        *redis.Client
	redisChannel string
	validator    *validator.Validate
	logger       zerolog.Logger
	now          func() time.Time
}

type vitalEvent struct {
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	ID         string    `json:"id"`
	Rating     string    `json:"rating"`
	ReceivedAt time.Time `json:"received_at"`
}

// NewVitalsService constructs the ingest service. Samples are fanned out to
// NATS and to a Redis channel derived from the subject when those are present.
func NewVitalsService(publisher EventPublisher, subject string, redisClient *redis.Client, validate *validator.Validate, logger zerolog.Logger) VitalsService {
	if validate == nil {
		validate = validator.New()
	}
	return &vitalsService{
		publisher:    publisher,
		subject:      subject,
		redis:        redisClient,
		redisChannel: strings.ReplaceAll(subject, ".", ":"),
		validator:    validate,
		logger:       logger.With().Str("component", "vitals_service").Logger(),
		now:          time.Now,
	}
}

func (s *vitalsService) Record(ctx context.Context, req dto.VitalRequest) (dto.VitalResponse, error) {
	tracer := otel.Tracer(tracerName + "/vitals")
	ctx, span := tracer.Start(ctx, "vitals.record")
	defer span.End()
	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("chatshell.correlation_id", id))
	}

	req.Name = strings.ToUpper(strings.TrimSpace(req.Name))
	req.ID = strings.TrimSpace(req.ID)
	req.Rating = strings.TrimSpace(req.Rating)
	if err := s.validator.StructCtx(ctx, req); err != nil {
		span.SetStatus(codes.Error, "invalid_vital")
		return dto.VitalResponse{}, err
	}

	value := *req.Value
	rating := req.Rating
	if rating == "" {
		rating = RateVital(req.Name, value)
	}
	span.SetAttributes(
		attribute.String("vitals.name", req.Name),
		attribute.String("vitals.rating", rating),
		attribute.Float64("vitals.value", value),
	)
	observability.WebVitals().WithLabelValues(req.Name, rating).Observe(value)

	response := dto.VitalResponse{Name: req.Name, Value: value, ID: req.ID, Rating: rating}

	payload, err := json.Marshal(vitalEvent{
		Name:       req.Name,
		Value:      value,
		ID:         req.ID,
		Rating:     rating,
		ReceivedAt: s.now().UTC(),
	})
	if err != nil {
		contextLogger(ctx, s.logger).Warn().Err(err).Str("name", req.Name).Msg("failed to encode vital")
		span.RecordError(err)
		return response, nil
	}

	if s.publisher != nil && s.subject != "" {
		if err := s.publisher.Publish(s.subject, payload); err != nil {
			contextLogger(ctx, s.logger).Warn().Err(err).Str("subject", s.subject).Msg("failed to publish vital")
			span.RecordError(err)
		} else {
			response.Published = true
		}
	}
	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			contextLogger(ctx, s.logger).Warn().Err(err).Str("channel", s.redisChannel).Msg("failed to publish vital to redis")
			span.RecordError(err)
		} else {
			response.Published = true
		}
	}

	return response, nil
}
