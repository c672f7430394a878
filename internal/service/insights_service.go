package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/models"
	"github.com/noah-isme/chatshell-api/internal/repository"
)

// InsightsService aggregates the activity series shown on the insights page.
type InsightsService interface {
	GetInsights(ctx context.Context, serverID string) (dto.InsightsResponse, error)
}

type insightsService struct {
	repo     repository.ChatRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewInsightsService constructs the insights service. A nil cache disables
// caching.
func NewInsightsService(repo repository.ChatRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) InsightsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &insightsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "insights_service").Logger(),
	}
}

func insightsCacheKey(serverID string) string {
	return "insights:v1:" + serverID
}

func (s *insightsService) GetInsights(ctx context.Context, serverID string) (result dto.InsightsResponse, err error) {
	cacheKey := insightsCacheKey(serverID)
	ctx, q := startQuery(ctx, "insights.get_insights",
		attribute.String("chatshell.server_id", serverID),
		attribute.String("insights.cache_key", cacheKey),
	)
	defer func() { q.end(err) }()

	if _, err = requireServer(ctx, s.repo, serverID); err != nil {
		return dto.InsightsResponse{}, err
	}

	if s.cache != nil {
		cached, cacheErr := s.cache.Get(ctx, cacheKey).Result()
		if cacheErr == nil {
			var response dto.InsightsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				q.span.SetAttributes(attribute.Bool("insights.cache_hit", true))
				return response, nil
			}
		} else if !errors.Is(cacheErr, redis.Nil) {
			contextLogger(ctx, s.logger).Warn().Err(cacheErr).Msg("failed to read insights cache")
			q.span.RecordError(cacheErr)
		}
	}

	metrics, err := s.repo.ListActivityMetrics(ctx, serverID)
	if err != nil {
		return dto.InsightsResponse{}, fmt.Errorf("list activity metrics: %w", err)
	}
	result = buildInsights(serverID, metrics)
	q.span.SetAttributes(attribute.Int("insights.days", len(metrics)))

	if s.cache != nil {
		payload, marshalErr := json.Marshal(result)
		if marshalErr == nil {
			if setErr := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); setErr != nil {
				contextLogger(ctx, s.logger).Warn().Err(setErr).Msg("failed to store insights cache")
				q.span.RecordError(setErr)
			}
		}
	}

	return result, nil
}

// buildInsights totals the series. An empty series yields zeros rather than
// NaN averages or negative peaks.
func buildInsights(serverID string, metrics []models.ActivityMetric) dto.InsightsResponse {
	response := dto.InsightsResponse{
		ServerID: serverID,
		Timeline: make([]dto.ActivityPoint, 0, len(metrics)),
	}

	for _, metric := range metrics {
		response.TotalMessages += metric.Messages
		if metric.ActiveUsers > response.PeakActiveUsers {
			response.PeakActiveUsers = metric.ActiveUsers
		}
		response.Timeline = append(response.Timeline, dto.ActivityPoint{
			Date:        metric.Date,
			Label:       metricLabel(metric.Date),
			Messages:    metric.Messages,
			ActiveUsers: metric.ActiveUsers,
			BarWidthPct: barWidth(metric.Messages),
		})
	}
	if len(metrics) > 0 {
		response.AvgDailyMessages = int(math.Round(float64(response.TotalMessages) / float64(len(metrics))))
	}
	return response
}
