package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/repository"
)

// ChannelService serves the sidebar and the message pane.
type ChannelService interface {
	ListChannels(ctx context.Context, serverID string) ([]dto.ChannelResponse, error)
	GetChannelView(ctx context.Context, serverID, channelID string) (dto.ChannelViewResponse, error)
	ListMessages(ctx context.Context, serverID, channelID string) ([]dto.MessageResponse, error)
	ListPinnedMessages(ctx context.Context, serverID, channelID string) ([]dto.MessageResponse, error)
}

type channelService struct {
	repo      repository.ChatRepository
	logger    zerolog.Logger
	presenter presenter
}

// NewChannelService constructs the channel service.
func NewChannelService(repo repository.ChatRepository, logger zerolog.Logger) ChannelService {
	return &channelService{
		repo:      repo,
		logger:    logger.With().Str("component", "channel_service").Logger(),
		presenter: newPresenter(time.Now),
	}
}

func (s *channelService) ListChannels(ctx context.Context, serverID string) (result []dto.ChannelResponse, err error) {
	ctx, q := startQuery(ctx, "channel.list_channels", attribute.String("chatshell.server_id", serverID))
	defer func() { q.end(err) }()

	if _, err = requireServer(ctx, s.repo, serverID); err != nil {
		return nil, err
	}
	channels, err := s.repo.ListChannels(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	result = make([]dto.ChannelResponse, 0, len(channels))
	for _, channel := range channels {
		result = append(result, toChannelResponse(channel, ""))
	}
	return result, nil
}

func (s *channelService) GetChannelView(ctx context.Context, serverID, channelID string) (result dto.ChannelViewResponse, err error) {
	ctx, q := startQuery(ctx, "channel.get_view",
		attribute.String("chatshell.server_id", serverID),
		attribute.String("chatshell.channel_id", channelID),
	)
	defer func() { q.end(err) }()

	channel, err := requireChannel(ctx, s.repo, serverID, channelID)
	if err != nil {
		return dto.ChannelViewResponse{}, err
	}
	messages, err := s.repo.ListMessages(ctx, serverID, channelID)
	if err != nil {
		return dto.ChannelViewResponse{}, fmt.Errorf("list messages: %w", err)
	}
	pinned, err := s.repo.ListPinnedMessages(ctx, serverID, channelID)
	if err != nil {
		return dto.ChannelViewResponse{}, fmt.Errorf("list pinned messages: %w", err)
	}

	q.span.SetAttributes(attribute.Int("chatshell.message_count", len(messages)))
	return dto.ChannelViewResponse{
		Channel:  toChannelResponse(channel, channel.ID),
		Messages: s.presenter.messages(messages),
		Pinned:   s.presenter.messages(pinned),
		Empty:    len(messages) == 0,
	}, nil
}

func (s *channelService) ListMessages(ctx context.Context, serverID, channelID string) (result []dto.MessageResponse, err error) {
	ctx, q := startQuery(ctx, "channel.list_messages",
		attribute.String("chatshell.server_id", serverID),
		attribute.String("chatshell.channel_id", channelID),
	)
	defer func() { q.end(err) }()

	if _, err = requireChannel(ctx, s.repo, serverID, channelID); err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, serverID, channelID)
	if err != nil {
		contextLogger(ctx, s.logger).Error().Err(err).Str("server_id", serverID).Str("channel_id", channelID).Msg("failed to list messages")
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return s.presenter.messages(messages), nil
}

func (s *channelService) ListPinnedMessages(ctx context.Context, serverID, channelID string) (result []dto.MessageResponse, err error) {
	ctx, q := startQuery(ctx, "channel.list_pinned",
		attribute.String("chatshell.server_id", serverID),
		attribute.String("chatshell.channel_id", channelID),
	)
	defer func() { q.end(err) }()

	if _, err = requireChannel(ctx, s.repo, serverID, channelID); err != nil {
		return nil, err
	}
	pinned, err := s.repo.ListPinnedMessages(ctx, serverID, channelID)
	if err != nil {
		contextLogger(ctx, s.logger).Error().Err(err).Str("server_id", serverID).Str("channel_id", channelID).Msg("failed to list pinned messages")
		return nil, fmt.Errorf("list pinned messages: %w", err)
	}
	return s.presenter.messages(pinned), nil
}
