package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/repository"
)

// MemberService serves the members page and direct-message placeholders.
type MemberService interface {
	ListMembers(ctx context.Context, serverID string) ([]dto.UserResponse, error)
	GetDirectMessage(ctx context.Context, userID string) (dto.DirectMessageResponse, error)
}

type memberService struct {
	repo   repository.ChatRepository
	logger zerolog.Logger
}

// NewMemberService constructs the member service.
func NewMemberService(repo repository.ChatRepository, logger zerolog.Logger) MemberService {
	return &memberService{
		repo:   repo,
		logger: logger.With().Str("component", "member_service").Logger(),
	}
}

// ListMembers returns every known user. Membership is not tracked per server,
// so only the server's existence is checked.
func (s *memberService) ListMembers(ctx context.Context, serverID string) (result []dto.UserResponse, err error) {
	ctx, q := startQuery(ctx, "member.list_members", attribute.String("chatshell.server_id", serverID))
	defer func() { q.end(err) }()

	if _, err = requireServer(ctx, s.repo, serverID); err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result = make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, toUserResponse(user))
	}
	return result, nil
}

func (s *memberService) GetDirectMessage(ctx context.Context, userID string) (result dto.DirectMessageResponse, err error) {
	ctx, q := startQuery(ctx, "member.get_direct_message", attribute.String("chatshell.user_id", userID))
	defer func() { q.end(err) }()

	user, found, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return dto.DirectMessageResponse{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return dto.DirectMessageResponse{}, notFound("user", userID)
	}

	return dto.DirectMessageResponse{
		User:        toUserResponse(user),
		Intro:       fmt.Sprintf("This is the beginning of your direct message history with %s.", user.Name),
		Notice:      "DM feature is UI-only. No messages stored in mock data.",
		Placeholder: "Message " + user.Name,
	}, nil
}
