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

// ThreadService serves the thread list and single-thread pages.
type ThreadService interface {
	ListThreads(ctx context.Context, serverID string) ([]dto.ThreadResponse, error)
	GetThread(ctx context.Context, serverID, threadID string) (dto.ThreadDetailResponse, error)
}

type threadService struct {
	repo      repository.ChatRepository
	logger    zerolog.Logger
	presenter presenter
}

// NewThreadService constructs the thread service.
func NewThreadService(repo repository.ChatRepository, logger zerolog.Logger) ThreadService {
	return &threadService{
		repo:      repo,
		logger:    logger.With().Str("component", "thread_service").Logger(),
		presenter: newPresenter(time.Now),
	}
}

func (s *threadService) ListThreads(ctx context.Context, serverID string) (result []dto.ThreadResponse, err error) {
	ctx, q := startQuery(ctx, "thread.list_threads", attribute.String("chatshell.server_id", serverID))
	defer func() { q.end(err) }()

	if _, err = requireServer(ctx, s.repo, serverID); err != nil {
		return nil, err
	}
	threads, err := s.repo.ListThreads(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}

	result = make([]dto.ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		result = append(result, s.presenter.thread(thread))
	}
	return result, nil
}

// GetThread resolves the thread by id alone; the server in the path only has
// to exist.
func (s *threadService) GetThread(ctx context.Context, serverID, threadID string) (result dto.ThreadDetailResponse, err error) {
	ctx, q := startQuery(ctx, "thread.get_thread",
		attribute.String("chatshell.server_id", serverID),
		attribute.String("chatshell.thread_id", threadID),
	)
	defer func() { q.end(err) }()

	if _, err = requireServer(ctx, s.repo, serverID); err != nil {
		return dto.ThreadDetailResponse{}, err
	}
	thread, found, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		return dto.ThreadDetailResponse{}, fmt.Errorf("get thread: %w", err)
	}
	if !found {
		return dto.ThreadDetailResponse{}, notFound("thread", threadID)
	}
	replies, err := s.repo.ListThreadReplies(ctx, threadID)
	if err != nil {
		return dto.ThreadDetailResponse{}, fmt.Errorf("list thread replies: %w", err)
	}

	result = dto.ThreadDetailResponse{
		Thread:  s.presenter.thread(thread),
		Replies: make([]dto.ThreadReplyResponse, 0, len(replies)),
	}
	for _, reply := range replies {
		result.Replies = append(result.Replies, s.presenter.reply(reply))
	}
	return result, nil
}
