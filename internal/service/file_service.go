package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/repository"
)

// FileService serves the files page.
type FileService interface {
	ListAttachments(ctx context.Context, serverID string) ([]dto.AttachmentResponse, error)
}

type fileService struct {
	repo   repository.ChatRepository
	logger zerolog.Logger
}

// NewFileService constructs the file service.
func NewFileService(repo repository.ChatRepository, logger zerolog.Logger) FileService {
	return &fileService{
		repo:   repo,
		logger: logger.With().Str("component", "file_service").Logger(),
	}
}

func (s *fileService) ListAttachments(ctx context.Context, serverID string) (result []dto.AttachmentResponse, err error) {
	ctx, q := startQuery(ctx, "file.list_attachments", attribute.String("chatshell.server_id", serverID))
	defer func() { q.end(err) }()

	if _, err = requireServer(ctx, s.repo, serverID); err != nil {
		return nil, err
	}
	attachments, err := s.repo.ListAttachments(ctx, serverID)
	if err != nil {
		contextLogger(ctx, s.logger).Error().Err(err).Str("server_id", serverID).Msg("failed to list attachments")
		return nil, fmt.Errorf("list attachments: %w", err)
	}

	result = make([]dto.AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		result = append(result, toAttachmentResponse(attachment))
	}
	return result, nil
}
